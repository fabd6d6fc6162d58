package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type residentLoc struct {
	mandal string
	sec    string
}

var sampleResidents = []residentLoc{
	{"CHITTOOR", "CHITTOOR-01"},
	{"CHITTOOR", "CHITTOOR-02"},
	{"PUNGANUR", "TERUVEEDHI-03"},
	{"PUNGANUR", "KUPPAM-1"},
	{"KUPPAM", "KUPPAM-1"},
	{"GUDUPALLE", "GUDUPALLE-04"},
}

func matching(f Filter) []residentLoc {
	var out []residentLoc
	for _, r := range sampleResidents {
		if f.Matches(r.mandal, r.sec) {
			out = append(out, r)
		}
	}
	return out
}

func TestBuildResidentFilter_Admin(t *testing.T) {
	f, err := BuildResidentFilter(Actor{Role: RoleAdmin})
	assert.NoError(t, err)
	assert.Equal(t, sampleResidents, matching(f))
}

func TestBuildResidentFilter_PanchayatSecretary(t *testing.T) {
	f, err := BuildResidentFilter(Actor{Role: RolePanchayatSecretary, Mandal: "CHITTOOR"})
	assert.NoError(t, err)
	assert.Equal(t, []residentLoc{
		{"CHITTOOR", "CHITTOOR-01"},
		{"CHITTOOR", "CHITTOOR-02"},
	}, matching(f))
}

func TestBuildResidentFilter_PanchayatSecretaryWithoutMandal(t *testing.T) {
	f, err := BuildResidentFilter(Actor{Role: RolePanchayatSecretary})
	assert.ErrorIs(t, err, ErrNoMandalAssigned)
	assert.True(t, f.IsMatchNone())
	assert.Empty(t, matching(f))
}

func TestBuildResidentFilter_FieldOfficer(t *testing.T) {
	f, err := BuildResidentFilter(Actor{
		Role:        RoleFieldOfficer,
		Assignments: []Assignment{{MandalName: "PUNGANUR", SecName: "TERUVEEDHI-03"}},
	})
	assert.NoError(t, err)
	// Same mandal, different secretariat must stay excluded.
	assert.Equal(t, []residentLoc{{"PUNGANUR", "TERUVEEDHI-03"}}, matching(f))
}

func TestBuildResidentFilter_FieldOfficerWithoutAssignments(t *testing.T) {
	f, err := BuildResidentFilter(Actor{Role: RoleFieldOfficer})
	assert.ErrorIs(t, err, ErrNoAssignments)
	assert.True(t, f.IsMatchNone())
}

func TestBuildResidentFilter_UnknownRoleFailsClosed(t *testing.T) {
	f, err := BuildResidentFilter(Actor{Role: Role("SUPERVISOR")})
	assert.NoError(t, err)
	assert.True(t, f.IsMatchNone())
	assert.Empty(t, matching(f))
}

// Export with no mandal selected must yield exactly the union of the
// officer's assignment pairs across mandals.
func TestFieldOfficerFilterIsUnionOfPairs(t *testing.T) {
	f, err := BuildResidentFilter(Actor{
		Role: RoleFieldOfficer,
		Assignments: []Assignment{
			{MandalName: "PUNGANUR", SecName: "TERUVEEDHI-03"},
			{MandalName: "KUPPAM", SecName: "KUPPAM-1"},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, []residentLoc{
		{"PUNGANUR", "TERUVEEDHI-03"},
		{"KUPPAM", "KUPPAM-1"},
	}, matching(f))
}

// CanAccessResident and the built filter are independent implementations
// of the same decision; they must agree for every actor and resident.
func TestFilterAgreesWithCanAccessResident(t *testing.T) {
	actors := []Actor{
		{Role: RoleAdmin},
		{Role: RolePanchayatSecretary, Mandal: "CHITTOOR"},
		{Role: RolePanchayatSecretary},
		{Role: RoleFieldOfficer, Assignments: []Assignment{
			{MandalName: "PUNGANUR", SecName: "TERUVEEDHI-03"},
			{MandalName: "KUPPAM", SecName: "KUPPAM-1"},
		}},
		{Role: RoleFieldOfficer},
		{Role: Role("SUPERVISOR")},
	}

	for _, actor := range actors {
		f, _ := BuildResidentFilter(actor)
		for _, r := range sampleResidents {
			assert.Equal(t, CanAccessResident(actor, r.mandal, r.sec), f.Matches(r.mandal, r.sec),
				"actor role %s, resident %s/%s", actor.Role, r.mandal, r.sec)
		}
	}
}

func TestNarrowMandals(t *testing.T) {
	officer := Actor{
		Role: RoleFieldOfficer,
		Assignments: []Assignment{
			{MandalName: "PUNGANUR", SecName: "TERUVEEDHI-03"},
			{MandalName: "KUPPAM", SecName: "KUPPAM-1"},
		},
	}
	f, err := BuildResidentFilter(officer)
	assert.NoError(t, err)

	// Narrowing to one assigned mandal drops the other pair.
	narrowed := f.NarrowMandals([]string{"KUPPAM"})
	assert.Equal(t, []residentLoc{{"KUPPAM", "KUPPAM-1"}}, matching(narrowed))

	// A selection entirely outside the access set matches nothing instead
	// of falling back to the unnarrowed filter.
	outside := f.NarrowMandals([]string{"CHITTOOR"})
	assert.True(t, outside.IsMatchNone())

	// Empty selection leaves the filter untouched.
	assert.Equal(t, matching(f), matching(f.NarrowMandals(nil)))

	// Narrowing never widens: an admin narrowed to a mandal sees only it.
	admin, _ := BuildResidentFilter(Actor{Role: RoleAdmin})
	assert.Equal(t, []residentLoc{{"GUDUPALLE", "GUDUPALLE-04"}},
		matching(admin.NarrowMandals([]string{"GUDUPALLE"})))
}

func TestNarrowSecretariats(t *testing.T) {
	ps, _ := BuildResidentFilter(Actor{Role: RolePanchayatSecretary, Mandal: "CHITTOOR"})
	narrowed := ps.NarrowSecretariats([]string{"CHITTOOR-02"})
	assert.Equal(t, []residentLoc{{"CHITTOOR", "CHITTOOR-02"}}, matching(narrowed))

	officer, _ := BuildResidentFilter(Actor{
		Role: RoleFieldOfficer,
		Assignments: []Assignment{
			{MandalName: "PUNGANUR", SecName: "TERUVEEDHI-03"},
			{MandalName: "KUPPAM", SecName: "KUPPAM-1"},
		},
	})
	assert.Equal(t, []residentLoc{{"PUNGANUR", "TERUVEEDHI-03"}},
		matching(officer.NarrowSecretariats([]string{"TERUVEEDHI-03"})))
	assert.True(t, officer.NarrowSecretariats([]string{"CHITTOOR-01"}).IsMatchNone())
}

func TestZeroFilterMatchesNothing(t *testing.T) {
	var f Filter
	assert.True(t, f.IsMatchNone())
	assert.Empty(t, matching(f))
}
