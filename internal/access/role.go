package access

// Role identifies one of the three operator tiers.
type Role string

const (
	// RoleAdmin has district-wide visibility and manages every account.
	RoleAdmin Role = "ADMIN"
	// RolePanchayatSecretary (mandal officer) oversees one mandal.
	RolePanchayatSecretary Role = "PANCHAYAT_SECRETARY"
	// RoleFieldOfficer edits resident data for its assigned secretariats.
	RoleFieldOfficer Role = "FIELD_OFFICER"
)

// Rank returns the role's position in the hierarchy. Unknown roles rank
// below every real role.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RolePanchayatSecretary:
		return 2
	case RoleFieldOfficer:
		return 1
	default:
		return 0
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// manageableRoles is a per-role whitelist. Management rights are not
// derived from Rank comparisons: a panchayat secretary may manage field
// officers but not peers, even though peers share its rank.
var manageableRoles = map[Role][]Role{
	RoleAdmin:              {RoleAdmin, RolePanchayatSecretary, RoleFieldOfficer},
	RolePanchayatSecretary: {RoleFieldOfficer},
	RoleFieldOfficer:       {},
}

// CanManageRole reports whether an actor holding the actor role may
// create, edit or deactivate accounts holding the target role.
func CanManageRole(actor, target Role) bool {
	for _, t := range manageableRoles[actor] {
		if t == target {
			return true
		}
	}
	return false
}
