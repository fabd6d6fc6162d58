package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleRank(t *testing.T) {
	assert.Equal(t, 3, RoleAdmin.Rank())
	assert.Equal(t, 2, RolePanchayatSecretary.Rank())
	assert.Equal(t, 1, RoleFieldOfficer.Rank())
	assert.Equal(t, 0, Role("SUPERVISOR").Rank())
	assert.False(t, Role("").Valid())
}

func TestCanManageRole(t *testing.T) {
	tests := []struct {
		actor    Role
		target   Role
		expected bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RolePanchayatSecretary, true},
		{RoleAdmin, RoleFieldOfficer, true},
		{RolePanchayatSecretary, RoleFieldOfficer, true},
		// Whitelist, not rank comparison: a secretary cannot manage peers.
		{RolePanchayatSecretary, RolePanchayatSecretary, false},
		{RolePanchayatSecretary, RoleAdmin, false},
		{RoleFieldOfficer, RoleFieldOfficer, false},
		{RoleFieldOfficer, RoleAdmin, false},
		{Role("SUPERVISOR"), RoleFieldOfficer, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CanManageRole(tt.actor, tt.target),
			"%s managing %s", tt.actor, tt.target)
	}
}

func TestValidateSearch(t *testing.T) {
	officer := Actor{
		Role: RoleFieldOfficer,
		Assignments: []Assignment{
			{MandalName: "PUNGANUR", SecName: "TERUVEEDHI-03"},
		},
	}

	tests := []struct {
		name    string
		actor   Actor
		mandal  string
		sec     string
		allowed bool
	}{
		{"admin unrestricted", Actor{Role: RoleAdmin}, "ANY", "ANY", true},
		{"secretary own mandal", Actor{Role: RolePanchayatSecretary, Mandal: "CHITTOOR"}, "CHITTOOR", "", true},
		{"secretary foreign mandal", Actor{Role: RolePanchayatSecretary, Mandal: "CHITTOOR"}, "PUNGANUR", "", false},
		{"secretary without mandal", Actor{Role: RolePanchayatSecretary}, "", "", false},
		{"officer no geography selected", officer, "", "", true},
		{"officer assigned pair", officer, "PUNGANUR", "TERUVEEDHI-03", true},
		{"officer assigned mandal only", officer, "PUNGANUR", "", true},
		{"officer foreign secretariat", officer, "PUNGANUR", "KUPPAM-1", false},
		{"officer without assignments", Actor{Role: RoleFieldOfficer}, "", "", false},
		{"unknown role", Actor{Role: Role("SUPERVISOR")}, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ValidateSearch(tt.actor, tt.mandal, tt.sec)
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}
