package access

import "strings"

// Decision is the outcome of a pre-query permission check. All decision
// functions in this package return values; none panic or throw.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a positive decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny returns a negative decision with a caller-visible reason.
func Deny(reason string) Decision { return Decision{Reason: reason} }

// ValidateSearch checks caller-proposed search filters before any query
// runs. mandalName and secName may be empty when the caller did not
// narrow by them; a field officer searching with no geography selected is
// allowed and later restricted by the query filter.
func ValidateSearch(a Actor, mandalName, secName string) Decision {
	mandalName = strings.TrimSpace(mandalName)
	secName = strings.TrimSpace(secName)

	switch a.Role {
	case RoleAdmin:
		return Allow()
	case RolePanchayatSecretary:
		if strings.TrimSpace(a.Mandal) == "" {
			return Deny("no mandal assigned to this account")
		}
		if mandalName != "" && mandalName != a.Mandal {
			return Deny("requested mandal is outside your jurisdiction")
		}
		return Allow()
	case RoleFieldOfficer:
		if len(a.Assignments) == 0 {
			return Deny("no secretariats assigned to this account")
		}
		if mandalName == "" && secName == "" {
			return Allow()
		}
		for _, as := range a.Assignments {
			if (mandalName == "" || as.MandalName == mandalName) &&
				(secName == "" || as.SecName == secName) {
				return Allow()
			}
		}
		return Deny("requested secretariat is outside your assignments")
	default:
		return Deny("unrecognized role")
	}
}
