package access

// CanAccessResident answers whether the actor may view or edit a resident
// located in the given mandal and secretariat. It deliberately re-derives
// the decision from the actor instead of reusing BuildResidentFilter so
// the two paths stay independent: routes that fetch a resident directly
// (ID search, household lookup) run this as a second check after the
// query-level filter.
func CanAccessResident(a Actor, mandalName, secName string) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RolePanchayatSecretary:
		return a.Mandal != "" && a.Mandal == mandalName
	case RoleFieldOfficer:
		for _, as := range a.Assignments {
			if as.MandalName == mandalName && as.SecName == secName {
				return true
			}
		}
		return false
	default:
		return false
	}
}
