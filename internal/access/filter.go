package access

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNoMandalAssigned is returned when a panchayat secretary account
	// has no mandal. This is an account-configuration fault, not a denial.
	ErrNoMandalAssigned = errors.New("panchayat secretary has no mandal assigned")
	// ErrNoAssignments is returned when a field officer account has no
	// secretariat assignments.
	ErrNoAssignments = errors.New("field officer has no secretariat assignments")
)

// Actor is the authenticated caller as seen by access decisions. It is
// assembled once at the HTTP edge from the token claims and the user row;
// raw session state and unparsed assignment blobs never reach this
// package.
type Actor struct {
	UserID      uint
	Role        Role
	Mandal      string
	Assignments []Assignment
}

type scope int

const (
	scopeNone scope = iota
	scopeAll
	scopeMandals
	scopePairs
)

// Filter is a declarative restriction on resident rows. The zero value
// matches nothing, so a filter that was never built cannot leak data.
type Filter struct {
	scope   scope
	mandals []string
	secs    []string
	pairs   []Assignment
}

// Unrestricted returns a filter that matches every resident.
func Unrestricted() Filter { return Filter{scope: scopeAll} }

// MatchNone returns the fail-closed filter.
func MatchNone() Filter { return Filter{scope: scopeNone} }

// BuildResidentFilter derives the resident visibility filter for an
// actor. Misconfigured accounts yield the match-nothing filter together
// with the configuration error; unknown roles yield match-nothing with no
// error.
func BuildResidentFilter(a Actor) (Filter, error) {
	switch a.Role {
	case RoleAdmin:
		return Unrestricted(), nil
	case RolePanchayatSecretary:
		mandal := strings.TrimSpace(a.Mandal)
		if mandal == "" {
			return MatchNone(), ErrNoMandalAssigned
		}
		return Filter{scope: scopeMandals, mandals: []string{mandal}}, nil
	case RoleFieldOfficer:
		if len(a.Assignments) == 0 {
			return MatchNone(), ErrNoAssignments
		}
		pairs := make([]Assignment, len(a.Assignments))
		copy(pairs, a.Assignments)
		return Filter{scope: scopePairs, pairs: pairs}, nil
	default:
		return MatchNone(), nil
	}
}

// Matches reports whether a resident located in the given mandal and
// secretariat falls inside the filter. It must agree with Apply for every
// filter this package can produce; the two are used as independent checks
// on the same decision.
func (f Filter) Matches(mandalName, secName string) bool {
	switch f.scope {
	case scopeAll:
		return f.secsMatch(secName)
	case scopeMandals:
		return containsString(f.mandals, mandalName) && f.secsMatch(secName)
	case scopePairs:
		for _, p := range f.pairs {
			if p.MandalName == mandalName && p.SecName == secName {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (f Filter) secsMatch(secName string) bool {
	return len(f.secs) == 0 || containsString(f.secs, secName)
}

// Apply merges the filter into a resident query. The match-nothing filter
// compiles to a contradiction so a mis-built filter can never widen a
// query.
func (f Filter) Apply(db *gorm.DB) *gorm.DB {
	switch f.scope {
	case scopeAll:
		return f.applySecs(db)
	case scopeMandals:
		if len(f.mandals) == 1 {
			db = db.Where("mandal_name = ?", f.mandals[0])
		} else {
			db = db.Where("mandal_name IN ?", f.mandals)
		}
		return f.applySecs(db)
	case scopePairs:
		fresh := db.Session(&gorm.Session{NewDB: true})
		cond := fresh.Where("mandal_name = ? AND sec_name = ?", f.pairs[0].MandalName, f.pairs[0].SecName)
		for _, p := range f.pairs[1:] {
			cond = cond.Or(fresh.Where("mandal_name = ? AND sec_name = ?", p.MandalName, p.SecName))
		}
		return db.Where(cond)
	default:
		return db.Where("1 = 0")
	}
}

func (f Filter) applySecs(db *gorm.DB) *gorm.DB {
	if len(f.secs) == 0 {
		return db
	}
	if len(f.secs) == 1 {
		return db.Where("sec_name = ?", f.secs[0])
	}
	return db.Where("sec_name IN ?", f.secs)
}

// NarrowMandals intersects the filter with a caller-selected set of
// mandal names. Narrowing can only shrink the visible set: selecting
// mandals outside the filter yields the match-nothing filter rather than
// silently keeping the wider scope.
func (f Filter) NarrowMandals(mandals []string) Filter {
	requested := cleanStrings(mandals)
	if len(requested) == 0 {
		return f
	}
	switch f.scope {
	case scopeAll:
		return Filter{scope: scopeMandals, mandals: requested, secs: f.secs}
	case scopeMandals:
		kept := intersectStrings(f.mandals, requested)
		if len(kept) == 0 {
			return MatchNone()
		}
		return Filter{scope: scopeMandals, mandals: kept, secs: f.secs}
	case scopePairs:
		var kept []Assignment
		for _, p := range f.pairs {
			if containsString(requested, p.MandalName) {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			return MatchNone()
		}
		return Filter{scope: scopePairs, pairs: kept}
	default:
		return MatchNone()
	}
}

// NarrowSecretariats intersects the filter with a caller-selected set of
// secretariat names, with the same shrink-only guarantee.
func (f Filter) NarrowSecretariats(secs []string) Filter {
	requested := cleanStrings(secs)
	if len(requested) == 0 {
		return f
	}
	switch f.scope {
	case scopeAll, scopeMandals:
		kept := requested
		if len(f.secs) > 0 {
			kept = intersectStrings(f.secs, requested)
			if len(kept) == 0 {
				return MatchNone()
			}
		}
		return Filter{scope: f.scope, mandals: f.mandals, secs: kept}
	case scopePairs:
		var kept []Assignment
		for _, p := range f.pairs {
			if containsString(requested, p.SecName) {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			return MatchNone()
		}
		return Filter{scope: scopePairs, pairs: kept}
	default:
		return MatchNone()
	}
}

// IsMatchNone reports whether the filter can never match a resident,
// letting callers skip the query entirely.
func (f Filter) IsMatchNone() bool {
	return f.scope == scopeNone
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func cleanStrings(list []string) []string {
	var out []string
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func intersectStrings(a, b []string) []string {
	var out []string
	for _, v := range a {
		if containsString(b, v) {
			out = append(out, v)
		}
	}
	return out
}
