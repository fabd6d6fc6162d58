package access

import (
	"encoding/json"
	"strings"
)

// Assignment binds a field officer to one secretariat within a mandal.
type Assignment struct {
	MandalName string `json:"mandalName"`
	SecName    string `json:"secName"`
}

// legacySeparator is the delimiter of the pre-migration string form
// "MANDAL -> SECRETARIAT" still present on older accounts.
const legacySeparator = "->"

// ParseAssignments decodes a persisted assigned-secretariats blob into a
// normalized list. Two shapes are accepted: the current JSON object form
// [{"mandalName":...,"secName":...}] and the legacy string form
// ["MANDAL -> SECRETARIAT"]. Empty input, malformed JSON and entries
// missing either field all degrade to an empty result; this function
// never fails.
func ParseAssignments(raw string) []Assignment {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}

	var out []Assignment
	for _, entry := range entries {
		var a Assignment
		if err := json.Unmarshal(entry, &a); err == nil {
			a.MandalName = strings.TrimSpace(a.MandalName)
			a.SecName = strings.TrimSpace(a.SecName)
			if a.MandalName != "" && a.SecName != "" {
				out = append(out, a)
			}
			continue
		}

		var s string
		if err := json.Unmarshal(entry, &s); err != nil {
			continue
		}
		if a, ok := ParseLegacyAssignment(s); ok {
			out = append(out, a)
		}
	}
	return out
}

// ParseLegacyAssignment splits a "MANDAL -> SECRETARIAT" string into an
// Assignment. It is exported for the migration script that rewrites
// legacy blobs into the object form.
func ParseLegacyAssignment(s string) (Assignment, bool) {
	parts := strings.SplitN(s, legacySeparator, 2)
	if len(parts) != 2 {
		return Assignment{}, false
	}
	a := Assignment{
		MandalName: strings.TrimSpace(parts[0]),
		SecName:    strings.TrimSpace(parts[1]),
	}
	if a.MandalName == "" || a.SecName == "" {
		return Assignment{}, false
	}
	return a, true
}

// EncodeAssignments marshals assignments into the canonical JSON object
// form used for storage. An empty list encodes as "[]" so downstream
// parsers never see raw NULLs.
func EncodeAssignments(assignments []Assignment) string {
	if len(assignments) == 0 {
		return "[]"
	}
	b, err := json.Marshal(assignments)
	if err != nil {
		return "[]"
	}
	return string(b)
}
