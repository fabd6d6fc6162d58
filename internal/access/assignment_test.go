package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []Assignment
	}{
		{
			name:     "empty string",
			raw:      "",
			expected: nil,
		},
		{
			name:     "null literal",
			raw:      "null",
			expected: nil,
		},
		{
			name:     "malformed JSON",
			raw:      "not json",
			expected: nil,
		},
		{
			name: "object entries",
			raw:  `[{"mandalName":"PUNGANUR","secName":"TERUVEEDHI-03"},{"mandalName":"KUPPAM","secName":"KUPPAM-1"}]`,
			expected: []Assignment{
				{MandalName: "PUNGANUR", SecName: "TERUVEEDHI-03"},
				{MandalName: "KUPPAM", SecName: "KUPPAM-1"},
			},
		},
		{
			name: "legacy string entries",
			raw:  `["PUNGANUR -> TERUVEEDHI-03"]`,
			expected: []Assignment{
				{MandalName: "PUNGANUR", SecName: "TERUVEEDHI-03"},
			},
		},
		{
			name: "mixed object and legacy entries",
			raw:  `[{"mandalName":"KUPPAM","secName":"KUPPAM-1"},"PUNGANUR -> TERUVEEDHI-03"]`,
			expected: []Assignment{
				{MandalName: "KUPPAM", SecName: "KUPPAM-1"},
				{MandalName: "PUNGANUR", SecName: "TERUVEEDHI-03"},
			},
		},
		{
			name:     "object missing secName is dropped",
			raw:      `[{"mandalName":"PUNGANUR"}]`,
			expected: nil,
		},
		{
			name:     "blank fields are dropped",
			raw:      `[{"mandalName":"  ","secName":"TERUVEEDHI-03"}]`,
			expected: nil,
		},
		{
			name:     "legacy string without separator is dropped",
			raw:      `["PUNGANUR TERUVEEDHI-03"]`,
			expected: nil,
		},
		{
			name:     "non-string non-object entries are dropped",
			raw:      `[42, true]`,
			expected: nil,
		},
		{
			name: "surrounding whitespace is trimmed",
			raw:  `[{"mandalName":" PUNGANUR ","secName":" TERUVEEDHI-03 "}]`,
			expected: []Assignment{
				{MandalName: "PUNGANUR", SecName: "TERUVEEDHI-03"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAssignments(tt.raw))
		})
	}
}

func TestEncodeAssignmentsRoundTrip(t *testing.T) {
	in := []Assignment{
		{MandalName: "PUNGANUR", SecName: "TERUVEEDHI-03"},
		{MandalName: "KUPPAM", SecName: "KUPPAM-1"},
	}
	assert.Equal(t, in, ParseAssignments(EncodeAssignments(in)))
	assert.Equal(t, "[]", EncodeAssignments(nil))
	assert.Nil(t, ParseAssignments(EncodeAssignments(nil)))
}

func TestParseLegacyAssignment(t *testing.T) {
	a, ok := ParseLegacyAssignment("PUNGANUR -> TERUVEEDHI-03")
	assert.True(t, ok)
	assert.Equal(t, Assignment{MandalName: "PUNGANUR", SecName: "TERUVEEDHI-03"}, a)

	_, ok = ParseLegacyAssignment("PUNGANUR")
	assert.False(t, ok)

	_, ok = ParseLegacyAssignment(" -> TERUVEEDHI-03")
	assert.False(t, ok)
}
