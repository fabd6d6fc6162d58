package export

import (
	"strconv"
	"strings"

	"healthreg/internal/model"
)

// Header is the column order of resident exports, shared by the CSV and
// XLSX writers so the two formats never drift apart.
var Header = []string{
	"Resident ID",
	"Name",
	"UID",
	"Date of Birth",
	"Gender",
	"Mobile Number",
	"Health ID",
	"District",
	"Mandal",
	"Mandal Code",
	"Secretariat",
	"Secretariat Code",
	"Rural/Urban",
	"PHC",
	"Cluster",
	"Door No",
	"Address",
	"Household ID",
	"Last Updated",
}

const dateLayout = "2006-01-02"

// MaskUID hides all but the last four digits of an Aadhaar number.
func MaskUID(uid string) string {
	if len(uid) <= 4 {
		return uid
	}
	return strings.Repeat("X", len(uid)-4) + uid[len(uid)-4:]
}

// Rows converts residents into export cells in Header order, masking the
// UID on the way out. Exports never carry the raw identity number.
func Rows(residents []model.Resident) [][]string {
	rows := make([][]string, 0, len(residents))
	for _, r := range residents {
		dob := ""
		if r.DateOfBirth != nil {
			dob = r.DateOfBirth.Format(dateLayout)
		}
		rows = append(rows, []string{
			r.ID.String(),
			r.Name,
			MaskUID(r.UID),
			dob,
			r.Gender,
			r.MobileNumber,
			r.HealthID,
			r.DistrictName,
			r.MandalName,
			itoa(r.MandalCode),
			r.SecName,
			itoa(r.SecCode),
			r.RuralUrban,
			r.PHCName,
			r.ClusterName,
			r.DoorNo,
			r.Address,
			r.HouseholdID,
			r.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rows
}

func itoa(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
