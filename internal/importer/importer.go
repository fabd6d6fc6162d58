// Package importer parses bulk resident uploads (CSV and XLSX) into
// model rows, reporting per-line validation failures instead of aborting
// the whole file.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"healthreg/internal/model"
)

var (
	mobileRe   = regexp.MustCompile(`^[6-9]\d{9}$`)
	healthIDRe = regexp.MustCompile(`^\d{14}$|^\d{2}-\d{4}-\d{4}-\d{4}$`)
)

// RowError describes one rejected input line.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Result is the outcome of parsing one upload.
type Result struct {
	Residents []model.Resident
	Errors    []RowError
}

// ParseCSV reads an upload in CSV form.
func ParseCSV(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return parseRecords(records)
}

// ParseXLSX reads an upload in spreadsheet form. Only the first sheet is
// considered.
func ParseXLSX(data []byte) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return parseRecords(rows)
}

func parseRecords(records [][]string) (*Result, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	index, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for i, record := range records[1:] {
		line := i + 2 // header is line 1
		resident, rowErr := parseRow(record, index)
		if rowErr != "" {
			result.Errors = append(result.Errors, RowError{Line: line, Message: rowErr})
			continue
		}
		result.Residents = append(result.Residents, resident)
	}
	return result, nil
}

// headerIndex maps expected column names to positions, tolerating
// reordered columns and varying case/spacing.
func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.ReplaceAll(key, " ", "_")
		index[key] = i
	}
	for _, required := range []string{"name", "mandal_name", "sec_name"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return index, nil
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseRow(record []string, index map[string]int) (model.Resident, string) {
	r := model.Resident{
		Name:         field(record, index, "name"),
		UID:          field(record, index, "uid"),
		Gender:       field(record, index, "gender"),
		MobileNumber: field(record, index, "mobile_number"),
		HealthID:     field(record, index, "health_id"),
		DistrictName: field(record, index, "district_name"),
		MandalName:   field(record, index, "mandal_name"),
		SecName:      field(record, index, "sec_name"),
		RuralUrban:   field(record, index, "rural_urban"),
		PHCName:      field(record, index, "phc_name"),
		ClusterName:  field(record, index, "cluster_name"),
		DoorNo:       field(record, index, "door_no"),
		Address:      field(record, index, "address"),
		HouseholdID:  field(record, index, "household_id"),
	}

	if r.Name == "" {
		return r, "name is required"
	}
	if r.MandalName == "" || r.SecName == "" {
		return r, "mandal and secretariat are required"
	}
	if r.MobileNumber != "" && !mobileRe.MatchString(r.MobileNumber) {
		return r, fmt.Sprintf("invalid mobile number %q", r.MobileNumber)
	}
	if r.HealthID != "" && !healthIDRe.MatchString(r.HealthID) {
		return r, fmt.Sprintf("invalid health ID %q", r.HealthID)
	}

	if raw := field(record, index, "date_of_birth"); raw != "" {
		dob, err := parseDate(raw)
		if err != nil {
			return r, fmt.Sprintf("invalid date of birth %q", raw)
		}
		r.DateOfBirth = &dob
	}
	if raw := field(record, index, "mandal_code"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil {
			return r, fmt.Sprintf("invalid mandal code %q", raw)
		}
		r.MandalCode = code
	}
	if raw := field(record, index, "sec_code"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil {
			return r, fmt.Sprintf("invalid secretariat code %q", raw)
		}
		r.SecCode = code
	}
	return r, ""
}

// parseDate accepts the formats seen across historical extracts.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02-01-2006", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
