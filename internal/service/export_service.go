package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"healthreg/internal/access"
	"healthreg/internal/export"
	"healthreg/internal/repository"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ExportParams is the filter surface of the export endpoint; it mirrors
// the list endpoint plus the officers selection.
type ExportParams struct {
	Mandals      []string
	Secretariats []string
	Filters      repository.ResidentFilters
	Format       string
}

// ExportFile is a generated attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService produces role-scoped resident extracts.
type ExportService interface {
	Residents(ctx context.Context, actor access.Actor, params ExportParams) (*ExportFile, error)
}

type exportService struct {
	residentRepo repository.ResidentRepository
	rowLimit     int
}

// NewExportService creates a new export service. rowLimit bounds a single
// extract; zero means unbounded.
func NewExportService(residentRepo repository.ResidentRepository, rowLimit int) ExportService {
	return &exportService{residentRepo: residentRepo, rowLimit: rowLimit}
}

// Residents builds a CSV or XLSX extract of every resident visible under
// the combined access and request filters. A field officer exporting with
// no mandal selected receives exactly the union of its assignment pairs.
func (s *exportService) Residents(ctx context.Context, actor access.Actor, params ExportParams) (*ExportFile, error) {
	scope, err := scopedFilter(actor, params.Mandals, params.Secretariats)
	if err != nil {
		return nil, err
	}

	rows, err := s.residentRepo.ListAll(ctx, scope, params.Filters, s.rowLimit)
	if err != nil {
		return nil, err
	}

	stamp := time.Now().Format("20060102_150405")
	switch params.Format {
	case FormatXLSX:
		content, err := export.WriteXLSX(rows)
		if err != nil {
			return nil, fmt.Errorf("build xlsx: %w", err)
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("residents_%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}, nil
	default:
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, rows); err != nil {
			return nil, fmt.Errorf("build csv: %w", err)
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("residents_%s.csv", stamp),
			ContentType: "text/csv",
			Content:     buf.Bytes(),
		}, nil
	}
}
