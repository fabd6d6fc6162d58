package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"healthreg/internal/access"
	apperrors "healthreg/internal/errors"
	"healthreg/internal/importer"
	"healthreg/internal/repository"
)

const importBatchSize = 500

// ImportReport summarizes one bulk upload.
type ImportReport struct {
	Inserted int                 `json:"inserted"`
	Rejected int                 `json:"rejected"`
	Errors   []importer.RowError `json:"errors,omitempty"`
}

// ImportService handles bulk resident uploads.
type ImportService interface {
	Residents(ctx context.Context, actor access.Actor, filename string, file io.Reader, district string) (*ImportReport, error)
}

type importService struct {
	residentRepo repository.ResidentRepository
}

// NewImportService creates a new import service.
func NewImportService(residentRepo repository.ResidentRepository) ImportService {
	return &importService{residentRepo: residentRepo}
}

// Residents parses and inserts an uploaded file. Admin only: bulk loads
// bypass the per-record audit trail, so they stay a district-level
// operation. Valid rows are inserted even when some rows fail; the report
// carries every rejection.
func (s *importService) Residents(ctx context.Context, actor access.Actor, filename string, file io.Reader, district string) (*ImportReport, error) {
	if actor.Role != access.RoleAdmin {
		return nil, apperrors.ErrAccessDenied
	}

	var result *importer.Result
	var err error
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			return nil, fmt.Errorf("read upload: %w", readErr)
		}
		result, err = importer.ParseXLSX(data)
	} else {
		result, err = importer.ParseCSV(file)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidUpload, err)
	}

	for i := range result.Residents {
		if result.Residents[i].DistrictName == "" {
			result.Residents[i].DistrictName = district
		}
	}

	if err := s.residentRepo.CreateBatch(ctx, result.Residents, importBatchSize); err != nil {
		return nil, fmt.Errorf("insert residents: %w", err)
	}

	return &ImportReport{
		Inserted: len(result.Residents),
		Rejected: len(result.Errors),
		Errors:   result.Errors,
	}, nil
}
