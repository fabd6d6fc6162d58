package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"healthreg/internal/model"
)

// PHCMasterRepository defines operations on the PHC master list.
type PHCMasterRepository interface {
	Upsert(ctx context.Context, rows []model.PHCMaster) error
	ListAll(ctx context.Context) ([]model.PHCMaster, error)
	FindBySecretariat(ctx context.Context, mandalName, secName string) (*model.PHCMaster, error)
}

type phcMasterRepository struct {
	db *gorm.DB
}

// NewPHCMasterRepository creates a new PHC master repository.
func NewPHCMasterRepository(db *gorm.DB) PHCMasterRepository {
	return &phcMasterRepository{db: db}
}

// Upsert inserts master rows, replacing existing rows with the same
// secretariat code.
func (r *phcMasterRepository) Upsert(ctx context.Context, rows []model.PHCMaster) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sec_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"mandal_name", "mandal_code", "sec_name", "phc_name", "rural_urban"}),
	}).CreateInBatches(rows, 200).Error
}

// ListAll returns the full master list.
func (r *phcMasterRepository) ListAll(ctx context.Context) ([]model.PHCMaster, error) {
	var rows []model.PHCMaster
	if err := r.db.WithContext(ctx).Order("mandal_name, sec_name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindBySecretariat returns the canonical master row for one secretariat.
func (r *phcMasterRepository) FindBySecretariat(ctx context.Context, mandalName, secName string) (*model.PHCMaster, error) {
	var row model.PHCMaster
	err := r.db.WithContext(ctx).
		Where("mandal_name = ? AND sec_name = ?", mandalName, secName).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
