package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthreg/internal/model"
)

// OfficerActivity is the per-officer mutation count over a date range.
type OfficerActivity struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	MobileEdits  int64  `json:"mobile_edits"`
	HealthIDEdit int64  `json:"health_id_edits" gorm:"column:health_id_edits"`
	TotalEdits   int64  `json:"total_edits"`
}

// UpdateLogRepository defines audit-log persistence operations.
type UpdateLogRepository interface {
	Create(ctx context.Context, log *model.UpdateLog) error
	CreateBatch(ctx context.Context, logs []model.UpdateLog) error
	ListByResident(ctx context.Context, residentID uuid.UUID) ([]model.UpdateLog, error)
	CountByOfficer(ctx context.Context, officerIDs []uint, start, end *time.Time) ([]OfficerActivity, error)
	FindIDsByResidentIDs(ctx context.Context, residentIDs []uuid.UUID) ([]uuid.UUID, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	DeleteByResidentIDs(ctx context.Context, residentIDs []uuid.UUID) (int64, error)
}

type updateLogRepository struct {
	db *gorm.DB
}

// NewUpdateLogRepository creates a new update log repository.
func NewUpdateLogRepository(db *gorm.DB) UpdateLogRepository {
	return &updateLogRepository{db: db}
}

// Create creates a new update log entry.
func (r *updateLogRepository) Create(ctx context.Context, log *model.UpdateLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// CreateBatch creates multiple update log entries in chunks.
func (r *updateLogRepository) CreateBatch(ctx context.Context, logs []model.UpdateLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(logs, 100).Error
}

// ListByResident returns the change history of one resident, newest first.
func (r *updateLogRepository) ListByResident(ctx context.Context, residentID uuid.UUID) ([]model.UpdateLog, error) {
	var logs []model.UpdateLog
	err := r.db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// CountByOfficer aggregates accepted edits per officer. officerIDs may be
// empty to cover all officers; start/end bound created_at when set.
func (r *updateLogRepository) CountByOfficer(ctx context.Context, officerIDs []uint, start, end *time.Time) ([]OfficerActivity, error) {
	q := r.db.WithContext(ctx).Model(&model.UpdateLog{}).
		Select("update_logs.user_id AS user_id, users.username AS username, users.name AS name, "+
			"SUM(CASE WHEN update_logs.field_name = ? THEN 1 ELSE 0 END) AS mobile_edits, "+
			"SUM(CASE WHEN update_logs.field_name = ? THEN 1 ELSE 0 END) AS health_id_edits, "+
			"COUNT(*) AS total_edits",
			model.FieldMobileNumber, model.FieldHealthID).
		Joins("JOIN users ON users.id = update_logs.user_id").
		Group("update_logs.user_id, users.username, users.name").
		Order("total_edits DESC")

	if len(officerIDs) > 0 {
		q = q.Where("update_logs.user_id IN ?", officerIDs)
	}
	if start != nil {
		q = q.Where("update_logs.created_at >= ?", *start)
	}
	if end != nil {
		q = q.Where("update_logs.created_at <= ?", *end)
	}

	var activity []OfficerActivity
	if err := q.Scan(&activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

// FindIDsByResidentIDs returns the log IDs attached to the given residents.
func (r *updateLogRepository) FindIDsByResidentIDs(ctx context.Context, residentIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for start := 0; start < len(residentIDs); start += deleteChunkSize {
		end := start + deleteChunkSize
		if end > len(residentIDs) {
			end = len(residentIDs)
		}
		var chunk []uuid.UUID
		err := r.db.WithContext(ctx).Model(&model.UpdateLog{}).
			Where("resident_id IN ?", residentIDs[start:end]).
			Pluck("id", &chunk).Error
		if err != nil {
			return nil, err
		}
		ids = append(ids, chunk...)
	}
	return ids, nil
}

// DeleteByIDs removes log rows in chunks and returns the count removed.
func (r *updateLogRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var deleted int64
	for start := 0; start < len(ids); start += deleteChunkSize {
		end := start + deleteChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		res := r.db.WithContext(ctx).
			Where("id IN ?", ids[start:end]).
			Delete(&model.UpdateLog{})
		if res.Error != nil {
			return deleted, res.Error
		}
		deleted += res.RowsAffected
	}
	return deleted, nil
}

// DeleteByResidentIDs removes all logs for the given residents in chunks.
// Run before the residents themselves to respect foreign-key ordering.
func (r *updateLogRepository) DeleteByResidentIDs(ctx context.Context, residentIDs []uuid.UUID) (int64, error) {
	var deleted int64
	for start := 0; start < len(residentIDs); start += deleteChunkSize {
		end := start + deleteChunkSize
		if end > len(residentIDs) {
			end = len(residentIDs)
		}
		res := r.db.WithContext(ctx).
			Where("resident_id IN ?", residentIDs[start:end]).
			Delete(&model.UpdateLog{})
		if res.Error != nil {
			return deleted, res.Error
		}
		deleted += res.RowsAffected
	}
	return deleted, nil
}
