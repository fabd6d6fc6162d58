package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthreg/internal/access"
	"healthreg/internal/model"
)

// deleteChunkSize keeps bulk statements under MySQL parameter limits.
const deleteChunkSize = 500

// ResidentFilters captures the caller-selected, non-geographic narrowing
// for list/export queries. Mandal and secretariat selections are folded
// into the access.Filter by the service layer before the query is built,
// so user input can only shrink the visible set.
type ResidentFilters struct {
	PHC            string
	MobileStatus   string // "filled" or "missing"
	HealthIDStatus string // "filled" or "missing"
	RuralUrban     string
	Search         string // matches name, mobile, UID or health ID
	OfficerIDs     []uint // residents touched by these officers (via update logs)
	StartDate      *time.Time
	EndDate        *time.Time
	Page           int
	Limit          int
}

// CoverageStats summarizes data completeness within a scope.
type CoverageStats struct {
	Total        int64 `json:"total"`
	WithMobile   int64 `json:"with_mobile"`
	WithHealthID int64 `json:"with_health_id"`
}

// MandalCount is a per-mandal rollup row.
type MandalCount struct {
	MandalName   string `json:"mandal_name"`
	Total        int64  `json:"total"`
	WithMobile   int64  `json:"with_mobile"`
	WithHealthID int64  `json:"with_health_id"`
}

// SecretariatCount is a per-secretariat rollup row.
type SecretariatCount struct {
	MandalName   string `json:"mandal_name"`
	SecName      string `json:"sec_name"`
	Total        int64  `json:"total"`
	WithMobile   int64  `json:"with_mobile"`
	WithHealthID int64  `json:"with_health_id"`
}

// ResidentRepository defines resident persistence operations.
type ResidentRepository interface {
	Create(ctx context.Context, resident *model.Resident) error
	CreateBatch(ctx context.Context, residents []model.Resident, batchSize int) error
	Update(ctx context.Context, resident *model.Resident) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Resident, error)
	FindByHousehold(ctx context.Context, scope access.Filter, householdID string) ([]model.Resident, error)
	List(ctx context.Context, scope access.Filter, filters ResidentFilters) ([]model.Resident, int64, error)
	ListAll(ctx context.Context, scope access.Filter, filters ResidentFilters, limit int) ([]model.Resident, error)
	CoverageStats(ctx context.Context, scope access.Filter) (*CoverageStats, error)
	CountByMandal(ctx context.Context, scope access.Filter) ([]MandalCount, error)
	CountBySecretariat(ctx context.Context, scope access.Filter) ([]SecretariatCount, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, residents ResidentRepository, logs UpdateLogRepository) error) error
}

type residentRepository struct {
	db *gorm.DB
}

// NewResidentRepository creates a new resident repository.
func NewResidentRepository(db *gorm.DB) ResidentRepository {
	return &residentRepository{db: db}
}

// Create creates a new resident record.
func (r *residentRepository) Create(ctx context.Context, resident *model.Resident) error {
	return r.db.WithContext(ctx).Create(resident).Error
}

// CreateBatch inserts residents in chunks inside one transaction.
func (r *residentRepository) CreateBatch(ctx context.Context, residents []model.Resident, batchSize int) error {
	if len(residents) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = deleteChunkSize
	}
	return r.db.WithContext(ctx).CreateInBatches(residents, batchSize).Error
}

// Update updates an existing resident record.
func (r *residentRepository) Update(ctx context.Context, resident *model.Resident) error {
	return r.db.WithContext(ctx).Save(resident).Error
}

// FindByID finds a resident by ID.
func (r *residentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Resident, error) {
	var resident model.Resident
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&resident).Error; err != nil {
		return nil, err
	}
	return &resident, nil
}

// FindByHousehold lists the residents sharing a household ID, restricted
// by the caller's scope.
func (r *residentRepository) FindByHousehold(ctx context.Context, scope access.Filter, householdID string) ([]model.Resident, error) {
	var residents []model.Resident
	q := scope.Apply(r.db.WithContext(ctx).Model(&model.Resident{})).
		Where("household_id = ?", householdID).
		Order("name")
	if err := q.Find(&residents).Error; err != nil {
		return nil, err
	}
	return residents, nil
}

// List returns one page of residents plus the total row count for the
// combined scope and filters.
func (r *residentRepository) List(ctx context.Context, scope access.Filter, filters ResidentFilters) ([]model.Resident, int64, error) {
	q := r.buildQuery(ctx, scope, filters)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 || limit > 500 {
		limit = 50
	}

	var residents []model.Resident
	err := q.Order("mandal_name, sec_name, name").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&residents).Error
	if err != nil {
		return nil, 0, err
	}
	return residents, total, nil
}

// ListAll returns every matching resident up to limit, for exports.
func (r *residentRepository) ListAll(ctx context.Context, scope access.Filter, filters ResidentFilters, limit int) ([]model.Resident, error) {
	q := r.buildQuery(ctx, scope, filters).Order("mandal_name, sec_name, name")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var residents []model.Resident
	if err := q.Find(&residents).Error; err != nil {
		return nil, err
	}
	return residents, nil
}

func (r *residentRepository) buildQuery(ctx context.Context, scope access.Filter, f ResidentFilters) *gorm.DB {
	q := scope.Apply(r.db.WithContext(ctx).Model(&model.Resident{}))

	if f.PHC != "" {
		q = q.Where("phc_name = ?", f.PHC)
	}
	if f.RuralUrban != "" {
		q = q.Where("rural_urban = ?", f.RuralUrban)
	}
	switch f.MobileStatus {
	case "filled":
		q = q.Where("mobile_number <> ''")
	case "missing":
		q = q.Where("mobile_number = '' OR mobile_number IS NULL")
	}
	switch f.HealthIDStatus {
	case "filled":
		q = q.Where("health_id <> ''")
	case "missing":
		q = q.Where("health_id = '' OR health_id IS NULL")
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR mobile_number LIKE ? OR uid LIKE ? OR health_id LIKE ?",
			like, like, like, like)
	}
	if f.StartDate != nil {
		q = q.Where("updated_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("updated_at <= ?", *f.EndDate)
	}
	if len(f.OfficerIDs) > 0 {
		sub := r.db.Model(&model.UpdateLog{}).
			Select("resident_id").
			Where("user_id IN ?", f.OfficerIDs)
		q = q.Where("id IN (?)", sub)
	}
	return q
}

// CoverageStats computes overall completeness counters within the scope.
func (r *residentRepository) CoverageStats(ctx context.Context, scope access.Filter) (*CoverageStats, error) {
	var stats CoverageStats
	q := scope.Apply(r.db.WithContext(ctx).Model(&model.Resident{}))
	err := q.Select(
		"COUNT(*) AS total, " +
			"SUM(CASE WHEN mobile_number <> '' THEN 1 ELSE 0 END) AS with_mobile, " +
			"SUM(CASE WHEN health_id <> '' THEN 1 ELSE 0 END) AS with_health_id").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// CountByMandal rolls residents up per mandal within the scope.
func (r *residentRepository) CountByMandal(ctx context.Context, scope access.Filter) ([]MandalCount, error) {
	var counts []MandalCount
	q := scope.Apply(r.db.WithContext(ctx).Model(&model.Resident{}))
	err := q.Select(
		"mandal_name, COUNT(*) AS total, " +
			"SUM(CASE WHEN mobile_number <> '' THEN 1 ELSE 0 END) AS with_mobile, " +
			"SUM(CASE WHEN health_id <> '' THEN 1 ELSE 0 END) AS with_health_id").
		Group("mandal_name").
		Order("mandal_name").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountBySecretariat rolls residents up per secretariat within the scope.
func (r *residentRepository) CountBySecretariat(ctx context.Context, scope access.Filter) ([]SecretariatCount, error) {
	var counts []SecretariatCount
	q := scope.Apply(r.db.WithContext(ctx).Model(&model.Resident{}))
	err := q.Select(
		"mandal_name, sec_name, COUNT(*) AS total, " +
			"SUM(CASE WHEN mobile_number <> '' THEN 1 ELSE 0 END) AS with_mobile, " +
			"SUM(CASE WHEN health_id <> '' THEN 1 ELSE 0 END) AS with_health_id").
		Group("mandal_name, sec_name").
		Order("mandal_name, sec_name").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// DeleteByIDs hard-deletes residents in chunks and returns the number of
// rows removed. Callers are expected to run it inside WithTransaction
// together with the matching update-log deletion.
func (r *residentRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var deleted int64
	for start := 0; start < len(ids); start += deleteChunkSize {
		end := start + deleteChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		res := r.db.WithContext(ctx).Unscoped().
			Where("id IN ?", ids[start:end]).
			Delete(&model.Resident{})
		if res.Error != nil {
			return deleted, res.Error
		}
		deleted += res.RowsAffected
	}
	return deleted, nil
}

// WithTransaction executes fn with resident and update-log repositories
// bound to one database transaction, so multi-step destructive operations
// cannot leave orphaned audit rows.
func (r *residentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, residents ResidentRepository, logs UpdateLogRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &residentRepository{db: tx}, &updateLogRepository{db: tx})
	})
}
