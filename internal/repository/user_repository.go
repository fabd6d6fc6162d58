package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"healthreg/internal/access"
	"healthreg/internal/model"
)

// UserRepository defines operator-account persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, roles []access.Role, mandal string) ([]model.User, error)
	ListFieldOfficerIDs(ctx context.Context, mandal string) ([]uint, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update updates an existing user.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// FindByID finds a user by ID.
func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users, optionally restricted to roles and a mandal.
func (r *userRepository) List(ctx context.Context, roles []access.Role, mandal string) ([]model.User, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})
	if len(roles) > 0 {
		q = q.Where("role IN ?", roles)
	}
	if mandal != "" {
		q = q.Where("mandal = ?", mandal)
	}
	var users []model.User
	if err := q.Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListFieldOfficerIDs returns the IDs of field officers, optionally
// restricted to one mandal.
func (r *userRepository) ListFieldOfficerIDs(ctx context.Context, mandal string) ([]uint, error) {
	q := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ?", access.RoleFieldOfficer)
	if mandal != "" {
		q = q.Where("mandal = ?", mandal)
	}
	var ids []uint
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateLastLogin stamps the last successful login without touching the
// rest of the row.
func (r *userRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}
