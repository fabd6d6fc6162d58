package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"healthreg/internal/access"
	apperrors "healthreg/internal/errors"
	"healthreg/internal/model"
	"healthreg/internal/repository"
)

// CreateUserInput carries a new operator account. Assignments are given
// in parsed form; the service encodes them into the canonical storage
// shape so legacy strings never enter the database through this path.
type CreateUserInput struct {
	Username    string
	Password    string
	Name        string
	Role        access.Role
	Mandal      string
	Assignments []access.Assignment
}

// UpdateUserInput carries a partial account edit. Nil fields are left
// unchanged.
type UpdateUserInput struct {
	Password    *string
	Name        *string
	Mandal      *string
	Assignments []access.Assignment
	Active      *bool
}

// UserService implements role-gated operator-account management.
type UserService interface {
	Create(ctx context.Context, actor access.Actor, input CreateUserInput) (*model.User, error)
	Update(ctx context.Context, actor access.Actor, id uint, input UpdateUserInput) (*model.User, error)
	Get(ctx context.Context, actor access.Actor, id uint) (*model.User, error)
	List(ctx context.Context, actor access.Actor) ([]model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// validateShape enforces the intended role invariants the schema does
// not: a secretary has exactly one mandal, a field officer has at least
// one assignment, an admin carries neither.
func validateShape(role access.Role, mandal string, assignments []access.Assignment) error {
	switch role {
	case access.RoleAdmin:
		return nil
	case access.RolePanchayatSecretary:
		if strings.TrimSpace(mandal) == "" {
			return access.ErrNoMandalAssigned
		}
		return nil
	case access.RoleFieldOfficer:
		if len(assignments) == 0 {
			return access.ErrNoAssignments
		}
		return nil
	default:
		return apperrors.ErrInvalidRole
	}
}

// withinMandal checks that every assignment stays inside one mandal.
func withinMandal(mandal string, assignments []access.Assignment) bool {
	for _, a := range assignments {
		if a.MandalName != mandal {
			return false
		}
	}
	return true
}

// Create adds an operator account. Panchayat secretaries may only create
// field officers bound to their own mandal.
func (s *userService) Create(ctx context.Context, actor access.Actor, input CreateUserInput) (*model.User, error) {
	if !access.CanManageRole(actor.Role, input.Role) {
		if !input.Role.Valid() {
			return nil, apperrors.ErrInvalidRole
		}
		return nil, apperrors.ErrAccessDenied
	}

	if actor.Role == access.RolePanchayatSecretary {
		input.Mandal = actor.Mandal
		if !withinMandal(actor.Mandal, input.Assignments) {
			return nil, apperrors.ErrAccessDenied
		}
	}

	if err := validateShape(input.Role, input.Mandal, input.Assignments); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:             input.Username,
		PasswordHash:         string(hashed),
		Name:                 input.Name,
		Role:                 input.Role,
		Mandal:               input.Mandal,
		AssignedSecretariats: access.EncodeAssignments(input.Assignments),
		Active:               true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Update edits an account the actor may manage.
func (s *userService) Update(ctx context.Context, actor access.Actor, id uint, input UpdateUserInput) (*model.User, error) {
	user, err := s.manageableUser(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Mandal != nil && actor.Role == access.RoleAdmin {
		user.Mandal = *input.Mandal
	}
	if input.Assignments != nil {
		if actor.Role == access.RolePanchayatSecretary && !withinMandal(actor.Mandal, input.Assignments) {
			return nil, apperrors.ErrAccessDenied
		}
		user.AssignedSecretariats = access.EncodeAssignments(input.Assignments)
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := validateShape(user.Role, user.Mandal, user.Assignments()); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Get returns one account the actor may manage (or the actor itself).
func (s *userService) Get(ctx context.Context, actor access.Actor, id uint) (*model.User, error) {
	if id == actor.UserID {
		user, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, err
		}
		return user, nil
	}
	return s.manageableUser(ctx, actor, id)
}

// List returns the accounts visible to the actor: admins see everyone,
// secretaries see the field officers of their mandal.
func (s *userService) List(ctx context.Context, actor access.Actor) ([]model.User, error) {
	switch actor.Role {
	case access.RoleAdmin:
		return s.userRepo.List(ctx, nil, "")
	case access.RolePanchayatSecretary:
		return s.userRepo.List(ctx, []access.Role{access.RoleFieldOfficer}, actor.Mandal)
	default:
		return nil, apperrors.ErrAccessDenied
	}
}

func (s *userService) manageableUser(ctx context.Context, actor access.Actor, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	if !access.CanManageRole(actor.Role, user.Role) {
		return nil, apperrors.ErrAccessDenied
	}
	if actor.Role == access.RolePanchayatSecretary && user.Mandal != actor.Mandal {
		return nil, apperrors.ErrAccessDenied
	}
	return user, nil
}
