package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"healthreg/internal/access"
	apperrors "healthreg/internal/errors"
	"healthreg/internal/model"
	"healthreg/internal/repository"
)

// ListParams is the caller-selected narrowing for resident listings.
type ListParams struct {
	Mandals      []string
	Secretariats []string
	Filters      repository.ResidentFilters
}

// ContactUpdate carries an edit to a resident's audited contact fields.
// Nil means "leave unchanged"; an empty string clears the field.
type ContactUpdate struct {
	MobileNumber *string
	HealthID     *string
}

// ResidentService implements role-scoped resident operations. Every
// method takes the caller's identity explicitly; nothing is read from
// ambient session state.
type ResidentService interface {
	List(ctx context.Context, actor access.Actor, params ListParams) ([]model.Resident, int64, error)
	Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.Resident, error)
	Household(ctx context.Context, actor access.Actor, householdID string) ([]model.Resident, error)
	History(ctx context.Context, actor access.Actor, id uuid.UUID) ([]model.UpdateLog, error)
	UpdateContact(ctx context.Context, actor access.Actor, id uuid.UUID, update ContactUpdate, sourceIP string) (*model.Resident, error)
}

type residentService struct {
	residentRepo repository.ResidentRepository
	logRepo      repository.UpdateLogRepository
}

// NewResidentService creates a new resident service.
func NewResidentService(residentRepo repository.ResidentRepository, logRepo repository.UpdateLogRepository) ResidentService {
	return &residentService{
		residentRepo: residentRepo,
		logRepo:      logRepo,
	}
}

// scopedFilter validates the requested geography, builds the actor's
// access filter and narrows it by the request. The result can only be a
// subset of what the role permits.
func scopedFilter(actor access.Actor, mandals, secretariats []string) (access.Filter, error) {
	mandal, sec := "", ""
	if len(mandals) == 1 {
		mandal = mandals[0]
	}
	if len(secretariats) == 1 {
		sec = secretariats[0]
	}
	if d := access.ValidateSearch(actor, mandal, sec); !d.Allowed {
		return access.MatchNone(), apperrors.ErrAccessDenied
	}

	scope, err := access.BuildResidentFilter(actor)
	if err != nil {
		return access.MatchNone(), err
	}
	return scope.NarrowMandals(mandals).NarrowSecretariats(secretariats), nil
}

// List returns one page of residents visible to the actor.
func (s *residentService) List(ctx context.Context, actor access.Actor, params ListParams) ([]model.Resident, int64, error) {
	scope, err := scopedFilter(actor, params.Mandals, params.Secretariats)
	if err != nil {
		return nil, 0, err
	}
	if scope.IsMatchNone() {
		return []model.Resident{}, 0, nil
	}
	return s.residentRepo.List(ctx, scope, params.Filters)
}

// Get fetches one resident by ID and re-checks access against the
// fetched row. The second check is deliberate: direct ID lookups bypass
// the list filter, so the record-level decision guards against a
// mis-constructed query.
func (s *residentService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.Resident, error) {
	resident, err := s.residentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrResidentNotFound
		}
		return nil, err
	}
	if !access.CanAccessResident(actor, resident.MandalName, resident.SecName) {
		return nil, apperrors.ErrAccessDenied
	}
	return resident, nil
}

// Household returns the residents sharing a household ID, already
// restricted to the actor's scope, then re-checked per record.
func (s *residentService) Household(ctx context.Context, actor access.Actor, householdID string) ([]model.Resident, error) {
	householdID = strings.TrimSpace(householdID)
	if householdID == "" {
		return nil, apperrors.ErrResidentNotFound
	}
	scope, err := access.BuildResidentFilter(actor)
	if err != nil {
		return nil, err
	}
	members, err := s.residentRepo.FindByHousehold(ctx, scope, householdID)
	if err != nil {
		return nil, err
	}
	visible := make([]model.Resident, 0, len(members))
	for _, m := range members {
		if access.CanAccessResident(actor, m.MandalName, m.SecName) {
			visible = append(visible, m)
		}
	}
	return visible, nil
}

// History returns the audit trail of a resident the actor may see.
func (s *residentService) History(ctx context.Context, actor access.Actor, id uuid.UUID) ([]model.UpdateLog, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.logRepo.ListByResident(ctx, id)
}

// UpdateContact applies mobile/health-ID edits. Each changed field
// appends one UpdateLog row; resident update and audit rows are written
// in a single transaction. Unchanged submissions are rejected so the
// audit trail never carries no-op entries.
func (s *residentService) UpdateContact(ctx context.Context, actor access.Actor, id uuid.UUID, update ContactUpdate, sourceIP string) (*model.Resident, error) {
	resident, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	var logs []model.UpdateLog
	if update.MobileNumber != nil && *update.MobileNumber != resident.MobileNumber {
		logs = append(logs, model.UpdateLog{
			ResidentID: resident.ID,
			UserID:     actor.UserID,
			FieldName:  model.FieldMobileNumber,
			OldValue:   resident.MobileNumber,
			NewValue:   *update.MobileNumber,
			IPAddress:  sourceIP,
		})
		resident.MobileNumber = *update.MobileNumber
	}
	if update.HealthID != nil && *update.HealthID != resident.HealthID {
		logs = append(logs, model.UpdateLog{
			ResidentID: resident.ID,
			UserID:     actor.UserID,
			FieldName:  model.FieldHealthID,
			OldValue:   resident.HealthID,
			NewValue:   *update.HealthID,
			IPAddress:  sourceIP,
		})
		resident.HealthID = *update.HealthID
	}

	if len(logs) == 0 {
		return nil, apperrors.ErrNothingToUpdate
	}

	err = s.residentRepo.WithTransaction(ctx, func(txCtx context.Context, residents repository.ResidentRepository, logRepo repository.UpdateLogRepository) error {
		if err := residents.Update(txCtx, resident); err != nil {
			return err
		}
		return logRepo.CreateBatch(txCtx, logs)
	})
	if err != nil {
		return nil, err
	}
	return resident, nil
}
