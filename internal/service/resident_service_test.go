package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"healthreg/internal/access"
	apperrors "healthreg/internal/errors"
	"healthreg/internal/model"
	"healthreg/internal/repository"
)

// MockResidentRepository is a mock implementation of ResidentRepository.
// WithTransaction runs the callback against the mocks themselves so
// transactional flows can be asserted without a database.
type MockResidentRepository struct {
	mock.Mock
	logs *MockUpdateLogRepository
}

func (m *MockResidentRepository) Create(ctx context.Context, resident *model.Resident) error {
	args := m.Called(ctx, resident)
	return args.Error(0)
}

func (m *MockResidentRepository) CreateBatch(ctx context.Context, residents []model.Resident, batchSize int) error {
	args := m.Called(ctx, residents, batchSize)
	return args.Error(0)
}

func (m *MockResidentRepository) Update(ctx context.Context, resident *model.Resident) error {
	args := m.Called(ctx, resident)
	return args.Error(0)
}

func (m *MockResidentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Resident, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resident), args.Error(1)
}

func (m *MockResidentRepository) FindByHousehold(ctx context.Context, scope access.Filter, householdID string) ([]model.Resident, error) {
	args := m.Called(ctx, scope, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Resident), args.Error(1)
}

func (m *MockResidentRepository) List(ctx context.Context, scope access.Filter, filters repository.ResidentFilters) ([]model.Resident, int64, error) {
	args := m.Called(ctx, scope, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Resident), args.Get(1).(int64), args.Error(2)
}

func (m *MockResidentRepository) ListAll(ctx context.Context, scope access.Filter, filters repository.ResidentFilters, limit int) ([]model.Resident, error) {
	args := m.Called(ctx, scope, filters, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Resident), args.Error(1)
}

func (m *MockResidentRepository) CoverageStats(ctx context.Context, scope access.Filter) (*repository.CoverageStats, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CoverageStats), args.Error(1)
}

func (m *MockResidentRepository) CountByMandal(ctx context.Context, scope access.Filter) ([]repository.MandalCount, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.MandalCount), args.Error(1)
}

func (m *MockResidentRepository) CountBySecretariat(ctx context.Context, scope access.Filter) ([]repository.SecretariatCount, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.SecretariatCount), args.Error(1)
}

func (m *MockResidentRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResidentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, residents repository.ResidentRepository, logs repository.UpdateLogRepository) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, m, m.logs)
}

// MockUpdateLogRepository is a mock implementation of UpdateLogRepository.
type MockUpdateLogRepository struct {
	mock.Mock
}

func (m *MockUpdateLogRepository) Create(ctx context.Context, log *model.UpdateLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockUpdateLogRepository) CreateBatch(ctx context.Context, logs []model.UpdateLog) error {
	args := m.Called(ctx, logs)
	return args.Error(0)
}

func (m *MockUpdateLogRepository) ListByResident(ctx context.Context, residentID uuid.UUID) ([]model.UpdateLog, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UpdateLog), args.Error(1)
}

func (m *MockUpdateLogRepository) CountByOfficer(ctx context.Context, officerIDs []uint, start, end *time.Time) ([]repository.OfficerActivity, error) {
	args := m.Called(ctx, officerIDs, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.OfficerActivity), args.Error(1)
}

func (m *MockUpdateLogRepository) FindIDsByResidentIDs(ctx context.Context, residentIDs []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, residentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUpdateLogRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUpdateLogRepository) DeleteByResidentIDs(ctx context.Context, residentIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, residentIDs)
	return args.Get(0).(int64), args.Error(1)
}

func newResidentMocks() (*MockResidentRepository, *MockUpdateLogRepository) {
	logs := new(MockUpdateLogRepository)
	return &MockResidentRepository{logs: logs}, logs
}

func TestResidentService_Get(t *testing.T) {
	officer := access.Actor{
		UserID: 3,
		Role:   access.RoleFieldOfficer,
		Assignments: []access.Assignment{
			{MandalName: "PUNGANUR", SecName: "TERUVEEDHI-03"},
		},
	}
	inScope := &model.Resident{
		ID:         uuid.New(),
		Name:       "Lakshmi",
		MandalName: "PUNGANUR",
		SecName:    "TERUVEEDHI-03",
	}
	outOfScope := &model.Resident{
		ID:         uuid.New(),
		Name:       "Ravi",
		MandalName: "KUPPAM",
		SecName:    "KUPPAM-1",
	}

	t.Run("resident inside assignments", func(t *testing.T) {
		residentRepo, logRepo := newResidentMocks()
		residentRepo.On("FindByID", mock.Anything, inScope.ID).Return(inScope, nil)

		service := NewResidentService(residentRepo, logRepo)
		got, err := service.Get(context.Background(), officer, inScope.ID)

		assert.NoError(t, err)
		assert.Equal(t, "Lakshmi", got.Name)
		residentRepo.AssertExpectations(t)
	})

	t.Run("resident outside assignments is denied", func(t *testing.T) {
		residentRepo, logRepo := newResidentMocks()
		residentRepo.On("FindByID", mock.Anything, outOfScope.ID).Return(outOfScope, nil)

		service := NewResidentService(residentRepo, logRepo)
		got, err := service.Get(context.Background(), officer, outOfScope.ID)

		assert.Equal(t, apperrors.ErrAccessDenied, err)
		assert.Nil(t, got)
	})

	t.Run("missing resident", func(t *testing.T) {
		residentRepo, logRepo := newResidentMocks()
		id := uuid.New()
		residentRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		service := NewResidentService(residentRepo, logRepo)
		got, err := service.Get(context.Background(), officer, id)

		assert.Equal(t, apperrors.ErrResidentNotFound, err)
		assert.Nil(t, got)
	})
}

func TestResidentService_List_DeniesOutOfScopeMandal(t *testing.T) {
	secretary := access.Actor{UserID: 2, Role: access.RolePanchayatSecretary, Mandal: "CHITTOOR"}

	residentRepo, logRepo := newResidentMocks()
	service := NewResidentService(residentRepo, logRepo)

	residents, total, err := service.List(context.Background(), secretary, ListParams{
		Mandals: []string{"KUPPAM"},
	})

	assert.Equal(t, apperrors.ErrAccessDenied, err)
	assert.Nil(t, residents)
	assert.Zero(t, total)
	residentRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestResidentService_UpdateContact(t *testing.T) {
	officer := access.Actor{
		UserID: 3,
		Role:   access.RoleFieldOfficer,
		Assignments: []access.Assignment{
			{MandalName: "PUNGANUR", SecName: "TERUVEEDHI-03"},
		},
	}

	newMobile := "9876543210"

	t.Run("changed mobile writes one audit row", func(t *testing.T) {
		resident := &model.Resident{
			ID:           uuid.New(),
			Name:         "Lakshmi",
			MandalName:   "PUNGANUR",
			SecName:      "TERUVEEDHI-03",
			MobileNumber: "9000000000",
			HealthID:     "12345678901234",
		}

		residentRepo, logRepo := newResidentMocks()
		residentRepo.On("FindByID", mock.Anything, resident.ID).Return(resident, nil)
		residentRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		residentRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Resident")).Return(nil)
		logRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(logs []model.UpdateLog) bool {
			return len(logs) == 1 &&
				logs[0].FieldName == model.FieldMobileNumber &&
				logs[0].OldValue == "9000000000" &&
				logs[0].NewValue == newMobile &&
				logs[0].UserID == officer.UserID
		})).Return(nil)

		service := NewResidentService(residentRepo, logRepo)
		updated, err := service.UpdateContact(context.Background(), officer, resident.ID,
			ContactUpdate{MobileNumber: &newMobile}, "10.0.0.9")

		assert.NoError(t, err)
		assert.Equal(t, newMobile, updated.MobileNumber)
		assert.Equal(t, "12345678901234", updated.HealthID)
		residentRepo.AssertExpectations(t)
		logRepo.AssertExpectations(t)
	})

	t.Run("no-op submission is rejected", func(t *testing.T) {
		resident := &model.Resident{
			ID:           uuid.New(),
			MandalName:   "PUNGANUR",
			SecName:      "TERUVEEDHI-03",
			MobileNumber: newMobile,
		}

		residentRepo, logRepo := newResidentMocks()
		residentRepo.On("FindByID", mock.Anything, resident.ID).Return(resident, nil)

		service := NewResidentService(residentRepo, logRepo)
		updated, err := service.UpdateContact(context.Background(), officer, resident.ID,
			ContactUpdate{MobileNumber: &newMobile}, "10.0.0.9")

		assert.Equal(t, apperrors.ErrNothingToUpdate, err)
		assert.Nil(t, updated)
		residentRepo.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
	})

	t.Run("out-of-scope resident is denied before any write", func(t *testing.T) {
		resident := &model.Resident{
			ID:         uuid.New(),
			MandalName: "KUPPAM",
			SecName:    "KUPPAM-1",
		}

		residentRepo, logRepo := newResidentMocks()
		residentRepo.On("FindByID", mock.Anything, resident.ID).Return(resident, nil)

		service := NewResidentService(residentRepo, logRepo)
		updated, err := service.UpdateContact(context.Background(), officer, resident.ID,
			ContactUpdate{MobileNumber: &newMobile}, "10.0.0.9")

		assert.Equal(t, apperrors.ErrAccessDenied, err)
		assert.Nil(t, updated)
		residentRepo.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
	})
}

func TestResidentService_Household(t *testing.T) {
	secretary := access.Actor{UserID: 2, Role: access.RolePanchayatSecretary, Mandal: "CHITTOOR"}

	residentRepo, logRepo := newResidentMocks()
	members := []model.Resident{
		{ID: uuid.New(), Name: "A", MandalName: "CHITTOOR", SecName: "CH-1", HouseholdID: "HH-9"},
		{ID: uuid.New(), Name: "B", MandalName: "CHITTOOR", SecName: "CH-2", HouseholdID: "HH-9"},
	}
	residentRepo.On("FindByHousehold", mock.Anything, mock.Anything, "HH-9").Return(members, nil)

	service := NewResidentService(residentRepo, logRepo)
	got, err := service.Household(context.Background(), secretary, "HH-9")

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	residentRepo.AssertExpectations(t)
}
