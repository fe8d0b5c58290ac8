package planning

import (
	"context"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/planning"
	"github.com/planware/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockPlanRepository is a mock implementation of PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*planning.BusinessPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.BusinessPlan), args.Error(1)
}

func (m *MockPlanRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*planning.BusinessPlan, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.BusinessPlan), args.Error(1)
}

func (m *MockPlanRepository) FindByOwnerAndYear(ctx context.Context, ownerID uuid.UUID, planYear int, filter shared.Filter) ([]planning.BusinessPlan, error) {
	args := m.Called(ctx, ownerID, planYear, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]planning.BusinessPlan), args.Error(1)
}

func (m *MockPlanRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]planning.BusinessPlan, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]planning.BusinessPlan), args.Error(1)
}

func (m *MockPlanRepository) FindActiveByOwnerAndYear(ctx context.Context, ownerID uuid.UUID, planYear int) (*planning.BusinessPlan, error) {
	args := m.Called(ctx, ownerID, planYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.BusinessPlan), args.Error(1)
}

func (m *MockPlanRepository) Save(ctx context.Context, plan *planning.BusinessPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) SaveWithLock(ctx context.Context, plan *planning.BusinessPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) ActivateExclusively(ctx context.Context, plan *planning.BusinessPlan, demoted *planning.BusinessPlan) error {
	args := m.Called(ctx, plan, demoted)
	return args.Error(0)
}

func (m *MockPlanRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockRevisionRepository is a mock implementation of RevisionRepository
type MockRevisionRepository struct {
	mock.Mock
}

func (m *MockRevisionRepository) FindByID(ctx context.Context, id uuid.UUID) (*planning.PlanRevision, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planning.PlanRevision), args.Error(1)
}

func (m *MockRevisionRepository) FindByPlan(ctx context.Context, planID uuid.UUID, filter shared.Filter) ([]planning.PlanRevision, error) {
	args := m.Called(ctx, planID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]planning.PlanRevision), args.Error(1)
}

func (m *MockRevisionRepository) FindPendingByOwners(ctx context.Context, ownerIDs []uuid.UUID, filter shared.Filter) ([]planning.PlanRevision, error) {
	args := m.Called(ctx, ownerIDs, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]planning.PlanRevision), args.Error(1)
}

func (m *MockRevisionRepository) ExistsPendingForField(ctx context.Context, planID uuid.UUID, field planning.InputField) (bool, error) {
	args := m.Called(ctx, planID, field)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevisionRepository) Save(ctx context.Context, revision *planning.PlanRevision) error {
	args := m.Called(ctx, revision)
	return args.Error(0)
}

func (m *MockRevisionRepository) SaveWithLock(ctx context.Context, revision *planning.PlanRevision) error {
	args := m.Called(ctx, revision)
	return args.Error(0)
}

func (m *MockRevisionRepository) ApplyDecision(ctx context.Context, revision *planning.PlanRevision, plan *planning.BusinessPlan, entry *planning.AuditEntry) error {
	args := m.Called(ctx, revision, plan, entry)
	return args.Error(0)
}

func (m *MockRevisionRepository) CountPendingByOwners(ctx context.Context, ownerIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerIDs)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *planning.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) FindByPlan(ctx context.Context, planID uuid.UUID, filter shared.Filter) ([]planning.AuditEntry, error) {
	args := m.Called(ctx, planID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]planning.AuditEntry), args.Error(1)
}

func (m *MockAuditRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]planning.AuditEntry, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]planning.AuditEntry), args.Error(1)
}

func (m *MockAuditRepository) CountByPlan(ctx context.Context, planID uuid.UUID) (int64, error) {
	args := m.Called(ctx, planID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTeamDirectory is a mock implementation of TeamDirectory
type MockTeamDirectory struct {
	mock.Mock
}

func (m *MockTeamDirectory) IsManagerOf(ctx context.Context, managerID, producerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, managerID, producerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamDirectory) TeamOf(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
