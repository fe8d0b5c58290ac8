package planning

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/planning"
	"github.com/planware/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Test helpers
var (
	testOwnerID   = uuid.New()
	testManagerID = uuid.New()
)

func testInputs() planning.PlanInputs {
	return planning.PlanInputs{
		IncomeGoal:                  decimal.NewFromInt(250000),
		PurchaseBps:                 200,
		RefinanceBps:                150,
		PurchasePercentage:          decimal.NewFromFloat(0.6),
		AvgLoanAmount:               decimal.NewFromInt(425000),
		PullThroughPurchase:         decimal.NewFromFloat(0.5),
		PullThroughRefinance:        decimal.NewFromFloat(0.5),
		ConversionRatePurchase:      decimal.NewFromFloat(0.5),
		ConversionRateRefinance:     decimal.NewFromFloat(0.5),
		LeadsFromPartnersPercentage: decimal.NewFromFloat(0.5),
		LeadsPerPartnerPerMonth:     decimal.NewFromInt(3),
	}
}

func testInputsRequest() PlanInputsInput {
	in := testInputs()
	return PlanInputsInput{
		IncomeGoal:                  in.IncomeGoal,
		PurchaseBps:                 in.PurchaseBps,
		RefinanceBps:                in.RefinanceBps,
		PurchasePercentage:          in.PurchasePercentage,
		AvgLoanAmount:               in.AvgLoanAmount,
		PullThroughPurchase:         in.PullThroughPurchase,
		PullThroughRefinance:        in.PullThroughRefinance,
		ConversionRatePurchase:      in.ConversionRatePurchase,
		ConversionRateRefinance:     in.ConversionRateRefinance,
		LeadsFromPartnersPercentage: in.LeadsFromPartnersPercentage,
		LeadsPerPartnerPerMonth:     in.LeadsPerPartnerPerMonth,
	}
}

func newDraftPlan(t *testing.T, ownerID uuid.UUID) *planning.BusinessPlan {
	plan, err := planning.NewBusinessPlan(ownerID, 2026, testInputs())
	require.NoError(t, err)
	plan.ClearDomainEvents()
	return plan
}

func newActivePlan(t *testing.T, ownerID uuid.UUID) *planning.BusinessPlan {
	plan := newDraftPlan(t, ownerID)
	require.NoError(t, plan.Activate())
	plan.ClearDomainEvents()
	return plan
}

func newPlanService(planRepo *MockPlanRepository, auditRepo *MockAuditRepository, teamDir *MockTeamDirectory) *PlanService {
	return NewPlanService(planRepo, auditRepo, teamDir)
}

// ============================================
// CreateDraft Tests
// ============================================

func TestPlanService_CreateDraft(t *testing.T) {
	t.Run("creates draft and records audit entry", func(t *testing.T) {
		planRepo := new(MockPlanRepository)
		auditRepo := new(MockAuditRepository)
		service := newPlanService(planRepo, auditRepo, new(MockTeamDirectory))

		planRepo.On("Save", mock.Anything, mock.AnythingOfType("*planning.BusinessPlan")).Return(nil)
		auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(entry *planning.AuditEntry) bool {
			return entry.Action == planning.AuditActionCreated && entry.OwnerID == testOwnerID
		})).Return(nil)

		resp, err := service.CreateDraft(context.Background(), testOwnerID, CreatePlanRequest{
			PlanYear: 2026,
			Inputs:   testInputsRequest(),
		})

		require.NoError(t, err)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.Equal(t, testOwnerID, resp.OwnerID)
		assert.Equal(t, 2026, resp.PlanYear)
		planRepo.AssertExpectations(t)
		auditRepo.AssertExpectations(t)
	})

	t.Run("invalid inputs produce no save and no audit entry", func(t *testing.T) {
		planRepo := new(MockPlanRepository)
		auditRepo := new(MockAuditRepository)
		service := newPlanService(planRepo, auditRepo, new(MockTeamDirectory))

		req := CreatePlanRequest{PlanYear: 2026, Inputs: testInputsRequest()}
		req.Inputs.IncomeGoal = decimal.NewFromInt(-1)
		req.Inputs.AvgLoanAmount = decimal.Zero

		_, err := service.CreateDraft(context.Background(), testOwnerID, req)

		require.Error(t, err)
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Violations, 2)
		planRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		auditRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

// ============================================
// Activate Tests
// ============================================

func TestPlanService_Activate(t *testing.T) {
	t.Run("activates draft with no previously active plan", func(t *testing.T) {
		planRepo := new(MockPlanRepository)
		service := newPlanService(planRepo, new(MockAuditRepository), new(MockTeamDirectory))

		plan := newDraftPlan(t, testOwnerID)
		planRepo.On("FindByIDForOwner", mock.Anything, testOwnerID, plan.ID).Return(plan, nil)
		planRepo.On("FindActiveByOwnerAndYear", mock.Anything, testOwnerID, 2026).Return(nil, shared.ErrNotFound)
		planRepo.On("ActivateExclusively", mock.Anything, plan, (*planning.BusinessPlan)(nil)).Return(nil)

		resp, err := service.Activate(context.Background(), testOwnerID, plan.ID)

		require.NoError(t, err)
		assert.Equal(t, "ACTIVE", resp.Status)
		planRepo.AssertExpectations(t)
	})

	t.Run("demotes previously active plan in the same call", func(t *testing.T) {
		planRepo := new(MockPlanRepository)
		service := newPlanService(planRepo, new(MockAuditRepository), new(MockTeamDirectory))

		previous := newActivePlan(t, testOwnerID)
		next := newDraftPlan(t, testOwnerID)

		planRepo.On("FindByIDForOwner", mock.Anything, testOwnerID, next.ID).Return(next, nil)
		planRepo.On("FindActiveByOwnerAndYear", mock.Anything, testOwnerID, 2026).Return(previous, nil)
		planRepo.On("ActivateExclusively", mock.Anything, next, previous).Return(nil)

		resp, err := service.Activate(context.Background(), testOwnerID, next.ID)

		require.NoError(t, err)
		assert.Equal(t, "ACTIVE", resp.Status)
		// exactly one active plan afterward, the old one is terminal
		assert.Equal(t, planning.PlanStatusActive, next.Status)
		assert.Equal(t, planning.PlanStatusRevised, previous.Status)
		planRepo.AssertExpectations(t)
	})

	t.Run("rejects activating a non-draft plan", func(t *testing.T) {
		planRepo := new(MockPlanRepository)
		service := newPlanService(planRepo, new(MockAuditRepository), new(MockTeamDirectory))

		plan := newActivePlan(t, testOwnerID)
		planRepo.On("FindByIDForOwner", mock.Anything, testOwnerID, plan.ID).Return(plan, nil)
		planRepo.On("FindActiveByOwnerAndYear", mock.Anything, testOwnerID, 2026).Return(plan, nil)

		_, err := service.Activate(context.Background(), testOwnerID, plan.ID)

		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
		planRepo.AssertNotCalled(t, "ActivateExclusively", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("surfaces a lost activation race as a conflict", func(t *testing.T) {
		planRepo := new(MockPlanRepository)
		service := newPlanService(planRepo, new(MockAuditRepository), new(MockTeamDirectory))

		plan := newDraftPlan(t, testOwnerID)
		planRepo.On("FindByIDForOwner", mock.Anything, testOwnerID, plan.ID).Return(plan, nil)
		planRepo.On("FindActiveByOwnerAndYear", mock.Anything, testOwnerID, 2026).Return(nil, shared.ErrNotFound)
		planRepo.On("ActivateExclusively", mock.Anything, plan, (*planning.BusinessPlan)(nil)).Return(shared.ErrConcurrencyConflict)

		_, err := service.Activate(context.Background(), testOwnerID, plan.ID)

		require.Error(t, err)
		assert.True(t, shared.IsConcurrencyConflict(err))
	})
}

// ============================================
// Goals and Read Tests
// ============================================

func TestPlanService_GetGoals(t *testing.T) {
	t.Run("recomputes goals from current inputs", func(t *testing.T) {
		planRepo := new(MockPlanRepository)
		service := newPlanService(planRepo, new(MockAuditRepository), new(MockTeamDirectory))

		plan := newActivePlan(t, testOwnerID)
		planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)

		resp, err := service.GetGoals(context.Background(), testOwnerID, plan.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(33), resp.Goals.TotalUnits.Annual)

		// change the live inputs and read again, new figures, no cache
		require.NoError(t, plan.ApplyRevision(planning.FieldIncomeGoal, "500000"))

		resp, err = service.GetGoals(context.Background(), testOwnerID, plan.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(65), resp.Goals.TotalUnits.Annual)
	})

	t.Run("manager of the owner may read goals", func(t *testing.T) {
		planRepo := new(MockPlanRepository)
		teamDir := new(MockTeamDirectory)
		service := newPlanService(planRepo, new(MockAuditRepository), teamDir)

		plan := newActivePlan(t, testOwnerID)
		planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)
		teamDir.On("IsManagerOf", mock.Anything, testManagerID, testOwnerID).Return(true, nil)

		_, err := service.GetGoals(context.Background(), testManagerID, plan.ID)
		require.NoError(t, err)
	})

	t.Run("unrelated caller is forbidden", func(t *testing.T) {
		planRepo := new(MockPlanRepository)
		teamDir := new(MockTeamDirectory)
		service := newPlanService(planRepo, new(MockAuditRepository), teamDir)

		plan := newActivePlan(t, testOwnerID)
		stranger := uuid.New()
		planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)
		teamDir.On("IsManagerOf", mock.Anything, stranger, testOwnerID).Return(false, nil)

		_, err := service.GetGoals(context.Background(), stranger, plan.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestPlanService_Archive(t *testing.T) {
	t.Run("archives a draft", func(t *testing.T) {
		planRepo := new(MockPlanRepository)
		service := newPlanService(planRepo, new(MockAuditRepository), new(MockTeamDirectory))

		plan := newDraftPlan(t, testOwnerID)
		planRepo.On("FindByIDForOwner", mock.Anything, testOwnerID, plan.ID).Return(plan, nil)
		planRepo.On("SaveWithLock", mock.Anything, plan).Return(nil)

		resp, err := service.Archive(context.Background(), testOwnerID, plan.ID)
		require.NoError(t, err)
		assert.Equal(t, "ARCHIVED", resp.Status)
	})

	t.Run("rejects archiving an active plan", func(t *testing.T) {
		planRepo := new(MockPlanRepository)
		service := newPlanService(planRepo, new(MockAuditRepository), new(MockTeamDirectory))

		plan := newActivePlan(t, testOwnerID)
		planRepo.On("FindByIDForOwner", mock.Anything, testOwnerID, plan.ID).Return(plan, nil)

		_, err := service.Archive(context.Background(), testOwnerID, plan.ID)
		require.Error(t, err)
		planRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestPlanService_List(t *testing.T) {
	planRepo := new(MockPlanRepository)
	service := newPlanService(planRepo, new(MockAuditRepository), new(MockTeamDirectory))

	plan := newActivePlan(t, testOwnerID)
	planRepo.On("FindAllForOwner", mock.Anything, testOwnerID, mock.Anything).Return([]planning.BusinessPlan{*plan}, nil)
	planRepo.On("CountForOwner", mock.Anything, testOwnerID, mock.Anything).Return(int64(1), nil)

	year := 2026
	resp, total, err := service.List(context.Background(), testOwnerID, testOwnerID, PlanListFilter{PlanYear: &year})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, resp, 1)
	assert.Equal(t, plan.ID, resp[0].ID)
}
