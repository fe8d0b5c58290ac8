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
func newRevisionService(revisionRepo *MockRevisionRepository, planRepo *MockPlanRepository, auditRepo *MockAuditRepository, teamDir *MockTeamDirectory) *RevisionService {
	return NewRevisionService(revisionRepo, planRepo, auditRepo, teamDir, DefaultRevisionPolicy())
}

func newPendingRevision(t *testing.T, plan *planning.BusinessPlan) *planning.PlanRevision {
	revision, err := planning.NewPlanRevision(plan, plan.OwnerID, planning.FieldIncomeGoal, "300000", "pipeline grew faster than planned")
	require.NoError(t, err)
	revision.ClearDomainEvents()
	return revision
}

// ============================================
// Request Tests
// ============================================

func TestRevisionService_Request(t *testing.T) {
	validReq := RequestRevisionRequest{
		Field:          "income_goal",
		RequestedValue: "300000",
		Justification:  "pipeline grew faster than planned",
	}

	t.Run("creates pending revision and audit entry", func(t *testing.T) {
		revisionRepo := new(MockRevisionRepository)
		planRepo := new(MockPlanRepository)
		auditRepo := new(MockAuditRepository)
		service := newRevisionService(revisionRepo, planRepo, auditRepo, new(MockTeamDirectory))

		plan := newActivePlan(t, testOwnerID)
		planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)
		revisionRepo.On("ExistsPendingForField", mock.Anything, plan.ID, planning.FieldIncomeGoal).Return(false, nil)
		revisionRepo.On("Save", mock.Anything, mock.AnythingOfType("*planning.PlanRevision")).Return(nil)
		auditRepo.On("Append", mock.Anything, mock.MatchedBy(func(entry *planning.AuditEntry) bool {
			return entry.Action == planning.AuditActionRevised && entry.PlanID == plan.ID
		})).Return(nil)

		resp, err := service.Request(context.Background(), testOwnerID, plan.ID, validReq)

		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "income_goal", resp.Field)
		assert.Equal(t, "250000", resp.CurrentValue, "snapshots the live value at request time")
		assert.Equal(t, "300000", resp.RequestedValue)
		revisionRepo.AssertExpectations(t)
		auditRepo.AssertExpectations(t)
	})

	t.Run("short justification fails validation with no audit entry", func(t *testing.T) {
		revisionRepo := new(MockRevisionRepository)
		planRepo := new(MockPlanRepository)
		auditRepo := new(MockAuditRepository)
		service := newRevisionService(revisionRepo, planRepo, auditRepo, new(MockTeamDirectory))

		plan := newActivePlan(t, testOwnerID)
		planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)

		req := validReq
		req.Justification = "   "

		_, err := service.Request(context.Background(), testOwnerID, plan.ID, req)

		require.Error(t, err)
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		revisionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		auditRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("rejects second pending revision on the same field", func(t *testing.T) {
		revisionRepo := new(MockRevisionRepository)
		planRepo := new(MockPlanRepository)
		service := newRevisionService(revisionRepo, planRepo, new(MockAuditRepository), new(MockTeamDirectory))

		plan := newActivePlan(t, testOwnerID)
		planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)
		revisionRepo.On("ExistsPendingForField", mock.Anything, plan.ID, planning.FieldIncomeGoal).Return(true, nil)

		_, err := service.Request(context.Background(), testOwnerID, plan.ID, validReq)

		require.Error(t, err)
		assert.True(t, shared.IsConcurrencyConflict(err))
		revisionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects revision against a non-active plan", func(t *testing.T) {
		revisionRepo := new(MockRevisionRepository)
		planRepo := new(MockPlanRepository)
		service := newRevisionService(revisionRepo, planRepo, new(MockAuditRepository), new(MockTeamDirectory))

		plan := newDraftPlan(t, testOwnerID)
		planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)
		revisionRepo.On("ExistsPendingForField", mock.Anything, plan.ID, planning.FieldIncomeGoal).Return(false, nil)

		_, err := service.Request(context.Background(), testOwnerID, plan.ID, validReq)

		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
	})

	t.Run("non-owner cannot see the plan", func(t *testing.T) {
		planRepo := new(MockPlanRepository)
		service := newRevisionService(new(MockRevisionRepository), planRepo, new(MockAuditRepository), new(MockTeamDirectory))

		plan := newActivePlan(t, testOwnerID)
		planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)

		_, err := service.Request(context.Background(), uuid.New(), plan.ID, validReq)

		assert.True(t, shared.IsNotFound(err))
	})
}

// ============================================
// Decide Tests
// ============================================

func TestRevisionService_Decide(t *testing.T) {
	approveReq := DecideRevisionRequest{
		Decision:      DecisionApproved,
		DecisionNotes: "consistent with branch growth targets",
	}

	t.Run("approval applies the field change atomically", func(t *testing.T) {
		revisionRepo := new(MockRevisionRepository)
		planRepo := new(MockPlanRepository)
		teamDir := new(MockTeamDirectory)
		service := newRevisionService(revisionRepo, planRepo, new(MockAuditRepository), teamDir)

		plan := newActivePlan(t, testOwnerID)
		revision := newPendingRevision(t, plan)

		revisionRepo.On("FindByID", mock.Anything, revision.ID).Return(revision, nil)
		teamDir.On("IsManagerOf", mock.Anything, testManagerID, testOwnerID).Return(true, nil)
		planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)
		revisionRepo.On("ApplyDecision", mock.Anything, revision, plan, mock.MatchedBy(func(entry *planning.AuditEntry) bool {
			return entry.Action == planning.AuditActionApproved
		})).Return(nil)

		resp, err := service.Decide(context.Background(), testManagerID, revision.ID, approveReq)

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.True(t, plan.Inputs.IncomeGoal.Equal(decimal.NewFromInt(300000)),
			"approved value replaces the plan input")
		revisionRepo.AssertExpectations(t)
	})

	t.Run("rejection leaves the plan untouched", func(t *testing.T) {
		revisionRepo := new(MockRevisionRepository)
		planRepo := new(MockPlanRepository)
		teamDir := new(MockTeamDirectory)
		service := newRevisionService(revisionRepo, planRepo, new(MockAuditRepository), teamDir)

		plan := newActivePlan(t, testOwnerID)
		revision := newPendingRevision(t, plan)

		revisionRepo.On("FindByID", mock.Anything, revision.ID).Return(revision, nil)
		teamDir.On("IsManagerOf", mock.Anything, testManagerID, testOwnerID).Return(true, nil)
		revisionRepo.On("ApplyDecision", mock.Anything, revision, (*planning.BusinessPlan)(nil), mock.MatchedBy(func(entry *planning.AuditEntry) bool {
			return entry.Action == planning.AuditActionRejected
		})).Return(nil)

		resp, err := service.Decide(context.Background(), testManagerID, revision.ID, DecideRevisionRequest{
			Decision:      DecisionRejected,
			DecisionNotes: "goal not supported by current pipeline",
		})

		require.NoError(t, err)
		assert.Equal(t, "REJECTED", resp.Status)
		assert.True(t, plan.Inputs.IncomeGoal.Equal(decimal.NewFromInt(250000)))
		planRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("second decision on the same revision fails", func(t *testing.T) {
		revisionRepo := new(MockRevisionRepository)
		planRepo := new(MockPlanRepository)
		teamDir := new(MockTeamDirectory)
		service := newRevisionService(revisionRepo, planRepo, new(MockAuditRepository), teamDir)

		plan := newActivePlan(t, testOwnerID)
		revision := newPendingRevision(t, plan)
		require.NoError(t, revision.Approve(testManagerID, "already decided earlier"))

		revisionRepo.On("FindByID", mock.Anything, revision.ID).Return(revision, nil)
		teamDir.On("IsManagerOf", mock.Anything, testManagerID, testOwnerID).Return(true, nil)
		planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)

		priorIncome := plan.Inputs.IncomeGoal

		_, err := service.Decide(context.Background(), testManagerID, revision.ID, approveReq)

		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
		// the plan mutation must not apply twice
		assert.True(t, plan.Inputs.IncomeGoal.Equal(priorIncome))
		revisionRepo.AssertNotCalled(t, "ApplyDecision", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("short decision notes fail validation", func(t *testing.T) {
		revisionRepo := new(MockRevisionRepository)
		teamDir := new(MockTeamDirectory)
		service := newRevisionService(revisionRepo, new(MockPlanRepository), new(MockAuditRepository), teamDir)

		plan := newActivePlan(t, testOwnerID)
		revision := newPendingRevision(t, plan)

		revisionRepo.On("FindByID", mock.Anything, revision.ID).Return(revision, nil)
		teamDir.On("IsManagerOf", mock.Anything, testManagerID, testOwnerID).Return(true, nil)

		_, err := service.Decide(context.Background(), testManagerID, revision.ID, DecideRevisionRequest{
			Decision:      DecisionApproved,
			DecisionNotes: "ok",
		})

		require.Error(t, err)
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, planning.RevisionStatusPending, revision.Status)
	})

	t.Run("non-manager is forbidden", func(t *testing.T) {
		revisionRepo := new(MockRevisionRepository)
		teamDir := new(MockTeamDirectory)
		service := newRevisionService(revisionRepo, new(MockPlanRepository), new(MockAuditRepository), teamDir)

		plan := newActivePlan(t, testOwnerID)
		revision := newPendingRevision(t, plan)
		stranger := uuid.New()

		revisionRepo.On("FindByID", mock.Anything, revision.ID).Return(revision, nil)
		teamDir.On("IsManagerOf", mock.Anything, stranger, testOwnerID).Return(false, nil)

		_, err := service.Decide(context.Background(), stranger, revision.ID, approveReq)

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

// ============================================
// Query Tests
// ============================================

func TestRevisionService_ListPendingForManager(t *testing.T) {
	t.Run("returns the team review queue", func(t *testing.T) {
		revisionRepo := new(MockRevisionRepository)
		teamDir := new(MockTeamDirectory)
		service := newRevisionService(revisionRepo, new(MockPlanRepository), new(MockAuditRepository), teamDir)

		plan := newActivePlan(t, testOwnerID)
		revision := newPendingRevision(t, plan)
		team := []uuid.UUID{testOwnerID}

		teamDir.On("TeamOf", mock.Anything, testManagerID).Return(team, nil)
		revisionRepo.On("FindPendingByOwners", mock.Anything, team, mock.Anything).Return([]planning.PlanRevision{*revision}, nil)
		revisionRepo.On("CountPendingByOwners", mock.Anything, team).Return(int64(1), nil)

		resp, total, err := service.ListPendingForManager(context.Background(), testManagerID, RevisionListFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, resp, 1)
		assert.Equal(t, "PENDING", resp[0].Status)
	})

	t.Run("manager with no team sees an empty queue", func(t *testing.T) {
		revisionRepo := new(MockRevisionRepository)
		teamDir := new(MockTeamDirectory)
		service := newRevisionService(revisionRepo, new(MockPlanRepository), new(MockAuditRepository), teamDir)

		teamDir.On("TeamOf", mock.Anything, testManagerID).Return([]uuid.UUID{}, nil)

		resp, total, err := service.ListPendingForManager(context.Background(), testManagerID, RevisionListFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, resp)
		revisionRepo.AssertNotCalled(t, "FindPendingByOwners", mock.Anything, mock.Anything, mock.Anything)
	})
}
