package planning

import (
	"testing"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestRevision(t *testing.T) *PlanRevision {
	plan := createActivePlan(t)
	revision, err := NewPlanRevision(plan, plan.OwnerID, FieldIncomeGoal, "300000", "market shifted upward this quarter")
	require.NoError(t, err)
	return revision
}

// ============================================
// RevisionStatus Tests
// ============================================

func TestRevisionStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  RevisionStatus
		isValid bool
	}{
		{RevisionStatusPending, true},
		{RevisionStatusApproved, true},
		{RevisionStatusRejected, true},
		{RevisionStatus("INVALID"), false},
		{RevisionStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestRevisionStatus_Transitions(t *testing.T) {
	assert.True(t, RevisionStatusPending.CanTransitionTo(RevisionStatusApproved))
	assert.True(t, RevisionStatusPending.CanTransitionTo(RevisionStatusRejected))
	assert.False(t, RevisionStatusApproved.CanTransitionTo(RevisionStatusRejected))
	assert.False(t, RevisionStatusRejected.CanTransitionTo(RevisionStatusApproved))
	assert.False(t, RevisionStatusApproved.CanTransitionTo(RevisionStatusPending))

	assert.False(t, RevisionStatusPending.IsTerminal())
	assert.True(t, RevisionStatusApproved.IsTerminal())
	assert.True(t, RevisionStatusRejected.IsTerminal())
}

// ============================================
// NewPlanRevision Tests
// ============================================

func TestNewPlanRevision(t *testing.T) {
	t.Run("creates pending revision against active plan", func(t *testing.T) {
		plan := createActivePlan(t)

		revision, err := NewPlanRevision(plan, plan.OwnerID, FieldIncomeGoal, "300000", "stretch goal for the new branch")
		require.NoError(t, err)

		assert.Equal(t, plan.ID, revision.PlanID)
		assert.Equal(t, plan.OwnerID, revision.OwnerID)
		assert.Equal(t, FieldIncomeGoal, revision.Field)
		assert.Equal(t, "250000", revision.CurrentValue, "snapshots the live value at request time")
		assert.Equal(t, "300000", revision.RequestedValue)
		assert.Equal(t, RevisionStatusPending, revision.Status)
		assert.True(t, revision.IsPending())
		assert.Nil(t, revision.DecidedBy)
		assert.Nil(t, revision.DecidedAt)

		events := revision.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeRevisionRequested, events[0].EventType())
	})

	t.Run("rejects draft plan", func(t *testing.T) {
		plan := createTestPlan(t)

		_, err := NewPlanRevision(plan, plan.OwnerID, FieldIncomeGoal, "300000", "not yet active")
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
	})

	t.Run("rejects empty justification", func(t *testing.T) {
		plan := createActivePlan(t)

		_, err := NewPlanRevision(plan, plan.OwnerID, FieldIncomeGoal, "300000", "   ")
		require.Error(t, err)

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		plan := createActivePlan(t)

		_, err := NewPlanRevision(plan, plan.OwnerID, InputField("bogus"), "300000", "typo in field key")
		require.Error(t, err)
	})

	t.Run("rejects out-of-range requested value", func(t *testing.T) {
		plan := createActivePlan(t)

		_, err := NewPlanRevision(plan, plan.OwnerID, FieldPurchasePercentage, "1.5", "we only do purchase now")
		require.Error(t, err)
	})
}

// ============================================
// Decision Tests
// ============================================

func TestPlanRevision_Approve(t *testing.T) {
	t.Run("approves pending revision", func(t *testing.T) {
		revision := createTestRevision(t)
		managerID := uuid.New()

		err := revision.Approve(managerID, "consistent with branch targets")
		require.NoError(t, err)

		assert.Equal(t, RevisionStatusApproved, revision.Status)
		require.NotNil(t, revision.DecidedBy)
		assert.Equal(t, managerID, *revision.DecidedBy)
		require.NotNil(t, revision.DecidedAt)
		assert.Equal(t, "consistent with branch targets", revision.DecisionNotes)
	})

	t.Run("rejects empty decision notes", func(t *testing.T) {
		revision := createTestRevision(t)

		err := revision.Approve(uuid.New(), "")
		require.Error(t, err)
		assert.Equal(t, RevisionStatusPending, revision.Status)
	})
}

func TestPlanRevision_Reject(t *testing.T) {
	revision := createTestRevision(t)
	managerID := uuid.New()

	err := revision.Reject(managerID, "goal is not supported by current pipeline")
	require.NoError(t, err)

	assert.Equal(t, RevisionStatusRejected, revision.Status)
	require.NotNil(t, revision.DecidedAt)
}

func TestPlanRevision_DecisionIsTerminal(t *testing.T) {
	t.Run("second decision fails after approval", func(t *testing.T) {
		revision := createTestRevision(t)
		require.NoError(t, revision.Approve(uuid.New(), "first decision stands"))

		err := revision.Approve(uuid.New(), "second attempt")
		require.Error(t, err)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)

		err = revision.Reject(uuid.New(), "cannot flip a decided revision")
		assert.Error(t, err)
	})

	t.Run("second decision fails after rejection", func(t *testing.T) {
		revision := createTestRevision(t)
		require.NoError(t, revision.Reject(uuid.New(), "not this quarter"))

		assert.Error(t, revision.Approve(uuid.New(), "changed my mind"))
	})
}
