package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/planning"
	"github.com/planware/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockRevisionRepository(t *testing.T) (*GormRevisionRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormRevisionRepository(gormDB), mock, mockDB
}

func mustPendingRevision(t *testing.T, plan *planning.BusinessPlan) *planning.PlanRevision {
	t.Helper()

	revision, err := planning.NewPlanRevision(plan, plan.OwnerID, planning.FieldIncomeGoal, "300000",
		"Pipeline grew faster than the original target assumed")
	require.NoError(t, err)
	revision.ClearDomainEvents()
	return revision
}

func TestGormRevisionRepository_ExistsPendingForField(t *testing.T) {
	t.Run("reports an existing pending revision", func(t *testing.T) {
		repo, mock, mockDB := newMockRevisionRepository(t)
		defer mockDB.Close()

		planID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "plan_revisions" WHERE plan_id = \$1 AND field = \$2 AND status = \$3`).
			WithArgs(planID, "income_goal", "PENDING").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsPendingForField(context.Background(), planID, planning.FieldIncomeGoal)

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports no pending revision", func(t *testing.T) {
		repo, mock, mockDB := newMockRevisionRepository(t)
		defer mockDB.Close()

		planID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "plan_revisions" WHERE plan_id = \$1 AND field = \$2 AND status = \$3`).
			WithArgs(planID, "income_goal", "PENDING").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsPendingForField(context.Background(), planID, planning.FieldIncomeGoal)

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormRevisionRepository_ApplyDecision(t *testing.T) {
	t.Run("approval writes revision, plan and audit entry in one transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockRevisionRepository(t)
		defer mockDB.Close()

		plan := mustTestPlan(t)
		require.NoError(t, plan.Activate())
		plan.ClearDomainEvents()

		revision := mustPendingRevision(t, plan)
		managerID := uuid.New()
		require.NoError(t, revision.Approve(managerID, "Approved, growth is well supported"))
		require.NoError(t, plan.ApplyRevision(revision.Field, revision.RequestedValue))
		entry := planning.NewRevisionApprovedAudit(revision)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "plan_revisions" SET .* WHERE id = \$\d+ AND version = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "business_plans" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "audit_entries"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.ApplyDecision(context.Background(), revision, plan, entry)

		assert.NoError(t, err)
		assert.Equal(t, 2, revision.Version)
		assert.Equal(t, 2, plan.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejection never touches the plan row", func(t *testing.T) {
		repo, mock, mockDB := newMockRevisionRepository(t)
		defer mockDB.Close()

		plan := mustTestPlan(t)
		require.NoError(t, plan.Activate())
		plan.ClearDomainEvents()

		revision := mustPendingRevision(t, plan)
		managerID := uuid.New()
		require.NoError(t, revision.Reject(managerID, "Too aggressive for the current pipeline"))
		entry := planning.NewRevisionRejectedAudit(revision)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "plan_revisions" SET .* WHERE id = \$\d+ AND version = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "audit_entries"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.ApplyDecision(context.Background(), revision, nil, entry)

		assert.NoError(t, err)
		assert.Equal(t, 2, revision.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the revision was already decided", func(t *testing.T) {
		repo, mock, mockDB := newMockRevisionRepository(t)
		defer mockDB.Close()

		plan := mustTestPlan(t)
		require.NoError(t, plan.Activate())
		plan.ClearDomainEvents()

		revision := mustPendingRevision(t, plan)
		managerID := uuid.New()
		require.NoError(t, revision.Approve(managerID, "Approved, growth is well supported"))
		require.NoError(t, plan.ApplyRevision(revision.Field, revision.RequestedValue))
		entry := planning.NewRevisionApprovedAudit(revision)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "plan_revisions" SET .* WHERE id = \$\d+ AND version = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.ApplyDecision(context.Background(), revision, plan, entry)

		assert.True(t, shared.IsConcurrencyConflict(err))
		assert.Equal(t, 1, revision.Version)
		assert.Equal(t, 1, plan.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
