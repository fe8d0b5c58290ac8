package planning

import (
	"context"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/shared"
)

// PlanRepository defines the interface for business plan persistence
type PlanRepository interface {
	// FindByID finds a plan by ID
	FindByID(ctx context.Context, id uuid.UUID) (*BusinessPlan, error)

	// FindByIDForOwner finds a plan by ID scoped to its owner
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*BusinessPlan, error)

	// FindByOwnerAndYear finds all plans for an owner and plan year
	FindByOwnerAndYear(ctx context.Context, ownerID uuid.UUID, planYear int, filter shared.Filter) ([]BusinessPlan, error)

	// FindAllForOwner finds all plans for an owner with filtering
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]BusinessPlan, error)

	// FindActiveByOwnerAndYear finds the single active plan for an owner
	// and year, or a not-found error if none is active
	FindActiveByOwnerAndYear(ctx context.Context, ownerID uuid.UUID, planYear int) (*BusinessPlan, error)

	// Save creates or updates a plan
	Save(ctx context.Context, plan *BusinessPlan) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, plan *BusinessPlan) error

	// ActivateExclusively promotes the plan and demotes any currently
	// active plan for the same owner and year in one transaction. Both
	// writes carry version preconditions; losing either race returns a
	// concurrency conflict and no state change.
	ActivateExclusively(ctx context.Context, plan *BusinessPlan, demoted *BusinessPlan) error

	// CountForOwner counts plans for an owner with optional filters
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)
}

// RevisionRepository defines the interface for plan revision persistence
type RevisionRepository interface {
	// FindByID finds a revision by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PlanRevision, error)

	// FindByPlan finds all revisions for a plan
	FindByPlan(ctx context.Context, planID uuid.UUID, filter shared.Filter) ([]PlanRevision, error)

	// FindPendingByOwners finds pending revisions across a set of plan
	// owners, used for a manager's team review queue
	FindPendingByOwners(ctx context.Context, ownerIDs []uuid.UUID, filter shared.Filter) ([]PlanRevision, error)

	// ExistsPendingForField reports whether a pending revision already
	// targets the given field of the given plan
	ExistsPendingForField(ctx context.Context, planID uuid.UUID, field InputField) (bool, error)

	// Save creates or updates a revision
	Save(ctx context.Context, revision *PlanRevision) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, revision *PlanRevision) error

	// ApplyDecision commits an approval or rejection atomically: the
	// revision status flip, the plan input replacement (approval only,
	// plan may be nil on rejection), and the audit entry either all
	// commit or none do.
	ApplyDecision(ctx context.Context, revision *PlanRevision, plan *BusinessPlan, entry *AuditEntry) error

	// CountPendingByOwners counts pending revisions across plan owners
	CountPendingByOwners(ctx context.Context, ownerIDs []uuid.UUID) (int64, error)
}

// AuditRepository defines the interface for the append-only audit trail.
// There is deliberately no update or delete.
type AuditRepository interface {
	// Append adds an entry to the trail
	Append(ctx context.Context, entry *AuditEntry) error

	// FindByPlan finds entries for a plan ordered by timestamp
	FindByPlan(ctx context.Context, planID uuid.UUID, filter shared.Filter) ([]AuditEntry, error)

	// FindByOwner finds entries across all of an owner's plans
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]AuditEntry, error)

	// CountByPlan counts entries for a plan
	CountByPlan(ctx context.Context, planID uuid.UUID) (int64, error)
}

// TeamDirectory resolves manager/producer reporting lines. It is
// implemented by the identity infrastructure; the workflow only needs
// to know whether a manager may decide for a producer and which
// producers report to a manager.
type TeamDirectory interface {
	// IsManagerOf reports whether managerID manages producerID
	IsManagerOf(ctx context.Context, managerID, producerID uuid.UUID) (bool, error)

	// TeamOf returns the producer IDs reporting to a manager
	TeamOf(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error)
}
