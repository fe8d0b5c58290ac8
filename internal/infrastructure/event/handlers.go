package event

import (
	"context"

	"github.com/planware/backend/internal/domain/planning"
	"github.com/planware/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PlanActivityLogger logs every planning lifecycle event. It gives
// operators a structured activity feed without touching the audit
// trail, which lives in the database and is append-only.
type PlanActivityLogger struct {
	logger *zap.Logger
}

// NewPlanActivityLogger creates a new PlanActivityLogger
func NewPlanActivityLogger(logger *zap.Logger) *PlanActivityLogger {
	return &PlanActivityLogger{logger: logger.Named("plan-activity")}
}

// Handle logs the event
func (h *PlanActivityLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("planning event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("owner_id", event.OwnerID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns the planning lifecycle events this handler follows
func (h *PlanActivityLogger) EventTypes() []string {
	return []string{
		planning.EventTypePlanCreated,
		planning.EventTypePlanActivated,
		planning.EventTypePlanDemoted,
		planning.EventTypePlanArchived,
		planning.EventTypeRevisionRequested,
		planning.EventTypeRevisionApproved,
		planning.EventTypeRevisionRejected,
	}
}

// Ensure PlanActivityLogger implements EventHandler
var _ shared.EventHandler = (*PlanActivityLogger)(nil)
