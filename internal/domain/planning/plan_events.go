package planning

import (
	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeBusinessPlan = "BusinessPlan"

// Event type constants
const (
	EventTypePlanCreated   = "BusinessPlanCreated"
	EventTypePlanActivated = "BusinessPlanActivated"
	EventTypePlanDemoted   = "BusinessPlanDemoted"
	EventTypePlanArchived  = "BusinessPlanArchived"
)

// PlanCreatedEvent is raised when a new draft plan is created
type PlanCreatedEvent struct {
	shared.BaseDomainEvent
	PlanID   uuid.UUID `json:"plan_id"`
	PlanYear int       `json:"plan_year"`
}

// NewPlanCreatedEvent creates a new PlanCreatedEvent
func NewPlanCreatedEvent(plan *BusinessPlan) *PlanCreatedEvent {
	return &PlanCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlanCreated, AggregateTypeBusinessPlan, plan.ID, plan.OwnerID),
		PlanID:          plan.ID,
		PlanYear:        plan.PlanYear,
	}
}

// EventType returns the event type name
func (e *PlanCreatedEvent) EventType() string {
	return EventTypePlanCreated
}

// PlanActivatedEvent is raised when a draft plan becomes the
// authoritative plan for its owner and year
type PlanActivatedEvent struct {
	shared.BaseDomainEvent
	PlanID   uuid.UUID `json:"plan_id"`
	PlanYear int       `json:"plan_year"`
}

// NewPlanActivatedEvent creates a new PlanActivatedEvent
func NewPlanActivatedEvent(plan *BusinessPlan) *PlanActivatedEvent {
	return &PlanActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlanActivated, AggregateTypeBusinessPlan, plan.ID, plan.OwnerID),
		PlanID:          plan.ID,
		PlanYear:        plan.PlanYear,
	}
}

// EventType returns the event type name
func (e *PlanActivatedEvent) EventType() string {
	return EventTypePlanActivated
}

// PlanDemotedEvent is raised when an active plan is replaced by a
// newer one and moves to terminal REVISED state
type PlanDemotedEvent struct {
	shared.BaseDomainEvent
	PlanID   uuid.UUID `json:"plan_id"`
	PlanYear int       `json:"plan_year"`
}

// NewPlanDemotedEvent creates a new PlanDemotedEvent
func NewPlanDemotedEvent(plan *BusinessPlan) *PlanDemotedEvent {
	return &PlanDemotedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlanDemoted, AggregateTypeBusinessPlan, plan.ID, plan.OwnerID),
		PlanID:          plan.ID,
		PlanYear:        plan.PlanYear,
	}
}

// EventType returns the event type name
func (e *PlanDemotedEvent) EventType() string {
	return EventTypePlanDemoted
}

// PlanArchivedEvent is raised when a draft plan is abandoned
type PlanArchivedEvent struct {
	shared.BaseDomainEvent
	PlanID   uuid.UUID `json:"plan_id"`
	PlanYear int       `json:"plan_year"`
}

// NewPlanArchivedEvent creates a new PlanArchivedEvent
func NewPlanArchivedEvent(plan *BusinessPlan) *PlanArchivedEvent {
	return &PlanArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlanArchived, AggregateTypeBusinessPlan, plan.ID, plan.OwnerID),
		PlanID:          plan.ID,
		PlanYear:        plan.PlanYear,
	}
}

// EventType returns the event type name
func (e *PlanArchivedEvent) EventType() string {
	return EventTypePlanArchived
}
