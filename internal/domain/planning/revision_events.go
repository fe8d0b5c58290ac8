package planning

import (
	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePlanRevision = "PlanRevision"

// Event type constants
const (
	EventTypeRevisionRequested = "PlanRevisionRequested"
	EventTypeRevisionApproved  = "PlanRevisionApproved"
	EventTypeRevisionRejected  = "PlanRevisionRejected"
)

// RevisionRequestedEvent is raised when a producer proposes a
// single-field change to an active plan
type RevisionRequestedEvent struct {
	shared.BaseDomainEvent
	RevisionID     uuid.UUID `json:"revision_id"`
	PlanID         uuid.UUID `json:"plan_id"`
	RequestedBy    uuid.UUID `json:"requested_by"`
	Field          string    `json:"field"`
	CurrentValue   string    `json:"current_value"`
	RequestedValue string    `json:"requested_value"`
}

// NewRevisionRequestedEvent creates a new RevisionRequestedEvent
func NewRevisionRequestedEvent(revision *PlanRevision) *RevisionRequestedEvent {
	return &RevisionRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRevisionRequested, AggregateTypePlanRevision, revision.ID, revision.OwnerID),
		RevisionID:      revision.ID,
		PlanID:          revision.PlanID,
		RequestedBy:     revision.RequestedBy,
		Field:           revision.Field.String(),
		CurrentValue:    revision.CurrentValue,
		RequestedValue:  revision.RequestedValue,
	}
}

// EventType returns the event type name
func (e *RevisionRequestedEvent) EventType() string {
	return EventTypeRevisionRequested
}

// RevisionApprovedEvent is raised when a manager approves a revision
// and the plan's input field is replaced
type RevisionApprovedEvent struct {
	shared.BaseDomainEvent
	RevisionID     uuid.UUID `json:"revision_id"`
	PlanID         uuid.UUID `json:"plan_id"`
	DecidedBy      uuid.UUID `json:"decided_by"`
	Field          string    `json:"field"`
	CurrentValue   string    `json:"current_value"`
	RequestedValue string    `json:"requested_value"`
}

// NewRevisionApprovedEvent creates a new RevisionApprovedEvent
func NewRevisionApprovedEvent(revision *PlanRevision) *RevisionApprovedEvent {
	var decidedBy uuid.UUID
	if revision.DecidedBy != nil {
		decidedBy = *revision.DecidedBy
	}
	return &RevisionApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRevisionApproved, AggregateTypePlanRevision, revision.ID, revision.OwnerID),
		RevisionID:      revision.ID,
		PlanID:          revision.PlanID,
		DecidedBy:       decidedBy,
		Field:           revision.Field.String(),
		CurrentValue:    revision.CurrentValue,
		RequestedValue:  revision.RequestedValue,
	}
}

// EventType returns the event type name
func (e *RevisionApprovedEvent) EventType() string {
	return EventTypeRevisionApproved
}

// RevisionRejectedEvent is raised when a manager rejects a revision
type RevisionRejectedEvent struct {
	shared.BaseDomainEvent
	RevisionID uuid.UUID `json:"revision_id"`
	PlanID     uuid.UUID `json:"plan_id"`
	DecidedBy  uuid.UUID `json:"decided_by"`
	Field      string    `json:"field"`
}

// NewRevisionRejectedEvent creates a new RevisionRejectedEvent
func NewRevisionRejectedEvent(revision *PlanRevision) *RevisionRejectedEvent {
	var decidedBy uuid.UUID
	if revision.DecidedBy != nil {
		decidedBy = *revision.DecidedBy
	}
	return &RevisionRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRevisionRejected, AggregateTypePlanRevision, revision.ID, revision.OwnerID),
		RevisionID:      revision.ID,
		PlanID:          revision.PlanID,
		DecidedBy:       decidedBy,
		Field:           revision.Field.String(),
	}
}

// EventType returns the event type name
func (e *RevisionRejectedEvent) EventType() string {
	return EventTypeRevisionRejected
}
