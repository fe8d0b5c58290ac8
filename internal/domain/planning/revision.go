package planning

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/shared"
)

// RevisionStatus represents the status of a plan revision request
type RevisionStatus string

const (
	RevisionStatusPending  RevisionStatus = "PENDING"
	RevisionStatusApproved RevisionStatus = "APPROVED"
	RevisionStatusRejected RevisionStatus = "REJECTED"
)

// IsValid checks if the status is a valid RevisionStatus
func (s RevisionStatus) IsValid() bool {
	switch s {
	case RevisionStatusPending, RevisionStatusApproved, RevisionStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of RevisionStatus
func (s RevisionStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the revision has been decided.
// A decided revision never transitions again; a superseding change
// requires a new request.
func (s RevisionStatus) IsTerminal() bool {
	return s == RevisionStatusApproved || s == RevisionStatusRejected
}

// CanTransitionTo checks if the status can transition to the target status
func (s RevisionStatus) CanTransitionTo(target RevisionStatus) bool {
	if s != RevisionStatusPending {
		return false
	}
	return target == RevisionStatusApproved || target == RevisionStatusRejected
}

// PlanRevision is a producer's proposal to change exactly one input
// field of an active plan. The pre-change value is snapshotted at
// request time so the deciding manager always sees what the producer
// saw. A manager decision is terminal.
type PlanRevision struct {
	shared.OwnedAggregateRoot
	PlanID         uuid.UUID
	RequestedBy    uuid.UUID
	Field          InputField
	CurrentValue   string
	RequestedValue string
	Justification  string
	Status         RevisionStatus
	DecidedBy      *uuid.UUID
	DecisionNotes  string
	DecidedAt      *time.Time
}

// NewPlanRevision creates a pending revision against an active plan.
// The requested value is parsed and range-checked up front so a
// manager never approves a value the plan would then reject.
func NewPlanRevision(plan *BusinessPlan, requestedBy uuid.UUID, field InputField, requestedValue, justification string) (*PlanRevision, error) {
	if requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REQUESTER", "Requester ID cannot be empty")
	}
	if !plan.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot request revision against plan in %s state, must be ACTIVE", plan.Status))
	}
	if !field.IsValid() {
		return nil, shared.NewValidationError().Add("field_to_change", fmt.Sprintf("unknown input field: %s", field))
	}
	if strings.TrimSpace(justification) == "" {
		return nil, shared.NewValidationError().Add("justification", "justification is required")
	}
	if _, err := plan.Inputs.WithValue(field, requestedValue); err != nil {
		return nil, err
	}

	currentValue, err := plan.Inputs.Value(field)
	if err != nil {
		return nil, err
	}

	revision := &PlanRevision{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(plan.OwnerID),
		PlanID:             plan.ID,
		RequestedBy:        requestedBy,
		Field:              field,
		CurrentValue:       currentValue,
		RequestedValue:     requestedValue,
		Justification:      justification,
		Status:             RevisionStatusPending,
	}

	revision.AddDomainEvent(NewRevisionRequestedEvent(revision))
	return revision, nil
}

// IsPending returns true if the revision has not yet been decided
func (r *PlanRevision) IsPending() bool {
	return r.Status == RevisionStatusPending
}

// Approve marks the revision approved. Applying the value to the plan
// is the caller's job and must commit atomically with this flip.
func (r *PlanRevision) Approve(decidedBy uuid.UUID, decisionNotes string) error {
	return r.decide(RevisionStatusApproved, decidedBy, decisionNotes)
}

// Reject marks the revision rejected. The plan is untouched.
func (r *PlanRevision) Reject(decidedBy uuid.UUID, decisionNotes string) error {
	return r.decide(RevisionStatusRejected, decidedBy, decisionNotes)
}

func (r *PlanRevision) decide(target RevisionStatus, decidedBy uuid.UUID, decisionNotes string) error {
	if decidedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_DECIDER", "Decider ID cannot be empty")
	}
	if strings.TrimSpace(decisionNotes) == "" {
		return shared.NewValidationError().Add("decision_notes", "decision notes are required")
	}
	if !r.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot decide revision in %s state, must be PENDING", r.Status))
	}

	now := time.Now()
	r.Status = target
	r.DecidedBy = &decidedBy
	r.DecisionNotes = decisionNotes
	r.DecidedAt = &now
	r.UpdatedAt = now

	if target == RevisionStatusApproved {
		r.AddDomainEvent(NewRevisionApprovedEvent(r))
	} else {
		r.AddDomainEvent(NewRevisionRejectedEvent(r))
	}
	return nil
}
