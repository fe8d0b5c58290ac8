package planning

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/shared"
)

// AuditAction classifies an audit trail entry
type AuditAction string

const (
	AuditActionCreated  AuditAction = "CREATED"
	AuditActionRevised  AuditAction = "REVISED"
	AuditActionApproved AuditAction = "APPROVED"
	AuditActionRejected AuditAction = "REJECTED"
)

// IsValid checks if the action is a valid AuditAction
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreated, AuditActionRevised, AuditActionApproved, AuditActionRejected:
		return true
	}
	return false
}

// String returns the string representation of AuditAction
func (a AuditAction) String() string {
	return string(a)
}

// AuditEntry is one record in the append-only plan history. Entries
// are never mutated or deleted; outside the revision records
// themselves this is the only place a field's prior value survives.
type AuditEntry struct {
	shared.BaseEntity
	PlanID        uuid.UUID
	OwnerID       uuid.UUID
	Action        AuditAction
	ActorID       uuid.UUID
	Timestamp     time.Time
	Details       string
	Justification string
	DecisionNotes string
}

func newAuditEntry(planID, ownerID, actorID uuid.UUID, action AuditAction, details string) *AuditEntry {
	return &AuditEntry{
		BaseEntity: shared.NewBaseEntity(),
		PlanID:     planID,
		OwnerID:    ownerID,
		Action:     action,
		ActorID:    actorID,
		Timestamp:  time.Now(),
		Details:    details,
	}
}

// NewPlanCreatedAudit records the creation of a draft plan
func NewPlanCreatedAudit(plan *BusinessPlan) *AuditEntry {
	details := fmt.Sprintf("Business plan created for year %d with income goal %s",
		plan.PlanYear, plan.Inputs.IncomeGoal.StringFixed(2))
	return newAuditEntry(plan.ID, plan.OwnerID, plan.OwnerID, AuditActionCreated, details)
}

// NewRevisionRequestedAudit records a producer's revision request
func NewRevisionRequestedAudit(revision *PlanRevision) *AuditEntry {
	details := fmt.Sprintf("Revision requested: %s from %s to %s",
		revision.Field, revision.CurrentValue, revision.RequestedValue)
	entry := newAuditEntry(revision.PlanID, revision.OwnerID, revision.RequestedBy, AuditActionRevised, details)
	entry.Justification = revision.Justification
	return entry
}

// NewRevisionApprovedAudit records a manager's approval, including
// the prior value the plan held at request time
func NewRevisionApprovedAudit(revision *PlanRevision) *AuditEntry {
	details := fmt.Sprintf("Revision approved: %s changed from %s to %s",
		revision.Field, revision.CurrentValue, revision.RequestedValue)
	var actor uuid.UUID
	if revision.DecidedBy != nil {
		actor = *revision.DecidedBy
	}
	entry := newAuditEntry(revision.PlanID, revision.OwnerID, actor, AuditActionApproved, details)
	entry.Justification = revision.Justification
	entry.DecisionNotes = revision.DecisionNotes
	return entry
}

// NewRevisionRejectedAudit records a manager's rejection
func NewRevisionRejectedAudit(revision *PlanRevision) *AuditEntry {
	details := fmt.Sprintf("Revision rejected: %s would have changed from %s to %s",
		revision.Field, revision.CurrentValue, revision.RequestedValue)
	var actor uuid.UUID
	if revision.DecidedBy != nil {
		actor = *revision.DecidedBy
	}
	entry := newAuditEntry(revision.PlanID, revision.OwnerID, actor, AuditActionRejected, details)
	entry.Justification = revision.Justification
	entry.DecisionNotes = revision.DecisionNotes
	return entry
}
