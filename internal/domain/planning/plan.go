package planning

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/shared"
)

// PlanStatus represents the lifecycle status of a business plan
type PlanStatus string

const (
	PlanStatusDraft    PlanStatus = "DRAFT"
	PlanStatusActive   PlanStatus = "ACTIVE"
	PlanStatusRevised  PlanStatus = "REVISED"
	PlanStatusArchived PlanStatus = "ARCHIVED"
)

// IsValid checks if the status is a valid PlanStatus
func (s PlanStatus) IsValid() bool {
	switch s {
	case PlanStatusDraft, PlanStatusActive, PlanStatusRevised, PlanStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of PlanStatus
func (s PlanStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PlanStatus) CanTransitionTo(target PlanStatus) bool {
	switch s {
	case PlanStatusDraft:
		return target == PlanStatusActive || target == PlanStatusArchived
	case PlanStatusActive:
		return target == PlanStatusRevised
	case PlanStatusRevised, PlanStatusArchived:
		return false // Terminal states
	}
	return false
}

// BusinessPlan is the aggregate root for a producer's annual plan.
// Only the input set is owned state; every derived goal is recomputed
// from the inputs on read. For a given owner and plan year at most one
// plan may be ACTIVE at a time; promoting a new plan demotes the
// previous one to REVISED in the same transaction.
type BusinessPlan struct {
	shared.OwnedAggregateRoot
	PlanYear    int
	Inputs      PlanInputs
	Status      PlanStatus
	ActivatedAt *time.Time
	ArchivedAt  *time.Time
}

// NewBusinessPlan creates a new plan in DRAFT state after validating
// every input field against its domain range
func NewBusinessPlan(ownerID uuid.UUID, planYear int, inputs PlanInputs) (*BusinessPlan, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if planYear < 2000 || planYear > 2200 {
		return nil, shared.NewDomainError("INVALID_PLAN_YEAR", fmt.Sprintf("Plan year %d is out of range", planYear))
	}
	if err := inputs.Validate(); err != nil {
		return nil, err
	}

	plan := &BusinessPlan{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		PlanYear:           planYear,
		Inputs:             inputs,
		Status:             PlanStatusDraft,
	}

	plan.AddDomainEvent(NewPlanCreatedEvent(plan))
	return plan, nil
}

// IsDraft returns true if the plan is in DRAFT state
func (p *BusinessPlan) IsDraft() bool {
	return p.Status == PlanStatusDraft
}

// IsActive returns true if the plan is the authoritative plan for its
// owner and year
func (p *BusinessPlan) IsActive() bool {
	return p.Status == PlanStatusActive
}

// Activate promotes a draft plan to ACTIVE. Demoting any previously
// active plan for the same owner and year is the repository's job and
// must commit atomically with this promotion.
func (p *BusinessPlan) Activate() error {
	if p.Status != PlanStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot activate plan in %s state, must be DRAFT", p.Status))
	}

	now := time.Now()
	p.Status = PlanStatusActive
	p.ActivatedAt = &now
	p.UpdatedAt = now

	p.AddDomainEvent(NewPlanActivatedEvent(p))
	return nil
}

// Demote moves an active plan to terminal REVISED state when a newer
// plan takes its place. A revised plan is never reactivated.
func (p *BusinessPlan) Demote() error {
	if p.Status != PlanStatusActive {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot demote plan in %s state, must be ACTIVE", p.Status))
	}

	p.Status = PlanStatusRevised
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewPlanDemotedEvent(p))
	return nil
}

// Archive abandons a draft plan
func (p *BusinessPlan) Archive() error {
	if p.Status != PlanStatusDraft {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot archive plan in %s state, must be DRAFT", p.Status))
	}

	now := time.Now()
	p.Status = PlanStatusArchived
	p.ArchivedAt = &now
	p.UpdatedAt = now

	p.AddDomainEvent(NewPlanArchivedEvent(p))
	return nil
}

// ApplyRevision replaces the single named input field with the
// approved value. Only an ACTIVE plan can receive revisions. The plan
// keeps its identity; the input snapshot changes wholesale.
func (p *BusinessPlan) ApplyRevision(field InputField, value string) error {
	if p.Status != PlanStatusActive {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot revise plan in %s state, must be ACTIVE", p.Status))
	}

	next, err := p.Inputs.WithValue(field, value)
	if err != nil {
		return err
	}

	p.Inputs = next
	p.UpdatedAt = time.Now()
	return nil
}

// Goals computes the derived funnel from the plan's current inputs
func (p *BusinessPlan) Goals() CalculatedGoals {
	return CalculateGoals(p.Inputs)
}
