package planning

import (
	"time"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/planning"
	"github.com/shopspring/decimal"
)

// ==================== Plan DTOs ====================

// PlanInputsInput carries the full input set for plan creation
type PlanInputsInput struct {
	IncomeGoal                  decimal.Decimal `json:"income_goal" binding:"required"`
	PurchaseBps                 int             `json:"purchase_bps" binding:"min=0"`
	RefinanceBps                int             `json:"refinance_bps" binding:"min=0"`
	PurchasePercentage          decimal.Decimal `json:"purchase_percentage"`
	AvgLoanAmount               decimal.Decimal `json:"avg_loan_amount" binding:"required"`
	PullThroughPurchase         decimal.Decimal `json:"pull_through_purchase" binding:"required"`
	PullThroughRefinance        decimal.Decimal `json:"pull_through_refinance" binding:"required"`
	ConversionRatePurchase      decimal.Decimal `json:"conversion_rate_purchase" binding:"required"`
	ConversionRateRefinance     decimal.Decimal `json:"conversion_rate_refinance" binding:"required"`
	LeadsFromPartnersPercentage decimal.Decimal `json:"leads_from_partners_percentage"`
	LeadsPerPartnerPerMonth     decimal.Decimal `json:"leads_per_partner_per_month" binding:"required"`
}

// ToDomain converts the input DTO to domain PlanInputs
func (in PlanInputsInput) ToDomain() planning.PlanInputs {
	return planning.PlanInputs{
		IncomeGoal:                  in.IncomeGoal,
		PurchaseBps:                 in.PurchaseBps,
		RefinanceBps:                in.RefinanceBps,
		PurchasePercentage:          in.PurchasePercentage,
		AvgLoanAmount:               in.AvgLoanAmount,
		PullThroughPurchase:         in.PullThroughPurchase,
		PullThroughRefinance:        in.PullThroughRefinance,
		ConversionRatePurchase:      in.ConversionRatePurchase,
		ConversionRateRefinance:     in.ConversionRateRefinance,
		LeadsFromPartnersPercentage: in.LeadsFromPartnersPercentage,
		LeadsPerPartnerPerMonth:     in.LeadsPerPartnerPerMonth,
	}
}

// CreatePlanRequest represents a request to create a draft plan
type CreatePlanRequest struct {
	PlanYear int             `json:"plan_year" binding:"required,min=2000,max=2200"`
	Inputs   PlanInputsInput `json:"inputs" binding:"required"`
}

// PlanResponse represents a business plan in API responses
type PlanResponse struct {
	ID          uuid.UUID           `json:"id"`
	OwnerID     uuid.UUID           `json:"owner_id"`
	PlanYear    int                 `json:"plan_year"`
	Status      string              `json:"status"`
	Inputs      planning.PlanInputs `json:"inputs"`
	Version     int                 `json:"version"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	ActivatedAt *time.Time          `json:"activated_at,omitempty"`
	ArchivedAt  *time.Time          `json:"archived_at,omitempty"`
}

// ToPlanResponse converts a domain plan to a response DTO
func ToPlanResponse(plan *planning.BusinessPlan) PlanResponse {
	return PlanResponse{
		ID:          plan.ID,
		OwnerID:     plan.OwnerID,
		PlanYear:    plan.PlanYear,
		Status:      plan.Status.String(),
		Inputs:      plan.Inputs,
		Version:     plan.Version,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
		ActivatedAt: plan.ActivatedAt,
		ArchivedAt:  plan.ArchivedAt,
	}
}

// ToPlanResponses converts a slice of domain plans to response DTOs
func ToPlanResponses(plans []planning.BusinessPlan) []PlanResponse {
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = ToPlanResponse(&plans[i])
	}
	return responses
}

// GoalsResponse carries the derived funnel for a plan. The figures are
// recomputed from the plan's live inputs on every request.
type GoalsResponse struct {
	PlanID   uuid.UUID                `json:"plan_id"`
	PlanYear int                      `json:"plan_year"`
	Status   string                   `json:"status"`
	Goals    planning.CalculatedGoals `json:"goals"`
}

// PlanListFilter represents filtering options for plan lists
type PlanListFilter struct {
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
	OrderBy  string  `form:"order_by"`
	OrderDir string  `form:"order_dir"`
	PlanYear *int    `form:"plan_year"`
	Status   *string `form:"status"`
}

// ==================== Revision DTOs ====================

// RequestRevisionRequest represents a producer's proposal to change
// one input field of an active plan
type RequestRevisionRequest struct {
	Field          string `json:"field" binding:"required"`
	RequestedValue string `json:"requested_value" binding:"required"`
	Justification  string `json:"justification" binding:"required"`
}

// DecideRevisionRequest represents a manager's decision on a revision
type DecideRevisionRequest struct {
	Decision      string `json:"decision" binding:"required,oneof=approved rejected"`
	DecisionNotes string `json:"decision_notes" binding:"required"`
}

// RevisionResponse represents a plan revision in API responses
type RevisionResponse struct {
	ID             uuid.UUID  `json:"id"`
	PlanID         uuid.UUID  `json:"plan_id"`
	OwnerID        uuid.UUID  `json:"owner_id"`
	RequestedBy    uuid.UUID  `json:"requested_by"`
	Field          string     `json:"field"`
	CurrentValue   string     `json:"current_value"`
	RequestedValue string     `json:"requested_value"`
	Justification  string     `json:"justification"`
	Status         string     `json:"status"`
	RequestedAt    time.Time  `json:"requested_at"`
	DecidedBy      *uuid.UUID `json:"decided_by,omitempty"`
	DecisionNotes  string     `json:"decision_notes,omitempty"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
}

// ToRevisionResponse converts a domain revision to a response DTO
func ToRevisionResponse(revision *planning.PlanRevision) RevisionResponse {
	return RevisionResponse{
		ID:             revision.ID,
		PlanID:         revision.PlanID,
		OwnerID:        revision.OwnerID,
		RequestedBy:    revision.RequestedBy,
		Field:          revision.Field.String(),
		CurrentValue:   revision.CurrentValue,
		RequestedValue: revision.RequestedValue,
		Justification:  revision.Justification,
		Status:         revision.Status.String(),
		RequestedAt:    revision.CreatedAt,
		DecidedBy:      revision.DecidedBy,
		DecisionNotes:  revision.DecisionNotes,
		DecidedAt:      revision.DecidedAt,
	}
}

// ToRevisionResponses converts a slice of domain revisions to response DTOs
func ToRevisionResponses(revisions []planning.PlanRevision) []RevisionResponse {
	responses := make([]RevisionResponse, len(revisions))
	for i := range revisions {
		responses[i] = ToRevisionResponse(&revisions[i])
	}
	return responses
}

// RevisionListFilter represents filtering options for revision lists
type RevisionListFilter struct {
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
	OrderBy  string  `form:"order_by"`
	OrderDir string  `form:"order_dir"`
	Status   *string `form:"status"`
}

// ==================== Audit DTOs ====================

// AuditEntryResponse represents one audit trail record
type AuditEntryResponse struct {
	ID            uuid.UUID `json:"id"`
	PlanID        uuid.UUID `json:"plan_id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Action        string    `json:"action"`
	ActorID       uuid.UUID `json:"actor_id"`
	Timestamp     time.Time `json:"timestamp"`
	Details       string    `json:"details"`
	Justification string    `json:"justification,omitempty"`
	DecisionNotes string    `json:"decision_notes,omitempty"`
}

// ToAuditEntryResponse converts a domain audit entry to a response DTO
func ToAuditEntryResponse(entry *planning.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:            entry.ID,
		PlanID:        entry.PlanID,
		OwnerID:       entry.OwnerID,
		Action:        entry.Action.String(),
		ActorID:       entry.ActorID,
		Timestamp:     entry.Timestamp,
		Details:       entry.Details,
		Justification: entry.Justification,
		DecisionNotes: entry.DecisionNotes,
	}
}

// ToAuditEntryResponses converts a slice of audit entries to response DTOs
func ToAuditEntryResponses(entries []planning.AuditEntry) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToAuditEntryResponse(&entries[i])
	}
	return responses
}

// AuditListFilter represents filtering options for audit trail queries
type AuditListFilter struct {
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
	Action   *string `form:"action"`
}
