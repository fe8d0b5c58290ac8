package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/planning"
	"github.com/planware/backend/internal/domain/shared"
)

// PlanModel is the persistence model for the BusinessPlan aggregate root.
// Inputs are stored as a single jsonb document so that adding an input
// field never requires a column migration.
type PlanModel struct {
	OwnedAggregateModel
	PlanYear    int                 `gorm:"not null;index:idx_business_plans_owner_year,priority:2"`
	Inputs      string              `gorm:"type:jsonb;not null"`
	Status      planning.PlanStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ActivatedAt *time.Time          `gorm:"index"`
	ArchivedAt  *time.Time
}

// TableName returns the table name for GORM
func (PlanModel) TableName() string {
	return "business_plans"
}

// ToDomain converts the persistence model to a domain BusinessPlan.
func (m *PlanModel) ToDomain() (*planning.BusinessPlan, error) {
	var inputs planning.PlanInputs
	if err := json.Unmarshal([]byte(m.Inputs), &inputs); err != nil {
		return nil, fmt.Errorf("failed to parse plan inputs for plan %s: %w", m.ID, err)
	}

	plan := &planning.BusinessPlan{
		PlanYear:    m.PlanYear,
		Inputs:      inputs,
		Status:      m.Status,
		ActivatedAt: m.ActivatedAt,
		ArchivedAt:  m.ArchivedAt,
	}
	m.PopulateOwnedAggregateRoot(&plan.OwnedAggregateRoot)
	return plan, nil
}

// FromDomain populates the persistence model from a domain BusinessPlan.
func (m *PlanModel) FromDomain(p *planning.BusinessPlan) error {
	raw, err := json.Marshal(p.Inputs)
	if err != nil {
		return fmt.Errorf("failed to serialize plan inputs for plan %s: %w", p.ID, err)
	}

	m.FromDomainOwnedAggregateRoot(p.OwnedAggregateRoot)
	m.PlanYear = p.PlanYear
	m.Inputs = string(raw)
	m.Status = p.Status
	m.ActivatedAt = p.ActivatedAt
	m.ArchivedAt = p.ArchivedAt
	return nil
}

// PlanModelFromDomain creates a new persistence model from a domain BusinessPlan.
func PlanModelFromDomain(p *planning.BusinessPlan) (*PlanModel, error) {
	m := &PlanModel{}
	if err := m.FromDomain(p); err != nil {
		return nil, err
	}
	return m, nil
}

// RevisionModel is the persistence model for the PlanRevision aggregate root.
type RevisionModel struct {
	OwnedAggregateModel
	PlanID         uuid.UUID               `gorm:"type:uuid;not null;index:idx_plan_revisions_plan_status,priority:1"`
	RequestedBy    uuid.UUID               `gorm:"type:uuid;not null;index"`
	Field          planning.InputField     `gorm:"type:varchar(50);not null"`
	CurrentValue   string                  `gorm:"type:varchar(50);not null"`
	RequestedValue string                  `gorm:"type:varchar(50);not null"`
	Justification  string                  `gorm:"type:text;not null"`
	Status         planning.RevisionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_plan_revisions_plan_status,priority:2"`
	DecidedBy      *uuid.UUID              `gorm:"type:uuid"`
	DecisionNotes  string                  `gorm:"type:text"`
	DecidedAt      *time.Time
}

// TableName returns the table name for GORM
func (RevisionModel) TableName() string {
	return "plan_revisions"
}

// ToDomain converts the persistence model to a domain PlanRevision.
func (m *RevisionModel) ToDomain() *planning.PlanRevision {
	revision := &planning.PlanRevision{
		PlanID:         m.PlanID,
		RequestedBy:    m.RequestedBy,
		Field:          m.Field,
		CurrentValue:   m.CurrentValue,
		RequestedValue: m.RequestedValue,
		Justification:  m.Justification,
		Status:         m.Status,
		DecidedBy:      m.DecidedBy,
		DecisionNotes:  m.DecisionNotes,
		DecidedAt:      m.DecidedAt,
	}
	m.PopulateOwnedAggregateRoot(&revision.OwnedAggregateRoot)
	return revision
}

// FromDomain populates the persistence model from a domain PlanRevision.
func (m *RevisionModel) FromDomain(r *planning.PlanRevision) {
	m.FromDomainOwnedAggregateRoot(r.OwnedAggregateRoot)
	m.PlanID = r.PlanID
	m.RequestedBy = r.RequestedBy
	m.Field = r.Field
	m.CurrentValue = r.CurrentValue
	m.RequestedValue = r.RequestedValue
	m.Justification = r.Justification
	m.Status = r.Status
	m.DecidedBy = r.DecidedBy
	m.DecisionNotes = r.DecisionNotes
	m.DecidedAt = r.DecidedAt
}

// RevisionModelFromDomain creates a new persistence model from a domain PlanRevision.
func RevisionModelFromDomain(r *planning.PlanRevision) *RevisionModel {
	m := &RevisionModel{}
	m.FromDomain(r)
	return m
}

// AuditEntryModel is the persistence model for audit trail entries.
// Rows are insert-only; there is no update path through the repository.
type AuditEntryModel struct {
	BaseModel
	PlanID        uuid.UUID            `gorm:"type:uuid;not null;index:idx_audit_entries_plan_ts,priority:1"`
	OwnerID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	Action        planning.AuditAction `gorm:"type:varchar(20);not null"`
	ActorID       uuid.UUID            `gorm:"type:uuid;not null"`
	Timestamp     time.Time            `gorm:"not null;index:idx_audit_entries_plan_ts,priority:2"`
	Details       string               `gorm:"type:text;not null"`
	Justification string               `gorm:"type:text"`
	DecisionNotes string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

// ToDomain converts the persistence model to a domain AuditEntry.
func (m *AuditEntryModel) ToDomain() *planning.AuditEntry {
	return &planning.AuditEntry{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		PlanID:        m.PlanID,
		OwnerID:       m.OwnerID,
		Action:        m.Action,
		ActorID:       m.ActorID,
		Timestamp:     m.Timestamp,
		Details:       m.Details,
		Justification: m.Justification,
		DecisionNotes: m.DecisionNotes,
	}
}

// FromDomain populates the persistence model from a domain AuditEntry.
func (m *AuditEntryModel) FromDomain(e *planning.AuditEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.PlanID = e.PlanID
	m.OwnerID = e.OwnerID
	m.Action = e.Action
	m.ActorID = e.ActorID
	m.Timestamp = e.Timestamp
	m.Details = e.Details
	m.Justification = e.Justification
	m.DecisionNotes = e.DecisionNotes
}

// AuditEntryModelFromDomain creates a new persistence model from a domain AuditEntry.
func AuditEntryModelFromDomain(e *planning.AuditEntry) *AuditEntryModel {
	m := &AuditEntryModel{}
	m.FromDomain(e)
	return m
}

// TeamMemberModel records one reporting line: a producer reporting to a
// manager. The pair is unique.
type TeamMemberModel struct {
	BaseModel
	ManagerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_team_members_pair,priority:1"`
	ProducerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_team_members_pair,priority:2;index"`
}

// TableName returns the table name for GORM
func (TeamMemberModel) TableName() string {
	return "team_members"
}
