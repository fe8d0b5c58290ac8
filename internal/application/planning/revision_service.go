package planning

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/planning"
	"github.com/planware/backend/internal/domain/shared"
)

// Decision values accepted by the revision workflow
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// RevisionPolicy holds the configurable accountability floors for the
// workflow. The exact thresholds are business parameters, not contract.
type RevisionPolicy struct {
	MinJustificationChars int
	MinDecisionNotesChars int
}

// DefaultRevisionPolicy returns the standard policy floors
func DefaultRevisionPolicy() RevisionPolicy {
	return RevisionPolicy{
		MinJustificationChars: 10,
		MinDecisionNotesChars: 10,
	}
}

// RevisionService handles the revision request and approval workflow
type RevisionService struct {
	revisionRepo   planning.RevisionRepository
	planRepo       planning.PlanRepository
	auditRepo      planning.AuditRepository
	teamDir        planning.TeamDirectory
	policy         RevisionPolicy
	eventPublisher shared.EventPublisher
}

// NewRevisionService creates a new RevisionService
func NewRevisionService(
	revisionRepo planning.RevisionRepository,
	planRepo planning.PlanRepository,
	auditRepo planning.AuditRepository,
	teamDir planning.TeamDirectory,
	policy RevisionPolicy,
) *RevisionService {
	return &RevisionService{
		revisionRepo: revisionRepo,
		planRepo:     planRepo,
		auditRepo:    auditRepo,
		teamDir:      teamDir,
		policy:       policy,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *RevisionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Request creates a pending revision proposing a single-field change
// to the caller's active plan. At most one pending revision may target
// a given field of a plan; a second request for the same field fails
// with a conflict until the first is decided.
func (s *RevisionService) Request(ctx context.Context, requesterID, planID uuid.UUID, req RequestRevisionRequest) (*RevisionResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.IsOwnedBy(requesterID) {
		// non-owners don't learn the plan exists
		return nil, shared.ErrNotFound
	}

	if len(strings.TrimSpace(req.Justification)) < s.policy.MinJustificationChars {
		return nil, shared.NewValidationError().Add("justification",
			fmt.Sprintf("justification must be at least %d characters", s.policy.MinJustificationChars))
	}

	field := planning.InputField(req.Field)
	pending, err := s.revisionRepo.ExistsPendingForField(ctx, planID, field)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, shared.NewDomainError("CONCURRENCY_CONFLICT",
			fmt.Sprintf("A pending revision already targets %s on this plan", field))
	}

	revision, err := planning.NewPlanRevision(plan, requesterID, field, req.RequestedValue, req.Justification)
	if err != nil {
		return nil, err
	}

	if err := s.revisionRepo.Save(ctx, revision); err != nil {
		return nil, err
	}

	if err := s.auditRepo.Append(ctx, planning.NewRevisionRequestedAudit(revision)); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, revision)

	response := ToRevisionResponse(revision)
	return &response, nil
}

// Decide approves or rejects a pending revision on behalf of a
// manager in the plan owner's reporting line. An approval replaces
// the named input field on the plan, flips the revision terminal, and
// appends the audit entry in one transaction; a rejection leaves the
// plan untouched. Deciding an already decided revision fails.
func (s *RevisionService) Decide(ctx context.Context, managerID, revisionID uuid.UUID, req DecideRevisionRequest) (*RevisionResponse, error) {
	revision, err := s.revisionRepo.FindByID(ctx, revisionID)
	if err != nil {
		return nil, err
	}

	isManager, err := s.teamDir.IsManagerOf(ctx, managerID, revision.OwnerID)
	if err != nil {
		return nil, err
	}
	if !isManager {
		return nil, shared.ErrForbidden
	}

	if len(strings.TrimSpace(req.DecisionNotes)) < s.policy.MinDecisionNotesChars {
		return nil, shared.NewValidationError().Add("decision_notes",
			fmt.Sprintf("decision notes must be at least %d characters", s.policy.MinDecisionNotesChars))
	}

	switch req.Decision {
	case DecisionApproved:
		plan, err := s.planRepo.FindByID(ctx, revision.PlanID)
		if err != nil {
			return nil, err
		}
		if err := revision.Approve(managerID, req.DecisionNotes); err != nil {
			return nil, err
		}
		if err := plan.ApplyRevision(revision.Field, revision.RequestedValue); err != nil {
			return nil, err
		}
		entry := planning.NewRevisionApprovedAudit(revision)
		if err := s.revisionRepo.ApplyDecision(ctx, revision, plan, entry); err != nil {
			return nil, err
		}
	case DecisionRejected:
		if err := revision.Reject(managerID, req.DecisionNotes); err != nil {
			return nil, err
		}
		entry := planning.NewRevisionRejectedAudit(revision)
		if err := s.revisionRepo.ApplyDecision(ctx, revision, nil, entry); err != nil {
			return nil, err
		}
	default:
		return nil, shared.NewValidationError().Add("decision",
			"decision must be approved or rejected")
	}

	s.publishEvents(ctx, revision)

	response := ToRevisionResponse(revision)
	return &response, nil
}

// GetByID retrieves a revision visible to the caller: the plan owner
// or one of their managers
func (s *RevisionService) GetByID(ctx context.Context, callerID, revisionID uuid.UUID) (*RevisionResponse, error) {
	revision, err := s.revisionRepo.FindByID(ctx, revisionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, callerID, revision.OwnerID); err != nil {
		return nil, err
	}
	response := ToRevisionResponse(revision)
	return &response, nil
}

// ListByPlan retrieves a plan's revisions with filtering and pagination
func (s *RevisionService) ListByPlan(ctx context.Context, callerID, planID uuid.UUID, filter RevisionListFilter) ([]RevisionResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, callerID, plan.OwnerID); err != nil {
		return nil, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}

	revisions, err := s.revisionRepo.FindByPlan(ctx, planID, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToRevisionResponses(revisions), nil
}

// ListPendingForManager retrieves the pending revisions across every
// producer reporting to the manager, the manager's review queue
func (s *RevisionService) ListPendingForManager(ctx context.Context, managerID uuid.UUID, filter RevisionListFilter) ([]RevisionResponse, int64, error) {
	team, err := s.teamDir.TeamOf(ctx, managerID)
	if err != nil {
		return nil, 0, err
	}
	if len(team) == 0 {
		return []RevisionResponse{}, 0, nil
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	revisions, err := s.revisionRepo.FindPendingByOwners(ctx, team, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.revisionRepo.CountPendingByOwners(ctx, team)
	if err != nil {
		return nil, 0, err
	}

	return ToRevisionResponses(revisions), total, nil
}

// authorizeRead allows the plan owner and the owner's managers
func (s *RevisionService) authorizeRead(ctx context.Context, callerID, ownerID uuid.UUID) error {
	if callerID == ownerID {
		return nil
	}
	isManager, err := s.teamDir.IsManagerOf(ctx, callerID, ownerID)
	if err != nil {
		return err
	}
	if !isManager {
		return shared.ErrForbidden
	}
	return nil
}

func (s *RevisionService) publishEvents(ctx context.Context, revision *planning.PlanRevision) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range revision.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			continue
		}
	}
	revision.ClearDomainEvents()
}
