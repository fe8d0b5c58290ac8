package planning

import (
	"context"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/planning"
	"github.com/planware/backend/internal/domain/shared"
)

// PlanService handles business plan lifecycle operations
type PlanService struct {
	planRepo       planning.PlanRepository
	auditRepo      planning.AuditRepository
	teamDir        planning.TeamDirectory
	eventPublisher shared.EventPublisher
}

// NewPlanService creates a new PlanService
func NewPlanService(planRepo planning.PlanRepository, auditRepo planning.AuditRepository, teamDir planning.TeamDirectory) *PlanService {
	return &PlanService{
		planRepo:  planRepo,
		auditRepo: auditRepo,
		teamDir:   teamDir,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PlanService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateDraft creates a new plan in DRAFT state for the calling
// producer and records the creation in the audit trail
func (s *PlanService) CreateDraft(ctx context.Context, ownerID uuid.UUID, req CreatePlanRequest) (*PlanResponse, error) {
	plan, err := planning.NewBusinessPlan(ownerID, req.PlanYear, req.Inputs.ToDomain())
	if err != nil {
		return nil, err
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}

	if err := s.auditRepo.Append(ctx, planning.NewPlanCreatedAudit(plan)); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, plan)

	response := ToPlanResponse(plan)
	return &response, nil
}

// Activate promotes a draft plan to ACTIVE. If another plan for the
// same owner and year is currently active it is demoted to REVISED in
// the same transaction, so a reader can never observe two active
// plans. Losing the race against a concurrent activation surfaces as
// a concurrency conflict the caller may retry.
func (s *PlanService) Activate(ctx context.Context, ownerID, planID uuid.UUID) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByIDForOwner(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}

	var demoted *planning.BusinessPlan
	current, err := s.planRepo.FindActiveByOwnerAndYear(ctx, ownerID, plan.PlanYear)
	if err == nil && current.ID != plan.ID {
		demoted = current
	} else if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}

	if err := plan.Activate(); err != nil {
		return nil, err
	}
	if demoted != nil {
		if err := demoted.Demote(); err != nil {
			return nil, err
		}
	}

	if err := s.planRepo.ActivateExclusively(ctx, plan, demoted); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, plan)
	if demoted != nil {
		s.publishEvents(ctx, demoted)
	}

	response := ToPlanResponse(plan)
	return &response, nil
}

// Archive abandons a draft plan
func (s *PlanService) Archive(ctx context.Context, ownerID, planID uuid.UUID) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByIDForOwner(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}

	if err := plan.Archive(); err != nil {
		return nil, err
	}

	if err := s.planRepo.SaveWithLock(ctx, plan); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, plan)

	response := ToPlanResponse(plan)
	return &response, nil
}

// GetByID retrieves a plan visible to the caller: its owner or a
// manager in the owner's reporting line
func (s *PlanService) GetByID(ctx context.Context, callerID, planID uuid.UUID) (*PlanResponse, error) {
	plan, err := s.findVisible(ctx, callerID, planID)
	if err != nil {
		return nil, err
	}
	response := ToPlanResponse(plan)
	return &response, nil
}

// GetGoals computes the derived funnel for a plan from its current
// inputs. Goals are never persisted; every call recomputes.
func (s *PlanService) GetGoals(ctx context.Context, callerID, planID uuid.UUID) (*GoalsResponse, error) {
	plan, err := s.findVisible(ctx, callerID, planID)
	if err != nil {
		return nil, err
	}

	return &GoalsResponse{
		PlanID:   plan.ID,
		PlanYear: plan.PlanYear,
		Status:   plan.Status.String(),
		Goals:    plan.Goals(),
	}, nil
}

// List retrieves plans for a producer with filtering and pagination.
// Callable by the producer themselves or one of their managers.
func (s *PlanService) List(ctx context.Context, callerID, ownerID uuid.UUID, filter PlanListFilter) ([]PlanResponse, int64, error) {
	if err := s.authorizeRead(ctx, callerID, ownerID); err != nil {
		return nil, 0, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.PlanYear != nil {
		domainFilter.Filters["plan_year"] = *filter.PlanYear
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}

	plans, err := s.planRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.planRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPlanResponses(plans), total, nil
}

// findVisible loads a plan and checks the caller may read it
func (s *PlanService) findVisible(ctx context.Context, callerID, planID uuid.UUID) (*planning.BusinessPlan, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, callerID, plan.OwnerID); err != nil {
		return nil, err
	}
	return plan, nil
}

// authorizeRead allows the owner and the owner's managers
func (s *PlanService) authorizeRead(ctx context.Context, callerID, ownerID uuid.UUID) error {
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

func (s *PlanService) publishEvents(ctx context.Context, plan *planning.BusinessPlan) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range plan.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			// Event handling is best-effort; the write already committed
			continue
		}
	}
	plan.ClearDomainEvents()
}
