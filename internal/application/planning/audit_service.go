package planning

import (
	"context"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/planning"
	"github.com/planware/backend/internal/domain/shared"
)

// AuditService exposes read access to the append-only audit trail.
// Writes happen inside the plan and revision services; there is no
// update or delete anywhere.
type AuditService struct {
	auditRepo planning.AuditRepository
	planRepo  planning.PlanRepository
	teamDir   planning.TeamDirectory
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo planning.AuditRepository, planRepo planning.PlanRepository, teamDir planning.TeamDirectory) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		planRepo:  planRepo,
		teamDir:   teamDir,
	}
}

// ListByPlan retrieves a plan's audit entries ordered by timestamp
func (s *AuditService) ListByPlan(ctx context.Context, callerID, planID uuid.UUID, filter AuditListFilter) ([]AuditEntryResponse, int64, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.authorizeRead(ctx, callerID, plan.OwnerID); err != nil {
		return nil, 0, err
	}

	domainFilter := s.toDomainFilter(filter)

	entries, err := s.auditRepo.FindByPlan(ctx, planID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.auditRepo.CountByPlan(ctx, planID)
	if err != nil {
		return nil, 0, err
	}

	return ToAuditEntryResponses(entries), total, nil
}

// ListByOwner retrieves audit entries across all of a producer's plans
func (s *AuditService) ListByOwner(ctx context.Context, callerID, ownerID uuid.UUID, filter AuditListFilter) ([]AuditEntryResponse, error) {
	if err := s.authorizeRead(ctx, callerID, ownerID); err != nil {
		return nil, err
	}

	entries, err := s.auditRepo.FindByOwner(ctx, ownerID, s.toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToAuditEntryResponses(entries), nil
}

func (s *AuditService) toDomainFilter(filter AuditListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	// the trail reads oldest first
	domainFilter.OrderBy = "timestamp"
	domainFilter.OrderDir = "asc"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Action != nil {
		domainFilter.Filters["action"] = *filter.Action
	}
	return domainFilter
}

// authorizeRead allows the owner and the owner's managers
func (s *AuditService) authorizeRead(ctx context.Context, callerID, ownerID uuid.UUID) error {
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
