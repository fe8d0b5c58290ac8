package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/planning"
	"github.com/planware/backend/internal/domain/shared"
	"github.com/planware/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPlanRepository implements PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByID finds a plan by its ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*planning.BusinessPlan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByIDForOwner finds a plan by ID scoped to its owner
func (r *GormPlanRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*planning.BusinessPlan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByOwnerAndYear finds all plans for an owner and plan year
func (r *GormPlanRepository) FindByOwnerAndYear(ctx context.Context, ownerID uuid.UUID, planYear int, filter shared.Filter) ([]planning.BusinessPlan, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PlanModel{}).
			Where("owner_id = ? AND plan_year = ?", ownerID, planYear),
		filter,
	)
	return r.findPlans(query)
}

// FindAllForOwner finds all plans for an owner with filtering
func (r *GormPlanRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]planning.BusinessPlan, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.PlanModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	return r.findPlans(query)
}

// FindActiveByOwnerAndYear finds the single active plan for an owner and year
func (r *GormPlanRepository) FindActiveByOwnerAndYear(ctx context.Context, ownerID uuid.UUID, planYear int) (*planning.BusinessPlan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND plan_year = ? AND status = ?", ownerID, planYear, planning.PlanStatusActive).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// Save creates or updates a plan
func (r *GormPlanRepository) Save(ctx context.Context, plan *planning.BusinessPlan) error {
	model, err := models.PlanModelFromDomain(plan)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a plan with optimistic locking. The write only
// lands if nobody else has bumped the version; losing the race returns
// a concurrency conflict and leaves the row untouched.
func (r *GormPlanRepository) SaveWithLock(ctx context.Context, plan *planning.BusinessPlan) error {
	model, err := models.PlanModelFromDomain(plan)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.PlanModel{}).
		Where("id = ? AND version = ?", plan.ID, plan.Version).
		Updates(map[string]any{
			"inputs":       model.Inputs,
			"status":       model.Status,
			"activated_at": model.ActivatedAt,
			"archived_at":  model.ArchivedAt,
			"updated_at":   model.UpdatedAt,
			"version":      plan.Version + 1,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	plan.IncrementVersion()
	return nil
}

// ActivateExclusively promotes the plan and demotes any previously
// active plan for the same owner and year in a single transaction.
// Both updates carry version preconditions; if either row moved under
// us the whole transaction rolls back with a concurrency conflict.
func (r *GormPlanRepository) ActivateExclusively(ctx context.Context, plan *planning.BusinessPlan, demoted *planning.BusinessPlan) error {
	planModel, err := models.PlanModelFromDomain(plan)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if demoted != nil {
			result := tx.Model(&models.PlanModel{}).
				Where("id = ? AND version = ? AND status = ?", demoted.ID, demoted.Version, planning.PlanStatusActive).
				Updates(map[string]any{
					"status":     demoted.Status,
					"updated_at": demoted.UpdatedAt,
					"version":    demoted.Version + 1,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrConcurrencyConflict
			}
		}

		result := tx.Model(&models.PlanModel{}).
			Where("id = ? AND version = ? AND status = ?", plan.ID, plan.Version, planning.PlanStatusDraft).
			Updates(map[string]any{
				"status":       planModel.Status,
				"activated_at": planModel.ActivatedAt,
				"updated_at":   planModel.UpdatedAt,
				"version":      plan.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
	if err != nil {
		return err
	}

	plan.IncrementVersion()
	if demoted != nil {
		demoted.IncrementVersion()
	}
	return nil
}

// CountForOwner counts plans for an owner with optional filters
func (r *GormPlanRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.PlanModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPlanRepository) findPlans(query *gorm.DB) ([]planning.BusinessPlan, error) {
	var planModels []models.PlanModel
	if err := query.Find(&planModels).Error; err != nil {
		return nil, err
	}

	plans := make([]planning.BusinessPlan, len(planModels))
	for i, model := range planModels {
		plan, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		plans[i] = *plan
	}
	return plans, nil
}

// applyFilter applies filter options to the query
func (r *GormPlanRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PlanSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPlanRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "plan_year":
			query = query.Where("plan_year = ?", value)
		}
	}
	return query
}
