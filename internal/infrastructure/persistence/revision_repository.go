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

// GormRevisionRepository implements RevisionRepository using GORM
type GormRevisionRepository struct {
	db *gorm.DB
}

// NewGormRevisionRepository creates a new GormRevisionRepository
func NewGormRevisionRepository(db *gorm.DB) *GormRevisionRepository {
	return &GormRevisionRepository{db: db}
}

// FindByID finds a revision by its ID
func (r *GormRevisionRepository) FindByID(ctx context.Context, id uuid.UUID) (*planning.PlanRevision, error) {
	var model models.RevisionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPlan finds all revisions for a plan
func (r *GormRevisionRepository) FindByPlan(ctx context.Context, planID uuid.UUID, filter shared.Filter) ([]planning.PlanRevision, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.RevisionModel{}).Where("plan_id = ?", planID),
		filter,
	)
	return r.findRevisions(query)
}

// FindPendingByOwners finds pending revisions across a set of plan owners
func (r *GormRevisionRepository) FindPendingByOwners(ctx context.Context, ownerIDs []uuid.UUID, filter shared.Filter) ([]planning.PlanRevision, error) {
	if len(ownerIDs) == 0 {
		return []planning.PlanRevision{}, nil
	}

	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.RevisionModel{}).
			Where("owner_id IN ? AND status = ?", ownerIDs, planning.RevisionStatusPending),
		filter,
	)
	return r.findRevisions(query)
}

// ExistsPendingForField reports whether a pending revision already
// targets the given field of the given plan
func (r *GormRevisionRepository) ExistsPendingForField(ctx context.Context, planID uuid.UUID, field planning.InputField) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RevisionModel{}).
		Where("plan_id = ? AND field = ? AND status = ?", planID, field, planning.RevisionStatusPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a revision
func (r *GormRevisionRepository) Save(ctx context.Context, revision *planning.PlanRevision) error {
	model := models.RevisionModelFromDomain(revision)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a revision with optimistic locking (version check)
func (r *GormRevisionRepository) SaveWithLock(ctx context.Context, revision *planning.PlanRevision) error {
	model := models.RevisionModelFromDomain(revision)
	result := r.db.WithContext(ctx).
		Model(&models.RevisionModel{}).
		Where("id = ? AND version = ?", revision.ID, revision.Version).
		Updates(map[string]any{
			"status":         model.Status,
			"decided_by":     model.DecidedBy,
			"decision_notes": model.DecisionNotes,
			"decided_at":     model.DecidedAt,
			"updated_at":     model.UpdatedAt,
			"version":        revision.Version + 1,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	revision.IncrementVersion()
	return nil
}

// ApplyDecision commits a decision atomically: the revision status
// flip, the plan input replacement (approval only, plan is nil on
// rejection), and the audit entry all land in one transaction. The
// revision flip carries a PENDING precondition so a second decision
// racing the first loses cleanly.
func (r *GormRevisionRepository) ApplyDecision(ctx context.Context, revision *planning.PlanRevision, plan *planning.BusinessPlan, entry *planning.AuditEntry) error {
	revisionModel := models.RevisionModelFromDomain(revision)

	var planModel *models.PlanModel
	if plan != nil {
		var err error
		planModel, err = models.PlanModelFromDomain(plan)
		if err != nil {
			return err
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.RevisionModel{}).
			Where("id = ? AND version = ? AND status = ?", revision.ID, revision.Version, planning.RevisionStatusPending).
			Updates(map[string]any{
				"status":         revisionModel.Status,
				"decided_by":     revisionModel.DecidedBy,
				"decision_notes": revisionModel.DecisionNotes,
				"decided_at":     revisionModel.DecidedAt,
				"updated_at":     revisionModel.UpdatedAt,
				"version":        revision.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if planModel != nil {
			result := tx.Model(&models.PlanModel{}).
				Where("id = ? AND version = ?", plan.ID, plan.Version).
				Updates(map[string]any{
					"inputs":     planModel.Inputs,
					"updated_at": planModel.UpdatedAt,
					"version":    plan.Version + 1,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrConcurrencyConflict
			}
		}

		return tx.Create(models.AuditEntryModelFromDomain(entry)).Error
	})
	if err != nil {
		return err
	}

	revision.IncrementVersion()
	if plan != nil {
		plan.IncrementVersion()
	}
	return nil
}

// CountPendingByOwners counts pending revisions across plan owners
func (r *GormRevisionRepository) CountPendingByOwners(ctx context.Context, ownerIDs []uuid.UUID) (int64, error) {
	if len(ownerIDs) == 0 {
		return 0, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RevisionModel{}).
		Where("owner_id IN ? AND status = ?", ownerIDs, planning.RevisionStatusPending).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRevisionRepository) findRevisions(query *gorm.DB) ([]planning.PlanRevision, error) {
	var revisionModels []models.RevisionModel
	if err := query.Find(&revisionModels).Error; err != nil {
		return nil, err
	}

	revisions := make([]planning.PlanRevision, len(revisionModels))
	for i, model := range revisionModels {
		revisions[i] = *model.ToDomain()
	}
	return revisions, nil
}

// applyFilter applies filter options to the query
func (r *GormRevisionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "field":
			query = query.Where("field = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, RevisionSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}
