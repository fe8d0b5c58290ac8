package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/domain/planning"
	"github.com/planware/backend/internal/domain/shared"
	"github.com/planware/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditRepository implements AuditRepository using GORM. Entries
// are insert-only: there is no update or delete path.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append adds an entry to the trail
func (r *GormAuditRepository) Append(ctx context.Context, entry *planning.AuditEntry) error {
	return r.db.WithContext(ctx).Create(models.AuditEntryModelFromDomain(entry)).Error
}

// FindByPlan finds entries for a plan ordered by timestamp
func (r *GormAuditRepository) FindByPlan(ctx context.Context, planID uuid.UUID, filter shared.Filter) ([]planning.AuditEntry, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.AuditEntryModel{}).Where("plan_id = ?", planID),
		filter,
	)
	return r.findEntries(query)
}

// FindByOwner finds entries across all of an owner's plans
func (r *GormAuditRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]planning.AuditEntry, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.AuditEntryModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	return r.findEntries(query)
}

// CountByPlan counts entries for a plan
func (r *GormAuditRepository) CountByPlan(ctx context.Context, planID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AuditEntryModel{}).
		Where("plan_id = ?", planID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAuditRepository) findEntries(query *gorm.DB) ([]planning.AuditEntry, error) {
	var entryModels []models.AuditEntryModel
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]planning.AuditEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// applyFilter applies filter options to the query
func (r *GormAuditRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "action":
			query = query.Where("action = ?", value)
		case "actor_id":
			query = query.Where("actor_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, AuditSortFields, "timestamp")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}
