package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTeamDirectory implements TeamDirectory against the team_members
// table. Reporting lines are managed outside the planning workflow;
// this repository only reads them.
type GormTeamDirectory struct {
	db *gorm.DB
}

// NewGormTeamDirectory creates a new GormTeamDirectory
func NewGormTeamDirectory(db *gorm.DB) *GormTeamDirectory {
	return &GormTeamDirectory{db: db}
}

// IsManagerOf reports whether managerID manages producerID
func (r *GormTeamDirectory) IsManagerOf(ctx context.Context, managerID, producerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TeamMemberModel{}).
		Where("manager_id = ? AND producer_id = ?", managerID, producerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// TeamOf returns the producer IDs reporting to a manager
func (r *GormTeamDirectory) TeamOf(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	var producerIDs []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.TeamMemberModel{}).
		Where("manager_id = ?", managerID).
		Pluck("producer_id", &producerIDs).Error; err != nil {
		return nil, err
	}
	return producerIDs, nil
}
