package database

import (
	"context"

	"github.com/rpupo63/shooting-roster/models"
	"gorm.io/gorm"
)

type SourceRepo struct {
	db *gorm.DB
}

func NewSourceRepo(db *gorm.DB) *SourceRepo {
	return &SourceRepo{db}
}

// FindByIncident returns the sources of one incident in insertion order
func (r *SourceRepo) FindByIncident(ctx context.Context, incidentID uint) ([]models.Source, error) {
	var sources []models.Source
	err := r.db.WithContext(ctx).Where("shooting_id = ?", incidentID).Order("id").Find(&sources).Error
	return sources, err
}

// Exists reports whether the incident already cites exactly this text
func (r *SourceRepo) Exists(ctx context.Context, incidentID uint, text string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Source{}).
		Where("shooting_id = ? AND text = ?", incidentID, text).
		Count(&count).Error
	return count > 0, err
}

// Add inserts a new source
func (r *SourceRepo) Add(ctx context.Context, source *models.Source) error {
	return r.db.WithContext(ctx).Create(source).Error
}

// DeleteByIncident removes every source of one incident
func (r *SourceRepo) DeleteByIncident(ctx context.Context, incidentID uint) error {
	return r.db.WithContext(ctx).Where("shooting_id = ?", incidentID).Delete(&models.Source{}).Error
}
