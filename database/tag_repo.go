package database

import (
	"context"

	"github.com/rpupo63/shooting-roster/models"
	"gorm.io/gorm"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindByOwner returns the tags of one owner in insertion order
func (r *TagRepo) FindByOwner(ctx context.Context, owner models.Owner) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", string(owner.Kind), owner.ID).
		Order("id").
		Find(&tags).Error
	return tags, err
}

// Exists reports whether owner already has a tag with exactly this text
func (r *TagRepo) Exists(ctx context.Context, owner models.Owner, text string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("owner_type = ? AND owner_id = ? AND text = ?", string(owner.Kind), owner.ID, text).
		Count(&count).Error
	return count > 0, err
}

// Add inserts a new tag
func (r *TagRepo) Add(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// DeleteByOwner removes every tag of one owner
func (r *TagRepo) DeleteByOwner(ctx context.Context, owner models.Owner) error {
	return r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", string(owner.Kind), owner.ID).
		Delete(&models.Tag{}).Error
}

// DistinctTexts returns every distinct tag text used by owners of kind, sorted
func (r *TagRepo) DistinctTexts(ctx context.Context, kind models.OwnerKind) ([]string, error) {
	texts := []string{}
	err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("owner_type = ?", string(kind)).
		Distinct("text").
		Order("text").
		Pluck("text", &texts).Error
	return texts, err
}
