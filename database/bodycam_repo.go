package database

import (
	"context"
	"errors"

	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BodycamRepo struct {
	db *gorm.DB
}

func NewBodycamRepo(db *gorm.DB) *BodycamRepo {
	return &BodycamRepo{db}
}

// FindByID returns a bodycam with its tags
func (r *BodycamRepo) FindByID(ctx context.Context, id uint) (*models.Bodycam, error) {
	var bodycam models.Bodycam
	err := r.db.WithContext(ctx).Preload("Tags").First(&bodycam, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewLookupMiss("Bodycam")
	}
	if err != nil {
		return nil, err
	}
	return &bodycam, nil
}

// FindAll returns every bodycam, newest first
func (r *BodycamRepo) FindAll(ctx context.Context) ([]*models.Bodycam, error) {
	var bodycams []*models.Bodycam
	err := r.db.WithContext(ctx).Preload("Tags").Order("date DESC").Order("id DESC").Find(&bodycams).Error
	return bodycams, err
}

// FindByYear returns the bodycams dated in year, newest first
func (r *BodycamRepo) FindByYear(ctx context.Context, year int) ([]*models.Bodycam, error) {
	start, end := yearBounds(year)
	var bodycams []*models.Bodycam
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("date >= ? AND date < ?", start, end).
		Order("date DESC").
		Order("id DESC").
		Find(&bodycams).Error
	return bodycams, err
}

// FindByShooting returns the bodycams linked to one incident
func (r *BodycamRepo) FindByShooting(ctx context.Context, shootingID uint) ([]*models.Bodycam, error) {
	var bodycams []*models.Bodycam
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("shooting_id = ?", shootingID).
		Order("date DESC").
		Find(&bodycams).Error
	return bodycams, err
}

// Departments returns the distinct departments of the bodycams dated in year
func (r *BodycamRepo) Departments(ctx context.Context, year int) ([]string, error) {
	start, end := yearBounds(year)
	departments := []string{}
	err := r.db.WithContext(ctx).
		Model(&models.Bodycam{}).
		Where("date >= ? AND date < ?", start, end).
		Distinct("department").
		Order("department").
		Pluck("department", &departments).Error
	return departments, err
}

// Add inserts a new bodycam; tags are written separately
func (r *BodycamRepo) Add(ctx context.Context, bodycam *models.Bodycam) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(bodycam).Error
}

// Update writes every column of an existing bodycam
func (r *BodycamRepo) Update(ctx context.Context, bodycam *models.Bodycam) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(bodycam).Error
}

// SetShooting overwrites the incident reference of a bodycam
func (r *BodycamRepo) SetShooting(ctx context.Context, id, shootingID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Bodycam{}).
		Where("id = ?", id).
		Update("shooting_id", shootingID).Error
}

// Delete removes a bodycam and its tags
func (r *BodycamRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_type = ? AND owner_id = ?", string(models.OwnerBodycam), id).
			Delete(&models.Tag{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Bodycam{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewLookupMiss("Bodycam")
		}
		return nil
	})
}
