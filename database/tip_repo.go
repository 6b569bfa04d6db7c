package database

import (
	"context"

	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/models"
	"gorm.io/gorm"
)

type TipRepo struct {
	db *gorm.DB
}

func NewTipRepo(db *gorm.DB) *TipRepo {
	return &TipRepo{db}
}

// FindAll returns every tip, newest first
func (r *TipRepo) FindAll(ctx context.Context) ([]*models.Tip, error) {
	var tips []*models.Tip
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&tips).Error
	return tips, err
}

func (r *TipRepo) Add(ctx context.Context, tip *models.Tip) error {
	return r.db.WithContext(ctx).Create(tip).Error
}

func (r *TipRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Tip{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("tip")
	}
	return nil
}

type FeedbackRepo struct {
	db *gorm.DB
}

func NewFeedbackRepo(db *gorm.DB) *FeedbackRepo {
	return &FeedbackRepo{db}
}

// FindAll returns every feedback message, newest first
func (r *FeedbackRepo) FindAll(ctx context.Context) ([]*models.Feedback, error) {
	var feedback []*models.Feedback
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&feedback).Error
	return feedback, err
}

func (r *FeedbackRepo) Add(ctx context.Context, feedback *models.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *FeedbackRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Feedback{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("feedback")
	}
	return nil
}
