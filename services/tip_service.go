package services

import (
	"context"

	"github.com/rpupo63/shooting-roster/database"
	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// TipService stores what readers send in and lists it for editors.
type TipService struct {
	tips     *database.TipRepo
	feedback *database.FeedbackRepo
	logger   zerolog.Logger
}

func NewTipService(tips *database.TipRepo, feedback *database.FeedbackRepo) *TipService {
	return &TipService{
		tips:     tips,
		feedback: feedback,
		logger:   log.With().Str("service", "tips").Logger(),
	}
}

// Inbox holds every tip and feedback message, newest first.
type Inbox struct {
	Tips     []*models.Tip
	Feedback []*models.Feedback
}

// SubmitTip validates and stores a tip and returns its id.
func (s *TipService) SubmitTip(ctx context.Context, payload TipPayload) (uint, error) {
	form, err := ValidateTip(payload)
	if err != nil {
		return 0, err
	}
	tip := &models.Tip{
		Name:        form.Name,
		City:        form.City,
		State:       form.State,
		Description: form.Description,
		Link:        form.Link,
		Email:       form.Email,
	}
	if form.Date != nil {
		day := datatypes.Date(*form.Date)
		tip.Date = &day
	}
	if err := s.tips.Add(ctx, tip); err != nil {
		return 0, errs.NewDatabaseError("save", "tip", err)
	}
	s.logger.Info().Uint("tipID", tip.ID).Msg("tip received")
	return tip.ID, nil
}

// SubmitFeedback validates and stores a feedback message and returns its id.
func (s *TipService) SubmitFeedback(ctx context.Context, payload FeedbackPayload) (uint, error) {
	form, err := ValidateFeedback(payload)
	if err != nil {
		return 0, err
	}
	feedback := &models.Feedback{Name: form.Name, Email: form.Email, Message: form.Message}
	if err := s.feedback.Add(ctx, feedback); err != nil {
		return 0, errs.NewDatabaseError("save", "feedback", err)
	}
	s.logger.Info().Uint("feedbackID", feedback.ID).Msg("feedback received")
	return feedback.ID, nil
}

// Inbox loads tips and feedback concurrently.
func (s *TipService) Inbox(ctx context.Context) (*Inbox, error) {
	inbox := &Inbox{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tips, err := s.tips.FindAll(gctx)
		inbox.Tips = tips
		return err
	})
	g.Go(func() error {
		feedback, err := s.feedback.FindAll(gctx)
		inbox.Feedback = feedback
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inbox, nil
}

// DeleteTip removes a handled tip.
func (s *TipService) DeleteTip(ctx context.Context, id uint) error {
	if err := s.tips.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Uint("tipID", id).Msg("tip deleted")
	return nil
}

// DeleteFeedback removes a handled feedback message.
func (s *TipService) DeleteFeedback(ctx context.Context, id uint) error {
	if err := s.feedback.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Uint("feedbackID", id).Msg("feedback deleted")
	return nil
}
