package services

import (
	"context"
	"net/http"

	"github.com/rpupo63/shooting-roster/database"
	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// BodycamGoneMessage is returned when an edited bodycam no longer exists.
const BodycamGoneMessage = "We couldn't find that bodycam in our database anymore."

// BodycamService runs the submit, edit, link and delete flows for bodycams.
type BodycamService struct {
	bodycams  *database.BodycamRepo
	incidents *database.IncidentRepo
	linker    *Linker
	logger    zerolog.Logger
}

func NewBodycamService(bodycams *database.BodycamRepo, incidents *database.IncidentRepo, linker *Linker) *BodycamService {
	return &BodycamService{
		bodycams:  bodycams,
		incidents: incidents,
		linker:    linker,
		logger:    log.With().Str("service", "bodycams").Logger(),
	}
}

type bodycamFlow struct {
	payload BodycamPayload
	form    BodycamForm
	bodycam *models.Bodycam
}

// Submit validates and stores a new bodycam and returns its id. When the
// requested shooting cannot be linked the bodycam stays saved, the id is
// still returned and the error is a partial link failure.
func (s *BodycamService) Submit(ctx context.Context, payload BodycamPayload) (uint, error) {
	flow := &bodycamFlow{payload: payload, bodycam: &models.Bodycam{}}
	err := runSteps(ctx, flow,
		s.validate,
		s.save(s.bodycams.Add),
		s.reconcile,
		s.link,
	)
	return s.finish(flow, "bodycam created", err)
}

// Edit replaces the fields and tags of an existing bodycam, then links the
// requested shooting, if any.
func (s *BodycamService) Edit(ctx context.Context, payload BodycamPayload) (uint, error) {
	flow := &bodycamFlow{payload: payload}
	err := runSteps(ctx, flow,
		s.lookup,
		s.validate,
		s.save(s.bodycams.Update),
		s.replaceTags,
		s.link,
	)
	return s.finish(flow, "bodycam edited", err)
}

// Link points a bodycam at an incident, replacing any previous link.
func (s *BodycamService) Link(ctx context.Context, bodycamID, shootingID uint) error {
	if _, err := s.bodycams.FindByID(ctx, bodycamID); err != nil {
		return err
	}
	if _, err := s.incidents.FindByID(ctx, shootingID); err != nil {
		return err
	}
	if err := s.bodycams.SetShooting(ctx, bodycamID, shootingID); err != nil {
		return errs.NewDatabaseError("link", "bodycam", err)
	}
	s.logger.Info().Uint("bodycamID", bodycamID).Uint("shootingID", shootingID).Msg("bodycam linked")
	return nil
}

// Delete removes a bodycam and its tags.
func (s *BodycamService) Delete(ctx context.Context, id uint) error {
	if _, err := s.bodycams.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.bodycams.Delete(ctx, id); err != nil {
		return err
	}
	s.linker.cache.Invalidate(ctx, models.OwnerBodycam)
	s.logger.Info().Uint("bodycamID", id).Msg("bodycam deleted")
	return nil
}

func (s *BodycamService) finish(flow *bodycamFlow, msg string, err error) (uint, error) {
	var id uint
	if flow.bodycam != nil {
		id = flow.bodycam.ID
	}
	switch {
	case err == nil:
		s.logger.Info().Uint("bodycamID", id).Msg(msg)
	case errs.IsPartialLinkError(err):
		s.logger.Warn().Uint("bodycamID", id).Str("shooting", flow.payload.Shooting.Value).Msg(msg + " without link")
	default:
		return 0, err
	}
	return id, err
}

func (s *BodycamService) lookup(ctx context.Context, f *bodycamFlow) error {
	gone := errs.NewApiErr(http.StatusBadRequest, BodycamGoneMessage)
	if f.payload.ID.Empty() {
		return gone
	}
	id, err := f.payload.ID.ID()
	if err != nil {
		return gone
	}
	bodycam, err := s.bodycams.FindByID(ctx, id)
	if errs.IsLookupMiss(err) {
		return gone
	}
	if err != nil {
		return err
	}
	f.bodycam = bodycam
	return nil
}

func (s *BodycamService) validate(_ context.Context, f *bodycamFlow) error {
	form, err := ValidateBodycam(f.payload)
	if err != nil {
		return err
	}
	f.form = form
	applyBodycamForm(f.bodycam, form)
	return nil
}

func (s *BodycamService) save(write func(context.Context, *models.Bodycam) error) step[bodycamFlow] {
	return func(ctx context.Context, f *bodycamFlow) error {
		if err := write(ctx, f.bodycam); err != nil {
			return errs.NewDatabaseError("save", "bodycam", err)
		}
		return nil
	}
}

func (s *BodycamService) reconcile(ctx context.Context, f *bodycamFlow) error {
	if err := s.linker.ReconcileTags(ctx, f.bodycam.Owner(), f.payload.Tags); err != nil {
		return errs.NewDatabaseError("link", "tags", err)
	}
	return nil
}

func (s *BodycamService) replaceTags(ctx context.Context, f *bodycamFlow) error {
	if err := s.linker.ReplaceTags(ctx, f.bodycam.Owner(), f.payload.Tags); err != nil {
		return errs.NewDatabaseError("replace", "tags", err)
	}
	return nil
}

// link runs after the bodycam is persisted. A shooting id that does not
// resolve leaves the bodycam saved and reports a partial link failure.
func (s *BodycamService) link(ctx context.Context, f *bodycamFlow) error {
	if f.payload.Shooting.Empty() {
		return nil
	}
	shootingID, err := f.payload.Shooting.ID()
	if err != nil {
		return errs.NewPartialLinkError(err)
	}
	if _, err := s.incidents.FindByID(ctx, shootingID); err != nil {
		if errs.IsLookupMiss(err) {
			return errs.NewPartialLinkError(err)
		}
		return err
	}
	if err := s.bodycams.SetShooting(ctx, f.bodycam.ID, shootingID); err != nil {
		return errs.NewDatabaseError("link", "bodycam", err)
	}
	f.bodycam.ShootingID = &shootingID
	return nil
}

func applyBodycamForm(bodycam *models.Bodycam, form BodycamForm) {
	bodycam.Title = form.Title
	bodycam.Video = form.Video
	bodycam.Description = form.Description
	bodycam.Department = form.Department
	bodycam.State = form.State
	bodycam.City = form.City
	bodycam.Date = datatypes.Date(form.Date)
}
