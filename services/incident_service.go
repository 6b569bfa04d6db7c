package services

import (
	"context"

	"github.com/rpupo63/shooting-roster/database"
	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// IncidentService runs the submit, edit and delete flows for incidents.
type IncidentService struct {
	incidents *database.IncidentRepo
	linker    *Linker
	logger    zerolog.Logger
}

func NewIncidentService(incidents *database.IncidentRepo, linker *Linker) *IncidentService {
	return &IncidentService{
		incidents: incidents,
		linker:    linker,
		logger:    log.With().Str("service", "incidents").Logger(),
	}
}

type incidentFlow struct {
	payload  IncidentPayload
	form     IncidentForm
	incident *models.Incident
}

// Submit validates and stores a new incident and returns its id.
func (s *IncidentService) Submit(ctx context.Context, payload IncidentPayload) (uint, error) {
	flow := &incidentFlow{payload: payload, incident: &models.Incident{}}
	err := runSteps(ctx, flow,
		s.validate,
		s.save(s.incidents.Add),
		s.reconcile,
	)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Uint("shootingID", flow.incident.ID).Msg("shooting created")
	return flow.incident.ID, nil
}

// Edit replaces the fields, tags and sources of an existing incident.
func (s *IncidentService) Edit(ctx context.Context, payload IncidentPayload) (uint, error) {
	flow := &incidentFlow{payload: payload}
	err := runSteps(ctx, flow,
		s.lookup,
		s.validate,
		s.save(s.incidents.Update),
		s.replaceRelations,
	)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Uint("shootingID", flow.incident.ID).Msg("shooting edited")
	return flow.incident.ID, nil
}

// Delete removes an incident together with its tags and sources.
func (s *IncidentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.incidents.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.incidents.Delete(ctx, id); err != nil {
		return err
	}
	s.linker.cache.Invalidate(ctx, models.OwnerIncident)
	s.logger.Info().Uint("shootingID", id).Msg("shooting deleted")
	return nil
}

// SetImage records the cover image of an incident.
func (s *IncidentService) SetImage(ctx context.Context, id uint, url string) error {
	return s.incidents.SetImageURL(ctx, id, url)
}

func (s *IncidentService) lookup(ctx context.Context, f *incidentFlow) error {
	if f.payload.ID.Empty() {
		return errs.NewLookupMiss("Shooting")
	}
	id, err := f.payload.ID.ID()
	if err != nil {
		return errs.NewLookupMiss("Shooting")
	}
	incident, err := s.incidents.FindByID(ctx, id)
	if err != nil {
		return err
	}
	f.incident = incident
	return nil
}

func (s *IncidentService) validate(_ context.Context, f *incidentFlow) error {
	form, err := ValidateIncident(f.payload)
	if err != nil {
		return err
	}
	f.form = form
	applyIncidentForm(f.incident, form)
	return nil
}

func (s *IncidentService) save(write func(context.Context, *models.Incident) error) step[incidentFlow] {
	return func(ctx context.Context, f *incidentFlow) error {
		if err := write(ctx, f.incident); err != nil {
			return errs.NewDatabaseError("save", "shooting", err)
		}
		return nil
	}
}

func (s *IncidentService) reconcile(ctx context.Context, f *incidentFlow) error {
	if err := s.linker.ReconcileTagsAndSources(ctx, f.incident, f.payload.Tags, f.payload.Sources); err != nil {
		return errs.NewDatabaseError("link", "tags and sources", err)
	}
	return nil
}

func (s *IncidentService) replaceRelations(ctx context.Context, f *incidentFlow) error {
	if err := s.linker.ReplaceTagsAndSources(ctx, f.incident, f.payload.Tags, f.payload.Sources); err != nil {
		return errs.NewDatabaseError("replace", "tags and sources", err)
	}
	return nil
}

func applyIncidentForm(incident *models.Incident, form IncidentForm) {
	incident.Name = form.Name
	incident.Date = datatypes.Date(form.Date)
	incident.Age = form.Age
	incident.State = form.State
	incident.Race = form.Race
	incident.Gender = form.Gender
	incident.City = form.City
	incident.Department = form.Department
	incident.Description = form.Description
	incident.UnfilteredVideoURL = form.VideoURL
}
