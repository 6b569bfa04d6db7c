package services

import (
	"context"

	"github.com/rpupo63/shooting-roster/database"
	"github.com/rpupo63/shooting-roster/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Linker maintains the tags and sources owned by incidents and bodycams.
type Linker struct {
	tags    *database.TagRepo
	sources *database.SourceRepo
	cache   *FacetCache
	logger  zerolog.Logger
}

func NewLinker(tags *database.TagRepo, sources *database.SourceRepo, cache *FacetCache) *Linker {
	return &Linker{
		tags:    tags,
		sources: sources,
		cache:   cache,
		logger:  log.With().Str("service", "linker").Logger(),
	}
}

// ReconcileTags adds a tag for every text the owner does not already carry.
// Matching is exact and case-sensitive; repeated texts are no-ops.
func (l *Linker) ReconcileTags(ctx context.Context, owner models.Owner, texts []string) error {
	defer l.cache.Invalidate(ctx, owner.Kind)
	for _, text := range texts {
		if text == "" {
			continue
		}
		exists, err := l.tags.Exists(ctx, owner, text)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		tag := models.Tag{Text: text, OwnerType: string(owner.Kind), OwnerID: owner.ID}
		if err := l.tags.Add(ctx, &tag); err != nil {
			return err
		}
	}
	return nil
}

// ReconcileSources adds a source for every text the incident does not already cite.
func (l *Linker) ReconcileSources(ctx context.Context, incidentID uint, texts []string) error {
	for _, text := range texts {
		if text == "" {
			continue
		}
		exists, err := l.sources.Exists(ctx, incidentID, text)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		source := models.Source{Text: text, IncidentID: incidentID}
		if err := l.sources.Add(ctx, &source); err != nil {
			return err
		}
	}
	return nil
}

// ReconcileTagsAndSources applies both reconciliations to an incident.
func (l *Linker) ReconcileTagsAndSources(ctx context.Context, incident *models.Incident, tags, sources []string) error {
	if err := l.ReconcileSources(ctx, incident.ID, sources); err != nil {
		return err
	}
	return l.ReconcileTags(ctx, incident.Owner(), tags)
}

// ReplaceTags drops every tag of owner and recreates them from texts.
func (l *Linker) ReplaceTags(ctx context.Context, owner models.Owner, texts []string) error {
	if err := l.tags.DeleteByOwner(ctx, owner); err != nil {
		return err
	}
	return l.ReconcileTags(ctx, owner, texts)
}

// ReplaceTagsAndSources drops every tag and source of the incident and
// recreates them from the submitted lists.
func (l *Linker) ReplaceTagsAndSources(ctx context.Context, incident *models.Incident, tags, sources []string) error {
	if err := l.tags.DeleteByOwner(ctx, incident.Owner()); err != nil {
		return err
	}
	if err := l.sources.DeleteByIncident(ctx, incident.ID); err != nil {
		return err
	}
	l.logger.Debug().Uint("shootingID", incident.ID).Msg("cleared tags and sources")
	return l.ReconcileTagsAndSources(ctx, incident, tags, sources)
}
