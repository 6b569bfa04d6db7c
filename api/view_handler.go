package api

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/rpupo63/shooting-roster/database"
	"github.com/rpupo63/shooting-roster/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type viewHandler struct {
	responder Responder
	logger    zerolog.Logger
	composer  *services.Composer
	database  database.Database
	now       func() time.Time
}

func newViewHandler(composer *services.Composer, db database.Database, p *pages, now func() time.Time) viewHandler {
	logger := log.With().Str("handlerName", "viewHandler").Logger()

	return viewHandler{
		responder: NewResponder(logger).withPages(p),
		logger:    logger,
		composer:  composer,
		database:  db,
		now:       now,
	}
}

type rosterView struct {
	*services.IncidentPage
	Query services.ListQuery
}

func (h viewHandler) rosterList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := yearParam(r, h.now)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		query := services.ListQuery{
			Year:   year,
			Tag:    q.Get("tag"),
			State:  q.Get("state"),
			Race:   q.Get("race"),
			Gender: q.Get("gender"),
		}
		page, err := h.composer.ListIncidents(r.Context(), query)
		if err != nil {
			h.responder.WritePageError(w, err)
			return
		}
		h.responder.WritePage(w, http.StatusOK, "roster_index.html", rosterView{IncidentPage: page, Query: query})
	}
}

func (h viewHandler) incidentDetail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.responder.WritePageError(w, err)
			return
		}
		detail, err := h.composer.Incident(r.Context(), id)
		if err != nil {
			h.responder.WritePageError(w, err)
			return
		}
		h.responder.WritePage(w, http.StatusOK, "roster_detail.html", detail)
	}
}

type graphsView struct {
	*services.StatsPage
	Chart template.JS
}

func (h viewHandler) graphs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := yearParam(r, h.now)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		stats, err := h.composer.Stats(r.Context(), year)
		if err != nil {
			h.responder.WritePageError(w, err)
			return
		}
		chart, err := json.Marshal(stats)
		if err != nil {
			h.responder.WritePageError(w, err)
			return
		}
		h.responder.WritePage(w, http.StatusOK, "graphs.html", graphsView{StatsPage: stats, Chart: template.JS(chart)})
	}
}

func (h viewHandler) bodycamIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := yearParam(r, h.now)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		page, err := h.composer.ListBodycams(r.Context(), year)
		if err != nil {
			h.responder.WritePageError(w, err)
			return
		}
		h.responder.WritePage(w, http.StatusOK, "bodycam_index.html", page)
	}
}

// healthz reports whether the database answers
func (h viewHandler) healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.database.Ping(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("health check failed")
			h.responder.WriteText(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		h.responder.WriteText(w, http.StatusOK, "ok")
	}
}
