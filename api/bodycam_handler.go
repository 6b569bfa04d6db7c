package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	flashBodycamDeleted = "Article deleted successfully"
	flashBodycamMissing = "We couldn't find that article in the database."
)

type bodycamHandler struct {
	responder Responder
	logger    zerolog.Logger
	bodycams  *services.BodycamService
	composer  *services.Composer
	metrics   *metrics
	now       func() time.Time
}

func newBodycamHandler(bodycams *services.BodycamService, composer *services.Composer, p *pages, m *metrics, now func() time.Time) bodycamHandler {
	logger := log.With().Str("handlerName", "bodycamHandler").Logger()

	return bodycamHandler{
		responder: NewResponder(logger).withPages(p),
		logger:    logger,
		bodycams:  bodycams,
		composer:  composer,
		metrics:   m,
		now:       now,
	}
}

// submitBodycam creates a bodycam and optionally links it to a shooting
// @Summary Submit bodycam
// @Accept x-www-form-urlencoded
// @Produce plain
// @Param bodycam formData string true "JSON encoded bodycam"
// @Success 200 {string} string "id of the new bodycam"
// @Failure 400 {string} string "field errors as HTML"
// @Failure 406 {string} string "bodycam saved, shooting link failed"
// @Router /bodycams/ajax/submit [post]
func (h bodycamHandler) submitBodycam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.decode(r)
		if err != nil {
			h.responder.WriteErrorText(w, err)
			return
		}

		id, err := h.bodycams.Submit(r.Context(), payload)
		h.metrics.recordWrite("bodycam", "submit", err)
		if err != nil {
			h.responder.WriteErrorText(w, err)
			return
		}
		h.responder.WriteText(w, http.StatusOK, strconv.FormatUint(uint64(id), 10))
	}
}

// editBodycam replaces an existing bodycam and its tags
// @Summary Edit bodycam
// @Accept x-www-form-urlencoded
// @Produce plain
// @Param bodycam formData string true "JSON encoded bodycam with id"
// @Success 200 {string} string "id of the bodycam"
// @Failure 400 {string} string "field errors as HTML, or the bodycam is gone"
// @Failure 406 {string} string "bodycam saved, shooting link failed"
// @Router /bodycams/ajax/edit [post]
func (h bodycamHandler) editBodycam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.decode(r)
		if err != nil {
			h.responder.WriteErrorText(w, err)
			return
		}

		id, err := h.bodycams.Edit(r.Context(), payload)
		h.metrics.recordWrite("bodycam", "edit", err)
		if err != nil {
			h.responder.WriteErrorText(w, err)
			return
		}
		h.responder.WriteText(w, http.StatusOK, strconv.FormatUint(uint64(id), 10))
	}
}

// linkBodycam points an existing bodycam at an existing shooting
// @Summary Link bodycam
// @Accept x-www-form-urlencoded
// @Param bodycam_id formData int true "bodycam id"
// @Param shooting_id formData int true "shooting id"
// @Success 200
// @Failure 500 {string} string "Bodycam matching query does not exist."
// @Router /bodycams/ajax/link [post]
func (h bodycamHandler) linkBodycam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodycamID, err := formID(r, "bodycam_id")
		if err != nil {
			h.responder.WriteErrorText(w, err)
			return
		}
		shootingID, err := formID(r, "shooting_id")
		if err != nil {
			h.responder.WriteErrorText(w, err)
			return
		}

		err = h.bodycams.Link(r.Context(), bodycamID, shootingID)
		h.metrics.recordWrite("bodycam", "link", err)
		if err != nil {
			h.responder.WriteErrorText(w, err)
			return
		}
		h.responder.WriteText(w, http.StatusOK, "")
	}
}

type dashboardView struct {
	*services.DashboardPage
	Flash   *Flash
	Session services.Session
}

// dashboard lists every bodycam for the editors
func (h bodycamHandler) dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := h.composer.Dashboard(r.Context(), h.now().Year())
		if err != nil {
			h.responder.WritePageError(w, err)
			return
		}
		session, _ := ctxGetSession(r.Context())
		h.responder.WritePage(w, http.StatusOK, "bodycam_dashboard.html", dashboardView{
			DashboardPage: page,
			Flash:         popFlash(w, r),
			Session:       session,
		})
	}
}

// deleteFromDashboard removes the posted bodycam and redirects back with a flash
func (h bodycamHandler) deleteFromDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := formID(r, "pk")
		if err == nil {
			err = h.bodycams.Delete(r.Context(), id)
		}
		h.metrics.recordWrite("bodycam", "delete", err)

		switch {
		case err == nil:
			setFlash(w, flashSuccess, flashBodycamDeleted)
		case errs.IsLookupMiss(err), errs.IsNotFound(err):
			setFlash(w, flashError, flashBodycamMissing)
		default:
			// an unparsable pk reads the same as a missing bodycam to the editor
			h.logger.Error().Err(err).Msg("dashboard delete failed")
			setFlash(w, flashError, flashBodycamMissing)
		}
		http.Redirect(w, r, "/bodycams/dashboard", http.StatusFound)
	}
}

func (h bodycamHandler) decode(r *http.Request) (services.BodycamPayload, error) {
	data, err := readPayload(r, "bodycam")
	if err != nil {
		return services.BodycamPayload{}, err
	}
	payload, err := services.DecodeBodycamPayload(data)
	if err != nil {
		return services.BodycamPayload{}, errs.NewInvalidJSONError(err)
	}
	return payload, nil
}
