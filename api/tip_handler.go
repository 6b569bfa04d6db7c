package api

import (
	"net/http"

	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/models"
	"github.com/rpupo63/shooting-roster/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	flashTipReceived      = "Thanks! We received your tip."
	flashFeedbackReceived = "Thanks for your feedback."
	flashInboxDeleted     = "Message deleted."
	flashInboxMissing     = "We couldn't find that message in the database."
)

type tipHandler struct {
	responder Responder
	logger    zerolog.Logger
	tips      *services.TipService
	metrics   *metrics
}

func newTipHandler(tips *services.TipService, p *pages, m *metrics) tipHandler {
	logger := log.With().Str("handlerName", "tipHandler").Logger()

	return tipHandler{
		responder: NewResponder(logger).withPages(p),
		logger:    logger,
		tips:      tips,
		metrics:   m,
	}
}

type tipView struct {
	Form   services.TipPayload
	Errors errs.FieldErrors
	Flash  *Flash
	States models.Choices
}

type feedbackView struct {
	Form   services.FeedbackPayload
	Errors errs.FieldErrors
	Flash  *Flash
}

func (h tipHandler) tipForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WritePage(w, http.StatusOK, "tip.html", tipView{
			Flash:  popFlash(w, r),
			States: models.StateChoices,
		})
	}
}

// submitTip stores a reader tip. Invalid forms are shown again with their errors.
func (h tipHandler) submitTip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxPayloadSize)
		payload := services.TipPayload{
			Name:        r.PostFormValue("name"),
			Date:        r.PostFormValue("date"),
			City:        r.PostFormValue("city"),
			State:       r.PostFormValue("state"),
			Description: r.PostFormValue("description"),
			Link:        r.PostFormValue("link"),
			Email:       r.PostFormValue("email"),
		}

		_, err := h.tips.SubmitTip(r.Context(), payload)
		h.metrics.recordWrite("tip", "submit", err)
		switch {
		case errs.IsValidationError(err):
			h.responder.WritePage(w, http.StatusBadRequest, "tip.html", tipView{
				Form:   payload,
				Errors: errs.FieldErrorsOf(err),
				States: models.StateChoices,
			})
			return
		case err != nil:
			h.responder.WritePageError(w, err)
			return
		}
		setFlash(w, flashSuccess, flashTipReceived)
		http.Redirect(w, r, "/tip", http.StatusSeeOther)
	}
}

func (h tipHandler) feedbackForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WritePage(w, http.StatusOK, "feedback.html", feedbackView{Flash: popFlash(w, r)})
	}
}

func (h tipHandler) submitFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxPayloadSize)
		payload := services.FeedbackPayload{
			Name:    r.PostFormValue("name"),
			Email:   r.PostFormValue("email"),
			Message: r.PostFormValue("message"),
		}

		_, err := h.tips.SubmitFeedback(r.Context(), payload)
		h.metrics.recordWrite("feedback", "submit", err)
		switch {
		case errs.IsValidationError(err):
			h.responder.WritePage(w, http.StatusBadRequest, "feedback.html", feedbackView{
				Form:   payload,
				Errors: errs.FieldErrorsOf(err),
			})
			return
		case err != nil:
			h.responder.WritePageError(w, err)
			return
		}
		setFlash(w, flashSuccess, flashFeedbackReceived)
		http.Redirect(w, r, "/feedback", http.StatusSeeOther)
	}
}

type inboxView struct {
	*services.Inbox
	Flash   *Flash
	Session services.Session
}

// inbox lists tips and feedback for the editors
func (h tipHandler) inbox() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inbox, err := h.tips.Inbox(r.Context())
		if err != nil {
			h.responder.WritePageError(w, err)
			return
		}
		session, _ := ctxGetSession(r.Context())
		h.responder.WritePage(w, http.StatusOK, "tips.html", inboxView{
			Inbox:   inbox,
			Flash:   popFlash(w, r),
			Session: session,
		})
	}
}

// deleteFromInbox removes a handled tip or feedback message and redirects back with a flash
func (h tipHandler) deleteFromInbox() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entity := "tip"
		if r.FormValue("kind") == "feedback" {
			entity = "feedback"
		}

		id, err := formID(r, "pk")
		if err == nil {
			if entity == "feedback" {
				err = h.tips.DeleteFeedback(r.Context(), id)
			} else {
				err = h.tips.DeleteTip(r.Context(), id)
			}
		}
		h.metrics.recordWrite(entity, "delete", err)

		switch {
		case err == nil:
			setFlash(w, flashSuccess, flashInboxDeleted)
		case errs.IsNotFound(err), errs.IsLookupMiss(err):
			setFlash(w, flashError, flashInboxMissing)
		default:
			h.logger.Error().Err(err).Str("kind", entity).Msg("inbox delete failed")
			setFlash(w, flashError, flashInboxMissing)
		}
		http.Redirect(w, r, "/tips", http.StatusFound)
	}
}
