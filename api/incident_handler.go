package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/models"
	"github.com/rpupo63/shooting-roster/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type incidentHandler struct {
	responder Responder
	logger    zerolog.Logger
	incidents *services.IncidentService
	composer  *services.Composer
	images    *services.ImageStore
	metrics   *metrics
	now       func() time.Time
}

func newIncidentHandler(incidents *services.IncidentService, composer *services.Composer, images *services.ImageStore, m *metrics, now func() time.Time) incidentHandler {
	logger := log.With().Str("handlerName", "incidentHandler").Logger()

	return incidentHandler{
		responder: NewResponder(logger),
		logger:    logger,
		incidents: incidents,
		composer:  composer,
		images:    images,
		metrics:   m,
		now:       now,
	}
}

// submitIncident creates a shooting from the posted editor payload
// @Summary Submit shooting
// @Accept x-www-form-urlencoded
// @Produce plain
// @Param shooting formData string true "JSON encoded shooting"
// @Success 200 {string} string "id of the new shooting"
// @Failure 400 {string} string "field errors as HTML"
// @Router /ajax/submit-killing [post]
func (h incidentHandler) submitIncident() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.decode(r)
		if err != nil {
			h.responder.WriteErrorText(w, err)
			return
		}

		id, err := h.incidents.Submit(r.Context(), payload)
		h.metrics.recordWrite("shooting", "submit", err)
		if err != nil {
			h.responder.WriteErrorText(w, err)
			return
		}
		h.responder.WriteText(w, http.StatusOK, strconv.FormatUint(uint64(id), 10))
	}
}

// editIncident replaces an existing shooting
// @Summary Edit shooting
// @Accept x-www-form-urlencoded
// @Produce plain
// @Param shooting formData string true "JSON encoded shooting with id"
// @Success 200
// @Failure 400 {string} string "field errors as HTML"
// @Failure 500 {string} string "Shooting matching query does not exist."
// @Router /ajax/edit-killing [post]
func (h incidentHandler) editIncident() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.decode(r)
		if err != nil {
			h.responder.WriteErrorText(w, err)
			return
		}

		_, err = h.incidents.Edit(r.Context(), payload)
		h.metrics.recordWrite("shooting", "edit", err)
		if err != nil {
			h.responder.WriteErrorText(w, err)
			return
		}
		h.responder.WriteText(w, http.StatusOK, "")
	}
}

// deleteIncident removes a shooting by form id
// @Summary Delete shooting
// @Accept x-www-form-urlencoded
// @Param id formData int true "shooting id"
// @Success 200
// @Failure 500 {string} string "Shooting matching query does not exist."
// @Router /ajax/delete-killing [post]
func (h incidentHandler) deleteIncident() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := formID(r, "id")
		if err != nil {
			h.responder.WriteErrorText(w, err)
			return
		}

		err = h.incidents.Delete(r.Context(), id)
		h.metrics.recordWrite("shooting", "delete", err)
		if err != nil {
			h.responder.WriteErrorText(w, err)
			return
		}
		h.responder.WriteText(w, http.StatusOK, "")
	}
}

// uploadImage stores a cover image and, given an id, attaches it to the shooting
// @Summary Upload cover image
// @Accept mpfd
// @Produce plain
// @Param image formData file true "image file"
// @Param id formData int false "shooting id"
// @Success 200 {string} string "public URL of the image"
// @Router /ajax/upload-image [post]
func (h incidentHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.images == nil {
			h.responder.WriteErrorText(w, errs.NewServiceUnavailableError("image storage", nil))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.images.MaxSize()+maxPayloadSize)
		file, _, err := r.FormFile("image")
		if err != nil {
			h.responder.WriteErrorText(w, errs.NewMissingRequiredFieldError("image"))
			return
		}
		defer file.Close()

		var id uint
		if r.FormValue("id") != "" {
			if id, err = formID(r, "id"); err != nil {
				h.responder.WriteErrorText(w, err)
				return
			}
		}

		url, err := h.images.Upload(r.Context(), file)
		h.metrics.recordWrite("image", "upload", err)
		if err != nil {
			h.responder.WriteErrorText(w, err)
			return
		}
		if id != 0 {
			if err := h.incidents.SetImage(r.Context(), id, url); err != nil {
				h.responder.WriteErrorText(w, err)
				return
			}
		}
		h.responder.WriteText(w, http.StatusOK, url)
	}
}

// searchIncidents feeds the select2 shooting picker
// @Summary Search shootings
// @Produce json
// @Param q query string false "search term"
// @Success 200 {object} Select2Response
// @Router /ajax/ajax-killings [get]
func (h incidentHandler) searchIncidents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("q")
		if term == "" {
			term = r.URL.Query().Get("term")
		}
		results, err := h.composer.Search(r.Context(), term)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("search", "shootings", err))
			return
		}
		h.responder.WriteJSON(w, Select2Response{Results: results})
	}
}

// yearIncidents returns the shootings of one year for the roster tables
// @Summary Shootings of a year
// @Produce json
// @Param year query int false "year, defaults to the current year"
// @Success 200 {object} IncidentCollection
// @Router /ajax/shootings [get]
func (h incidentHandler) yearIncidents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := yearParam(r, h.now)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		page, err := h.composer.ListIncidents(r.Context(), services.ListQuery{Year: year})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "shootings", err))
			return
		}
		h.responder.WriteJSON(w, IncidentCollection{
			Year:      page.Year,
			Total:     page.Total,
			Shootings: newIncidentViews(page.Incidents),
		})
	}
}

// listIncidents is the filterable JSON roster
// @Summary List shootings
// @Produce json
// @Param year query int false "year, defaults to the current year"
// @Param tag query string false "tag text"
// @Param state query string false "state code"
// @Param race query string false "race code"
// @Param gender query string false "gender code"
// @Success 200 {object} IncidentCollection
// @Failure 400 {object} ErrorResponse
// @Router /api/killings [get]
func (h incidentHandler) listIncidents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := yearParam(r, h.now)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		q := r.URL.Query()
		page, err := h.composer.ListIncidents(r.Context(), services.ListQuery{
			Year:   year,
			Tag:    q.Get("tag"),
			State:  q.Get("state"),
			Race:   q.Get("race"),
			Gender: q.Get("gender"),
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "shootings", err))
			return
		}
		h.responder.WriteJSON(w, IncidentCollection{
			Year:      page.Year,
			Total:     page.Total,
			Shootings: newIncidentViews(page.Incidents),
			States:    page.States,
			Races:     page.Races,
			Genders:   page.Genders,
			AllTags:   page.AllTags,
		})
	}
}

// listTags returns the distinct tag texts
// @Summary List tags
// @Produce json
// @Param kind query string false "incident (default), bodycam or post"
// @Success 200 {object} TagCollection
// @Failure 400 {object} ErrorResponse
// @Router /api/tags [get]
func (h incidentHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := models.OwnerKind(r.URL.Query().Get("kind"))
		switch kind {
		case "":
			kind = models.OwnerIncident
		case models.OwnerIncident, models.OwnerBodycam, models.OwnerPost:
		default:
			h.responder.WriteError(w, errs.NewBadRequestError("unknown tag kind "+string(kind)))
			return
		}

		tags, err := h.composer.Tags(r.Context(), kind)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "tags", err))
			return
		}
		h.responder.WriteJSON(w, TagCollection{Kind: string(kind), Tags: tags})
	}
}

func (h incidentHandler) decode(r *http.Request) (services.IncidentPayload, error) {
	data, err := readPayload(r, "shooting")
	if err != nil {
		return services.IncidentPayload{}, err
	}
	payload, err := services.DecodeIncidentPayload(data)
	if err != nil {
		return services.IncidentPayload{}, errs.NewInvalidJSONError(err)
	}
	return payload, nil
}
