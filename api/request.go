package api

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/shooting-roster/errs"
)

const maxPayloadSize = 1 << 20

// readPayload returns the JSON document posted under field. Editors post it
// as a form field; a raw JSON body is accepted too.
func readPayload(r *http.Request, field string) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize))
		if err != nil {
			return nil, errs.NewMalformedPayloadError(field, err)
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			return nil, errs.NewMissingRequiredFieldError(field)
		}
		return data, nil
	}

	raw := r.FormValue(field)
	if strings.TrimSpace(raw) == "" {
		return nil, errs.NewMissingRequiredFieldError(field)
	}
	return []byte(raw), nil
}

// formID parses a primary key posted under field. A value that is not a
// key fails like an unhandled lookup: 500 with the reason as body.
func formID(r *http.Request, field string) (uint, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, errs.NewInternalErrorWithCause(fmt.Sprintf("invalid %s %q", field, raw), err)
	}
	return uint(id), nil
}

// yearParam resolves the year from the path, then the query, then the clock.
func yearParam(r *http.Request, now func() time.Time) (int, error) {
	raw := chi.URLParam(r, "year")
	if raw == "" {
		raw = r.URL.Query().Get("year")
	}
	if raw == "" {
		return now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 || year > 9999 {
		return 0, errs.NewBadRequestError("invalid year")
	}
	return year, nil
}

// pathID parses the {pk} path parameter.
func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "pk"), 10, 0)
	if err != nil {
		return 0, errs.NewNotFound("page")
	}
	return uint(id), nil
}

// uintParam parses a numeric path parameter of the JSON API.
func uintParam(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 0)
	if err != nil {
		return 0, errs.NewBadRequestError("invalid " + name)
	}
	return uint(id), nil
}
