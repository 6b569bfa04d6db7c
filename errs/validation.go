package errs

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrPartialLink = errors.New("record saved but link target not found")
)

// PartialLinkGuidance is shown when a bodycam was saved but the requested
// shooting could not be linked.
const PartialLinkGuidance = "We've created the bodycam but when we tried to link the bodycam to the shooting you requested, we couldn't find the shooting. Please refresh the page and try to link the bodycam manually."

// FieldError is a single failing form field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + " " + e.Message
}

// FieldErrors keeps failing fields in the order they were detected.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// Add appends a failure unless the field already has one.
func (fe *FieldErrors) Add(field, message string) {
	if fe.Has(field) {
		return
	}
	*fe = append(*fe, FieldError{Field: field, Message: message})
}

// Has reports whether field already failed.
func (fe FieldErrors) Has(field string) bool {
	for _, e := range fe {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Message returns the failure for field, if any.
func (fe FieldErrors) Message(field string) (string, bool) {
	for _, e := range fe {
		if e.Field == field {
			return e.Message, true
		}
	}
	return "", false
}

// HTML renders every failure as "field: message<br>". Messages may quote
// submitted values, so both parts are escaped.
func (fe FieldErrors) HTML() string {
	var b strings.Builder
	for _, e := range fe {
		fmt.Fprintf(&b, "%s: %s<br>", html.EscapeString(e.Field), html.EscapeString(e.Message))
	}
	return b.String()
}

// Err returns nil when nothing failed, otherwise a 400 ApiErr.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return NewValidationError(fe)
}

func NewValidationError(fields FieldErrors) *ApiErr {
	e := &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Details:    fields.Error(),
		Cause:      fields,
		Body:       fields.HTML(),
	}
	if len(fields) == 1 {
		e.Field = fields[0].Field
	}
	return e
}

func NewPartialLinkError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotAcceptable,
		err:        ErrPartialLink,
		Cause:      cause,
		Field:      "shooting",
		Body:       PartialLinkGuidance,
	}
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsPartialLinkError(err error) bool {
	return errors.Is(err, ErrPartialLink)
}

// FieldErrorsOf extracts the field failures carried by err.
func FieldErrorsOf(err error) FieldErrors {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		if fe, ok := apiErr.Cause.(FieldErrors); ok {
			return fe
		}
	}
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}
