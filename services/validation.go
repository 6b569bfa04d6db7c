package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/models"
)

const dateLayout = "2006-01-02"

const msgRequired = "This field is required."

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report failures under the JSON field names the editors post
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	choice := func(set models.Choices) validator.Func {
		return func(fl validator.FieldLevel) bool {
			return set.Valid(fl.Field().String())
		}
	}
	// registration only fails on an empty tag or a nil func
	_ = v.RegisterValidation("state", choice(models.StateChoices))
	_ = v.RegisterValidation("race", choice(models.RaceChoices))
	_ = v.RegisterValidation("gender", choice(models.GenderChoices))
	return v
}

// IncidentForm is the normalised, validated shape of an incident.
type IncidentForm struct {
	Name        string    `json:"name" validate:"max=255"`
	Date        time.Time `json:"date"`
	Age         int       `json:"age" validate:"min=-1"`
	State       string    `json:"state" validate:"required,state"`
	Race        string    `json:"race" validate:"required,race"`
	Gender      string    `json:"gender" validate:"required,gender"`
	City        string    `json:"city" validate:"max=255"`
	Department  string    `json:"department" validate:"max=255"`
	Description string    `json:"description"`
	VideoURL    string    `json:"video_url" validate:"max=2048"`
}

// BodycamForm is the normalised, validated shape of a bodycam.
type BodycamForm struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Video       string    `json:"video" validate:"required"`
	Description string    `json:"description"`
	Department  string    `json:"department" validate:"max=255"`
	State       string    `json:"state" validate:"required,state"`
	City        string    `json:"city" validate:"max=255"`
	Date        time.Time `json:"date"`
}

// TipForm is the normalised, validated shape of a reader tip.
type TipForm struct {
	Name        string     `json:"name" validate:"max=255"`
	Date        *time.Time `json:"date"`
	City        string     `json:"city" validate:"max=255"`
	State       string     `json:"state" validate:"omitempty,state"`
	Description string     `json:"description" validate:"required,max=5000"`
	Link        string     `json:"link" validate:"omitempty,url,max=2048"`
	Email       string     `json:"email" validate:"omitempty,email,max=254"`
}

// FeedbackForm is the normalised, validated shape of a feedback message.
type FeedbackForm struct {
	Name    string `json:"name" validate:"max=255"`
	Email   string `json:"email" validate:"omitempty,email,max=254"`
	Message string `json:"message" validate:"required,max=5000"`
}

// PostForm is the normalised, validated shape of a blog post.
type PostForm struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Summary     string     `json:"summary" validate:"max=1000"`
	Content     string     `json:"content" validate:"required"`
	Authors     string     `json:"authors" validate:"max=255"`
	CoverImage  string     `json:"cover_image" validate:"omitempty,url,max=2048"`
	PublishDate *time.Time `json:"publish_date"`
}

// NormalizeDate keeps the date part of an ISO-8601 date-time.
func NormalizeDate(raw string) (time.Time, error) {
	day := strings.TrimSpace(strings.SplitN(raw, "T", 2)[0])
	if day == "" {
		return time.Time{}, errs.FieldError{Field: "date", Message: msgRequired}
	}
	t, err := time.ParseInLocation(dateLayout, day, time.UTC)
	if err != nil {
		return time.Time{}, errs.FieldError{Field: "date", Message: "Enter a valid date."}
	}
	return t, nil
}

// NormalizeAge maps a blank age to models.UnknownAge and rejects negatives
// other than the sentinel itself.
func NormalizeAge(raw Loose) (int, error) {
	if raw.Empty() {
		return models.UnknownAge, nil
	}
	age, err := raw.Int()
	if err != nil {
		return 0, errs.FieldError{Field: "age", Message: "must be an integer"}
	}
	if age < 0 && age != models.UnknownAge {
		return 0, errs.FieldError{Field: "age", Message: "must be non-negative"}
	}
	return age, nil
}

// NormalizePublishDate parses an RFC 3339 date-time or a plain date. A
// blank value leaves the post unpublished.
func NormalizePublishDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.ParseInLocation(dateLayout, raw, time.UTC); err == nil {
		return &t, nil
	}
	return nil, errs.FieldError{Field: "publish_date", Message: "Enter a valid date/time."}
}

// ValidateIncident normalises and validates an incident payload.
func ValidateIncident(p IncidentPayload) (IncidentForm, error) {
	var fields errs.FieldErrors

	form := IncidentForm{
		Name:        p.Name,
		State:       p.State,
		Race:        p.Race,
		Gender:      p.Gender,
		City:        p.City,
		Department:  p.Department,
		Description: p.Description,
		VideoURL:    p.VideoURL,
	}

	date, err := NormalizeDate(p.Date)
	collect(&fields, err)
	form.Date = date

	age, err := NormalizeAge(p.Age)
	collect(&fields, err)
	form.Age = age

	collect(&fields, validate.Struct(form))
	return form, fields.Err()
}

// ValidateBodycam normalises and validates a bodycam payload.
func ValidateBodycam(p BodycamPayload) (BodycamForm, error) {
	var fields errs.FieldErrors

	form := BodycamForm{
		Title:       p.Title,
		Video:       p.Video,
		Description: p.Description,
		Department:  p.Department,
		State:       p.State,
		City:        p.City,
	}

	date, err := NormalizeDate(p.Date)
	collect(&fields, err)
	form.Date = date

	collect(&fields, validate.Struct(form))
	return form, fields.Err()
}

// ValidateTip normalises and validates a tip. The date is optional.
func ValidateTip(p TipPayload) (TipForm, error) {
	var fields errs.FieldErrors

	form := TipForm{
		Name:        strings.TrimSpace(p.Name),
		City:        strings.TrimSpace(p.City),
		State:       strings.TrimSpace(p.State),
		Description: strings.TrimSpace(p.Description),
		Link:        strings.TrimSpace(p.Link),
		Email:       strings.TrimSpace(p.Email),
	}

	if strings.TrimSpace(p.Date) != "" {
		date, err := NormalizeDate(p.Date)
		collect(&fields, err)
		if err == nil {
			form.Date = &date
		}
	}

	collect(&fields, validate.Struct(form))
	return form, fields.Err()
}

// ValidateFeedback normalises and validates a feedback message.
func ValidateFeedback(p FeedbackPayload) (FeedbackForm, error) {
	var fields errs.FieldErrors
	form := FeedbackForm{
		Name:    strings.TrimSpace(p.Name),
		Email:   strings.TrimSpace(p.Email),
		Message: strings.TrimSpace(p.Message),
	}
	collect(&fields, validate.Struct(form))
	return form, fields.Err()
}

// ValidatePost normalises and validates a blog post payload.
func ValidatePost(p PostPayload) (PostForm, error) {
	var fields errs.FieldErrors

	form := PostForm{
		Title:      strings.TrimSpace(p.Title),
		Summary:    strings.TrimSpace(p.Summary),
		Content:    p.Content,
		Authors:    strings.TrimSpace(p.Authors),
		CoverImage: strings.TrimSpace(p.CoverImage),
	}
	if strings.TrimSpace(form.Content) == "" {
		form.Content = ""
	}

	publish, err := NormalizePublishDate(p.PublishDate)
	collect(&fields, err)
	form.PublishDate = publish

	collect(&fields, validate.Struct(form))
	return form, fields.Err()
}

func collect(fields *errs.FieldErrors, err error) {
	if err == nil {
		return
	}
	var fe errs.FieldError
	if errors.As(err, &fe) {
		fields.Add(fe.Field, fe.Message)
		return
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, v := range verrs {
			fields.Add(v.Field(), message(v))
		}
		return
	}
	fields.Add("__all__", err.Error())
}

func message(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return msgRequired
	case "state", "race", "gender":
		return fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", v.Value())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", v.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", v.Param())
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	default:
		return "Enter a valid value."
	}
}
