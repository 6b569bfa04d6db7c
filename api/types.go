package api

import (
	"html/template"
	"time"

	"github.com/rpupo63/shooting-roster/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	incidentHandler incidentHandler
	bodycamHandler  bodycamHandler
	viewHandler     viewHandler
	authHandler     authHandler
	tipHandler      tipHandler
	postHandler     postHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"date"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// IncidentView is the JSON shape of an incident
type IncidentView struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Date        string   `json:"date" example:"2018-06-01"`
	Age         int      `json:"age"`
	State       string   `json:"state"`
	StateLabel  string   `json:"state_label"`
	Race        string   `json:"race"`
	RaceLabel   string   `json:"race_label"`
	Gender      string   `json:"gender"`
	GenderLabel string   `json:"gender_label"`
	City        string   `json:"city"`
	Department  string   `json:"department"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	VideoURL    string   `json:"video_url"`
	Tags        []string `json:"tags"`
	Sources     []string `json:"sources"`
}

func newIncidentView(i *models.Incident) IncidentView {
	return IncidentView{
		ID:          i.ID,
		Name:        i.Name,
		Date:        i.Day().Format("2006-01-02"),
		Age:         i.Age,
		State:       i.State,
		StateLabel:  i.StateLabel(),
		Race:        i.Race,
		RaceLabel:   i.RaceLabel(),
		Gender:      i.Gender,
		GenderLabel: i.GenderLabel(),
		City:        i.City,
		Department:  i.Department,
		Description: i.Description,
		ImageURL:    i.ImageURL,
		VideoURL:    i.UnfilteredVideoURL,
		Tags:        i.TagTexts(),
		Sources:     i.SourceTexts(),
	}
}

func newIncidentViews(incidents []*models.Incident) []IncidentView {
	views := make([]IncidentView, 0, len(incidents))
	for _, i := range incidents {
		views = append(views, newIncidentView(i))
	}
	return views
}

// IncidentCollection is the /api/killings and /ajax/shootings payload
type IncidentCollection struct {
	Year      int            `json:"year"`
	Total     int            `json:"total"`
	Shootings []IncidentView `json:"shootings"`
	States    models.Choices `json:"states,omitempty"`
	Races     models.Choices `json:"races,omitempty"`
	Genders   models.Choices `json:"genders,omitempty"`
	AllTags   []string       `json:"all_tags,omitempty"`
}

// TagCollection is the /api/tags payload
type TagCollection struct {
	Kind string   `json:"kind"`
	Tags []string `json:"tags"`
}

// Select2Response is the shape select2 expects from an AJAX data source
type Select2Response struct {
	Results any `json:"results"`
}

// PostView is the JSON shape of a blog post
type PostView struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content"`
	Authors     []string   `json:"authors"`
	CoverImage  string     `json:"cover_image"`
	Length      int        `json:"length"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
	Created     time.Time  `json:"created"`
	DateEdited  *time.Time `json:"date_edited,omitempty"`
	Published   bool       `json:"published"`
	Tags        []string   `json:"tags"`

	body template.HTML
}

// Body returns the article markup for templates.
func (v PostView) Body() template.HTML {
	return v.body
}

func newPostView(p *models.Post, now time.Time) PostView {
	return PostView{
		ID:          p.ID,
		Title:       p.Title,
		Summary:     p.Summary,
		Content:     p.Content,
		Authors:     p.AuthorList(),
		CoverImage:  p.CoverImage,
		Length:      p.Length,
		PublishDate: p.PublishDate,
		Created:     p.CreatedAt,
		DateEdited:  p.DateEdited,
		Published:   p.Published(now),
		Tags:        p.TagTexts(),
		body:        p.Body(),
	}
}

func newPostViews(posts []*models.Post, now time.Time) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(p, now))
	}
	return views
}

// PostCollection is the /api/blog-posts payload
type PostCollection struct {
	Posts []PostView `json:"posts"`
	Total int        `json:"total"`
}
