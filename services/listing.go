package services

import (
	"context"
	"strconv"
	"time"

	"github.com/rpupo63/shooting-roster/database"
	"github.com/rpupo63/shooting-roster/models"
	"golang.org/x/sync/errgroup"
)

// SearchLimit caps the select2 result list.
const SearchLimit = 20

// ListQuery selects the incidents shown on a roster page.
type ListQuery struct {
	Year   int
	Tag    string
	State  string
	Race   string
	Gender string
}

// Facets are the filter options rendered next to a listing.
type Facets struct {
	States  models.Choices `json:"states"`
	Races   models.Choices `json:"races"`
	Genders models.Choices `json:"genders"`
	AllTags []string       `json:"all_tags"`
}

type IncidentPage struct {
	Facets
	Year      int                `json:"year"`
	Total     int                `json:"total"`
	Incidents []*models.Incident `json:"shootings"`
}

type BodycamPage struct {
	Year        int               `json:"year"`
	Total       int               `json:"total"`
	Bodycams    []*models.Bodycam `json:"bodycams"`
	Departments []string          `json:"departments"`
}

type DashboardPage struct {
	Facets
	Year     int               `json:"year"`
	Bodycams []*models.Bodycam `json:"bodycams"`
}

type IncidentDetail struct {
	Incident *models.Incident  `json:"shooting"`
	Bodycams []*models.Bodycam `json:"bodycams"`
}

// Count is one bar of a stats chart.
type Count struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type StatsPage struct {
	Year    int     `json:"year"`
	Total   int64   `json:"total"`
	Races   []Count `json:"races"`
	Genders []Count `json:"genders"`
	States  []Count `json:"states"`
	Months  []Count `json:"months"`
}

// SearchResult is one select2 option.
type SearchResult struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// Composer assembles the data behind the read-only pages and JSON feeds.
type Composer struct {
	incidents *database.IncidentRepo
	bodycams  *database.BodycamRepo
	tags      *database.TagRepo
	cache     *FacetCache
}

func NewComposer(db database.Database, cache *FacetCache) *Composer {
	return &Composer{
		incidents: db.IncidentRepo(),
		bodycams:  db.BodycamRepo(),
		tags:      db.TagRepo(),
		cache:     cache,
	}
}

// ListIncidents returns the incidents of q.Year, newest first, with facets.
func (c *Composer) ListIncidents(ctx context.Context, q ListQuery) (*IncidentPage, error) {
	incidents, err := c.incidents.FindByYear(ctx, database.IncidentFilter{
		Year:   q.Year,
		Tag:    q.Tag,
		State:  q.State,
		Race:   q.Race,
		Gender: q.Gender,
	})
	if err != nil {
		return nil, err
	}
	facets, err := c.facets(ctx, models.OwnerIncident)
	if err != nil {
		return nil, err
	}
	return &IncidentPage{
		Facets:    facets,
		Year:      q.Year,
		Total:     len(incidents),
		Incidents: incidents,
	}, nil
}

// ListBodycams returns the bodycams of year with the departments they cover.
func (c *Composer) ListBodycams(ctx context.Context, year int) (*BodycamPage, error) {
	bodycams, err := c.bodycams.FindByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	departments, err := c.bodycams.Departments(ctx, year)
	if err != nil {
		return nil, err
	}
	return &BodycamPage{
		Year:        year,
		Total:       len(bodycams),
		Bodycams:    bodycams,
		Departments: departments,
	}, nil
}

// Dashboard returns every bodycam, newest first.
func (c *Composer) Dashboard(ctx context.Context, year int) (*DashboardPage, error) {
	bodycams, err := c.bodycams.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	facets, err := c.facets(ctx, models.OwnerBodycam)
	if err != nil {
		return nil, err
	}
	return &DashboardPage{Facets: facets, Year: year, Bodycams: bodycams}, nil
}

// Incident returns one incident and the bodycams linked to it.
func (c *Composer) Incident(ctx context.Context, id uint) (*IncidentDetail, error) {
	incident, err := c.incidents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	bodycams, err := c.bodycams.FindByShooting(ctx, id)
	if err != nil {
		return nil, err
	}
	return &IncidentDetail{Incident: incident, Bodycams: bodycams}, nil
}

// Tags returns the distinct tag texts of kind.
func (c *Composer) Tags(ctx context.Context, kind models.OwnerKind) ([]string, error) {
	return c.cache.Tags(ctx, kind, func(ctx context.Context) ([]string, error) {
		return c.tags.DistinctTexts(ctx, kind)
	})
}

// Search returns select2 options for incidents whose name or city matches term.
func (c *Composer) Search(ctx context.Context, term string) ([]SearchResult, error) {
	incidents, err := c.incidents.Search(ctx, term, SearchLimit)
	if err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, len(incidents))
	for _, i := range incidents {
		results = append(results, SearchResult{ID: i.ID, Text: searchText(i)})
	}
	return results, nil
}

// Stats counts the incidents of year per race, gender, state and month.
func (c *Composer) Stats(ctx context.Context, year int) (*StatsPage, error) {
	page := &StatsPage{Year: year}

	groups := []struct {
		column  string
		choices models.Choices
		out     *[]Count
	}{
		{"race", models.RaceChoices, &page.Races},
		{"gender", models.GenderChoices, &page.Genders},
		{"state", models.StateChoices, &page.States},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, grp := range groups {
		grp := grp
		g.Go(func() error {
			rows, err := c.incidents.CountByColumn(gctx, year, grp.column)
			if err != nil {
				return err
			}
			counts := make([]Count, 0, len(rows))
			for _, r := range rows {
				counts = append(counts, Count{Code: r.Value, Label: grp.choices.Label(r.Value), Count: r.Count})
			}
			*grp.out = counts
			return nil
		})
	}
	g.Go(func() error {
		dates, err := c.incidents.DatesInYear(gctx, year)
		if err != nil {
			return err
		}
		page.Months = monthCounts(dates)
		page.Total = int64(len(dates))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Composer) facets(ctx context.Context, kind models.OwnerKind) (Facets, error) {
	tags, err := c.Tags(ctx, kind)
	if err != nil {
		return Facets{}, err
	}
	return Facets{
		States:  models.StateChoices,
		Races:   models.RaceChoices,
		Genders: models.GenderChoices,
		AllTags: tags,
	}, nil
}

func monthCounts(dates []time.Time) []Count {
	months := make([]Count, 12)
	for m := range months {
		month := time.Month(m + 1)
		months[m] = Count{Code: strconv.Itoa(m + 1), Label: month.String()}
	}
	for _, d := range dates {
		months[d.Month()-1].Count++
	}
	return months
}

func searchText(i *models.Incident) string {
	name := i.Name
	if name == "" {
		name = "Unknown"
	}
	text := name + " (" + i.Day().Format(dateLayout)
	if i.City != "" {
		text += ", " + i.City
	}
	if i.State != "" {
		text += ", " + i.State
	}
	return text + ")"
}
