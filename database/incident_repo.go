package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IncidentFilter narrows a year listing. Empty fields are ignored.
type IncidentFilter struct {
	Year   int
	Tag    string
	State  string
	Race   string
	Gender string
}

type IncidentRepo struct {
	db *gorm.DB
}

func NewIncidentRepo(db *gorm.DB) *IncidentRepo {
	return &IncidentRepo{db}
}

// FindByID returns an incident with its tags and sources
func (r *IncidentRepo) FindByID(ctx context.Context, id uint) (*models.Incident, error) {
	var incident models.Incident
	err := r.db.WithContext(ctx).Preload("Tags").Preload("Sources").First(&incident, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewLookupMiss("Shooting")
	}
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

// FindByYear returns the incidents dated in filter.Year, newest first
func (r *IncidentRepo) FindByYear(ctx context.Context, filter IncidentFilter) ([]*models.Incident, error) {
	start, end := yearBounds(filter.Year)
	q := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Sources").
		Where("date >= ? AND date < ?", start, end)

	if filter.State != "" {
		q = q.Where("state = ?", filter.State)
	}
	if filter.Race != "" {
		q = q.Where("race = ?", filter.Race)
	}
	if filter.Gender != "" {
		q = q.Where("gender = ?", filter.Gender)
	}
	if filter.Tag != "" {
		tagged := r.db.Model(&models.Tag{}).
			Select("owner_id").
			Where("owner_type = ? AND text = ?", string(models.OwnerIncident), filter.Tag)
		q = q.Where("id IN (?)", tagged)
	}

	var incidents []*models.Incident
	err := q.Order("date DESC").Order("id DESC").Find(&incidents).Error
	return incidents, err
}

// DatesInYear returns only the dates of the incidents in year.
func (r *IncidentRepo) DatesInYear(ctx context.Context, year int) ([]time.Time, error) {
	start, end := yearBounds(year)
	var incidents []models.Incident
	err := r.db.WithContext(ctx).
		Select("id", "date").
		Where("date >= ? AND date < ?", start, end).
		Find(&incidents).Error
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(incidents))
	for _, i := range incidents {
		dates = append(dates, i.Day())
	}
	return dates, nil
}

// ColumnCount is one row of a grouped count.
type ColumnCount struct {
	Value string
	Count int64
}

// CountByColumn groups the incidents of year by one of state, race or gender.
func (r *IncidentRepo) CountByColumn(ctx context.Context, year int, column string) ([]ColumnCount, error) {
	switch column {
	case "state", "race", "gender":
	default:
		return nil, errs.NewBadRequestError("cannot group by " + column)
	}
	start, end := yearBounds(year)
	var rows []ColumnCount
	err := r.db.WithContext(ctx).
		Model(&models.Incident{}).
		Select(column+" AS value, COUNT(*) AS count").
		Where("date >= ? AND date < ?", start, end).
		Group(column).
		Order("count DESC").
		Order(column).
		Scan(&rows).Error
	return rows, err
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Search matches term against names and cities, newest first
func (r *IncidentRepo) Search(ctx context.Context, term string, limit int) ([]*models.Incident, error) {
	q := r.db.WithContext(ctx).Order("date DESC").Limit(limit)
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(city) LIKE ? ESCAPE '\'`, like, like)
	}
	var incidents []*models.Incident
	err := q.Find(&incidents).Error
	return incidents, err
}

// Add inserts a new incident; tags and sources are written separately
func (r *IncidentRepo) Add(ctx context.Context, incident *models.Incident) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(incident).Error
}

// Update writes every column of an existing incident
func (r *IncidentRepo) Update(ctx context.Context, incident *models.Incident) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(incident).Error
}

// SetImageURL stores the cover image location
func (r *IncidentRepo) SetImageURL(ctx context.Context, id uint, url string) error {
	res := r.db.WithContext(ctx).Model(&models.Incident{}).Where("id = ?", id).Update("image_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewLookupMiss("Shooting")
	}
	return nil
}

// Delete removes an incident with its tags and sources and unlinks its bodycams
func (r *IncidentRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_type = ? AND owner_id = ?", string(models.OwnerIncident), id).
			Delete(&models.Tag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shooting_id = ?", id).Delete(&models.Source{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Bodycam{}).Where("shooting_id = ?", id).
			Update("shooting_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Incident{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewLookupMiss("Shooting")
		}
		return nil
	})
}
