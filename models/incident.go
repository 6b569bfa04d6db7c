package models

import (
	"time"

	"gorm.io/datatypes"
)

// UnknownAge is stored when the age of the person killed is not known.
const UnknownAge = -1

// Incident represents a tracked police shooting
type Incident struct {
	ID                 uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name               string         `json:"name" gorm:"type:text;not null;default:''"`
	Date               datatypes.Date `json:"date" gorm:"not null;index:idx_shooting_date"`
	Age                int            `json:"age" gorm:"type:integer;not null;default:-1"`
	State              string         `json:"state" gorm:"type:varchar(2);not null;index"`
	Race               string         `json:"race" gorm:"type:varchar(1);not null;index"`
	Gender             string         `json:"gender" gorm:"type:varchar(1);not null;index"`
	City               string         `json:"city" gorm:"type:text;not null;default:''"`
	Department         string         `json:"department" gorm:"type:text;not null;default:''"`
	Description        string         `json:"description" gorm:"type:text;not null;default:''"`
	ImageURL           string         `json:"image_url" gorm:"type:text;not null;default:''"`
	UnfilteredVideoURL string         `json:"unfiltered_video_url" gorm:"type:text;not null;default:''"`
	CreatedAt          time.Time      `json:"created_at"`

	Tags    []Tag    `json:"tags,omitempty" gorm:"polymorphic:Owner;polymorphicValue:incident"`
	Sources []Source `json:"sources,omitempty" gorm:"foreignKey:IncidentID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the historical table name.
func (Incident) TableName() string {
	return "shootings"
}

// Owner returns the reference tags use to point back at this incident.
func (i Incident) Owner() Owner {
	return Owner{Kind: OwnerIncident, ID: i.ID}
}

// AgeKnown reports whether an age was recorded.
func (i Incident) AgeKnown() bool {
	return i.Age != UnknownAge
}

// Day returns the incident date as a time.Time.
func (i Incident) Day() time.Time {
	return time.Time(i.Date)
}

// TagTexts returns the text of every tag in load order.
func (i Incident) TagTexts() []string {
	return tagTexts(i.Tags)
}

// SourceTexts returns the text of every source in load order.
func (i Incident) SourceTexts() []string {
	texts := make([]string, 0, len(i.Sources))
	for _, s := range i.Sources {
		texts = append(texts, s.Text)
	}
	return texts
}

// StateLabel resolves the state code to its display name.
func (i Incident) StateLabel() string {
	return StateChoices.Label(i.State)
}

// RaceLabel resolves the race code to its display name.
func (i Incident) RaceLabel() string {
	return RaceChoices.Label(i.Race)
}

// GenderLabel resolves the gender code to its display name.
func (i Incident) GenderLabel() string {
	return GenderChoices.Label(i.Gender)
}
