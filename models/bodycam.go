package models

import (
	"html/template"
	"time"

	"gorm.io/datatypes"
)

// Bodycam represents published body-camera footage, optionally tied to an incident
type Bodycam struct {
	ID          uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string         `json:"title" gorm:"type:text;not null"`
	Video       string         `json:"video" gorm:"type:text;not null"`
	Description string         `json:"description" gorm:"type:text;not null;default:''"`
	Department  string         `json:"department" gorm:"type:text;not null;default:'';index"`
	State       string         `json:"state" gorm:"type:varchar(2);not null"`
	City        string         `json:"city" gorm:"type:text;not null;default:''"`
	Date        datatypes.Date `json:"date" gorm:"not null;index:idx_bodycam_date"`
	ShootingID  *uint          `json:"shooting,omitempty" gorm:"index"`
	CreatedAt   time.Time      `json:"created_at"`

	Shooting *Incident `json:"-" gorm:"foreignKey:ShootingID;references:ID;constraint:OnDelete:SET NULL"`
	Tags     []Tag     `json:"tags,omitempty" gorm:"polymorphic:Owner;polymorphicValue:bodycam"`
}

// Owner returns the reference tags use to point back at this bodycam.
func (b Bodycam) Owner() Owner {
	return Owner{Kind: OwnerBodycam, ID: b.ID}
}

// Linked reports whether the bodycam points at an incident.
func (b Bodycam) Linked() bool {
	return b.ShootingID != nil
}

// Day returns the footage date as a time.Time.
func (b Bodycam) Day() time.Time {
	return time.Time(b.Date)
}

// TagTexts returns the text of every tag in load order.
func (b Bodycam) TagTexts() []string {
	return tagTexts(b.Tags)
}

// Embed returns the stored embed markup for templates. The markup is
// entered by authenticated editors only.
func (b Bodycam) Embed() template.HTML {
	return template.HTML(b.Video)
}
