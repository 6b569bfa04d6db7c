package models

import (
	"time"

	"gorm.io/datatypes"
)

// Tip is a reader-submitted lead about a shooting the roster may be missing
type Tip struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"type:text;not null;default:''"`
	Date        *datatypes.Date `json:"date,omitempty"`
	City        string          `json:"city" gorm:"type:text;not null;default:''"`
	State       string          `json:"state" gorm:"type:varchar(2);not null;default:''"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Link        string          `json:"link" gorm:"type:text;not null;default:''"`
	Email       string          `json:"email" gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index:idx_tip_created_at"`
}

// Day returns the reported date, or the zero time when none was given.
func (t Tip) Day() time.Time {
	if t.Date == nil {
		return time.Time{}
	}
	return time.Time(*t.Date)
}

func (t Tip) StateLabel() string {
	return StateChoices.Label(t.State)
}

// Feedback is a free-form message about the site
type Feedback struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:text;not null;default:''"`
	Email     string    `json:"email" gorm:"type:text;not null;default:''"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_feedback_created_at"`
}

// TableName keeps feedback singular.
func (Feedback) TableName() string {
	return "feedback"
}
