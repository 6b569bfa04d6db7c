package models

// Source represents a citation backing an incident
type Source struct {
	ID         uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Text       string `json:"text" gorm:"type:text;not null;uniqueIndex:idx_source_unique"`
	IncidentID uint   `json:"shooting_id" gorm:"column:shooting_id;not null;index:idx_source_shooting_id;uniqueIndex:idx_source_unique"`
}
