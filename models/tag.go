package models

import "fmt"

// OwnerKind names the kind of record a tag belongs to.
type OwnerKind string

const (
	OwnerIncident OwnerKind = "incident"
	OwnerBodycam  OwnerKind = "bodycam"
	OwnerPost     OwnerKind = "post"
)

// Owner identifies the parent of a tag. A tag is never shared across owners.
type Owner struct {
	Kind OwnerKind
	ID   uint
}

func (o Owner) String() string {
	return fmt.Sprintf("%s:%d", o.Kind, o.ID)
}

// Tag represents a free-text label attached to a single owner record
type Tag struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Text      string `json:"text" gorm:"type:text;not null;uniqueIndex:idx_tag_unique"`
	OwnerType string `json:"owner_type" gorm:"type:varchar(16);not null;uniqueIndex:idx_tag_unique;index:idx_tag_owner"`
	OwnerID   uint   `json:"owner_id" gorm:"not null;uniqueIndex:idx_tag_unique;index:idx_tag_owner"`
}

// Owner returns the parent reference of the tag.
func (t Tag) Owner() Owner {
	return Owner{Kind: OwnerKind(t.OwnerType), ID: t.OwnerID}
}

func tagTexts(tags []Tag) []string {
	texts := make([]string, 0, len(tags))
	for _, t := range tags {
		texts = append(texts, t.Text)
	}
	return texts
}
