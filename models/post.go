package models

import (
	"html/template"
	"strings"
	"time"
)

// Post represents a blog article
type Post struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string     `json:"title" gorm:"type:text;not null;unique"`
	Summary     string     `json:"summary" gorm:"type:text;not null;default:''"`
	Content     string     `json:"content" gorm:"type:text;not null"`
	Authors     string     `json:"authors" gorm:"type:text;not null;default:''"`
	CoverImage  string     `json:"cover_image" gorm:"type:text;not null;default:''"`
	Length      int        `json:"length" gorm:"type:integer;not null;default:0"`
	PublishDate *time.Time `json:"publish_date,omitempty" gorm:"index:idx_post_publish_date"`
	CreatedAt   time.Time  `json:"created"`
	DateEdited  *time.Time `json:"date_edited,omitempty"`

	Tags []Tag `json:"tags,omitempty" gorm:"polymorphic:Owner;polymorphicValue:post"`
}

// Owner returns the reference tags use to point back at this post.
func (p Post) Owner() Owner {
	return Owner{Kind: OwnerPost, ID: p.ID}
}

// Published reports whether the post is visible to readers at now.
// Posts without a publish date are drafts.
func (p Post) Published(now time.Time) bool {
	return p.PublishDate != nil && !p.PublishDate.After(now)
}

// AuthorList splits the comma separated author names.
func (p Post) AuthorList() []string {
	var names []string
	for _, name := range strings.Split(p.Authors, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (p Post) TagTexts() []string {
	return tagTexts(p.Tags)
}

// Body returns the article markup for templates. Posts are written by
// authenticated editors only.
func (p Post) Body() template.HTML {
	return template.HTML(p.Content)
}
