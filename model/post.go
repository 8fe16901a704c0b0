package model

import (
	"time"
)

// Audience is the visibility scope attached to a post at creation time.
// AudienceTagIds is only meaningful for AudienceTags.
type Audience string

const (
	AudienceAll     Audience = "ALL"
	AudiencePrivate          = "PRIVATE"
	AudienceTags             = "TAGS"
)

func (a Audience) Valid() bool {
	switch a {
	case AudienceAll, AudiencePrivate, AudienceTags:
		return true
	}
	return false
}

type Post struct {
	Id       int64    `db:"id" json:"id"`
	AuthorId string   `db:"author_id" json:"authorId"`
	Author   *User    `db:"-" json:"author,omitempty"`
	Content  string   `db:"content" json:"content"`
	Audience Audience `db:"audience" json:"audience"`
	// AudienceTagIds are structural references to the author's tags, kept
	// verbatim even after a referenced tag is deleted.
	AudienceTagIds []int64   `db:"-" json:"audienceTagIds,omitempty"`
	PhotoUrls      []string  `db:"-" json:"photoUrls"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

func (p *Post) HasPhotos() bool {
	return len(p.PhotoUrls) > 0
}
