package model

import (
	"strings"
	"time"
)

type ColorScheme string

const (
	ColorSchemeFriends ColorScheme = "friends"
	ColorSchemeFamily              = "family"
	ColorSchemeCustom              = "custom"
)

func (cs ColorScheme) Valid() bool {
	switch cs {
	case ColorSchemeFriends, ColorSchemeFamily, ColorSchemeCustom:
		return true
	}
	return false
}

// Tag is a private, owner-scoped label applied to connections. Names are
// unique per owner, case-insensitively. Tags are never visible to the tagged
// connection or to anyone else.
type Tag struct {
	Id          int64       `db:"id" json:"id"`
	OwnerId     string      `db:"owner_id" json:"-"`
	Name        string      `db:"name" json:"name"`
	ColorScheme ColorScheme `db:"color_scheme" json:"colorScheme"`
	CustomLabel string      `db:"custom_label" json:"customLabel,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// SameName compares tag names the way the registry does: case-insensitively.
func (t *Tag) SameName(name string) bool {
	return strings.EqualFold(t.Name, name)
}

// ConnectionTag assigns one of the owner's tags to one of the owner's
// accepted connections. Deleted with the tag or the edge.
type ConnectionTag struct {
	Id           int64     `db:"id" json:"id"`
	ConnectionId int64     `db:"connection_id" json:"connectionId"`
	TagId        int64     `db:"tag_id" json:"tagId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
