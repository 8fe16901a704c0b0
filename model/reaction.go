package model

import "time"

// Reaction is one user's emoji response to a post. A user holds at most one
// reaction per post; reacting again replaces the emoji in place.
type Reaction struct {
	Id        int64     `db:"id" json:"id"`
	PostId    int64     `db:"post_id" json:"postId"`
	UserId    string    `db:"user_id" json:"userId"`
	User      *User     `db:"-" json:"user,omitempty"`
	Emoji     string    `db:"emoji" json:"emoji"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
