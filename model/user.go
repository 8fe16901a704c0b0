package model

import "time"

// User holds the local profile data relevant to the application (outside of
// the identity provider).
type User struct {
	Id        string    `db:"id" json:"id"`
	Handle    string    `db:"handle" json:"handle"`
	Avatar    string    `db:"avatar" json:"avatar"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
