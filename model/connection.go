package model

import (
	"time"
)

type ConnectionStatus string

// Rejection and disconnection delete the edge outright, so only these two
// states are ever stored. At most one edge may exist per unordered user pair.
const (
	ConnectionPending  ConnectionStatus = "PENDING"
	ConnectionAccepted                  = "ACCEPTED"
)

// Connection is a mutual edge between two users. It starts PENDING, owned
// (actionable) by the recipient, and becomes ACCEPTED only by the recipient's
// explicit action.
type Connection struct {
	Id          int64            `db:"id" json:"id"`
	RequesterId string           `db:"requester_id" json:"requesterId"`
	RecipientId string           `db:"recipient_id" json:"recipientId"`
	Status      ConnectionStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updatedAt"`
}

func (c *Connection) Involves(userId string) bool {
	return c.RequesterId == userId || c.RecipientId == userId
}

// OtherParty returns the participant that is not userId. Callers must check
// Involves first.
func (c *Connection) OtherParty(userId string) string {
	if c.RequesterId == userId {
		return c.RecipientId
	}
	return c.RequesterId
}

// ConnectionWithUser decorates an edge with the counterpart's profile for
// listing endpoints.
type ConnectionWithUser struct {
	*Connection
	OtherUser *User `json:"otherUser"`
}
