package model

import "time"

type NotificationType string

const (
	NotificationComment NotificationType = "COMMENT"
	NotificationReply                    = "REPLY"
)

// Notification is one unread-activity row for a recipient. CommentId is zero
// for post-level comment activity and set for per-comment reply activity.
// ReadAt is nil while the activity is unread; rows are derived state and are
// only ever cleared, never independently deleted.
type Notification struct {
	Id          int64            `json:"id"`
	RecipientId string           `json:"recipientId"`
	ActorId     string           `json:"actorId"`
	PostId      int64            `json:"postId"`
	CommentId   int64            `json:"commentId,omitempty"`
	Type        NotificationType `json:"type"`
	CreatedAt   time.Time        `json:"createdAt"`
	ReadAt      *time.Time       `json:"readAt,omitempty"`
}

// PostNotificationSummary is the per-post unread rollup shown on feed cards.
type PostNotificationSummary struct {
	HasUnreadComments bool `json:"hasUnreadComments"`
	HasUnreadReplies  bool `json:"hasUnreadReplies"`
}
