package model

import "time"

type Comment struct {
	Id        int64     `db:"id" json:"id"`
	PostId    int64     `db:"post_id" json:"postId"`
	AuthorId  string    `db:"author_id" json:"authorId"`
	Author    *User     `db:"-" json:"author,omitempty"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// CommentWithUnread decorates a comment with the viewer's unread-reply flag.
type CommentWithUnread struct {
	*Comment
	HasUnreadReply bool `json:"hasUnreadReply"`
}

// Reply always parents a Comment, never another Reply. Two-level nesting only.
type Reply struct {
	Id        int64     `db:"id" json:"id"`
	CommentId int64     `db:"comment_id" json:"commentId"`
	AuthorId  string    `db:"author_id" json:"authorId"`
	Author    *User     `db:"-" json:"author,omitempty"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
