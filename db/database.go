package db

import (
	"context"
	"time"

	"github.com/tightknit-app/tightknit-be/model"

	_ "github.com/go-sql-driver/mysql"
)

// Database is the single authoritative store. All reads observe the latest
// committed state; no in-process cache is authoritative.
type Database interface {
	UserDatabase
	ConnectionDatabase
	TagDatabase
	PostDatabase
	ReactionDatabase
	NotificationDatabase
	Close() error
}

type UserDatabase interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUsers(ctx context.Context, ids []string) ([]*model.User, error)
}

type ConnectionDatabase interface {
	CreateConnectionRequest(ctx context.Context, requesterId, recipientId string) (edgeId int64, err error)
	GetConnectionById(ctx context.Context, id int64) (*model.Connection, error)
	GetConnectionBetween(ctx context.Context, userA, userB string) (*model.Connection, error)
	// AcceptConnection flips a pending edge to accepted. The cap check for
	// both participants and the status flip run as one atomic transition;
	// returns apperror sentinels on state or capacity violations.
	AcceptConnection(ctx context.Context, id int64, maxConnections int) error
	// DeleteConnection removes the edge and cascades ConnectionTag rows for
	// both parties' tags.
	DeleteConnection(ctx context.Context, id int64) error
	GetConnectionsForUser(ctx context.Context, userId string, status model.ConnectionStatus) ([]*model.Connection, error)
	GetPendingRequests(ctx context.Context, userId string, incoming bool) ([]*model.Connection, error)
	CountAcceptedConnections(ctx context.Context, userId string) (int, error)
	GetConnectedUserIds(ctx context.Context, userId string) ([]string, error)
}

type TagDatabase interface {
	CreateTag(ctx context.Context, tag *model.Tag) (tagId int64, err error)
	GetTagById(ctx context.Context, id int64) (*model.Tag, error)
	GetTagsForUser(ctx context.Context, ownerId string) ([]*model.Tag, error)
	// GetTagByName matches case-insensitively.
	GetTagByName(ctx context.Context, ownerId, name string) (*model.Tag, error)
	UpdateTag(ctx context.Context, tag *model.Tag) error
	// DeleteTag cascades ConnectionTag rows. Post audience references are
	// left in place on purpose; resolution treats them as gone.
	DeleteTag(ctx context.Context, id int64) error
	// AssignTag is idempotent; re-assigning an assigned tag is a no-op.
	AssignTag(ctx context.Context, connectionId, tagId int64) error
	UnassignTag(ctx context.Context, connectionId, tagId int64) (removed bool, err error)
	GetTagsForConnection(ctx context.Context, connectionId int64, ownerId string) ([]*model.Tag, error)
	GetTagIdsForConnection(ctx context.Context, connectionId int64, ownerId string) ([]int64, error)
	// GetConnectionIdsWithTags returns ids of the owner's connections carrying
	// at least one of the listed tags.
	GetConnectionIdsWithTags(ctx context.Context, ownerId string, tagIds []int64) ([]int64, error)
}

type CreatePost struct {
	AuthorId       string
	Content        string
	Audience       model.Audience
	AudienceTagIds []int64
	PhotoUrls      []string
}

type CreateComment struct {
	PostId   int64
	AuthorId string
	Content  string
}

type CreateReply struct {
	CommentId int64
	AuthorId  string
	Content   string
}

// PostsQuery selects posts by author set and time window, ordered by
// created_at with id as the stable tiebreak.
type PostsQuery struct {
	AuthorIds []string
	Since     *time.Time // inclusive
	Until     *time.Time // exclusive
	Ascending bool
	Skip      int
	Limit     int
}

type PostDatabase interface {
	CreatePost(ctx context.Context, req *CreatePost) (postId int64, err error)
	GetPostById(ctx context.Context, id int64) (*model.Post, error)
	GetPostsByAuthors(ctx context.Context, query *PostsQuery) ([]*model.Post, error)
	GetRecentPostIdsByAuthors(ctx context.Context, authorIds []string, limit int) ([]int64, error)
	CreateComment(ctx context.Context, req *CreateComment) (commentId int64, err error)
	GetCommentById(ctx context.Context, id int64) (*model.Comment, error)
	GetCommentsForPost(ctx context.Context, postId int64) ([]*model.Comment, error)
	CreateReply(ctx context.Context, req *CreateReply) (replyId int64, err error)
	GetRepliesForComment(ctx context.Context, commentId int64) ([]*model.Reply, error)
	GetReplyAuthorIds(ctx context.Context, commentId int64) ([]string, error)
}

type ReactionDatabase interface {
	// UpsertReaction replaces the user's existing reaction on the post if one
	// exists, otherwise inserts a new row.
	UpsertReaction(ctx context.Context, reaction *model.Reaction) error
	DeleteReaction(ctx context.Context, postId int64, userId string) (removed bool, err error)
	// GetReactionsForPost returns reactions oldest first.
	GetReactionsForPost(ctx context.Context, postId int64) ([]*model.Reaction, error)
}

type NotificationDatabase interface {
	// UpsertUnread refreshes the matching unread row's actor and timestamp if
	// one exists, otherwise inserts a new row.
	UpsertUnread(ctx context.Context, notification *model.Notification) error
	GetUnreadForPosts(ctx context.Context, recipientId string, postIds []int64) ([]*model.Notification, error)
	// GetUnreadCommentIds returns the subset of commentIds with unread reply
	// activity for the recipient.
	GetUnreadCommentIds(ctx context.Context, recipientId string, commentIds []int64) ([]int64, error)
	// GetUnreadPostIds returns the subset of postIds with any unread activity,
	// ordered by newest notification first.
	GetUnreadPostIds(ctx context.Context, recipientId string, postIds []int64) ([]int64, error)
	MarkPostRead(ctx context.Context, recipientId string, postId int64) (cleared int64, err error)
	MarkCommentRead(ctx context.Context, recipientId string, commentId int64) (cleared int64, err error)
	ClearAllUnread(ctx context.Context, recipientId string) (cleared int64, err error)
}
