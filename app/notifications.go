package app

import (
	"context"

	"github.com/tightknit-app/tightknit-be/apperror"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/model"
)

const recentPostsWindow = 50

// Notifications owns unread bookkeeping: fan-out on comment and reply
// writes, read marks, and the recent-activity listing behind the bell. Every
// mutation publishes NotificationsChanged for the affected user.
type Notifications struct {
	db  appDb.Database
	bus *Bus
}

func NewNotifications(database appDb.Database, bus *Bus) *Notifications {
	return &Notifications{db: database, bus: bus}
}

// CommentCreated records unread post-level activity for everyone who can see
// the post, except the commenter. At most one unread COMMENT row per
// (recipient, post) exists; repeats refresh it in place.
func (n *Notifications) CommentCreated(ctx context.Context, post *model.Post, comment *model.Comment) error {
	recipients, err := n.eligibleViewers(ctx, post)
	if err != nil {
		return err
	}
	for _, recipientId := range recipients {
		if recipientId == comment.AuthorId {
			continue
		}
		err := n.db.UpsertUnread(ctx, &model.Notification{
			RecipientId: recipientId,
			ActorId:     comment.AuthorId,
			PostId:      post.Id,
			Type:        model.NotificationComment,
		})
		if err != nil {
			return err
		}
		n.bus.Publish(NotificationsChanged{UserId: recipientId})
	}
	return nil
}

// ReplyCreated records unread reply-level activity for the thread's
// participants: the comment author, the post author, and everyone who
// replied before. Recipients who can no longer see the post are skipped, as
// is the replier.
func (n *Notifications) ReplyCreated(ctx context.Context, post *model.Post, comment *model.Comment, actorId string) error {
	participantIds, err := n.db.GetReplyAuthorIds(ctx, comment.Id)
	if err != nil {
		return err
	}
	candidates := append([]string{comment.AuthorId, post.AuthorId}, participantIds...)

	seen := map[string]bool{actorId: true}
	for _, recipientId := range candidates {
		if seen[recipientId] {
			continue
		}
		seen[recipientId] = true
		visible, err := CanView(ctx, n.db, recipientId, post)
		if err != nil {
			return err
		}
		if !visible {
			continue
		}
		err = n.db.UpsertUnread(ctx, &model.Notification{
			RecipientId: recipientId,
			ActorId:     actorId,
			PostId:      post.Id,
			CommentId:   comment.Id,
			Type:        model.NotificationReply,
		})
		if err != nil {
			return err
		}
		n.bus.Publish(NotificationsChanged{UserId: recipientId})
	}
	return nil
}

// MarkPostRead clears all unread activity on a post for the viewer. Marking
// an already-read post is a no-op.
func (n *Notifications) MarkPostRead(ctx context.Context, viewer *model.User, postId int64) error {
	cleared, err := n.db.MarkPostRead(ctx, viewer.Id, postId)
	if err != nil {
		return err
	}
	if cleared > 0 {
		n.bus.Publish(NotificationsChanged{UserId: viewer.Id})
	}
	return nil
}

// MarkCommentRead clears unread reply activity under one comment without
// touching the rest of the post's unread state.
func (n *Notifications) MarkCommentRead(ctx context.Context, viewer *model.User, commentId int64) error {
	cleared, err := n.db.MarkCommentRead(ctx, viewer.Id, commentId)
	if err != nil {
		return err
	}
	if cleared > 0 {
		n.bus.Publish(NotificationsChanged{UserId: viewer.Id})
	}
	return nil
}

// ClearAll marks every unread notification read in one step.
func (n *Notifications) ClearAll(ctx context.Context, viewer *model.User) (int64, error) {
	cleared, err := n.db.ClearAllUnread(ctx, viewer.Id)
	if err != nil {
		return 0, err
	}
	if cleared > 0 {
		n.bus.Publish(NotificationsChanged{UserId: viewer.Id})
	}
	return cleared, nil
}

// RecentActivity is the bell dropdown: the newest visible feed posts plus
// which of them carry unread activity for the viewer, newest unread first.
type RecentActivity struct {
	Posts         []*model.Post `json:"posts"`
	UnreadPostIds []int64       `json:"unreadPostIds"`
}

func (n *Notifications) Recent(ctx context.Context, viewer *model.User, limit int) (*RecentActivity, error) {
	if limit <= 0 || limit > recentPostsWindow {
		limit = recentPostsWindow
	}
	posts, err := GetFeed(ctx, n.db, viewer, nil, 0, limit)
	if err != nil {
		return nil, err
	}
	postIds := make([]int64, len(posts))
	for i, post := range posts {
		postIds[i] = post.Id
	}
	unreadIds, err := n.db.GetUnreadPostIds(ctx, viewer.Id, postIds)
	if err != nil {
		return nil, err
	}
	return &RecentActivity{Posts: posts, UnreadPostIds: unreadIds}, nil
}

// UnreadPostIds returns ids of recent posts with unread activity for the
// viewer, newest unread first. This is the set the bell cursor walks. Posts
// the viewer can no longer see (a disconnect since the fan-out) are dropped
// rather than surfaced as dead jump targets.
func (n *Notifications) UnreadPostIds(ctx context.Context, viewer *model.User) ([]int64, error) {
	connectedIds, err := n.db.GetConnectedUserIds(ctx, viewer.Id)
	if err != nil {
		return nil, err
	}
	postIds, err := n.db.GetRecentPostIdsByAuthors(ctx, append(connectedIds, viewer.Id), recentPostsWindow)
	if err != nil {
		return nil, err
	}
	unreadIds, err := n.db.GetUnreadPostIds(ctx, viewer.Id, postIds)
	if err != nil {
		return nil, err
	}

	resolver := NewResolver(n.db, viewer.Id)
	ids := make([]int64, 0, len(unreadIds))
	for _, postId := range unreadIds {
		post, err := n.db.GetPostById(ctx, postId)
		if err != nil {
			return nil, err
		}
		if post == nil {
			continue
		}
		visible, err := resolver.CanView(ctx, post)
		if err != nil {
			return nil, err
		}
		if visible {
			ids = append(ids, postId)
		}
	}
	return ids, nil
}

// PostSummary reports per-post unread state for a batch of posts the client
// is rendering.
func (n *Notifications) PostSummary(ctx context.Context, viewer *model.User, postIds []int64) (map[int64]*model.PostNotificationSummary, error) {
	if len(postIds) > 200 {
		return nil, apperror.ValidationFailed("postIds", "too many posts")
	}
	notifications, err := n.db.GetUnreadForPosts(ctx, viewer.Id, postIds)
	if err != nil {
		return nil, err
	}
	summaries := make(map[int64]*model.PostNotificationSummary, len(postIds))
	for _, postId := range postIds {
		summaries[postId] = &model.PostNotificationSummary{}
	}
	for _, notification := range notifications {
		summary := summaries[notification.PostId]
		if summary == nil {
			continue
		}
		switch notification.Type {
		case model.NotificationComment:
			summary.HasUnreadComments = true
		case model.NotificationReply:
			summary.HasUnreadReplies = true
		}
	}
	return summaries, nil
}

// eligibleViewers is the post author plus each accepted connection who can
// currently see the post.
func (n *Notifications) eligibleViewers(ctx context.Context, post *model.Post) ([]string, error) {
	connectedIds, err := n.db.GetConnectedUserIds(ctx, post.AuthorId)
	if err != nil {
		return nil, err
	}
	viewers := []string{post.AuthorId}
	for _, userId := range connectedIds {
		visible, err := CanView(ctx, n.db, userId, post)
		if err != nil {
			return nil, err
		}
		if visible {
			viewers = append(viewers, userId)
		}
	}
	return viewers, nil
}
