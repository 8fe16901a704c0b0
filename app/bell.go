package app

import (
	"context"
	"sync"

	"github.com/tightknit-app/tightknit-be/apperror"
	"github.com/tightknit-app/tightknit-be/model"
)

// longPressThresholdMs matches the client's press-and-hold gesture.
const longPressThresholdMs = 1000

type bellCursor struct {
	postIds []int64
	index   int
}

// BellController drives the notification bell. Each tap jumps to the next
// post with unread activity, cycling through the unread set; a long press
// clears everything.
//
// The cursor position is per-viewer, in-memory soft state over the store's
// unread rows. It is dropped whenever the viewer's unread set changes and on
// process restart; losing it costs at most a repeated jump target.
type BellController struct {
	notifications *Notifications

	mu      sync.Mutex
	cursors map[string]*bellCursor
}

func NewBellController(notifications *Notifications, bus *Bus) *BellController {
	controller := &BellController{
		notifications: notifications,
		cursors:       map[string]*bellCursor{},
	}
	bus.Subscribe(func(event Event) {
		if changed, ok := event.(NotificationsChanged); ok {
			controller.invalidate(changed.UserId)
		}
	})
	return controller
}

// NextUnreadResult is one bell tap. PostId is 0 when nothing is unread.
type NextUnreadResult struct {
	PostId      int64 `json:"postId"`
	UnreadCount int   `json:"unreadCount"`
}

// NextUnread returns the next unread post to jump to and advances the
// cursor. The unread set is re-read from the store on every tap; if it
// changed since the last tap the cursor restarts at the newest unread post.
// The cursor wraps, so tapping keeps cycling until the posts are read.
func (bc *BellController) NextUnread(ctx context.Context, viewer *model.User) (*NextUnreadResult, error) {
	postIds, err := bc.notifications.UnreadPostIds(ctx, viewer)
	if err != nil {
		return nil, err
	}
	if len(postIds) == 0 {
		bc.invalidate(viewer.Id)
		return &NextUnreadResult{}, nil
	}

	bc.mu.Lock()
	defer bc.mu.Unlock()
	cursor := bc.cursors[viewer.Id]
	if cursor == nil || !samePostIds(cursor.postIds, postIds) {
		cursor = &bellCursor{postIds: postIds}
		bc.cursors[viewer.Id] = cursor
	}
	postId := cursor.postIds[cursor.index]
	cursor.index = (cursor.index + 1) % len(cursor.postIds)
	return &NextUnreadResult{PostId: postId, UnreadCount: len(postIds)}, nil
}

// LongPressClear clears all unread notifications, but only for a genuine
// press-and-hold. Short presses are rejected so an accidental tap never
// wipes the unread set.
func (bc *BellController) LongPressClear(ctx context.Context, viewer *model.User, heldMs int) (int64, error) {
	if heldMs < longPressThresholdMs {
		return 0, apperror.ValidationFailed("heldMs", "press and hold to clear notifications")
	}
	return bc.notifications.ClearAll(ctx, viewer)
}

func (bc *BellController) invalidate(userId string) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	delete(bc.cursors, userId)
}

func samePostIds(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
