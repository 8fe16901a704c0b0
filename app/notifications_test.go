package app

import (
	"context"
	"sync"
	"testing"

	"github.com/tightknit-app/tightknit-be/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentFanOut(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	carol := seedUser(t, database, "carol")
	connectUsers(t, database, alice, bob)
	connectUsers(t, database, alice, carol)

	bus := NewBus()
	notifications := NewNotifications(database, bus)
	post := seedPost(t, database, alice, model.AudienceAll, nil)

	_, err := CreateComment(ctx, database, notifications, bob, post.Id, "nice one")
	require.NoError(t, err)

	// author and carol get unread activity, the commenter does not
	for user, wantUnread := range map[*model.User]bool{
		alice: true,
		carol: true,
		bob:   false,
	} {
		unread, err := database.GetUnreadPostIds(ctx, user.Id, []int64{post.Id})
		require.NoError(t, err)
		if wantUnread {
			assert.Equal(t, []int64{post.Id}, unread, user.Handle)
		} else {
			assert.Empty(t, unread, user.Handle)
		}
	}
}

func TestCommentFanOutHonorsAudience(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	carol := seedUser(t, database, "carol")

	bobEdge := connectUsers(t, database, alice, bob)
	connectUsers(t, database, alice, carol)

	inner := seedTag(t, database, alice, "inner circle")
	require.NoError(t, AssignTag(ctx, database, alice, bobEdge, inner.Id))

	bus := NewBus()
	notifications := NewNotifications(database, bus)
	post := seedPost(t, database, alice, model.AudienceTags, []int64{inner.Id})

	_, err := CreateComment(ctx, database, notifications, bob, post.Id, "hello")
	require.NoError(t, err)

	unread, err := database.GetUnreadPostIds(ctx, carol.Id, []int64{post.Id})
	require.NoError(t, err)
	assert.Empty(t, unread, "carol cannot see the post so she gets no notification")
}

func TestRepeatCommentsCollapseToOneUnread(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	connectUsers(t, database, alice, bob)

	bus := NewBus()
	notifications := NewNotifications(database, bus)
	post := seedPost(t, database, alice, model.AudienceAll, nil)

	for i := 0; i < 3; i++ {
		_, err := CreateComment(ctx, database, notifications, bob, post.Id, "again")
		require.NoError(t, err)
	}

	rows, err := database.GetUnreadForPosts(ctx, alice.Id, []int64{post.Id})
	require.NoError(t, err)
	assert.Len(t, rows, 1, "repeats refresh the existing unread row")
}

func TestConcurrentUpsertsKeepOneUnreadRow(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	connectUsers(t, database, alice, bob)
	post := seedPost(t, database, alice, model.AudienceAll, nil)

	const writers = 8
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = database.UpsertUnread(ctx, &model.Notification{
				RecipientId: alice.Id,
				ActorId:     bob.Id,
				PostId:      post.Id,
				Type:        model.NotificationComment,
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	rows, err := database.GetUnreadForPosts(ctx, alice.Id, []int64{post.Id})
	require.NoError(t, err)
	assert.Len(t, rows, 1, "concurrent writers must converge on one row")
}

func TestReplyFanOut(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	carol := seedUser(t, database, "carol")
	connectUsers(t, database, alice, bob)
	connectUsers(t, database, alice, carol)

	bus := NewBus()
	notifications := NewNotifications(database, bus)
	post := seedPost(t, database, alice, model.AudienceAll, nil)

	comment, err := CreateComment(ctx, database, notifications, bob, post.Id, "first")
	require.NoError(t, err)
	require.NoError(t, notifications.MarkPostRead(ctx, alice, post.Id))

	// carol replies: notify the comment author (bob) and the post author
	// (alice), not herself
	_, err = CreateReply(ctx, database, notifications, carol, comment.Id, "me too")
	require.NoError(t, err)

	for user, wantUnread := range map[*model.User]bool{
		alice: true,
		bob:   true,
		carol: false,
	} {
		summary, err := notifications.PostSummary(ctx, user, []int64{post.Id})
		require.NoError(t, err)
		assert.Equal(t, wantUnread, summary[post.Id].HasUnreadReplies, user.Handle)
	}

	// a further reply by bob reaches carol as a prior participant
	require.NoError(t, notifications.MarkPostRead(ctx, alice, post.Id))
	_, err = CreateReply(ctx, database, notifications, bob, comment.Id, "thanks")
	require.NoError(t, err)

	summary, err := notifications.PostSummary(ctx, carol, []int64{post.Id})
	require.NoError(t, err)
	assert.True(t, summary[post.Id].HasUnreadReplies)
}

func TestMarkPostRead(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	connectUsers(t, database, alice, bob)

	bus := NewBus()
	notifications := NewNotifications(database, bus)
	post := seedPost(t, database, alice, model.AudienceAll, nil)

	_, err := CreateComment(ctx, database, notifications, bob, post.Id, "hey")
	require.NoError(t, err)

	require.NoError(t, notifications.MarkPostRead(ctx, alice, post.Id))
	unread, err := database.GetUnreadPostIds(ctx, alice.Id, []int64{post.Id})
	require.NoError(t, err)
	assert.Empty(t, unread)

	// idempotent
	require.NoError(t, notifications.MarkPostRead(ctx, alice, post.Id))
}

func TestMarkCommentReadIsScoped(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	connectUsers(t, database, alice, bob)

	bus := NewBus()
	notifications := NewNotifications(database, bus)
	post := seedPost(t, database, alice, model.AudienceAll, nil)

	first, err := CreateComment(ctx, database, notifications, alice, post.Id, "thread one")
	require.NoError(t, err)
	second, err := CreateComment(ctx, database, notifications, alice, post.Id, "thread two")
	require.NoError(t, err)

	_, err = CreateReply(ctx, database, notifications, bob, first.Id, "re one")
	require.NoError(t, err)
	_, err = CreateReply(ctx, database, notifications, bob, second.Id, "re two")
	require.NoError(t, err)

	require.NoError(t, notifications.MarkCommentRead(ctx, alice, first.Id))

	unreadComments, err := database.GetUnreadCommentIds(ctx, alice.Id, []int64{first.Id, second.Id})
	require.NoError(t, err)
	assert.Equal(t, []int64{second.Id}, unreadComments)
}

func TestNotificationEventsPublished(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	connectUsers(t, database, alice, bob)

	bus := NewBus()
	var changedUsers []string
	bus.Subscribe(func(event Event) {
		if changed, ok := event.(NotificationsChanged); ok {
			changedUsers = append(changedUsers, changed.UserId)
		}
	})
	notifications := NewNotifications(database, bus)
	post := seedPost(t, database, alice, model.AudienceAll, nil)

	_, err := CreateComment(ctx, database, notifications, bob, post.Id, "hey")
	require.NoError(t, err)
	assert.Equal(t, []string{alice.Id}, changedUsers)

	require.NoError(t, notifications.MarkPostRead(ctx, alice, post.Id))
	assert.Equal(t, []string{alice.Id, alice.Id}, changedUsers)

	// clearing with nothing unread publishes nothing
	cleared, err := notifications.ClearAll(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, cleared)
	assert.Len(t, changedUsers, 2)
}

func TestRecentActivity(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	connectUsers(t, database, alice, bob)

	bus := NewBus()
	notifications := NewNotifications(database, bus)
	quiet := seedPost(t, database, bob, model.AudienceAll, nil)
	noisy := seedPost(t, database, bob, model.AudienceAll, nil)

	_, err := CreateComment(ctx, database, notifications, bob, noisy.Id, "bump")
	require.NoError(t, err)

	activity, err := notifications.Recent(ctx, alice, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{noisy.Id, quiet.Id}, feedPostIds(activity.Posts))
	assert.Equal(t, []int64{noisy.Id}, activity.UnreadPostIds)
}
