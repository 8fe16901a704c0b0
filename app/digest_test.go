package app

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/tightknit-app/tightknit-be/apperror"
	"github.com/tightknit-app/tightknit-be/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayKey(daysAgo int) string {
	return time.Now().UTC().AddDate(0, 0, -daysAgo).Format("2006-01-02")
}

func TestDigestPageLayout(t *testing.T) {
	database, sess := newTestDBWithSession(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	connectUsers(t, database, alice, bob)

	now := time.Now().UTC()
	// anchor at midday so hour offsets never cross a day boundary
	midday := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.UTC)

	// two days ago: one photo post and one text post
	photoOld, err := CreatePost(ctx, database, nil, bob, &CreatePostReq{
		Content:    "beach",
		Audience:   model.AudienceAll,
		PhotoBlobs: []string{"photos/beach.jpg"},
	})
	require.NoError(t, err)
	backdatePost(t, sess, photoOld.Id, midday.AddDate(0, 0, -2))
	textOld := seedPost(t, database, bob, model.AudienceAll, nil)
	backdatePost(t, sess, textOld.Id, midday.AddDate(0, 0, -2).Add(time.Hour))

	// yesterday: two photo posts
	var yesterdayPhotos []int64
	for i := 0; i < 2; i++ {
		post, err := CreatePost(ctx, database, nil, bob, &CreatePostReq{
			Content:    "hike " + strconv.Itoa(i),
			Audience:   model.AudienceAll,
			PhotoBlobs: []string{"photos/hike" + strconv.Itoa(i) + ".jpg"},
		})
		require.NoError(t, err)
		backdatePost(t, sess, post.Id, midday.AddDate(0, 0, -1).Add(time.Duration(i)*time.Minute))
		yesterdayPhotos = append(yesterdayPhotos, post.Id)
	}

	// today: one text post
	textToday := seedPost(t, database, bob, model.AudienceAll, nil)

	digest, err := GetDigest(ctx, database, alice, "all", time.UTC)
	require.NoError(t, err)
	require.Len(t, digest.Pages, 6)

	assert.Equal(t, DigestPagePhoto, digest.Pages[0].Type)
	assert.Equal(t, photoOld.Id, digest.Pages[0].Posts[0].Id)
	assert.Equal(t, DigestPageText, digest.Pages[1].Type)
	assert.Equal(t, textOld.Id, digest.Pages[1].Posts[0].Id)

	assert.Equal(t, DigestPagePhoto, digest.Pages[2].Type)
	assert.Equal(t, yesterdayPhotos[0], digest.Pages[2].Posts[0].Id)
	assert.Equal(t, DigestPagePhoto, digest.Pages[3].Type)
	assert.Equal(t, yesterdayPhotos[1], digest.Pages[3].Posts[0].Id)

	assert.Equal(t, DigestPageText, digest.Pages[4].Type)
	assert.Equal(t, textToday.Id, digest.Pages[4].Posts[0].Id)

	assert.Equal(t, DigestPageTrailer, digest.Pages[5].Type)

	assert.Equal(t, map[string]int{
		dayKey(2): 0,
		dayKey(1): 2,
		dayKey(0): 4,
	}, digest.DayIndex)
}

func TestDigestWindowExcludesOldPosts(t *testing.T) {
	database, sess := newTestDBWithSession(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	connectUsers(t, database, alice, bob)

	stale := seedPost(t, database, bob, model.AudienceAll, nil)
	backdatePost(t, sess, stale.Id, time.Now().UTC().AddDate(0, 0, -10))

	digest, err := GetDigest(ctx, database, alice, "all", time.UTC)
	require.NoError(t, err)
	require.Len(t, digest.Pages, 1)
	assert.Equal(t, DigestPageTrailer, digest.Pages[0].Type)
	assert.Empty(t, digest.DayIndex)
}

func TestDigestHonorsAudience(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	connectUsers(t, database, alice, bob)

	seedPost(t, database, bob, model.AudiencePrivate, nil)
	visible := seedPost(t, database, bob, model.AudienceAll, nil)

	digest, err := GetDigest(ctx, database, alice, "", time.UTC)
	require.NoError(t, err)
	require.Len(t, digest.Pages, 2)
	require.Len(t, digest.Pages[0].Posts, 1)
	assert.Equal(t, visible.Id, digest.Pages[0].Posts[0].Id)
}

func TestDigestTagFilter(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	carol := seedUser(t, database, "carol")

	bobEdge := connectUsers(t, database, alice, bob)
	connectUsers(t, database, alice, carol)

	friendsTag, err := CreateTag(ctx, database, alice, &CreateTagReq{
		Name:        "old friends",
		ColorScheme: model.ColorSchemeFriends,
	})
	require.NoError(t, err)
	require.NoError(t, AssignTag(ctx, database, alice, bobEdge, friendsTag.Id))

	bobPost := seedPost(t, database, bob, model.AudienceAll, nil)
	seedPost(t, database, carol, model.AudienceAll, nil)

	// by color scheme
	digest, err := GetDigest(ctx, database, alice, "friends", time.UTC)
	require.NoError(t, err)
	require.Len(t, digest.Pages, 2)
	assert.Equal(t, bobPost.Id, digest.Pages[0].Posts[0].Id)

	// by tag id
	digest, err = GetDigest(ctx, database, alice, strconv.FormatInt(friendsTag.Id, 10), time.UTC)
	require.NoError(t, err)
	require.Len(t, digest.Pages, 2)

	// scheme with no tags yields an empty digest, not an unfiltered one
	digest, err = GetDigest(ctx, database, alice, "family", time.UTC)
	require.NoError(t, err)
	require.Len(t, digest.Pages, 1)
	assert.Equal(t, DigestPageTrailer, digest.Pages[0].Type)

	_, err = GetDigest(ctx, database, alice, "sparkly", time.UTC)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
