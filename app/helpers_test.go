package app

import (
	"context"
	"testing"
	"time"

	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/db/dbtest"
	"github.com/tightknit-app/tightknit-be/model"

	"github.com/stretchr/testify/require"
	updb "github.com/upper/db/v4"
)

const testCap = 100

func newTestDB(t *testing.T) appDb.Database {
	t.Helper()
	database, _ := dbtest.Open(t)
	return database
}

func newTestDBWithSession(t *testing.T) (appDb.Database, updb.Session) {
	t.Helper()
	return dbtest.Open(t)
}

func seedUser(t *testing.T, database appDb.Database, handle string) *model.User {
	t.Helper()
	user := &model.User{
		Id:     "uid-" + handle,
		Handle: handle,
		Avatar: "https://avatars.example.com/" + handle,
	}
	require.NoError(t, database.CreateUser(context.Background(), user))
	return user
}

// connectUsers runs the full request/accept handshake and returns the edge id.
func connectUsers(t *testing.T, database appDb.Database, from, to *model.User) int64 {
	t.Helper()
	result, err := SendRequest(context.Background(), database, testCap, from, to.Id)
	require.NoError(t, err)
	require.NoError(t, Accept(context.Background(), database, testCap, result.EdgeId, to.Id))
	return result.EdgeId
}

func seedTag(t *testing.T, database appDb.Database, owner *model.User, name string) *model.Tag {
	t.Helper()
	tag, err := CreateTag(context.Background(), database, owner, &CreateTagReq{
		Name:        name,
		ColorScheme: model.ColorSchemeCustom,
		CustomLabel: name,
	})
	require.NoError(t, err)
	return tag
}

func seedPost(t *testing.T, database appDb.Database, author *model.User, audience model.Audience, tagIds []int64) *model.Post {
	t.Helper()
	post, err := CreatePost(context.Background(), database, nil, author, &CreatePostReq{
		Content:        "hello from " + author.Handle,
		Audience:       audience,
		AudienceTagIds: tagIds,
	})
	require.NoError(t, err)
	return post
}

// backdatePost rewrites a post's creation time, for tests that span days.
func backdatePost(t *testing.T, sess updb.Session, postId int64, createdAt time.Time) {
	t.Helper()
	_, err := sess.SQL().
		Update("post").
		Set("created_at", createdAt.UTC()).
		Where("id = ?", postId).
		Exec()
	require.NoError(t, err)
}
