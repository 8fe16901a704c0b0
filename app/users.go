package app

import (
	"context"
	"regexp"
	"strings"

	"github.com/tightknit-app/tightknit-be/apperror"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/model"
	"github.com/tightknit-app/tightknit-be/util"
)

var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,30}$`)

// CreateProfile provisions the profile row for an authenticated account. The
// id comes from the verified token, never from the request body. Avatars are
// generated from the handle; there is no upload flow for them.
func CreateProfile(ctx context.Context, database appDb.Database, userId, handle string, avatarSize int) (*model.User, error) {
	handle = strings.TrimSpace(handle)
	if !handlePattern.MatchString(handle) {
		return nil, apperror.ValidationFailed("handle",
			"handle must be 3-30 characters: letters, digits, '_', '.' or '-'")
	}
	existing, err := database.GetUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Duplicate("profile already exists")
	}

	user := &model.User{
		Id:     userId,
		Handle: handle,
		Avatar: util.GenerateAvatarUrl(handle, avatarSize),
	}
	if err := database.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return database.GetUser(ctx, userId)
}
