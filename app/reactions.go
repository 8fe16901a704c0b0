package app

import (
	"context"
	"strings"

	"github.com/tightknit-app/tightknit-be/apperror"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/model"
)

const maxEmojiLength = 32

// React sets the viewer's reaction on a post, replacing any existing one.
// The viewer must be able to see the post.
func React(ctx context.Context, database appDb.Database, viewer *model.User, postId int64, emoji string) (*model.Reaction, error) {
	if _, err := GetPost(ctx, database, viewer, postId); err != nil {
		return nil, err
	}
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, apperror.ValidationFailed("emoji", "emoji is required")
	}
	if len(emoji) > maxEmojiLength {
		return nil, apperror.ValidationFailed("emoji", "emoji is too long")
	}

	err := database.UpsertReaction(ctx, &model.Reaction{
		PostId: postId,
		UserId: viewer.Id,
		Emoji:  emoji,
	})
	if err != nil {
		return nil, err
	}
	reactions, err := database.GetReactionsForPost(ctx, postId)
	if err != nil {
		return nil, err
	}
	for _, reaction := range reactions {
		if reaction.UserId == viewer.Id {
			reaction.User = viewer
			return reaction, nil
		}
	}
	return nil, apperror.NotFound("reaction")
}

// Unreact removes the viewer's own reaction. The post only has to exist;
// a viewer may always retract their reaction, even after a disconnect.
func Unreact(ctx context.Context, database appDb.Database, viewer *model.User, postId int64) error {
	post, err := database.GetPostById(ctx, postId)
	if err != nil {
		return err
	}
	if post == nil {
		return apperror.NotFound("post")
	}
	removed, err := database.DeleteReaction(ctx, postId, viewer.Id)
	if err != nil {
		return err
	}
	if !removed {
		return apperror.NotFound("reaction")
	}
	return nil
}

// ListReactions returns every reaction on a visible post, oldest first, with
// reactor profiles attached.
func ListReactions(ctx context.Context, database appDb.Database, viewer *model.User, postId int64) ([]*model.Reaction, error) {
	if _, err := GetPost(ctx, database, viewer, postId); err != nil {
		return nil, err
	}
	reactions, err := database.GetReactionsForPost(ctx, postId)
	if err != nil {
		return nil, err
	}
	return attachReactors(ctx, database, reactions)
}

// ListReactors returns who reacted with the given emoji. The author sees every
// reactor; anyone else sees themselves plus reactors they are connected to,
// so identities never leak past the viewer's own circle.
func ListReactors(ctx context.Context, database appDb.Database, viewer *model.User, postId int64, emoji string) ([]*model.User, error) {
	post, err := GetPost(ctx, database, viewer, postId)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(emoji) == "" {
		return nil, apperror.ValidationFailed("emoji", "emoji is required")
	}
	reactions, err := database.GetReactionsForPost(ctx, postId)
	if err != nil {
		return nil, err
	}

	isAuthor := post.AuthorId == viewer.Id
	reactorIds := make([]string, 0, len(reactions))
	for _, reaction := range reactions {
		if reaction.Emoji != emoji {
			continue
		}
		if !isAuthor && reaction.UserId != viewer.Id {
			visible, err := connected(ctx, database, viewer.Id, reaction.UserId)
			if err != nil {
				return nil, err
			}
			if !visible {
				continue
			}
		}
		reactorIds = append(reactorIds, reaction.UserId)
	}
	users, err := database.GetUsers(ctx, reactorIds)
	if err != nil {
		return nil, err
	}
	usersById := make(map[string]*model.User, len(users))
	for _, user := range users {
		usersById[user.Id] = user
	}
	reactors := make([]*model.User, 0, len(reactorIds))
	for _, userId := range reactorIds {
		if user := usersById[userId]; user != nil {
			reactors = append(reactors, user)
		}
	}
	return reactors, nil
}

func attachReactors(ctx context.Context, database appDb.Database, reactions []*model.Reaction) ([]*model.Reaction, error) {
	userIds := make([]string, len(reactions))
	for i, reaction := range reactions {
		userIds[i] = reaction.UserId
	}
	users, err := database.GetUsers(ctx, userIds)
	if err != nil {
		return nil, err
	}
	usersById := make(map[string]*model.User, len(users))
	for _, user := range users {
		usersById[user.Id] = user
	}
	for _, reaction := range reactions {
		reaction.User = usersById[reaction.UserId]
	}
	return reactions, nil
}

func connected(ctx context.Context, database appDb.Database, userA, userB string) (bool, error) {
	edge, err := database.GetConnectionBetween(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	return edge != nil && edge.Status == model.ConnectionAccepted, nil
}
