package app

import (
	"context"
	"strings"

	"github.com/tightknit-app/tightknit-be/apperror"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/model"
)

const maxTagNameLength = 40

type CreateTagReq struct {
	Name        string            `json:"name"`
	ColorScheme model.ColorScheme `json:"colorScheme"`
	CustomLabel string            `json:"customLabel"`
}

// CreateTag makes a private tag for the owner. Tag names are unique per
// owner, compared case-insensitively.
func CreateTag(ctx context.Context, database appDb.Database, owner *model.User, req *CreateTagReq) (*model.Tag, error) {
	name, err := normalizeTagName(req.Name)
	if err != nil {
		return nil, err
	}
	if !req.ColorScheme.Valid() {
		return nil, apperror.ValidationFailed("colorScheme", "unknown color scheme")
	}
	existing, err := database.GetTagByName(ctx, owner.Id, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Duplicate("you already have a tag with that name")
	}

	tagId, err := database.CreateTag(ctx, &model.Tag{
		OwnerId:     owner.Id,
		Name:        name,
		ColorScheme: req.ColorScheme,
		CustomLabel: strings.TrimSpace(req.CustomLabel),
	})
	if err != nil {
		return nil, err
	}
	return database.GetTagById(ctx, tagId)
}

func UpdateTag(ctx context.Context, database appDb.Database, owner *model.User, tagId int64, req *CreateTagReq) (*model.Tag, error) {
	tag, err := ownedTag(ctx, database, owner.Id, tagId)
	if err != nil {
		return nil, err
	}
	name, err := normalizeTagName(req.Name)
	if err != nil {
		return nil, err
	}
	if !req.ColorScheme.Valid() {
		return nil, apperror.ValidationFailed("colorScheme", "unknown color scheme")
	}
	if !tag.SameName(name) {
		existing, err := database.GetTagByName(ctx, owner.Id, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.Duplicate("you already have a tag with that name")
		}
	}
	tag.Name = name
	tag.ColorScheme = req.ColorScheme
	tag.CustomLabel = strings.TrimSpace(req.CustomLabel)
	if err := database.UpdateTag(ctx, tag); err != nil {
		return nil, err
	}
	return database.GetTagById(ctx, tagId)
}

// DeleteTag removes the tag and its edge assignments. Audience references on
// existing posts are left in place; they simply stop matching anyone.
func DeleteTag(ctx context.Context, database appDb.Database, owner *model.User, tagId int64) error {
	if _, err := ownedTag(ctx, database, owner.Id, tagId); err != nil {
		return err
	}
	return database.DeleteTag(ctx, tagId)
}

func ListTags(ctx context.Context, database appDb.Database, ownerId string) ([]*model.Tag, error) {
	return database.GetTagsForUser(ctx, ownerId)
}

// AssignTag attaches one of the owner's tags to an accepted edge the owner
// participates in. Assigning an already-assigned tag is a no-op.
func AssignTag(ctx context.Context, database appDb.Database, owner *model.User, edgeId, tagId int64) error {
	if _, err := taggableEdge(ctx, database, owner.Id, edgeId); err != nil {
		return err
	}
	if _, err := ownedTag(ctx, database, owner.Id, tagId); err != nil {
		return err
	}
	return database.AssignTag(ctx, edgeId, tagId)
}

func UnassignTag(ctx context.Context, database appDb.Database, owner *model.User, edgeId, tagId int64) error {
	if _, err := taggableEdge(ctx, database, owner.Id, edgeId); err != nil {
		return err
	}
	if _, err := ownedTag(ctx, database, owner.Id, tagId); err != nil {
		return err
	}
	removed, err := database.UnassignTag(ctx, edgeId, tagId)
	if err != nil {
		return err
	}
	if !removed {
		return apperror.NotFound("tag assignment")
	}
	return nil
}

// GetConnectionTags lists the viewer's own tags on an edge. The other
// party's tags never leave the store.
func GetConnectionTags(ctx context.Context, database appDb.Database, viewer *model.User, edgeId int64) ([]*model.Tag, error) {
	edge, err := database.GetConnectionById(ctx, edgeId)
	if err != nil {
		return nil, err
	}
	if edge == nil {
		return nil, apperror.NotFound("connection")
	}
	if !edge.Involves(viewer.Id) {
		return nil, apperror.NotAuthorized("you are not part of this connection")
	}
	return database.GetTagsForConnection(ctx, edgeId, viewer.Id)
}

func ownedTag(ctx context.Context, database appDb.Database, ownerId string, tagId int64) (*model.Tag, error) {
	tag, err := database.GetTagById(ctx, tagId)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, apperror.NotFound("tag")
	}
	if tag.OwnerId != ownerId {
		return nil, apperror.NotAuthorized("tags are private to their owner")
	}
	return tag, nil
}

func taggableEdge(ctx context.Context, database appDb.Database, userId string, edgeId int64) (*model.Connection, error) {
	edge, err := database.GetConnectionById(ctx, edgeId)
	if err != nil {
		return nil, err
	}
	if edge == nil {
		return nil, apperror.NotFound("connection")
	}
	if !edge.Involves(userId) {
		return nil, apperror.NotAuthorized("you are not part of this connection")
	}
	if edge.Status != model.ConnectionAccepted {
		return nil, apperror.InvalidState("connection is not accepted")
	}
	return edge, nil
}

func normalizeTagName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.ValidationFailed("name", "tag name is required")
	}
	if len(name) > maxTagNameLength {
		return "", apperror.ValidationFailed("name", "tag name is too long")
	}
	return name, nil
}
