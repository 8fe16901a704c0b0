package app

import (
	"context"
	"testing"

	"github.com/tightknit-app/tightknit-be/apperror"
	"github.com/tightknit-app/tightknit-be/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTag(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")

	tag, err := CreateTag(ctx, database, alice, &CreateTagReq{
		Name:        "College Friends",
		ColorScheme: model.ColorSchemeFriends,
	})
	require.NoError(t, err)
	assert.Equal(t, "College Friends", tag.Name)
	assert.Equal(t, model.ColorSchemeFriends, tag.ColorScheme)
}

func TestCreateTagValidation(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")

	_, err := CreateTag(ctx, database, alice, &CreateTagReq{
		Name:        "   ",
		ColorScheme: model.ColorSchemeFriends,
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = CreateTag(ctx, database, alice, &CreateTagReq{
		Name:        "neighbors",
		ColorScheme: "sparkly",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestTagNamesUniquePerOwnerCaseInsensitive(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	seedTag(t, database, alice, "Family")

	_, err := CreateTag(ctx, database, alice, &CreateTagReq{
		Name:        "family",
		ColorScheme: model.ColorSchemeFamily,
	})
	assert.ErrorIs(t, err, apperror.ErrDuplicate)

	// a different owner can reuse the name
	_, err = CreateTag(ctx, database, bob, &CreateTagReq{
		Name:        "family",
		ColorScheme: model.ColorSchemeFamily,
	})
	assert.NoError(t, err)
}

func TestUpdateTag(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")

	tag := seedTag(t, database, alice, "climbing crew")
	other := seedTag(t, database, alice, "book club")

	// recasing your own tag is fine
	updated, err := UpdateTag(ctx, database, alice, tag.Id, &CreateTagReq{
		Name:        "Climbing Crew",
		ColorScheme: model.ColorSchemeCustom,
		CustomLabel: "climbing",
	})
	require.NoError(t, err)
	assert.Equal(t, "Climbing Crew", updated.Name)

	// colliding with another of your tags is not
	_, err = UpdateTag(ctx, database, alice, tag.Id, &CreateTagReq{
		Name:        "Book Club",
		ColorScheme: model.ColorSchemeCustom,
	})
	assert.ErrorIs(t, err, apperror.ErrDuplicate)

	_, err = UpdateTag(ctx, database, alice, other.Id+100, &CreateTagReq{
		Name:        "ghost",
		ColorScheme: model.ColorSchemeCustom,
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTagOwnershipEnforced(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	tag := seedTag(t, database, alice, "inner circle")

	err := DeleteTag(ctx, database, bob, tag.Id)
	assert.ErrorIs(t, err, apperror.ErrNotAuthorized)

	edgeId := connectUsers(t, database, alice, bob)
	err = AssignTag(ctx, database, bob, edgeId, tag.Id)
	assert.ErrorIs(t, err, apperror.ErrNotAuthorized)
}

func TestAssignTagRules(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	carol := seedUser(t, database, "carol")

	tag := seedTag(t, database, alice, "inner circle")

	// pending edge cannot be tagged
	pending, err := SendRequest(ctx, database, testCap, alice, bob.Id)
	require.NoError(t, err)
	err = AssignTag(ctx, database, alice, pending.EdgeId, tag.Id)
	assert.ErrorIs(t, err, apperror.ErrInvalidState)

	require.NoError(t, Accept(ctx, database, testCap, pending.EdgeId, bob.Id))
	require.NoError(t, AssignTag(ctx, database, alice, pending.EdgeId, tag.Id))

	// idempotent
	require.NoError(t, AssignTag(ctx, database, alice, pending.EdgeId, tag.Id))
	tags, err := GetConnectionTags(ctx, database, alice, pending.EdgeId)
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	// outsiders cannot touch the edge
	err = AssignTag(ctx, database, carol, pending.EdgeId, tag.Id)
	assert.ErrorIs(t, err, apperror.ErrNotAuthorized)
}

func TestUnassignTag(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	edgeId := connectUsers(t, database, alice, bob)
	tag := seedTag(t, database, alice, "inner circle")

	err := UnassignTag(ctx, database, alice, edgeId, tag.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, AssignTag(ctx, database, alice, edgeId, tag.Id))
	require.NoError(t, UnassignTag(ctx, database, alice, edgeId, tag.Id))

	tags, err := GetConnectionTags(ctx, database, alice, edgeId)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestConnectionTagsArePrivatePerSide(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	edgeId := connectUsers(t, database, alice, bob)
	aliceTag := seedTag(t, database, alice, "inner circle")
	bobTag := seedTag(t, database, bob, "work")
	require.NoError(t, AssignTag(ctx, database, alice, edgeId, aliceTag.Id))
	require.NoError(t, AssignTag(ctx, database, bob, edgeId, bobTag.Id))

	aliceView, err := GetConnectionTags(ctx, database, alice, edgeId)
	require.NoError(t, err)
	require.Len(t, aliceView, 1)
	assert.Equal(t, aliceTag.Id, aliceView[0].Id)

	bobView, err := GetConnectionTags(ctx, database, bob, edgeId)
	require.NoError(t, err)
	require.Len(t, bobView, 1)
	assert.Equal(t, bobTag.Id, bobView[0].Id)
}

func TestDeleteTagCascadesAssignments(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	edgeId := connectUsers(t, database, alice, bob)
	tag := seedTag(t, database, alice, "inner circle")
	require.NoError(t, AssignTag(ctx, database, alice, edgeId, tag.Id))

	require.NoError(t, DeleteTag(ctx, database, alice, tag.Id))

	tags, err := GetConnectionTags(ctx, database, alice, edgeId)
	require.NoError(t, err)
	assert.Empty(t, tags)
}
