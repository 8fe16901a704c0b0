package app

import (
	"context"
	"testing"

	"github.com/tightknit-app/tightknit-be/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProfile(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	user, err := CreateProfile(ctx, database, "uid-1", "sam_codes", 96)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.Id)
	assert.Equal(t, "sam_codes", user.Handle)
	assert.Contains(t, user.Avatar, "sam_codes")
}

func TestCreateProfileValidatesHandle(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	for _, handle := range []string{"", "ab", "has spaces", "way@too@weird"} {
		_, err := CreateProfile(ctx, database, "uid-1", handle, 96)
		assert.ErrorIs(t, err, apperror.ErrValidation, handle)
	}
}

func TestCreateProfileOncePerAccount(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	_, err := CreateProfile(ctx, database, "uid-1", "sam", 96)
	require.NoError(t, err)
	_, err = CreateProfile(ctx, database, "uid-1", "sam_again", 96)
	assert.ErrorIs(t, err, apperror.ErrDuplicate)
}

func TestHandleUniqueness(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	_, err := CreateProfile(ctx, database, "uid-1", "sam", 96)
	require.NoError(t, err)
	_, err = CreateProfile(ctx, database, "uid-2", "sam", 96)
	assert.ErrorIs(t, err, apperror.ErrDuplicate)
}
