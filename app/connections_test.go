package app

import (
	"context"
	"sync"
	"testing"

	"github.com/tightknit-app/tightknit-be/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestAndAccept(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	result, err := SendRequest(ctx, database, testCap, alice, bob.Id)
	require.NoError(t, err)
	assert.False(t, result.AutoAccepted)

	incoming, err := ListPendingRequests(ctx, database, bob.Id, true)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, alice.Id, incoming[0].OtherUser.Id)

	outgoing, err := ListPendingRequests(ctx, database, alice.Id, false)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, bob.Id, outgoing[0].OtherUser.Id)

	require.NoError(t, Accept(ctx, database, testCap, result.EdgeId, bob.Id))

	for _, user := range []string{alice.Id, bob.Id} {
		connections, err := ListAccepted(ctx, database, user)
		require.NoError(t, err)
		require.Len(t, connections, 1)
		assert.NotNil(t, connections[0].OtherUser)
	}
}

func TestSendRequestToSelf(t *testing.T) {
	database := newTestDB(t)
	alice := seedUser(t, database, "alice")

	_, err := SendRequest(context.Background(), database, testCap, alice, alice.Id)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestSendRequestToUnknownUser(t *testing.T) {
	database := newTestDB(t)
	alice := seedUser(t, database, "alice")

	_, err := SendRequest(context.Background(), database, testCap, alice, "uid-nobody")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDuplicateRequest(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	_, err := SendRequest(ctx, database, testCap, alice, bob.Id)
	require.NoError(t, err)
	_, err = SendRequest(ctx, database, testCap, alice, bob.Id)
	assert.ErrorIs(t, err, apperror.ErrDuplicate)

	carol := seedUser(t, database, "carol")
	connectUsers(t, database, carol, alice)
	_, err = SendRequest(ctx, database, testCap, carol, alice.Id)
	assert.ErrorIs(t, err, apperror.ErrDuplicate)
}

func TestCrossedRequestsCreateSingleEdge(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	// Simulate two requests racing past the existence check by hitting the
	// store directly from both directions. The canonical pair key must refuse
	// the second edge.
	_, err := database.CreateConnectionRequest(ctx, alice.Id, bob.Id)
	require.NoError(t, err)
	_, err = database.CreateConnectionRequest(ctx, bob.Id, alice.Id)
	assert.ErrorIs(t, err, apperror.ErrDuplicate)

	edge, err := database.GetConnectionBetween(ctx, bob.Id, alice.Id)
	require.NoError(t, err)
	require.NotNil(t, edge)
	assert.Equal(t, alice.Id, edge.RequesterId)
}

func TestMutualRequestAutoAccepts(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	_, err := SendRequest(ctx, database, testCap, alice, bob.Id)
	require.NoError(t, err)

	result, err := SendRequest(ctx, database, testCap, bob, alice.Id)
	require.NoError(t, err)
	assert.True(t, result.AutoAccepted)

	connections, err := ListAccepted(ctx, database, alice.Id)
	require.NoError(t, err)
	assert.Len(t, connections, 1)
}

func TestAcceptOnlyByTarget(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	result, err := SendRequest(ctx, database, testCap, alice, bob.Id)
	require.NoError(t, err)

	err = Accept(ctx, database, testCap, result.EdgeId, alice.Id)
	assert.ErrorIs(t, err, apperror.ErrNotAuthorized)
}

func TestRejectDeletesRequest(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	result, err := SendRequest(ctx, database, testCap, alice, bob.Id)
	require.NoError(t, err)
	require.NoError(t, Reject(ctx, database, result.EdgeId, bob.Id))

	err = Accept(ctx, database, testCap, result.EdgeId, bob.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// a rejected pair can start over
	_, err = SendRequest(ctx, database, testCap, alice, bob.Id)
	assert.NoError(t, err)
}

func TestCapEnforcedAtAcceptance(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	carol := seedUser(t, database, "carol")
	dave := seedUser(t, database, "dave")

	connectUsers(t, database, alice, bob)

	// pending requests are unbounded even at the cap
	carolReq, err := SendRequest(ctx, database, 1, carol, alice.Id)
	require.NoError(t, err)
	_, err = SendRequest(ctx, database, 1, dave, alice.Id)
	require.NoError(t, err)

	err = Accept(ctx, database, 1, carolReq.EdgeId, alice.Id)
	assert.ErrorIs(t, err, apperror.ErrCapacityExceeded)
}

func TestConcurrentAcceptsRespectCap(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	hub := seedUser(t, database, "hub")

	const connectionCap = 3
	const requesters = 6
	edgeIds := make([]int64, requesters)
	for i := 0; i < requesters; i++ {
		requester := seedUser(t, database, "req"+string(rune('a'+i)))
		result, err := SendRequest(ctx, database, connectionCap, requester, hub.Id)
		require.NoError(t, err)
		edgeIds[i] = result.EdgeId
	}

	errs := make([]error, requesters)
	var wg sync.WaitGroup
	for i, edgeId := range edgeIds {
		wg.Add(1)
		go func(i int, edgeId int64) {
			defer wg.Done()
			errs[i] = Accept(ctx, database, connectionCap, edgeId, hub.Id)
		}(i, edgeId)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		} else {
			assert.ErrorIs(t, err, apperror.ErrCapacityExceeded)
		}
	}
	assert.Equal(t, connectionCap, accepted)

	count, err := database.CountAcceptedConnections(ctx, hub.Id)
	require.NoError(t, err)
	assert.Equal(t, connectionCap, count)
}

func TestDisconnect(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")
	mallory := seedUser(t, database, "mallory")

	edgeId := connectUsers(t, database, alice, bob)

	err := Disconnect(ctx, database, edgeId, mallory.Id)
	assert.ErrorIs(t, err, apperror.ErrNotAuthorized)

	require.NoError(t, Disconnect(ctx, database, edgeId, bob.Id))

	connections, err := ListAccepted(ctx, database, alice.Id)
	require.NoError(t, err)
	assert.Empty(t, connections)
}

func TestDisconnectCascadesTagAssignments(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	edgeId := connectUsers(t, database, alice, bob)
	tag := seedTag(t, database, alice, "inner circle")
	require.NoError(t, AssignTag(ctx, database, alice, edgeId, tag.Id))

	require.NoError(t, Disconnect(ctx, database, edgeId, alice.Id))

	// the tag itself survives, only the assignment goes
	tags, err := ListTags(ctx, database, alice.Id)
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	tagIds, err := database.GetTagIdsForConnection(ctx, edgeId, alice.Id)
	require.NoError(t, err)
	assert.Empty(t, tagIds)
}
