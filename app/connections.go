package app

import (
	"context"

	"github.com/tightknit-app/tightknit-be/apperror"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/model"
)

// SendRequestResult reports whether a request auto-accepted because the
// recipient already had a pending request towards the sender.
type SendRequestResult struct {
	EdgeId       int64 `json:"edgeId"`
	AutoAccepted bool  `json:"autoAccepted"`
}

// SendRequest creates a pending edge owned (actionable) by the recipient.
// Pending requests are unbounded; the cap is only enforced at acceptance.
func SendRequest(ctx context.Context, database appDb.Database, maxConnections int, fromUser *model.User, toUserId string) (*SendRequestResult, error) {
	if fromUser.Id == toUserId {
		return nil, apperror.ValidationFailed("userId", "you cannot connect with yourself")
	}
	recipient, err := database.GetUser(ctx, toUserId)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, apperror.NotFound("user")
	}

	existing, err := database.GetConnectionBetween(ctx, fromUser.Id, toUserId)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == model.ConnectionAccepted {
			return nil, apperror.Duplicate("already connected")
		}
		// They already sent us a request: treat the mutual request as an
		// acceptance, cap-checked like any other.
		if existing.RequesterId == toUserId {
			if err := database.AcceptConnection(ctx, existing.Id, maxConnections); err != nil {
				return nil, err
			}
			return &SendRequestResult{EdgeId: existing.Id, AutoAccepted: true}, nil
		}
		return nil, apperror.Duplicate("connection request already sent")
	}

	edgeId, err := database.CreateConnectionRequest(ctx, fromUser.Id, toUserId)
	if err != nil {
		return nil, err
	}
	return &SendRequestResult{EdgeId: edgeId}, nil
}

// Accept flips a pending edge to accepted. Only the request's target may
// accept; the dual cap check and the flip are atomic in the store.
func Accept(ctx context.Context, database appDb.Database, maxConnections int, edgeId int64, actingUserId string) error {
	edge, err := database.GetConnectionById(ctx, edgeId)
	if err != nil {
		return err
	}
	if edge == nil {
		return apperror.NotFound("connection request")
	}
	if edge.RecipientId != actingUserId {
		return apperror.NotAuthorized("you can only accept requests sent to you")
	}
	if edge.Status != model.ConnectionPending {
		return apperror.InvalidState("connection request is no longer pending")
	}
	return database.AcceptConnection(ctx, edgeId, maxConnections)
}

// Reject is target-only and functionally a terminal delete.
func Reject(ctx context.Context, database appDb.Database, edgeId int64, actingUserId string) error {
	edge, err := database.GetConnectionById(ctx, edgeId)
	if err != nil {
		return err
	}
	if edge == nil {
		return apperror.NotFound("connection request")
	}
	if edge.RecipientId != actingUserId {
		return apperror.NotAuthorized("you can only reject requests sent to you")
	}
	if edge.Status != model.ConnectionPending {
		return apperror.InvalidState("connection request is no longer pending")
	}
	return database.DeleteConnection(ctx, edgeId)
}

// Disconnect removes an accepted edge from either side; ConnectionTag rows
// for both parties' tags cascade with the edge.
func Disconnect(ctx context.Context, database appDb.Database, edgeId int64, actingUserId string) error {
	edge, err := database.GetConnectionById(ctx, edgeId)
	if err != nil {
		return err
	}
	if edge == nil {
		return apperror.NotFound("connection")
	}
	if !edge.Involves(actingUserId) {
		return apperror.NotAuthorized("you are not part of this connection")
	}
	if edge.Status != model.ConnectionAccepted {
		return apperror.InvalidState("connection is not accepted")
	}
	return database.DeleteConnection(ctx, edgeId)
}

func ListAccepted(ctx context.Context, database appDb.Database, userId string) ([]*model.ConnectionWithUser, error) {
	edges, err := database.GetConnectionsForUser(ctx, userId, model.ConnectionAccepted)
	if err != nil {
		return nil, err
	}
	return withCounterparts(ctx, database, userId, edges)
}

func ListPendingRequests(ctx context.Context, database appDb.Database, userId string, incoming bool) ([]*model.ConnectionWithUser, error) {
	edges, err := database.GetPendingRequests(ctx, userId, incoming)
	if err != nil {
		return nil, err
	}
	return withCounterparts(ctx, database, userId, edges)
}

func withCounterparts(ctx context.Context, database appDb.Database, userId string, edges []*model.Connection) ([]*model.ConnectionWithUser, error) {
	otherIds := make([]string, len(edges))
	for i, edge := range edges {
		otherIds[i] = edge.OtherParty(userId)
	}
	users, err := database.GetUsers(ctx, otherIds)
	if err != nil {
		return nil, err
	}
	usersById := make(map[string]*model.User, len(users))
	for _, user := range users {
		usersById[user.Id] = user
	}

	decorated := make([]*model.ConnectionWithUser, len(edges))
	for i, edge := range edges {
		decorated[i] = &model.ConnectionWithUser{
			Connection: edge,
			OtherUser:  usersById[edge.OtherParty(userId)],
		}
	}
	return decorated, nil
}
