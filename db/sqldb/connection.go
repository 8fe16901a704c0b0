package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/tightknit-app/tightknit-be/apperror"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/model"

	updb "github.com/upper/db/v4"
)

// pairKey canonicalizes the unordered participant pair so the unique key
// refuses a second edge no matter which side requested. Two crossed requests
// racing past the app-level existence check collapse onto the same key.
func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

func (s *SQLDB) CreateConnectionRequest(ctx context.Context, requesterId, recipientId string) (int64, error) {
	now := time.Now().UTC()
	res, err := s.sess.SQL().
		InsertInto("connection").
		Columns("requester_id", "recipient_id", "pair_key", "status", "created_at", "updated_at").
		Values(requesterId, recipientId, pairKey(requesterId, recipientId),
			model.ConnectionPending, now, now).
		ExecContext(ctx)
	if appDb.IsDupKeyErr(err) {
		return 0, apperror.Duplicate("a connection already exists between these users")
	}
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLDB) GetConnectionById(ctx context.Context, id int64) (*model.Connection, error) {
	var edge model.Connection
	err := s.sess.SQL().
		Select("*").
		From("connection").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&edge)
	if err == updb.ErrNoMoreRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

func (s *SQLDB) GetConnectionBetween(ctx context.Context, userA, userB string) (*model.Connection, error) {
	var edge model.Connection
	err := s.sess.SQL().
		Select("*").
		From("connection").
		Where("pair_key = ?", pairKey(userA, userB)).
		IteratorContext(ctx).
		One(&edge)
	if err == updb.ErrNoMoreRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

func (s *SQLDB) AcceptConnection(ctx context.Context, id int64, maxConnections int) error {
	s.acceptMu.Lock()
	defer s.acceptMu.Unlock()

	return s.sess.TxContext(ctx, func(tx updb.Session) error {
		var edge model.Connection
		err := tx.SQL().
			Select("*").
			From("connection").
			Where("id = ?", id).
			IteratorContext(ctx).
			One(&edge)
		if err == updb.ErrNoMoreRows {
			return apperror.NotFound("connection request")
		}
		if err != nil {
			return err
		}
		if edge.Status != model.ConnectionPending {
			return apperror.InvalidState("connection request is no longer pending")
		}

		// The edge instantiates one accepted connection for each side, so
		// both parties' caps are checked before the flip.
		for _, userId := range []string{edge.RequesterId, edge.RecipientId} {
			count, err := countAccepted(ctx, tx, userId)
			if err != nil {
				return err
			}
			if count >= maxConnections {
				return apperror.CapacityExceeded(
					fmt.Sprintf("connection limit of %v reached", maxConnections))
			}
		}

		_, err = tx.SQL().
			Update("connection").
			Set("status", model.ConnectionAccepted, "updated_at", time.Now().UTC()).
			Where("id = ?", edge.Id).
			ExecContext(ctx)
		return err
	}, nil)
}

func (s *SQLDB) DeleteConnection(ctx context.Context, id int64) error {
	return s.sess.TxContext(ctx, func(tx updb.Session) error {
		if _, err := tx.SQL().
			DeleteFrom("connection_tag").
			Where("connection_id = ?", id).
			ExecContext(ctx); err != nil {
			return err
		}
		_, err := tx.SQL().
			DeleteFrom("connection").
			Where("id = ?", id).
			ExecContext(ctx)
		return err
	}, nil)
}

func (s *SQLDB) GetConnectionsForUser(ctx context.Context, userId string, status model.ConnectionStatus) ([]*model.Connection, error) {
	var edges []*model.Connection
	return edges, s.sess.SQL().
		Select("*").
		From("connection").
		Where(updb.And(
			updb.Or(
				updb.Cond{"requester_id": userId},
				updb.Cond{"recipient_id": userId},
			),
			updb.Cond{"status": status},
		)).
		OrderBy("created_at ASC", "id ASC").
		IteratorContext(ctx).
		All(&edges)
}

func (s *SQLDB) GetPendingRequests(ctx context.Context, userId string, incoming bool) ([]*model.Connection, error) {
	ownColumn := "requester_id"
	if incoming {
		ownColumn = "recipient_id"
	}
	var edges []*model.Connection
	return edges, s.sess.SQL().
		Select("*").
		From("connection").
		Where(ownColumn+" = ?", userId).
		And("status = ?", model.ConnectionPending).
		OrderBy("created_at ASC", "id ASC").
		IteratorContext(ctx).
		All(&edges)
}

func (s *SQLDB) CountAcceptedConnections(ctx context.Context, userId string) (int, error) {
	return countAccepted(ctx, s.sess, userId)
}

func (s *SQLDB) GetConnectedUserIds(ctx context.Context, userId string) ([]string, error) {
	edges, err := s.GetConnectionsForUser(ctx, userId, model.ConnectionAccepted)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(edges))
	for i, edge := range edges {
		ids[i] = edge.OtherParty(userId)
	}
	return ids, nil
}

func countAccepted(ctx context.Context, sess updb.Session, userId string) (int, error) {
	var row struct {
		Count int `db:"n"`
	}
	err := sess.SQL().
		Select(updb.Raw("COUNT(*) AS n")).
		From("connection").
		Where(updb.And(
			updb.Or(
				updb.Cond{"requester_id": userId},
				updb.Cond{"recipient_id": userId},
			),
			updb.Cond{"status": model.ConnectionAccepted},
		)).
		IteratorContext(ctx).
		One(&row)
	return row.Count, err
}
