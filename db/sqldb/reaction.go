package sqldb

import (
	"context"
	"time"

	"github.com/tightknit-app/tightknit-be/model"

	updb "github.com/upper/db/v4"
)

func (s *SQLDB) UpsertReaction(ctx context.Context, reaction *model.Reaction) error {
	now := time.Now().UTC()

	s.upsertMu.Lock()
	defer s.upsertMu.Unlock()

	return s.sess.TxContext(ctx, func(tx updb.Session) error {
		res, err := tx.SQL().
			Update("reaction").
			Set("emoji", reaction.Emoji, "created_at", now).
			Where("post_id = ? AND user_id = ?", reaction.PostId, reaction.UserId).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		if updated, err := res.RowsAffected(); err != nil {
			return err
		} else if updated > 0 {
			return nil
		}

		_, err = tx.SQL().
			InsertInto("reaction").
			Columns("post_id", "user_id", "emoji", "created_at").
			Values(reaction.PostId, reaction.UserId, reaction.Emoji, now).
			ExecContext(ctx)
		return err
	}, nil)
}

func (s *SQLDB) DeleteReaction(ctx context.Context, postId int64, userId string) (bool, error) {
	res, err := s.sess.SQL().
		DeleteFrom("reaction").
		Where("post_id = ? AND user_id = ?", postId, userId).
		ExecContext(ctx)
	if err != nil {
		return false, err
	}
	removed, err := res.RowsAffected()
	return removed > 0, err
}

func (s *SQLDB) GetReactionsForPost(ctx context.Context, postId int64) ([]*model.Reaction, error) {
	var reactions []*model.Reaction
	return reactions, s.sess.SQL().
		Select("*").
		From("reaction").
		Where("post_id = ?", postId).
		OrderBy("created_at ASC", "id ASC").
		IteratorContext(ctx).
		All(&reactions)
}
