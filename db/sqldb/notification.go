package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/tightknit-app/tightknit-be/db/dao"
	"github.com/tightknit-app/tightknit-be/model"

	updb "github.com/upper/db/v4"
)

type notificationRow struct {
	Id          int64                  `db:"id"`
	RecipientId string                 `db:"recipient_id"`
	ActorId     string                 `db:"actor_id"`
	PostId      int64                  `db:"post_id"`
	CommentId   dao.NullInt64          `db:"comment_id"`
	Type        model.NotificationType `db:"type"`
	CreatedAt   time.Time              `db:"created_at"`
	ReadAt      sql.NullTime           `db:"read_at"`
}

func (row *notificationRow) toNotification() *model.Notification {
	notification := &model.Notification{
		Id:          row.Id,
		RecipientId: row.RecipientId,
		ActorId:     row.ActorId,
		PostId:      row.PostId,
		CommentId:   row.CommentId.AsInt(),
		Type:        row.Type,
		CreatedAt:   row.CreatedAt,
	}
	if row.ReadAt.Valid {
		readAt := row.ReadAt.Time
		notification.ReadAt = &readAt
	}
	return notification
}

func (s *SQLDB) UpsertUnread(ctx context.Context, notification *model.Notification) error {
	now := time.Now().UTC()
	cond := updb.Cond{
		"recipient_id": notification.RecipientId,
		"post_id":      notification.PostId,
		"type":         notification.Type,
		"read_at":      nil,
	}
	if notification.CommentId != 0 {
		cond["comment_id"] = notification.CommentId
	} else {
		cond["comment_id"] = nil
	}

	s.upsertMu.Lock()
	defer s.upsertMu.Unlock()

	return s.sess.TxContext(ctx, func(tx updb.Session) error {
		res, err := tx.SQL().
			Update("notification").
			Set("actor_id", notification.ActorId, "created_at", now).
			Where(cond).
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
			InsertInto("notification").
			Columns("recipient_id", "actor_id", "post_id", "comment_id", "type", "created_at").
			Values(notification.RecipientId, notification.ActorId, notification.PostId,
				dao.NullableInt64(notification.CommentId), notification.Type, now).
			ExecContext(ctx)
		return err
	}, nil)
}

func (s *SQLDB) GetUnreadForPosts(ctx context.Context, recipientId string, postIds []int64) ([]*model.Notification, error) {
	if len(postIds) == 0 {
		return nil, nil
	}
	var rows []*notificationRow
	err := s.sess.SQL().
		Select("*").
		From("notification").
		Where("recipient_id = ?", recipientId).
		And("post_id IN ?", postIds).
		And(updb.Cond{"read_at": nil}).
		OrderBy("created_at DESC", "id DESC").
		IteratorContext(ctx).
		All(&rows)
	if err != nil {
		return nil, err
	}
	notifications := make([]*model.Notification, len(rows))
	for i, row := range rows {
		notifications[i] = row.toNotification()
	}
	return notifications, nil
}

func (s *SQLDB) GetUnreadCommentIds(ctx context.Context, recipientId string, commentIds []int64) ([]int64, error) {
	if len(commentIds) == 0 {
		return nil, nil
	}
	var rows []struct {
		CommentId dao.NullInt64 `db:"comment_id"`
	}
	err := s.sess.SQL().
		Select("comment_id").
		From("notification").
		Where("recipient_id = ?", recipientId).
		And("comment_id IN ?", commentIds).
		And("type = ?", model.NotificationReply).
		And(updb.Cond{"read_at": nil}).
		GroupBy("comment_id").
		IteratorContext(ctx).
		All(&rows)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		if id := row.CommentId.AsInt(); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *SQLDB) GetUnreadPostIds(ctx context.Context, recipientId string, postIds []int64) ([]int64, error) {
	notifications, err := s.GetUnreadForPosts(ctx, recipientId, postIds)
	if err != nil {
		return nil, err
	}
	// newest notification first, one entry per post
	seen := make(map[int64]bool, len(notifications))
	var ids []int64
	for _, notification := range notifications {
		if !seen[notification.PostId] {
			seen[notification.PostId] = true
			ids = append(ids, notification.PostId)
		}
	}
	return ids, nil
}

func (s *SQLDB) MarkPostRead(ctx context.Context, recipientId string, postId int64) (int64, error) {
	res, err := s.sess.SQL().
		Update("notification").
		Set("read_at", time.Now().UTC()).
		Where("recipient_id = ? AND post_id = ?", recipientId, postId).
		And(updb.Cond{"read_at": nil}).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLDB) MarkCommentRead(ctx context.Context, recipientId string, commentId int64) (int64, error) {
	res, err := s.sess.SQL().
		Update("notification").
		Set("read_at", time.Now().UTC()).
		Where("recipient_id = ? AND comment_id = ? AND type = ?",
			recipientId, commentId, model.NotificationReply).
		And(updb.Cond{"read_at": nil}).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLDB) ClearAllUnread(ctx context.Context, recipientId string) (int64, error) {
	res, err := s.sess.SQL().
		Update("notification").
		Set("read_at", time.Now().UTC()).
		Where("recipient_id = ?", recipientId).
		And(updb.Cond{"read_at": nil}).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
