package sqldb

import (
	"context"
	"time"

	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/model"

	updb "github.com/upper/db/v4"
)

func (s *SQLDB) CreateTag(ctx context.Context, tag *model.Tag) (int64, error) {
	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = time.Now().UTC()
	}
	res, err := s.sess.SQL().
		InsertInto("tag").
		Columns("owner_id", "name", "color_scheme", "custom_label", "created_at").
		Values(tag.OwnerId, tag.Name, tag.ColorScheme, tag.CustomLabel, tag.CreatedAt).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLDB) GetTagById(ctx context.Context, id int64) (*model.Tag, error) {
	var tag model.Tag
	err := s.sess.SQL().
		Select("*").
		From("tag").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&tag)
	if err == updb.ErrNoMoreRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *SQLDB) GetTagsForUser(ctx context.Context, ownerId string) ([]*model.Tag, error) {
	var tags []*model.Tag
	return tags, s.sess.SQL().
		Select("*").
		From("tag").
		Where("owner_id = ?", ownerId).
		OrderBy("created_at ASC", "id ASC").
		IteratorContext(ctx).
		All(&tags)
}

func (s *SQLDB) GetTagByName(ctx context.Context, ownerId, name string) (*model.Tag, error) {
	var tag model.Tag
	err := s.sess.SQL().
		Select("*").
		From("tag").
		Where("owner_id = ?", ownerId).
		And(updb.Raw("LOWER(name) = LOWER(?)", name)).
		IteratorContext(ctx).
		One(&tag)
	if err == updb.ErrNoMoreRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *SQLDB) UpdateTag(ctx context.Context, tag *model.Tag) error {
	_, err := s.sess.SQL().
		Update("tag").
		Set(
			"name", tag.Name,
			"color_scheme", tag.ColorScheme,
			"custom_label", tag.CustomLabel,
		).
		Where("id = ?", tag.Id).
		ExecContext(ctx)
	return err
}

func (s *SQLDB) DeleteTag(ctx context.Context, id int64) error {
	// Post audience rows referencing the tag stay in place: the stored
	// audience specification is verbatim and resolution treats the tag as
	// matching nothing.
	return s.sess.TxContext(ctx, func(tx updb.Session) error {
		if _, err := tx.SQL().
			DeleteFrom("connection_tag").
			Where("tag_id = ?", id).
			ExecContext(ctx); err != nil {
			return err
		}
		_, err := tx.SQL().
			DeleteFrom("tag").
			Where("id = ?", id).
			ExecContext(ctx)
		return err
	}, nil)
}

func (s *SQLDB) AssignTag(ctx context.Context, connectionId, tagId int64) error {
	_, err := s.sess.SQL().
		InsertInto("connection_tag").
		Columns("connection_id", "tag_id", "created_at").
		Values(connectionId, tagId, time.Now().UTC()).
		ExecContext(ctx)
	if appDb.IsDupKeyErr(err) {
		// already assigned
		return nil
	}
	return err
}

func (s *SQLDB) UnassignTag(ctx context.Context, connectionId, tagId int64) (bool, error) {
	res, err := s.sess.SQL().
		DeleteFrom("connection_tag").
		Where("connection_id = ? AND tag_id = ?", connectionId, tagId).
		ExecContext(ctx)
	if err != nil {
		return false, err
	}
	removed, err := res.RowsAffected()
	return removed > 0, err
}

func (s *SQLDB) GetTagsForConnection(ctx context.Context, connectionId int64, ownerId string) ([]*model.Tag, error) {
	var tags []*model.Tag
	return tags, s.sess.SQL().
		Select("t.id", "t.owner_id", "t.name", "t.color_scheme", "t.custom_label", "t.created_at").
		From("tag AS t").
		Join("connection_tag AS ct").On("ct.tag_id = t.id").
		Where("ct.connection_id = ?", connectionId).
		And("t.owner_id = ?", ownerId).
		OrderBy("t.created_at ASC", "t.id ASC").
		IteratorContext(ctx).
		All(&tags)
}

func (s *SQLDB) GetTagIdsForConnection(ctx context.Context, connectionId int64, ownerId string) ([]int64, error) {
	tags, err := s.GetTagsForConnection(ctx, connectionId, ownerId)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(tags))
	for i, tag := range tags {
		ids[i] = tag.Id
	}
	return ids, nil
}

func (s *SQLDB) GetConnectionIdsWithTags(ctx context.Context, ownerId string, tagIds []int64) ([]int64, error) {
	if len(tagIds) == 0 {
		return nil, nil
	}
	var rows []struct {
		ConnectionId int64 `db:"connection_id"`
	}
	err := s.sess.SQL().
		Select("ct.connection_id").
		From("connection_tag AS ct").
		Join("tag AS t").On("ct.tag_id = t.id").
		Where("t.owner_id = ?", ownerId).
		And("ct.tag_id IN ?", tagIds).
		GroupBy("ct.connection_id").
		IteratorContext(ctx).
		All(&rows)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ConnectionId
	}
	return ids, nil
}
