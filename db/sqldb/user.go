package sqldb

import (
	"context"
	"time"

	"github.com/tightknit-app/tightknit-be/apperror"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/model"

	updb "github.com/upper/db/v4"
)

func (s *SQLDB) CreateUser(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := s.sess.SQL().
		InsertInto("person").
		Columns("id", "handle", "avatar", "created_at").
		Values(user.Id, user.Handle, user.Avatar, user.CreatedAt).
		ExecContext(ctx)
	if appDb.IsDupKeyErr(err) {
		return apperror.Duplicate("a profile with that handle already exists")
	}
	return err
}

func (s *SQLDB) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.sess.SQL().
		Select("*").
		From("person").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&user)
	if err == updb.ErrNoMoreRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SQLDB) GetUsers(ctx context.Context, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*model.User
	return users, s.sess.SQL().
		Select("*").
		From("person").
		Where("id IN ?", ids).
		IteratorContext(ctx).
		All(&users)
}
