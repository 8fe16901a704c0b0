package sqldb

import (
	"context"
	"time"

	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/model"

	updb "github.com/upper/db/v4"
)

type flattenedComment struct {
	Id           int64     `db:"id"`
	PostId       int64     `db:"post_id"`
	AuthorId     string    `db:"author_id"`
	AuthorHandle string    `db:"handle"`
	AuthorAvatar string    `db:"avatar"`
	Content      string    `db:"content"`
	CreatedAt    time.Time `db:"created_at"`
}

func (fc *flattenedComment) toComment() *model.Comment {
	return &model.Comment{
		Id:       fc.Id,
		PostId:   fc.PostId,
		AuthorId: fc.AuthorId,
		Author: &model.User{
			Id:     fc.AuthorId,
			Handle: fc.AuthorHandle,
			Avatar: fc.AuthorAvatar,
		},
		Content:   fc.Content,
		CreatedAt: fc.CreatedAt,
	}
}

func (s *SQLDB) CreateComment(ctx context.Context, req *appDb.CreateComment) (int64, error) {
	res, err := s.sess.SQL().
		InsertInto("comment").
		Columns("post_id", "author_id", "content", "created_at").
		Values(req.PostId, req.AuthorId, req.Content, time.Now().UTC()).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLDB) GetCommentById(ctx context.Context, id int64) (*model.Comment, error) {
	var flattened flattenedComment
	err := s.sess.SQL().
		Select("c.id", "c.post_id", "c.author_id", "person.handle", "person.avatar",
			"c.content", "c.created_at").
		From("comment AS c").
		Join("person").On("c.author_id = person.id").
		Where("c.id = ?", id).
		IteratorContext(ctx).
		One(&flattened)
	if err == updb.ErrNoMoreRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return flattened.toComment(), nil
}

func (s *SQLDB) GetCommentsForPost(ctx context.Context, postId int64) ([]*model.Comment, error) {
	var flattenedComments []*flattenedComment
	err := s.sess.SQL().
		Select("c.id", "c.post_id", "c.author_id", "person.handle", "person.avatar",
			"c.content", "c.created_at").
		From("comment AS c").
		Join("person").On("c.author_id = person.id").
		Where("c.post_id = ?", postId).
		OrderBy("c.created_at ASC", "c.id ASC").
		IteratorContext(ctx).
		All(&flattenedComments)
	if err != nil {
		return nil, err
	}
	comments := make([]*model.Comment, len(flattenedComments))
	for i, flattened := range flattenedComments {
		comments[i] = flattened.toComment()
	}
	return comments, nil
}

func (s *SQLDB) CreateReply(ctx context.Context, req *appDb.CreateReply) (int64, error) {
	res, err := s.sess.SQL().
		InsertInto("reply").
		Columns("comment_id", "author_id", "content", "created_at").
		Values(req.CommentId, req.AuthorId, req.Content, time.Now().UTC()).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLDB) GetRepliesForComment(ctx context.Context, commentId int64) ([]*model.Reply, error) {
	var flattenedReplies []*struct {
		Id           int64     `db:"id"`
		CommentId    int64     `db:"comment_id"`
		AuthorId     string    `db:"author_id"`
		AuthorHandle string    `db:"handle"`
		AuthorAvatar string    `db:"avatar"`
		Content      string    `db:"content"`
		CreatedAt    time.Time `db:"created_at"`
	}
	err := s.sess.SQL().
		Select("r.id", "r.comment_id", "r.author_id", "person.handle", "person.avatar",
			"r.content", "r.created_at").
		From("reply AS r").
		Join("person").On("r.author_id = person.id").
		Where("r.comment_id = ?", commentId).
		OrderBy("r.created_at ASC", "r.id ASC").
		IteratorContext(ctx).
		All(&flattenedReplies)
	if err != nil {
		return nil, err
	}
	replies := make([]*model.Reply, len(flattenedReplies))
	for i, flattened := range flattenedReplies {
		replies[i] = &model.Reply{
			Id:        flattened.Id,
			CommentId: flattened.CommentId,
			AuthorId:  flattened.AuthorId,
			Author: &model.User{
				Id:     flattened.AuthorId,
				Handle: flattened.AuthorHandle,
				Avatar: flattened.AuthorAvatar,
			},
			Content:   flattened.Content,
			CreatedAt: flattened.CreatedAt,
		}
	}
	return replies, nil
}

func (s *SQLDB) GetReplyAuthorIds(ctx context.Context, commentId int64) ([]string, error) {
	var rows []struct {
		AuthorId string `db:"author_id"`
	}
	err := s.sess.SQL().
		Select("author_id").
		From("reply").
		Where("comment_id = ?", commentId).
		GroupBy("author_id").
		IteratorContext(ctx).
		All(&rows)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.AuthorId
	}
	return ids, nil
}
