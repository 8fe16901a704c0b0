package sqldb

import (
	"context"
	"encoding/json"
	"time"

	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/model"

	updb "github.com/upper/db/v4"
)

type flattenedPost struct {
	Id            int64          `db:"id"`
	AuthorId      string         `db:"author_id"`
	AuthorHandle  string         `db:"handle"`
	AuthorAvatar  string         `db:"avatar"`
	Content       string         `db:"content"`
	Audience      model.Audience `db:"audience"`
	PhotoUrlsJSON string         `db:"photo_urls"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (s *SQLDB) CreatePost(ctx context.Context, req *appDb.CreatePost) (int64, error) {
	photoUrlsJSON, err := json.Marshal(req.PhotoUrls)
	if err != nil {
		return 0, err
	}
	var postId int64
	err = s.sess.TxContext(ctx, func(tx updb.Session) error {
		res, err := tx.SQL().
			InsertInto("post").
			Columns("author_id", "content", "audience", "photo_urls", "created_at").
			Values(req.AuthorId, req.Content, req.Audience, string(photoUrlsJSON), time.Now().UTC()).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		if postId, err = res.LastInsertId(); err != nil {
			return err
		}
		for _, tagId := range req.AudienceTagIds {
			if _, err := tx.SQL().
				InsertInto("post_audience_tag").
				Columns("post_id", "tag_id").
				Values(postId, tagId).
				ExecContext(ctx); err != nil {
				return err
			}
		}
		return nil
	}, nil)
	return postId, err
}

func (s *SQLDB) GetPostById(ctx context.Context, id int64) (*model.Post, error) {
	var flattened flattenedPost
	err := s.postSelector().
		Where("p.id = ?", id).
		IteratorContext(ctx).
		One(&flattened)
	if err == updb.ErrNoMoreRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	posts, err := s.buildPosts(ctx, []*flattenedPost{&flattened})
	if err != nil {
		return nil, err
	}
	return posts[0], nil
}

func (s *SQLDB) GetPostsByAuthors(ctx context.Context, query *appDb.PostsQuery) ([]*model.Post, error) {
	if len(query.AuthorIds) == 0 {
		return nil, nil
	}
	sel := s.postSelector().
		Where("p.author_id IN ?", query.AuthorIds)
	if query.Since != nil {
		sel = sel.And("p.created_at >= ?", query.Since.UTC())
	}
	if query.Until != nil {
		sel = sel.And("p.created_at < ?", query.Until.UTC())
	}
	if query.Ascending {
		sel = sel.OrderBy("p.created_at ASC", "p.id ASC")
	} else {
		sel = sel.OrderBy("p.created_at DESC", "p.id DESC")
	}
	if query.Skip > 0 {
		sel = sel.Offset(query.Skip)
	}
	if query.Limit > 0 {
		sel = sel.Limit(query.Limit)
	}

	var flattenedPosts []*flattenedPost
	if err := sel.IteratorContext(ctx).All(&flattenedPosts); err != nil {
		return nil, err
	}
	return s.buildPosts(ctx, flattenedPosts)
}

func (s *SQLDB) GetRecentPostIdsByAuthors(ctx context.Context, authorIds []string, limit int) ([]int64, error) {
	if len(authorIds) == 0 {
		return nil, nil
	}
	var rows []struct {
		Id int64 `db:"id"`
	}
	err := s.sess.SQL().
		Select("id").
		From("post").
		Where("author_id IN ?", authorIds).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		IteratorContext(ctx).
		All(&rows)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.Id
	}
	return ids, nil
}

func (s *SQLDB) postSelector() updb.Selector {
	return s.sess.SQL().
		Select("p.id", "p.author_id", "person.handle", "person.avatar",
			"p.content", "p.audience", "p.photo_urls", "p.created_at").
		From("post AS p").
		Join("person").On("p.author_id = person.id")
}

// buildPosts inflates flattened rows and batch-loads audience tag ids for
// TAGS posts.
func (s *SQLDB) buildPosts(ctx context.Context, flattenedPosts []*flattenedPost) ([]*model.Post, error) {
	var taggedPostIds []int64
	posts := make([]*model.Post, len(flattenedPosts))
	for i, flattened := range flattenedPosts {
		var photoUrls []string
		if flattened.PhotoUrlsJSON != "" {
			if err := json.Unmarshal([]byte(flattened.PhotoUrlsJSON), &photoUrls); err != nil {
				return nil, err
			}
		}
		posts[i] = &model.Post{
			Id:       flattened.Id,
			AuthorId: flattened.AuthorId,
			Author: &model.User{
				Id:     flattened.AuthorId,
				Handle: flattened.AuthorHandle,
				Avatar: flattened.AuthorAvatar,
			},
			Content:   flattened.Content,
			Audience:  flattened.Audience,
			PhotoUrls: photoUrls,
			CreatedAt: flattened.CreatedAt,
		}
		if flattened.Audience == model.AudienceTags {
			taggedPostIds = append(taggedPostIds, flattened.Id)
		}
	}
	if len(taggedPostIds) == 0 {
		return posts, nil
	}

	var audienceRows []struct {
		PostId int64 `db:"post_id"`
		TagId  int64 `db:"tag_id"`
	}
	if err := s.sess.SQL().
		Select("post_id", "tag_id").
		From("post_audience_tag").
		Where("post_id IN ?", taggedPostIds).
		IteratorContext(ctx).
		All(&audienceRows); err != nil {
		return nil, err
	}
	audienceTagIds := make(map[int64][]int64, len(taggedPostIds))
	for _, row := range audienceRows {
		audienceTagIds[row.PostId] = append(audienceTagIds[row.PostId], row.TagId)
	}
	for _, post := range posts {
		post.AudienceTagIds = audienceTagIds[post.Id]
	}
	return posts, nil
}
