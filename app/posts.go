package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/tightknit-app/tightknit-be/apperror"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/model"
	"github.com/tightknit-app/tightknit-be/util"
)

const (
	maxPostLength    = 4000
	maxCommentLength = 2000
	maxPostPhotos    = 4
)

// PhotoChecker verifies that an uploaded blob actually exists before a post
// may reference it. A nil checker skips the check (local dev without a
// bucket).
type PhotoChecker interface {
	Exists(ctx context.Context, blobName string) (bool, error)
}

type CreatePostReq struct {
	Content        string         `json:"content"`
	Audience       model.Audience `json:"audience"`
	AudienceTagIds []int64        `json:"audienceTagIds"`
	PhotoBlobs     []string       `json:"photoBlobs"`
}

// CreatePost validates and stores a post. The audience is immutable once
// written; a TAGS audience snapshots the tag id list as-is, including an
// empty list, which makes the post effectively author-only.
func CreatePost(ctx context.Context, database appDb.Database, photos PhotoChecker, author *model.User, req *CreatePostReq) (*model.Post, error) {
	content := strings.TrimSpace(util.XSSSanitize(req.Content))
	if content == "" && len(req.PhotoBlobs) == 0 {
		return nil, apperror.ValidationFailed("content", "post cannot be empty")
	}
	if len(content) > maxPostLength {
		return nil, apperror.ValidationFailed("content", "post is too long")
	}
	if !req.Audience.Valid() {
		return nil, apperror.ValidationFailed("audience", "unknown audience")
	}
	if req.Audience != model.AudienceTags && len(req.AudienceTagIds) > 0 {
		return nil, apperror.ValidationFailed("audienceTagIds", "tag list requires a TAGS audience")
	}
	if req.Audience == model.AudienceTags {
		for _, tagId := range req.AudienceTagIds {
			if _, err := ownedTag(ctx, database, author.Id, tagId); err != nil {
				return nil, apperror.ValidationFailed("audienceTagIds",
					fmt.Sprintf("tag %d is not one of your tags", tagId))
			}
		}
	}
	if len(req.PhotoBlobs) > maxPostPhotos {
		return nil, apperror.ValidationFailed("photoBlobs", "too many photos")
	}
	if photos != nil {
		for _, blobName := range req.PhotoBlobs {
			exists, err := photos.Exists(ctx, blobName)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, apperror.ValidationFailed("photoBlobs", "photo was not uploaded")
			}
		}
	}

	postId, err := database.CreatePost(ctx, &appDb.CreatePost{
		AuthorId:       author.Id,
		Content:        content,
		Audience:       req.Audience,
		AudienceTagIds: req.AudienceTagIds,
		PhotoUrls:      req.PhotoBlobs,
	})
	if err != nil {
		return nil, err
	}
	return database.GetPostById(ctx, postId)
}

// GetPost returns the post if the viewer may see it. An invisible post is
// indistinguishable from a missing one.
func GetPost(ctx context.Context, database appDb.Database, viewer *model.User, postId int64) (*model.Post, error) {
	post, err := database.GetPostById(ctx, postId)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apperror.NotFound("post")
	}
	visible, err := CanView(ctx, database, viewer.Id, post)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, apperror.NotFound("post")
	}
	return post, nil
}

func CreateComment(ctx context.Context, database appDb.Database, notifications *Notifications, author *model.User, postId int64, content string) (*model.Comment, error) {
	post, err := GetPost(ctx, database, author, postId)
	if err != nil {
		return nil, err
	}
	content, err = normalizeCommentContent(content)
	if err != nil {
		return nil, err
	}
	commentId, err := database.CreateComment(ctx, &appDb.CreateComment{
		PostId:   postId,
		AuthorId: author.Id,
		Content:  content,
	})
	if err != nil {
		return nil, err
	}
	comment, err := database.GetCommentById(ctx, commentId)
	if err != nil {
		return nil, err
	}
	if err := notifications.CommentCreated(ctx, post, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments decorates each comment with whether the viewer has unread
// reply activity under it.
func ListComments(ctx context.Context, database appDb.Database, viewer *model.User, postId int64) ([]*model.CommentWithUnread, error) {
	if _, err := GetPost(ctx, database, viewer, postId); err != nil {
		return nil, err
	}
	comments, err := database.GetCommentsForPost(ctx, postId)
	if err != nil {
		return nil, err
	}
	commentIds := make([]int64, len(comments))
	for i, comment := range comments {
		commentIds[i] = comment.Id
	}
	unreadIds, err := database.GetUnreadCommentIds(ctx, viewer.Id, commentIds)
	if err != nil {
		return nil, err
	}
	unread := make(map[int64]bool, len(unreadIds))
	for _, id := range unreadIds {
		unread[id] = true
	}

	decorated := make([]*model.CommentWithUnread, len(comments))
	for i, comment := range comments {
		decorated[i] = &model.CommentWithUnread{
			Comment:        comment,
			HasUnreadReply: unread[comment.Id],
		}
	}
	return decorated, nil
}

func CreateReply(ctx context.Context, database appDb.Database, notifications *Notifications, author *model.User, commentId int64, content string) (*model.Reply, error) {
	comment, post, err := viewableComment(ctx, database, author, commentId)
	if err != nil {
		return nil, err
	}
	content, err = normalizeCommentContent(content)
	if err != nil {
		return nil, err
	}
	replyId, err := database.CreateReply(ctx, &appDb.CreateReply{
		CommentId: commentId,
		AuthorId:  author.Id,
		Content:   content,
	})
	if err != nil {
		return nil, err
	}
	if err := notifications.ReplyCreated(ctx, post, comment, author.Id); err != nil {
		return nil, err
	}
	replies, err := database.GetRepliesForComment(ctx, commentId)
	if err != nil {
		return nil, err
	}
	for _, reply := range replies {
		if reply.Id == replyId {
			return reply, nil
		}
	}
	return nil, apperror.NotFound("reply")
}

func ListReplies(ctx context.Context, database appDb.Database, viewer *model.User, commentId int64) ([]*model.Reply, error) {
	if _, _, err := viewableComment(ctx, database, viewer, commentId); err != nil {
		return nil, err
	}
	return database.GetRepliesForComment(ctx, commentId)
}

func viewableComment(ctx context.Context, database appDb.Database, viewer *model.User, commentId int64) (*model.Comment, *model.Post, error) {
	comment, err := database.GetCommentById(ctx, commentId)
	if err != nil {
		return nil, nil, err
	}
	if comment == nil {
		return nil, nil, apperror.NotFound("comment")
	}
	post, err := GetPost(ctx, database, viewer, comment.PostId)
	if err != nil {
		return nil, nil, err
	}
	return comment, post, nil
}

func normalizeCommentContent(content string) (string, error) {
	content = strings.TrimSpace(util.XSSSanitize(content))
	if content == "" {
		return "", apperror.ValidationFailed("content", "content is required")
	}
	if len(content) > maxCommentLength {
		return "", apperror.ValidationFailed("content", "content is too long")
	}
	return content, nil
}
