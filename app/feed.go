package app

import (
	"context"

	"github.com/tightknit-app/tightknit-be/apperror"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/model"
)

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100

	feedFetchBatch = 100
)

// GetFeed pages the viewer's chronological feed: the viewer's own posts plus
// every visible post from accepted connections, newest first.
//
// tagIds, when non-empty, restricts candidate authors to connections the
// viewer tagged with at least one of the given tags. The filter is
// viewer-side bookkeeping only; it never widens visibility, and it excludes
// the viewer's own posts since the viewer cannot tag themselves.
//
// Visibility cannot be expressed as a single predicate on the post row, so
// candidates are fetched in batches and filtered until the page fills.
func GetFeed(ctx context.Context, database appDb.Database, viewer *model.User, tagIds []int64, skip, limit int) ([]*model.Post, error) {
	if skip < 0 || limit < 0 {
		return nil, apperror.ValidationFailed("skip", "skip and limit must be non-negative")
	}
	if limit == 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}

	authorIds, err := feedAuthors(ctx, database, viewer.Id, tagIds)
	if err != nil {
		return nil, err
	}
	if len(authorIds) == 0 {
		return []*model.Post{}, nil
	}

	resolver := NewResolver(database, viewer.Id)
	page := make([]*model.Post, 0, limit)
	seen := 0
	for offset := 0; ; offset += feedFetchBatch {
		batch, err := database.GetPostsByAuthors(ctx, &appDb.PostsQuery{
			AuthorIds: authorIds,
			Skip:      offset,
			Limit:     feedFetchBatch,
		})
		if err != nil {
			return nil, err
		}
		for _, post := range batch {
			visible, err := resolver.CanView(ctx, post)
			if err != nil {
				return nil, err
			}
			if !visible {
				continue
			}
			if seen < skip {
				seen++
				continue
			}
			page = append(page, post)
			if len(page) == limit {
				return page, nil
			}
		}
		if len(batch) < feedFetchBatch {
			return page, nil
		}
	}
}

// feedAuthors resolves the candidate author set for a feed or digest query.
func feedAuthors(ctx context.Context, database appDb.Database, viewerId string, tagIds []int64) ([]string, error) {
	if len(tagIds) == 0 {
		connectedIds, err := database.GetConnectedUserIds(ctx, viewerId)
		if err != nil {
			return nil, err
		}
		return append(connectedIds, viewerId), nil
	}

	edgeIds, err := database.GetConnectionIdsWithTags(ctx, viewerId, tagIds)
	if err != nil {
		return nil, err
	}
	authorIds := make([]string, 0, len(edgeIds))
	for _, edgeId := range edgeIds {
		edge, err := database.GetConnectionById(ctx, edgeId)
		if err != nil {
			return nil, err
		}
		if edge == nil || edge.Status != model.ConnectionAccepted {
			continue
		}
		authorIds = append(authorIds, edge.OtherParty(viewerId))
	}
	return authorIds, nil
}
