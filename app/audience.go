package app

import (
	"context"

	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/model"
)

// CanView decides post visibility for one viewer. Visibility is computed
// lazily per request; nothing here is denormalized at write time.
//
//  1. The author always sees their own post.
//  2. PRIVATE is author-only.
//  3. ALL requires an accepted edge between viewer and author.
//  4. TAGS additionally requires the author to have assigned at least one of
//     the post's audience tags to that specific edge. A deleted or empty tag
//     reference matches nothing, so such posts resolve author-only.
func CanView(ctx context.Context, database appDb.Database, viewerId string, post *model.Post) (bool, error) {
	resolver := NewResolver(database, viewerId)
	return resolver.CanView(ctx, post)
}

// Resolver answers CanView for a fixed viewer, memoizing the viewer's edges
// and the per-edge tag sets. Purely a per-request performance aid; every
// answer still reflects committed state at load time.
type Resolver struct {
	db       appDb.Database
	viewerId string

	edges    map[string]*model.Connection // author id -> accepted edge
	edgeTags map[int64]map[int64]bool     // edge id -> author's tag ids on it
}

func NewResolver(database appDb.Database, viewerId string) *Resolver {
	return &Resolver{
		db:       database,
		viewerId: viewerId,
		edges:    map[string]*model.Connection{},
		edgeTags: map[int64]map[int64]bool{},
	}
}

func (r *Resolver) CanView(ctx context.Context, post *model.Post) (bool, error) {
	if r.viewerId == post.AuthorId {
		return true, nil
	}
	switch post.Audience {
	case model.AudiencePrivate:
		return false, nil
	case model.AudienceAll:
		edge, err := r.acceptedEdgeWith(ctx, post.AuthorId)
		if err != nil {
			return false, err
		}
		return edge != nil, nil
	case model.AudienceTags:
		edge, err := r.acceptedEdgeWith(ctx, post.AuthorId)
		if err != nil || edge == nil {
			return false, err
		}
		authorTagIds, err := r.authorTagIdsOnEdge(ctx, edge, post.AuthorId)
		if err != nil {
			return false, err
		}
		for _, tagId := range post.AudienceTagIds {
			if authorTagIds[tagId] {
				return true, nil
			}
		}
		return false, nil
	}
	return false, nil
}

func (r *Resolver) acceptedEdgeWith(ctx context.Context, authorId string) (*model.Connection, error) {
	if edge, ok := r.edges[authorId]; ok {
		return edge, nil
	}
	edge, err := r.db.GetConnectionBetween(ctx, r.viewerId, authorId)
	if err != nil {
		return nil, err
	}
	if edge != nil && edge.Status != model.ConnectionAccepted {
		edge = nil
	}
	r.edges[authorId] = edge
	return edge, nil
}

func (r *Resolver) authorTagIdsOnEdge(ctx context.Context, edge *model.Connection, authorId string) (map[int64]bool, error) {
	if tagIds, ok := r.edgeTags[edge.Id]; ok {
		return tagIds, nil
	}
	ids, err := r.db.GetTagIdsForConnection(ctx, edge.Id, authorId)
	if err != nil {
		return nil, err
	}
	tagIds := make(map[int64]bool, len(ids))
	for _, id := range ids {
		tagIds[id] = true
	}
	r.edgeTags[edge.Id] = tagIds
	return tagIds, nil
}
