package app

import (
	"context"
	"strconv"
	"time"

	"github.com/tightknit-app/tightknit-be/apperror"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/model"
)

const digestWindowDays = 7

type DigestPageType string

const (
	DigestPagePhoto   DigestPageType = "PHOTO"
	DigestPageText    DigestPageType = "TEXT"
	DigestPageTrailer DigestPageType = "TRAILER"
)

// DigestPage is one swipeable page. PHOTO pages carry exactly one post, TEXT
// pages aggregate all of a day's text-only posts, and the single TRAILER
// page carries none.
type DigestPage struct {
	Type  DigestPageType `json:"type"`
	Day   string         `json:"day,omitempty"`
	Posts []*model.Post  `json:"posts,omitempty"`
}

// Digest is the page sequence for the trailing window plus a jump index from
// day key to the offset of that day's first page.
type Digest struct {
	Pages       []*DigestPage  `json:"pages"`
	DayIndex    map[string]int `json:"dayIndex"`
	WindowStart time.Time      `json:"windowStart"`
	WindowEnd   time.Time      `json:"windowEnd"`
}

// GetDigest builds the viewer's digest over the trailing seven viewer-local
// days, today included. Days come oldest first; within a day every photo
// post gets its own page before the day's single text page. Days with no
// visible posts are skipped entirely. The trailer page is always last, even
// over an empty window.
//
// tagFilter is "all" (or empty) for no filter, "friends"/"family" for every
// viewer tag of that color scheme, or a numeric id for one specific tag.
func GetDigest(ctx context.Context, database appDb.Database, viewer *model.User, tagFilter string, loc *time.Location) (*Digest, error) {
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, -(digestWindowDays - 1))
	windowEnd := windowStart.AddDate(0, 0, digestWindowDays)

	tagIds, err := resolveTagFilter(ctx, database, viewer.Id, tagFilter)
	if err != nil {
		return nil, err
	}

	digest := &Digest{
		Pages:       []*DigestPage{},
		DayIndex:    map[string]int{},
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	}

	// A filter that matches no tagged connection yields an empty digest, not
	// an unfiltered one.
	skipPosts := tagFilter != "" && tagFilter != "all" && len(tagIds) == 0
	var posts []*model.Post
	if !skipPosts {
		authorIds, err := feedAuthors(ctx, database, viewer.Id, tagIds)
		if err != nil {
			return nil, err
		}
		if len(authorIds) > 0 {
			posts, err = visiblePostsInWindow(ctx, database, viewer.Id, authorIds, windowStart, windowEnd)
			if err != nil {
				return nil, err
			}
		}
	}

	byDay := make(map[string][]*model.Post)
	for _, post := range posts {
		day := post.CreatedAt.In(loc).Format("2006-01-02")
		byDay[day] = append(byDay[day], post)
	}

	for day := windowStart; day.Before(windowEnd); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		dayPosts := byDay[key]
		if len(dayPosts) == 0 {
			continue
		}
		digest.DayIndex[key] = len(digest.Pages)
		var textPosts []*model.Post
		for _, post := range dayPosts {
			if post.HasPhotos() {
				digest.Pages = append(digest.Pages, &DigestPage{
					Type:  DigestPagePhoto,
					Day:   key,
					Posts: []*model.Post{post},
				})
			} else {
				textPosts = append(textPosts, post)
			}
		}
		if len(textPosts) > 0 {
			digest.Pages = append(digest.Pages, &DigestPage{
				Type:  DigestPageText,
				Day:   key,
				Posts: textPosts,
			})
		}
	}

	digest.Pages = append(digest.Pages, &DigestPage{Type: DigestPageTrailer})
	return digest, nil
}

func visiblePostsInWindow(ctx context.Context, database appDb.Database, viewerId string, authorIds []string, since, until time.Time) ([]*model.Post, error) {
	resolver := NewResolver(database, viewerId)
	var visible []*model.Post
	for offset := 0; ; offset += feedFetchBatch {
		batch, err := database.GetPostsByAuthors(ctx, &appDb.PostsQuery{
			AuthorIds: authorIds,
			Since:     &since,
			Until:     &until,
			Ascending: true,
			Skip:      offset,
			Limit:     feedFetchBatch,
		})
		if err != nil {
			return nil, err
		}
		for _, post := range batch {
			ok, err := resolver.CanView(ctx, post)
			if err != nil {
				return nil, err
			}
			if ok {
				visible = append(visible, post)
			}
		}
		if len(batch) < feedFetchBatch {
			return visible, nil
		}
	}
}

func resolveTagFilter(ctx context.Context, database appDb.Database, viewerId, tagFilter string) ([]int64, error) {
	switch tagFilter {
	case "", "all":
		return nil, nil
	case string(model.ColorSchemeFriends), string(model.ColorSchemeFamily):
		tags, err := database.GetTagsForUser(ctx, viewerId)
		if err != nil {
			return nil, err
		}
		var ids []int64
		for _, tag := range tags {
			if string(tag.ColorScheme) == tagFilter {
				ids = append(ids, tag.Id)
			}
		}
		return ids, nil
	}

	tagId, err := strconv.ParseInt(tagFilter, 10, 64)
	if err != nil {
		return nil, apperror.ValidationFailed("tag", "unknown tag filter")
	}
	if _, err := ownedTag(ctx, database, viewerId, tagId); err != nil {
		return nil, err
	}
	return []int64{tagId}, nil
}
