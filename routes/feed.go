package routes

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tightknit-app/tightknit-be/app"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/middleware"
	"github.com/tightknit-app/tightknit-be/util"

	"github.com/gin-gonic/gin"
)

type feedRoutes struct {
	db appDb.Database
}

func AddFeedRoutes(group *gin.RouterGroup, database appDb.Database, verifier middleware.TokenVerifier) {
	routes := feedRoutes{db: database}
	feed := group.Group("/feed", middleware.Auth(database, verifier, &middleware.AuthConfig{}))
	feed.GET("", util.HandlerWrapper(routes.getFeed, &util.HandlerOpts{}))
}

func (fr *feedRoutes) getFeed(c *gin.Context) (interface{}, *util.HTTPError) {
	tagIds, err := parseTagIds(c.Query("tagIds"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	skip, httpErr := parseIntQuery(c, "skip", 0)
	if httpErr != nil {
		return nil, httpErr
	}
	limit, httpErr := parseIntQuery(c, "limit", app.DefaultFeedLimit)
	if httpErr != nil {
		return nil, httpErr
	}

	posts, appErr := app.GetFeed(c, fr.db, middleware.MustGetUser(c), tagIds, skip, limit)
	if appErr != nil {
		return nil, util.HTTPErrorFromErr(appErr)
	}
	return &gin.H{
		"posts": posts,
		"skip":  skip + len(posts),
	}, nil
}

func parseTagIds(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	tagIds := make([]int64, len(parts))
	for i, part := range parts {
		tagId, err := util.ParseId(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		tagIds[i] = tagId
	}
	return tagIds, nil
}

func parseIntQuery(c *gin.Context, key string, fallback int) (int, *util.HTTPError) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return 0, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: key + " must be a non-negative integer",
		}
	}
	return val, nil
}
