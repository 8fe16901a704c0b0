package routes

import (
	"net/http"
	"time"

	"github.com/tightknit-app/tightknit-be/app"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/middleware"
	"github.com/tightknit-app/tightknit-be/util"

	"github.com/gin-gonic/gin"
)

type digestRoutes struct {
	db appDb.Database
}

func AddDigestRoutes(group *gin.RouterGroup, database appDb.Database, verifier middleware.TokenVerifier) {
	routes := digestRoutes{db: database}
	digest := group.Group("/digest", middleware.Auth(database, verifier, &middleware.AuthConfig{}))
	digest.GET("", util.HandlerWrapper(routes.getDigest, &util.HandlerOpts{}))
}

func (dr *digestRoutes) getDigest(c *gin.Context) (interface{}, *util.HTTPError) {
	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "unknown timezone",
			}
		}
		loc = parsed
	}
	digest, err := app.GetDigest(c, dr.db, middleware.MustGetUser(c), c.Query("tag"), loc)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return digest, nil
}
