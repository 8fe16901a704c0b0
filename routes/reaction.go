package routes

import (
	"github.com/tightknit-app/tightknit-be/app"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/middleware"
	"github.com/tightknit-app/tightknit-be/util"

	"github.com/gin-gonic/gin"
)

type reactionRoutes struct {
	db appDb.Database
}

func AddReactionRoutes(group *gin.RouterGroup, database appDb.Database, verifier middleware.TokenVerifier) {
	routes := reactionRoutes{db: database}
	posts := group.Group("/posts", middleware.Auth(database, verifier, &middleware.AuthConfig{}))
	posts.POST("/:id/reactions", util.HandlerWrapper(routes.react, &util.HandlerOpts{}))
	posts.DELETE("/:id/reactions", util.HandlerWrapper(routes.unreact, &util.HandlerOpts{}))
	posts.GET("/:id/reactions", util.HandlerWrapper(routes.listReactions, &util.HandlerOpts{}))
	posts.GET("/:id/reactions/reactors", util.HandlerWrapper(routes.listReactors, &util.HandlerOpts{}))
}

type reactReq struct {
	Emoji string `json:"emoji"`
}

func (rr *reactionRoutes) react(c *gin.Context) (interface{}, *util.HTTPError) {
	postId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	var req reactReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	reaction, err := app.React(c, rr.db, middleware.MustGetUser(c), postId, req.Emoji)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return reaction, nil
}

func (rr *reactionRoutes) unreact(c *gin.Context) (interface{}, *util.HTTPError) {
	postId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	if err := app.Unreact(c, rr.db, middleware.MustGetUser(c), postId); err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return nil, nil
}

func (rr *reactionRoutes) listReactions(c *gin.Context) (interface{}, *util.HTTPError) {
	postId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	reactions, err := app.ListReactions(c, rr.db, middleware.MustGetUser(c), postId)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return reactions, nil
}

func (rr *reactionRoutes) listReactors(c *gin.Context) (interface{}, *util.HTTPError) {
	postId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	reactors, err := app.ListReactors(c, rr.db, middleware.MustGetUser(c), postId, c.Query("emoji"))
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return reactors, nil
}
