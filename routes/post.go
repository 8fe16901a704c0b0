package routes

import (
	"github.com/tightknit-app/tightknit-be/app"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/middleware"
	"github.com/tightknit-app/tightknit-be/util"

	"github.com/gin-gonic/gin"
)

type postRoutes struct {
	db            appDb.Database
	photos        app.PhotoChecker
	notifications *app.Notifications
}

func AddPostRoutes(group *gin.RouterGroup, database appDb.Database, verifier middleware.TokenVerifier,
	photos app.PhotoChecker, notifications *app.Notifications) {
	routes := postRoutes{db: database, photos: photos, notifications: notifications}
	auth := middleware.Auth(database, verifier, &middleware.AuthConfig{})

	posts := group.Group("/posts", auth)
	posts.POST("", util.HandlerWrapper(routes.createPost, &util.HandlerOpts{}))
	posts.GET("/:id", util.HandlerWrapper(routes.getPostById, &util.HandlerOpts{}))
	posts.GET("/:id/comments", util.HandlerWrapper(routes.listComments, &util.HandlerOpts{}))
	posts.POST("/:id/comments", util.HandlerWrapper(routes.createComment, &util.HandlerOpts{}))

	comments := group.Group("/comments", auth)
	comments.GET("/:id/replies", util.HandlerWrapper(routes.listReplies, &util.HandlerOpts{}))
	comments.POST("/:id/replies", util.HandlerWrapper(routes.createReply, &util.HandlerOpts{}))
}

func (pr *postRoutes) createPost(c *gin.Context) (interface{}, *util.HTTPError) {
	var req app.CreatePostReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	post, err := app.CreatePost(c, pr.db, pr.photos, middleware.MustGetUser(c), &req)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return post, nil
}

func (pr *postRoutes) getPostById(c *gin.Context) (interface{}, *util.HTTPError) {
	postId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	post, err := app.GetPost(c, pr.db, middleware.MustGetUser(c), postId)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return post, nil
}

type createContentReq struct {
	Content string `json:"content"`
}

func (pr *postRoutes) createComment(c *gin.Context) (interface{}, *util.HTTPError) {
	postId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	var req createContentReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	comment, err := app.CreateComment(c, pr.db, pr.notifications, middleware.MustGetUser(c), postId, req.Content)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return comment, nil
}

func (pr *postRoutes) listComments(c *gin.Context) (interface{}, *util.HTTPError) {
	postId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	comments, err := app.ListComments(c, pr.db, middleware.MustGetUser(c), postId)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return comments, nil
}

func (pr *postRoutes) createReply(c *gin.Context) (interface{}, *util.HTTPError) {
	commentId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	var req createContentReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	reply, err := app.CreateReply(c, pr.db, pr.notifications, middleware.MustGetUser(c), commentId, req.Content)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return reply, nil
}

func (pr *postRoutes) listReplies(c *gin.Context) (interface{}, *util.HTTPError) {
	commentId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	replies, err := app.ListReplies(c, pr.db, middleware.MustGetUser(c), commentId)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return replies, nil
}
