package routes

import (
	"github.com/tightknit-app/tightknit-be/app"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/middleware"
	"github.com/tightknit-app/tightknit-be/util"

	"github.com/gin-gonic/gin"
)

type notificationRoutes struct {
	notifications *app.Notifications
	bell          *app.BellController
}

func AddNotificationRoutes(group *gin.RouterGroup, database appDb.Database, verifier middleware.TokenVerifier,
	notifications *app.Notifications, bell *app.BellController) {
	routes := notificationRoutes{notifications: notifications, bell: bell}
	n := group.Group("/notifications", middleware.Auth(database, verifier, &middleware.AuthConfig{}))
	n.GET("/recent", util.HandlerWrapper(routes.recent, &util.HandlerOpts{}))
	n.POST("/post-summary", util.HandlerWrapper(routes.postSummary, &util.HandlerOpts{}))
	n.POST("/posts/:id/read", util.HandlerWrapper(routes.markPostRead, &util.HandlerOpts{}))
	n.POST("/comments/:id/read", util.HandlerWrapper(routes.markCommentRead, &util.HandlerOpts{}))
	n.POST("/next", util.HandlerWrapper(routes.next, &util.HandlerOpts{}))
	n.POST("/clear", util.HandlerWrapper(routes.clear, &util.HandlerOpts{}))
}

func (nr *notificationRoutes) recent(c *gin.Context) (interface{}, *util.HTTPError) {
	limit, httpErr := parseIntQuery(c, "limit", 0)
	if httpErr != nil {
		return nil, httpErr
	}
	activity, err := nr.notifications.Recent(c, middleware.MustGetUser(c), limit)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return activity, nil
}

type postSummaryReq struct {
	PostIds []int64 `json:"postIds"`
}

func (nr *notificationRoutes) postSummary(c *gin.Context) (interface{}, *util.HTTPError) {
	var req postSummaryReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	summaries, err := nr.notifications.PostSummary(c, middleware.MustGetUser(c), req.PostIds)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return summaries, nil
}

func (nr *notificationRoutes) markPostRead(c *gin.Context) (interface{}, *util.HTTPError) {
	postId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	if err := nr.notifications.MarkPostRead(c, middleware.MustGetUser(c), postId); err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return nil, nil
}

func (nr *notificationRoutes) markCommentRead(c *gin.Context) (interface{}, *util.HTTPError) {
	commentId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	if err := nr.notifications.MarkCommentRead(c, middleware.MustGetUser(c), commentId); err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return nil, nil
}

func (nr *notificationRoutes) next(c *gin.Context) (interface{}, *util.HTTPError) {
	result, err := nr.bell.NextUnread(c, middleware.MustGetUser(c))
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return result, nil
}

type clearReq struct {
	HeldMs int `json:"heldMs"`
}

func (nr *notificationRoutes) clear(c *gin.Context) (interface{}, *util.HTTPError) {
	var req clearReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	cleared, err := nr.bell.LongPressClear(c, middleware.MustGetUser(c), req.HeldMs)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return &gin.H{"cleared": cleared}, nil
}
