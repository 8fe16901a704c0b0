package routes

import (
	"github.com/tightknit-app/tightknit-be/app"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/middleware"
	"github.com/tightknit-app/tightknit-be/util"

	"github.com/gin-gonic/gin"
)

type connectionRoutes struct {
	db            appDb.Database
	connectionCap int
}

func AddConnectionRoutes(group *gin.RouterGroup, database appDb.Database, verifier middleware.TokenVerifier, connectionCap int) {
	routes := connectionRoutes{db: database, connectionCap: connectionCap}
	connections := group.Group("/connections", middleware.Auth(database, verifier, &middleware.AuthConfig{}))
	connections.GET("", util.HandlerWrapper(routes.list, &util.HandlerOpts{}))
	connections.GET("/requests/incoming", util.HandlerWrapper(routes.incoming, &util.HandlerOpts{}))
	connections.GET("/requests/outgoing", util.HandlerWrapper(routes.outgoing, &util.HandlerOpts{}))
	connections.POST("/request/:userId", util.HandlerWrapper(routes.request, &util.HandlerOpts{}))
	connections.POST("/accept/:id", util.HandlerWrapper(routes.accept, &util.HandlerOpts{}))
	connections.DELETE("/reject/:id", util.HandlerWrapper(routes.reject, &util.HandlerOpts{}))
	connections.DELETE("/:id", util.HandlerWrapper(routes.disconnect, &util.HandlerOpts{}))
	connections.GET("/:id/tags", util.HandlerWrapper(routes.listTags, &util.HandlerOpts{}))
	connections.POST("/:id/tags", util.HandlerWrapper(routes.assignTag, &util.HandlerOpts{}))
	connections.DELETE("/:id/tags/:tagId", util.HandlerWrapper(routes.unassignTag, &util.HandlerOpts{}))
}

func (cr *connectionRoutes) list(c *gin.Context) (interface{}, *util.HTTPError) {
	connections, err := app.ListAccepted(c, cr.db, middleware.MustGetUser(c).Id)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return connections, nil
}

func (cr *connectionRoutes) incoming(c *gin.Context) (interface{}, *util.HTTPError) {
	requests, err := app.ListPendingRequests(c, cr.db, middleware.MustGetUser(c).Id, true)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return requests, nil
}

func (cr *connectionRoutes) outgoing(c *gin.Context) (interface{}, *util.HTTPError) {
	requests, err := app.ListPendingRequests(c, cr.db, middleware.MustGetUser(c).Id, false)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return requests, nil
}

func (cr *connectionRoutes) request(c *gin.Context) (interface{}, *util.HTTPError) {
	result, err := app.SendRequest(c, cr.db, cr.connectionCap, middleware.MustGetUser(c), c.Param("userId"))
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return result, nil
}

func (cr *connectionRoutes) accept(c *gin.Context) (interface{}, *util.HTTPError) {
	edgeId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	if err := app.Accept(c, cr.db, cr.connectionCap, edgeId, middleware.MustGetUser(c).Id); err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return nil, nil
}

func (cr *connectionRoutes) reject(c *gin.Context) (interface{}, *util.HTTPError) {
	edgeId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	if err := app.Reject(c, cr.db, edgeId, middleware.MustGetUser(c).Id); err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return nil, nil
}

func (cr *connectionRoutes) disconnect(c *gin.Context) (interface{}, *util.HTTPError) {
	edgeId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	if err := app.Disconnect(c, cr.db, edgeId, middleware.MustGetUser(c).Id); err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return nil, nil
}

func (cr *connectionRoutes) listTags(c *gin.Context) (interface{}, *util.HTTPError) {
	edgeId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	tags, err := app.GetConnectionTags(c, cr.db, middleware.MustGetUser(c), edgeId)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return tags, nil
}

type assignTagReq struct {
	TagId int64 `json:"tagId"`
}

func (cr *connectionRoutes) assignTag(c *gin.Context) (interface{}, *util.HTTPError) {
	edgeId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	var req assignTagReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if err := app.AssignTag(c, cr.db, middleware.MustGetUser(c), edgeId, req.TagId); err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return nil, nil
}

func (cr *connectionRoutes) unassignTag(c *gin.Context) (interface{}, *util.HTTPError) {
	edgeId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	tagId, err := util.ParseId(c.Param("tagId"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	if err := app.UnassignTag(c, cr.db, middleware.MustGetUser(c), edgeId, tagId); err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return nil, nil
}
