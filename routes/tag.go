package routes

import (
	"github.com/tightknit-app/tightknit-be/app"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/middleware"
	"github.com/tightknit-app/tightknit-be/util"

	"github.com/gin-gonic/gin"
)

type tagRoutes struct {
	db appDb.Database
}

func AddTagRoutes(group *gin.RouterGroup, database appDb.Database, verifier middleware.TokenVerifier) {
	routes := tagRoutes{db: database}
	tags := group.Group("/tags", middleware.Auth(database, verifier, &middleware.AuthConfig{}))
	tags.GET("", util.HandlerWrapper(routes.list, &util.HandlerOpts{}))
	tags.POST("", util.HandlerWrapper(routes.create, &util.HandlerOpts{}))
	tags.PUT("/:id", util.HandlerWrapper(routes.update, &util.HandlerOpts{}))
	tags.DELETE("/:id", util.HandlerWrapper(routes.delete, &util.HandlerOpts{}))
}

func (tr *tagRoutes) list(c *gin.Context) (interface{}, *util.HTTPError) {
	tags, err := app.ListTags(c, tr.db, middleware.MustGetUser(c).Id)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return tags, nil
}

func (tr *tagRoutes) create(c *gin.Context) (interface{}, *util.HTTPError) {
	var req app.CreateTagReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	tag, err := app.CreateTag(c, tr.db, middleware.MustGetUser(c), &req)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return tag, nil
}

func (tr *tagRoutes) update(c *gin.Context) (interface{}, *util.HTTPError) {
	tagId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	var req app.CreateTagReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	tag, err := app.UpdateTag(c, tr.db, middleware.MustGetUser(c), tagId, &req)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return tag, nil
}

func (tr *tagRoutes) delete(c *gin.Context) (interface{}, *util.HTTPError) {
	tagId, err := util.ParseId(c.Param("id"))
	if err != nil {
		return nil, &util.MalformedIdHTTPErr
	}
	if err := app.DeleteTag(c, tr.db, middleware.MustGetUser(c), tagId); err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return nil, nil
}
