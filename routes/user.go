package routes

import (
	"github.com/tightknit-app/tightknit-be/app"
	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/middleware"
	"github.com/tightknit-app/tightknit-be/util"

	"github.com/gin-gonic/gin"
)

type userRoutes struct {
	db         appDb.Database
	avatarSize int
}

func AddUserRoutes(group *gin.RouterGroup, database appDb.Database, verifier middleware.TokenVerifier, avatarSize int) {
	routes := userRoutes{db: database, avatarSize: avatarSize}
	users := group.Group("/users")
	users.PUT("", middleware.Auth(database, verifier, &middleware.AuthConfig{ProfileNotRequired: true}),
		util.HandlerWrapper(routes.createProfile, &util.HandlerOpts{}))
	users.GET("/me", middleware.Auth(database, verifier, &middleware.AuthConfig{}),
		util.HandlerWrapper(routes.me, &util.HandlerOpts{}))
}

type createProfileReq struct {
	Handle string `json:"handle"`
}

func (ur *userRoutes) createProfile(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createProfileReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	user, err := app.CreateProfile(c, ur.db, middleware.GetToken(c).UID, req.Handle, ur.avatarSize)
	if err != nil {
		return nil, util.HTTPErrorFromErr(err)
	}
	return user, nil
}

func (ur *userRoutes) me(c *gin.Context) (interface{}, *util.HTTPError) {
	return middleware.MustGetUser(c), nil
}
