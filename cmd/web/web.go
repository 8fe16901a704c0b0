package main

import (
	"context"
	"log"
	"time"

	"github.com/tightknit-app/tightknit-be/app"
	"github.com/tightknit-app/tightknit-be/config"
	"github.com/tightknit-app/tightknit-be/db/sqldb"
	"github.com/tightknit-app/tightknit-be/routes"
	"github.com/tightknit-app/tightknit-be/services"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuration error: ", err)
	}

	database, err := sqldb.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBName)
	if err != nil {
		log.Fatal("Received err when attempting to connect to DB", err)
	}
	defer database.Close()

	firebaseApp, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatalf("error initializing firebase: %v\n", err)
	}
	authClient, err := firebaseApp.Auth(context.Background())
	if err != nil {
		log.Fatal("error initializing auth client", err)
	}

	var photos app.PhotoChecker
	if cfg.PhotoBucket != "" {
		photoStore, err := services.NewPhotoStore(context.Background(), firebaseApp, cfg.PhotoBucket)
		if err != nil {
			log.Fatal("An error occurred while connecting to the photo uploads bucket", err)
		}
		photos = photoStore
	} else {
		log.Println("no $PHOTO_BUCKET configured, accepting photo references unverified")
	}

	bus := app.NewBus()
	notifications := app.NewNotifications(database, bus)
	bell := app.NewBellController(notifications, bus)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	allowOrigins := cfg.FEOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	routes.AddHealthCheckRoutes(&r.RouterGroup)
	routes.AddUserRoutes(&r.RouterGroup, database, authClient, cfg.AvatarSize)
	routes.AddConnectionRoutes(&r.RouterGroup, database, authClient, cfg.ConnectionCap)
	routes.AddTagRoutes(&r.RouterGroup, database, authClient)
	routes.AddPostRoutes(&r.RouterGroup, database, authClient, photos, notifications)
	routes.AddReactionRoutes(&r.RouterGroup, database, authClient)
	routes.AddFeedRoutes(&r.RouterGroup, database, authClient)
	routes.AddDigestRoutes(&r.RouterGroup, database, authClient)
	routes.AddNotificationRoutes(&r.RouterGroup, database, authClient, notifications, bell)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Error when attempting to run web server", err)
	}
}
