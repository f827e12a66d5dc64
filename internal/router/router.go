package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/anxyhq/anxy-backend/internal/handlers"
	"github.com/anxyhq/anxy-backend/internal/middleware"
	"github.com/anxyhq/anxy-backend/internal/models"
	"github.com/anxyhq/anxy-backend/internal/notify"
	"github.com/anxyhq/anxy-backend/internal/repositories"
	"github.com/anxyhq/anxy-backend/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, rdb *redis.Client, firebaseAuthClient *auth.Client, jwtSecret string, logger *zap.Logger) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.Profile{},
		&models.Follow{},
		&models.PostLike{},
		&models.Comment{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	profileRepo := repositories.NewPostgresProfileRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	likeRepo := repositories.NewPostgresPostLikeRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database("anxy"))

	// --- Notification bus ---
	broker := notify.NewBroker(rdb, logger)

	// --- Initialize Services ---
	profileService := services.NewProfileService(profileRepo, logger)
	followService := services.NewFollowService(followRepo, profileRepo, logger)
	postService := services.NewPostService(postRepo, logger)
	notificationService := services.NewNotificationService(notificationRepo, broker, logger)
	engagementService := services.NewEngagementService(likeRepo, commentRepo, postRepo, profileRepo, notificationService, logger)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(profileService, profileRepo, firebaseAuthClient, jwtSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// Live feed socket. Authenticates via a token query parameter because
	// browser WebSocket clients cannot set an Authorization header.
	feedGroup := e.Group("/api/v1")
	feedHandler := handlers.NewFeedHandler(notificationService, broker, jwtSecret, logger)
	feedHandler.RegisterFeedRoutes(feedGroup)
	log.Println("Live feed routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(jwtSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// Profile routes
	profileHandler := handlers.NewProfileHandler(profileService, followService)
	profileHandler.RegisterProfileRoutes(api)
	log.Println("Profile routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postService, profileService)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(followService)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(engagementService)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(engagementService, profileService)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// --- Firebase-verified maintenance routes ---
	adminHandler := handlers.NewAdminHandler(profileService, profileRepo, firebaseAuthClient, logger)
	fixGroup := e.Group("/api")
	fixGroup.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
	adminHandler.RegisterAdminRoutes(fixGroup)
	adminHandler.RegisterOrphanRoutes(fixGroup)
	log.Println("Maintenance routes configured.")

	log.Println("All routes configured.")
}
