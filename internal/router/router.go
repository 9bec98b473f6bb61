package router

import (
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/gammy/backend/internal/cache"
	"github.com/anonto42/gammy/backend/internal/events"
	"github.com/anonto42/gammy/backend/internal/handlers"
	"github.com/anonto42/gammy/backend/internal/middleware"
	"github.com/anonto42/gammy/backend/internal/repositories"
	"github.com/anonto42/gammy/backend/internal/services"
	"github.com/anonto42/gammy/backend/internal/validators"
	"github.com/anonto42/gammy/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options carries the dependencies the routes are built from.
type Options struct {
	DB           *gorm.DB
	Cache        cache.Cache
	Events       events.Publisher
	FirebaseAuth *auth.Client
	JWTSecret    string
	JWTTokenTTL  time.Duration
	AnonLikeKey  string
	RankingsTTL  time.Duration
	Logger       *zap.Logger
}

// App exposes the services that run outside request handling.
type App struct {
	Users    repositories.UserRepository
	Rankings *services.RankingService
}

// SetupMiddleware configures global Echo middleware and the request validator.
func SetupMiddleware(e *echo.Echo, cfg *config.Config, logger *zap.Logger) {
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, cfg, logger)
	logger.Info("global middleware configured")
}

// SetupRoutes migrates the schema, wires repositories and services, and
// registers every route under /api.
func SetupRoutes(e *echo.Echo, opts Options) (*App, error) {
	logger := opts.Logger
	if err := repositories.Migrate(opts.DB); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("auto-migrations completed")

	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(opts.DB)
	postRepo := repositories.NewPostgresPostRepository(opts.DB)
	likeRepo := repositories.NewPostgresLikeRepository(opts.DB)
	commentRepo := repositories.NewPostgresCommentRepository(opts.DB)
	articleRepo := repositories.NewPostgresArticleRepository(opts.DB)
	categoryRepo := repositories.NewPostgresCategoryRepository(opts.DB)
	notificationRepo := repositories.NewPostgresNotificationRepository(opts.DB)
	settingRepo := repositories.NewPostgresSettingRepository(opts.DB)

	// --- Services ---
	settings := services.NewSettingsService(settingRepo)
	notifier := services.NewNotifier(notificationRepo, logger)
	rankings := services.NewRankingService(postRepo, opts.Cache, opts.RankingsTTL, logger)
	feed := services.NewFeedService(services.FeedDeps{
		Posts:    postRepo,
		Likes:    likeRepo,
		Comments: commentRepo,
		Users:    userRepo,
		Settings: settings,
		Rankings: rankings,
		Events:   opts.Events,
		Logger:   logger,
	})
	likes := services.NewLikeLedger(likeRepo, postRepo, notifier, opts.Events, logger)
	comments := services.NewCommentService(commentRepo, postRepo, articleRepo, notifier, opts.Events, logger)
	articles := services.NewArticleService(articleRepo, commentRepo, userRepo)
	stats := services.NewStatsService(postRepo, likeRepo, commentRepo)

	// --- Middleware ---
	requireAuth := middleware.JWTAuthMiddleware(opts.JWTSecret)
	requireAdmin := middleware.RequireAdmin()

	api := e.Group("/api")
	api.Use(middleware.OptionalJWTAuth(opts.JWTSecret))

	authHandler := handlers.NewAuthHandler(userRepo, opts.FirebaseAuth, opts.JWTSecret, opts.JWTTokenTTL, rankings, logger)
	authHandler.RegisterAuthRoutes(api.Group("/auth"), requireAuth)

	userHandler := handlers.NewUserHandler(userRepo, rankings)
	userHandler.RegisterUserRoutes(api.Group("/users"), requireAuth, requireAdmin)

	postHandler := handlers.NewPostHandler(feed, likes, rankings, stats)
	postHandler.RegisterPostRoutes(api.Group("/posts", middleware.AnonymousKey(middleware.AnonKeyFuncFor(opts.AnonLikeKey))), requireAuth, requireAdmin)

	commentHandler := handlers.NewCommentHandler(comments)
	commentHandler.RegisterCommentRoutes(api.Group("/comments"), requireAuth, requireAdmin)

	notificationHandler := handlers.NewNotificationHandler(notifier)
	notificationHandler.RegisterNotificationRoutes(api.Group("/notifications", requireAuth))

	articleHandler := handlers.NewArticleHandler(articles)
	articleHandler.RegisterArticleRoutes(api.Group("/articles"), requireAuth, requireAdmin)

	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	categoryHandler.RegisterCategoryRoutes(api.Group("/categories"), requireAuth, requireAdmin)

	settingsHandler := handlers.NewSettingsHandler(settings)
	settingsHandler.RegisterSettingsRoutes(api.Group("/settings"), requireAuth, requireAdmin)

	logger.Info("all routes configured")
	return &App{Users: userRepo, Rankings: rankings}, nil
}
