package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/gammy/backend/internal/cache"
	"github.com/anonto42/gammy/backend/internal/events"
	"github.com/anonto42/gammy/backend/internal/router"
	"github.com/anonto42/gammy/backend/internal/services"
	"github.com/anonto42/gammy/backend/internal/tasks"
	"github.com/anonto42/gammy/backend/pkg/config"
	"github.com/anonto42/gammy/backend/pkg/firebase"
	"github.com/anonto42/gammy/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize stores", zap.Error(err))
	}
	defer db.CloseDB()

	firebaseAuth, err := firebase.NewAuthClient(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		zl.Fatal("failed to initialize Firebase", zap.Error(err))
	}
	if firebaseAuth == nil {
		zl.Info("Firebase login disabled")
	}

	var rankingsCache cache.Cache
	if db.Redis != nil {
		rankingsCache = cache.NewRedis(db.Redis, "gammy:")
	} else if rankingsCache, err = cache.NewLRU(64); err != nil {
		zl.Fatal("failed to create cache", zap.Error(err))
	}

	publisher := buildPublisher(ctx, cfg, db, zl)
	defer publisher.Close()

	e := echo.New()
	e.HideBanner = true
	router.SetupMiddleware(e, cfg, zl)

	app, err := router.SetupRoutes(e, router.Options{
		DB:           db.SQL,
		Cache:        rankingsCache,
		Events:       publisher,
		FirebaseAuth: firebaseAuth,
		JWTSecret:    cfg.JWTSecret,
		JWTTokenTTL:  cfg.JWTTokenTTL,
		AnonLikeKey:  cfg.AnonLikeKey,
		RankingsTTL:  cfg.RankingsTTL,
		Logger:       zl,
	})
	if err != nil {
		zl.Fatal("failed to set up routes", zap.Error(err))
	}

	if err := services.EnsureAdmin(ctx, app.Users, cfg.AdminEmail, cfg.AdminPassword, zl); err != nil {
		zl.Fatal("failed to seed admin", zap.Error(err))
	}

	refresh, err := tasks.NewRankingsRefreshTask(app.Rankings, cfg.RankingsCron, zl)
	if err != nil {
		zl.Fatal("invalid RANKINGS_CRON", zap.Error(err), zap.String("schedule", cfg.RankingsCron))
	}
	refresh.Start()

	go func() {
		zl.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	<-refresh.Stop().Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown failed", zap.Error(err))
	}
}

// buildPublisher fans domain events out to Kafka and the Mongo activity log,
// whichever are configured.
func buildPublisher(ctx context.Context, cfg *config.Config, db *config.DB, zl *zap.Logger) events.Publisher {
	var pubs events.Multi
	if len(cfg.KafkaBrokers) > 0 {
		pubs = append(pubs, events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, zl))
		zl.Info("publishing events to Kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	if db.Mongo != nil {
		activity := events.NewMongoActivityLog(db.Mongo.Database(cfg.MongoDB))
		if err := activity.EnsureIndexes(ctx); err != nil {
			zl.Warn("failed to create activity indexes", zap.Error(err))
		}
		pubs = append(pubs, activity)
		zl.Info("recording activity in MongoDB", zap.String("db", cfg.MongoDB))
	}
	if len(pubs) == 0 {
		return events.Nop{}
	}
	return pubs
}
