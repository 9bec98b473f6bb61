package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/gammy/backend/internal/cache"
	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
	"github.com/anonto42/gammy/backend/pkg/config"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// testEnv wires every service over a private in-memory database.
type testEnv struct {
	db            *gorm.DB
	users         repositories.UserRepository
	posts         repositories.PostRepository
	notifications repositories.NotificationRepository
	articleRepo   repositories.ArticleRepository

	settings *SettingsService
	notifier *Notifier
	rankings *RankingService
	feed     *FeedService
	likes    *LikeLedger
	comments *CommentService
	articles *ArticleService
	stats    *StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := config.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repositories.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	logger := zaptest.NewLogger(t)
	lru, err := cache.NewLRU(16)
	if err != nil {
		t.Fatalf("lru: %v", err)
	}

	env := &testEnv{
		db:            db,
		users:         repositories.NewPostgresUserRepository(db),
		posts:         repositories.NewPostgresPostRepository(db),
		notifications: repositories.NewPostgresNotificationRepository(db),
		articleRepo:   repositories.NewPostgresArticleRepository(db),
	}
	likeRepo := repositories.NewPostgresLikeRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)

	env.settings = NewSettingsService(repositories.NewPostgresSettingRepository(db))
	env.notifier = NewNotifier(env.notifications, logger)
	env.rankings = NewRankingService(env.posts, lru, time.Hour, logger)
	env.feed = NewFeedService(FeedDeps{
		Posts:    env.posts,
		Likes:    likeRepo,
		Comments: commentRepo,
		Users:    env.users,
		Settings: env.settings,
		Rankings: env.rankings,
		Logger:   logger,
	})
	env.likes = NewLikeLedger(likeRepo, env.posts, env.notifier, nil, logger)
	env.comments = NewCommentService(commentRepo, env.posts, env.articleRepo, env.notifier, nil, logger)
	env.articles = NewArticleService(env.articleRepo, commentRepo, env.users)
	env.stats = NewStatsService(env.posts, likeRepo, commentRepo)
	return env
}

func (e *testEnv) createUser(t *testing.T, name, role string) Actor {
	t.Helper()
	u := &models.User{
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "x",
		Name:     name,
		Role:     role,
	}
	if err := e.users.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return UserActor(u.ID, u.Name, u.Email, u.Role)
}

func (e *testEnv) createPost(t *testing.T, actor Actor, content string, tags ...string) *models.PostView {
	t.Helper()
	post, err := e.feed.Create(context.Background(), actor, models.CreatePostRequest{Content: content, Tags: tags})
	if err != nil {
		t.Fatalf("create post %q: %v", content, err)
	}
	return post
}

func (e *testEnv) notificationsFor(t *testing.T, a Actor) []models.NotificationView {
	t.Helper()
	list, err := e.notifier.List(context.Background(), *a.UserID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	return list
}
