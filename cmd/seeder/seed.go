package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
	"github.com/anonto42/gammy/backend/internal/services"
	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "password123"

type seedOptions struct {
	Users       int
	Posts       int
	MaxLikes    int
	MaxComments int
	Seed        int64
}

type seedSummary struct {
	Users    int
	Posts    int
	Likes    int
	Comments int
}

var seedTags = []string{"go", "news", "travel", "music", "photo", "food", "tech", "sport", "books", "art"}

// seed fills the store with fake users and posts, then likes and comments
// on them through the services so slugs and notifications are produced the
// same way the API produces them.
func seed(ctx context.Context, db *gorm.DB, opts seedOptions, logger *zap.Logger) (seedSummary, error) {
	var summary seedSummary
	faker := gofakeit.New(opts.Seed)

	users := repositories.NewPostgresUserRepository(db)
	posts := repositories.NewPostgresPostRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	articles := repositories.NewPostgresArticleRepository(db)

	notifier := services.NewNotifier(repositories.NewPostgresNotificationRepository(db), logger)
	settings := services.NewSettingsService(repositories.NewPostgresSettingRepository(db))
	feed := services.NewFeedService(services.FeedDeps{
		Posts:    posts,
		Likes:    likeRepo,
		Comments: commentRepo,
		Users:    users,
		Settings: settings,
		Logger:   logger,
	})
	likes := services.NewLikeLedger(likeRepo, posts, notifier, nil, logger)
	comments := services.NewCommentService(commentRepo, posts, articles, notifier, nil, logger)

	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return summary, err
	}

	actors := make([]services.Actor, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user := &models.User{
			Email:    fmt.Sprintf("%d.%s", i, strings.ToLower(faker.Email())),
			Password: string(hashed),
			Name:     faker.Name(),
			Avatar:   faker.ImageURL(100, 100),
			Bio:      faker.Sentence(12),
			Role:     models.RoleUser,
		}
		if err := users.CreateUser(ctx, user); err != nil {
			return summary, fmt.Errorf("create user: %w", err)
		}
		actors = append(actors, services.UserActor(user.ID, user.Name, user.Email, user.Role))
		summary.Users++
	}

	for i := 0; i < opts.Posts; i++ {
		author := actors[faker.Number(0, len(actors)-1)]
		tags := make([]string, faker.Number(0, 3))
		for j := range tags {
			tags[j] = seedTags[faker.Number(0, len(seedTags)-1)]
		}
		post, err := feed.Create(ctx, author, models.CreatePostRequest{
			Content: faker.Paragraph(1, 3, 12, "\n\n"),
			Tags:    tags,
		})
		if err != nil {
			return summary, fmt.Errorf("create post: %w", err)
		}
		summary.Posts++

		likers := indexes(len(actors))
		faker.ShuffleInts(likers)
		for _, idx := range likers[:faker.Number(0, min(opts.MaxLikes, len(actors)))] {
			if _, err := likes.Toggle(ctx, post.ID, actors[idx]); err != nil {
				return summary, fmt.Errorf("like post: %w", err)
			}
			summary.Likes++
		}

		for n := faker.Number(0, opts.MaxComments); n > 0; n-- {
			commenter := actors[faker.Number(0, len(actors)-1)]
			if _, err := comments.CreatePostComment(ctx, commenter, post.ID, models.CreateCommentRequest{
				Content: faker.Sentence(faker.Number(4, 16)),
			}); err != nil {
				return summary, fmt.Errorf("comment post: %w", err)
			}
			summary.Comments++
		}
	}
	return summary, nil
}

func indexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
