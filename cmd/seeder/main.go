package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/anonto42/gammy/backend/internal/repositories"
	"github.com/anonto42/gammy/backend/pkg/config"
	"github.com/anonto42/gammy/backend/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	var opts seedOptions
	flag.IntVar(&opts.Users, "users", 10, "number of users to create")
	flag.IntVar(&opts.Posts, "posts", 50, "number of posts to create")
	flag.IntVar(&opts.MaxLikes, "likes", 8, "maximum likes per post")
	flag.IntVar(&opts.MaxComments, "comments", 4, "maximum comments per post")
	flag.Int64Var(&opts.Seed, "seed", 0, "random seed; 0 picks one")
	flag.Parse()

	if opts.Users <= 0 || opts.Posts < 0 {
		fmt.Println("users must be positive and posts non-negative")
		os.Exit(1)
	}

	cfg := config.Load()
	zl, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zl.Sync() //nolint:errcheck

	db, err := config.InitDB(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize stores", zap.Error(err))
	}
	defer db.CloseDB()

	if err := repositories.Migrate(db.SQL); err != nil {
		zl.Fatal("auto migrate failed", zap.Error(err))
	}

	summary, err := seed(context.Background(), db.SQL, opts, zl)
	if err != nil {
		zl.Fatal("seeding failed", zap.Error(err))
	}
	zl.Info("seeding finished",
		zap.Int("users", summary.Users),
		zap.Int("posts", summary.Posts),
		zap.Int("likes", summary.Likes),
		zap.Int("comments", summary.Comments),
	)
}
