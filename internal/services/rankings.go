package services

import (
	"context"
	"sort"
	"time"

	"github.com/anonto42/gammy/backend/internal/cache"
	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
	"go.uber.org/zap"
)

const (
	TopTagsLimit    = 15
	TopAuthorsLimit = 5

	topTagsKey    = "rankings:tags"
	topAuthorsKey = "rankings:authors"
)

// RankingService derives the top tags and top authors of the feed and keeps
// them in a cache until posts change or the TTL runs out.
type RankingService struct {
	posts  repositories.PostRepository
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewRankingService(posts repositories.PostRepository, c cache.Cache, ttl time.Duration, logger *zap.Logger) *RankingService {
	return &RankingService{posts: posts, cache: c, ttl: ttl, logger: logger}
}

// CountTags tallies every tag occurrence across posts and returns the
// highest counts first, ties ordered by tag.
func CountTags(postTags [][]string, limit int) []models.TagCount {
	counts := make(map[string]int)
	for _, tags := range postTags {
		for _, tag := range tags {
			counts[tag]++
		}
	}
	ranked := make([]models.TagCount, 0, len(counts))
	for tag, n := range counts {
		ranked = append(ranked, models.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Tag < ranked[j].Tag
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func (s *RankingService) TopTags(ctx context.Context) ([]models.TagCount, error) {
	var cached []models.TagCount
	if s.lookup(ctx, topTagsKey, &cached) {
		return cached, nil
	}
	return s.computeTags(ctx)
}

func (s *RankingService) TopAuthors(ctx context.Context) ([]models.AuthorRank, error) {
	var cached []models.AuthorRank
	if s.lookup(ctx, topAuthorsKey, &cached) {
		return cached, nil
	}
	return s.computeAuthors(ctx)
}

// Refresh recomputes both rankings and stores them.
func (s *RankingService) Refresh(ctx context.Context) error {
	if _, err := s.computeTags(ctx); err != nil {
		return err
	}
	_, err := s.computeAuthors(ctx)
	return err
}

// Invalidate drops cached rankings after a post or its author changes.
func (s *RankingService) Invalidate(ctx context.Context) {
	if s == nil || s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, topTagsKey, topAuthorsKey); err != nil {
		s.logger.Warn("failed to invalidate rankings", zap.Error(err))
	}
}

func (s *RankingService) computeTags(ctx context.Context) ([]models.TagCount, error) {
	all, err := s.posts.GetAllTags(ctx)
	if err != nil {
		return nil, err
	}
	ranked := CountTags(all, TopTagsLimit)
	s.store(ctx, topTagsKey, ranked)
	return ranked, nil
}

func (s *RankingService) computeAuthors(ctx context.Context) ([]models.AuthorRank, error) {
	authors, err := s.posts.GetTopAuthors(ctx, TopAuthorsLimit)
	if err != nil {
		return nil, err
	}
	if authors == nil {
		authors = []models.AuthorRank{}
	}
	s.store(ctx, topAuthorsKey, authors)
	return authors, nil
}

func (s *RankingService) lookup(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("rankings cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

func (s *RankingService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("rankings cache write failed", zap.String("key", key), zap.Error(err))
	}
}
