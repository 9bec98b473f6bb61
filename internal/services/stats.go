package services

import (
	"context"
	"time"

	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
)

const overviewDays = 7

// StatsService computes admin dashboard figures.
type StatsService struct {
	posts    repositories.PostRepository
	likes    repositories.LikeRepository
	comments repositories.CommentRepository
	now      func() time.Time
}

func NewStatsService(posts repositories.PostRepository, likes repositories.LikeRepository, comments repositories.CommentRepository) *StatsService {
	return &StatsService{posts: posts, likes: likes, comments: comments, now: time.Now}
}

// FeedOverview totals the feed and counts posts per UTC day for the last week.
func (s *StatsService) FeedOverview(ctx context.Context) (*models.FeedOverview, error) {
	var o models.FeedOverview
	var err error
	if o.TotalPosts, err = s.posts.CountPosts(ctx); err != nil {
		return nil, err
	}
	if o.TotalViews, err = s.posts.SumViews(ctx); err != nil {
		return nil, err
	}
	if o.TotalLikes, err = s.likes.CountAll(ctx); err != nil {
		return nil, err
	}
	if o.TotalComments, err = s.comments.CountPostComments(ctx); err != nil {
		return nil, err
	}

	created, err := s.posts.GetCreatedSince(ctx, s.now().AddDate(0, 0, -overviewDays))
	if err != nil {
		return nil, err
	}
	o.PostsPerDay = postsPerDay(created)
	return &o, nil
}

// postsPerDay buckets ascending timestamps by UTC date.
func postsPerDay(created []time.Time) []models.DayCount {
	days := []models.DayCount{}
	for _, t := range created {
		date := t.UTC().Format("2006-01-02")
		if n := len(days); n > 0 && days[n-1].Date == date {
			days[n-1].Count++
			continue
		}
		days = append(days, models.DayCount{Date: date, Count: 1})
	}
	return days
}
