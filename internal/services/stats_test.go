package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/anonto42/gammy/backend/internal/models"
)

func TestPostsPerDay(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2024, 3, d, h, 0, 0, 0, time.UTC) }
	got := postsPerDay([]time.Time{day(1, 1), day(1, 23), day(3, 0), day(4, 5), day(4, 6)})
	want := []models.DayCount{{Date: "2024-03-01", Count: 2}, {Date: "2024-03-03", Count: 1}, {Date: "2024-03-04", Count: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("postsPerDay = %v, want %v", got, want)
	}
	if empty := postsPerDay(nil); empty == nil || len(empty) != 0 {
		t.Fatal("no posts must give an empty list")
	}
}

func TestFeedOverviewTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")
	bob := env.createUser(t, "bob", "user")

	p1 := env.createPost(t, alice, "one")
	env.createPost(t, alice, "two")
	env.likes.Toggle(ctx, p1.ID, bob)
	env.comments.CreatePostComment(ctx, bob, p1.ID, models.CreateCommentRequest{Content: "c"})
	env.feed.GetBySlug(ctx, p1.Slug, Actor{})
	env.feed.GetBySlug(ctx, p1.Slug, Actor{})

	o, err := env.stats.FeedOverview(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if o.TotalPosts != 2 || o.TotalViews != 2 || o.TotalLikes != 1 || o.TotalComments != 1 {
		t.Fatalf("overview = %+v", o)
	}
	var perDay int64
	for _, d := range o.PostsPerDay {
		perDay += d.Count
	}
	if perDay != 2 {
		t.Fatalf("postsPerDay sums to %d, want 2", perDay)
	}
}
