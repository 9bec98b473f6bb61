package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/gammy/backend/internal/models"
)

func TestListPaginationCoversEveryPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")

	const total = 23
	for i := 0; i < total; i++ {
		env.createPost(t, alice, fmt.Sprintf("post number %d", i))
	}

	seen := map[uint]bool{}
	page1, err := env.feed.List(ctx, ListParams{Page: 1, Limit: 10}, Actor{})
	if err != nil {
		t.Fatal(err)
	}
	if page1.Pagination.Total != total || page1.Pagination.Pages != 3 {
		t.Fatalf("pagination = %+v", page1.Pagination)
	}
	for p := 1; p <= page1.Pagination.Pages; p++ {
		page, err := env.feed.List(ctx, ListParams{Page: p, Limit: 10}, Actor{})
		if err != nil {
			t.Fatal(err)
		}
		for _, post := range page.Posts {
			if seen[post.ID] {
				t.Fatalf("post %d listed twice", post.ID)
			}
			seen[post.ID] = true
		}
	}
	if len(seen) != total {
		t.Fatalf("saw %d posts, want %d", len(seen), total)
	}

	beyond, _ := env.feed.List(ctx, ListParams{Page: 9, Limit: 10}, Actor{})
	if len(beyond.Posts) != 0 {
		t.Fatalf("page past the end returned %d posts", len(beyond.Posts))
	}
}

func TestListOrderNewestFirstTiesByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	offsets := []time.Duration{0, 0, 0, time.Hour, -time.Hour, -time.Hour, 0}
	ids := make([]uint, len(offsets))
	for i, off := range offsets {
		post := env.createPost(t, alice, fmt.Sprintf("ordered post %d", i))
		ids[i] = post.ID
		if err := env.db.Model(&models.Post{}).Where("id = ?", post.ID).Update("created_at", base.Add(off)).Error; err != nil {
			t.Fatalf("set created_at: %v", err)
		}
	}
	want := []uint{ids[3], ids[0], ids[1], ids[2], ids[6], ids[4], ids[5]}

	var got []models.PostView
	for p := 1; p <= 3; p++ {
		page, err := env.feed.List(ctx, ListParams{Page: p, Limit: 3}, Actor{})
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, page.Posts...)
	}
	if len(got) != len(want) {
		t.Fatalf("listed %d posts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("position %d: post %d, want %d", i, got[i].ID, want[i])
		}
		if i == 0 {
			continue
		}
		prev, cur := got[i-1], got[i]
		if cur.CreatedAt.After(prev.CreatedAt) {
			t.Fatalf("post %d (%v) listed after older post %d (%v)", cur.ID, cur.CreatedAt, prev.ID, prev.CreatedAt)
		}
		if cur.CreatedAt.Equal(prev.CreatedAt) && cur.ID < prev.ID {
			t.Fatalf("equal timestamps not ordered by id: %d before %d", prev.ID, cur.ID)
		}
	}
}

func TestListDefaultsAndBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page, err := env.feed.List(ctx, ListParams{Page: -3, Limit: 0}, Actor{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Pagination.Page != 1 || page.Pagination.Limit != DefaultPageSize || page.Pagination.Pages != 0 {
		t.Fatalf("defaults = %+v", page.Pagination)
	}
	if page.Posts == nil {
		t.Fatal("empty feed must be an empty list, not null")
	}

	page, _ = env.feed.List(ctx, ListParams{Limit: 1000}, Actor{})
	if page.Pagination.Limit != MaxPageSize {
		t.Fatalf("limit = %d, want %d", page.Pagination.Limit, MaxPageSize)
	}
}

func TestListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")

	env.createPost(t, alice, "Learning golang today", "go", "learning")
	env.createPost(t, alice, "Travel notes from Riga", "travel")
	env.createPost(t, alice, "More golang tricks", "go")

	byTag, _ := env.feed.List(ctx, ListParams{Tag: "travel"}, Actor{})
	if byTag.Pagination.Total != 1 || byTag.Posts[0].Content != "Travel notes from Riga" {
		t.Fatalf("tag filter = %+v", byTag.Pagination)
	}

	bySearch, _ := env.feed.List(ctx, ListParams{Search: "golang"}, Actor{})
	if bySearch.Pagination.Total != 2 {
		t.Fatalf("search total = %d, want 2", bySearch.Pagination.Total)
	}

	both, _ := env.feed.List(ctx, ListParams{Tag: "travel", Search: "golang"}, Actor{})
	if both.Pagination.Total != 1 || both.Posts[0].Tags[0] != "travel" {
		t.Fatal("tag must take precedence over search")
	}
}

func TestListDecoratesViewerState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")
	bob := env.createUser(t, "bob", "user")
	post := env.createPost(t, alice, "Decorate me")

	if _, err := env.likes.Toggle(ctx, post.ID, bob); err != nil {
		t.Fatal(err)
	}
	if _, err := env.comments.CreatePostComment(ctx, bob, post.ID, models.CreateCommentRequest{Content: "nice"}); err != nil {
		t.Fatal(err)
	}

	page, _ := env.feed.List(ctx, ListParams{}, bob)
	got := page.Posts[0]
	if got.LikesCount != 1 || got.CommentsCount != 1 {
		t.Fatalf("counts = %d likes, %d comments", got.LikesCount, got.CommentsCount)
	}
	if got.UserLiked == nil || !*got.UserLiked {
		t.Fatal("bob liked the post")
	}

	page, _ = env.feed.List(ctx, ListParams{}, Actor{})
	if page.Posts[0].UserLiked != nil {
		t.Fatal("an unidentified viewer gets no user_liked flag")
	}
}

func TestViewCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")
	post := env.createPost(t, alice, "Count my views")

	for i := 1; i <= 3; i++ {
		got, err := env.feed.GetBySlug(ctx, post.Slug, Actor{})
		if err != nil {
			t.Fatal(err)
		}
		if got.Views != int64(i) {
			t.Fatalf("views after %d fetches = %d", i, got.Views)
		}
	}
	byID, err := env.feed.GetByID(ctx, post.ID, Actor{})
	if err != nil {
		t.Fatal(err)
	}
	if byID.Views != 3 {
		t.Fatalf("fetch by id changed views: %d", byID.Views)
	}

	if _, err := env.feed.GetBySlug(ctx, "missing", Actor{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing slug: err = %v", err)
	}
}

func TestCreatePostRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")
	guest := Actor{AnonKey: "ip:203.0.113.5"}

	if _, err := env.feed.Create(ctx, alice, models.CreatePostRequest{Content: "   "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank content: err = %v", err)
	}
	if _, err := env.feed.Create(ctx, guest, models.CreatePostRequest{Content: "hi"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("anonymous without flag: err = %v", err)
	}

	if err := env.settings.Set(ctx, SettingFeedAllowAnonymous, StringValue("true")); err != nil {
		t.Fatal(err)
	}
	post, err := env.feed.Create(ctx, guest, models.CreatePostRequest{Content: "hi from a guest"})
	if err != nil {
		t.Fatalf("anonymous with flag: %v", err)
	}
	if post.AuthorID != nil || post.AuthorName != GuestName {
		t.Fatalf("guest post author = %v %q", post.AuthorID, post.AuthorName)
	}

	cleaned := env.createPost(t, alice, "<script>alert(1)</script>Safe text", " go ", "", "news")
	if cleaned.Content != "Safe text" {
		t.Errorf("content = %q", cleaned.Content)
	}
	if len(cleaned.Tags) != 2 || cleaned.Tags[0] != "go" || cleaned.Tags[1] != "news" {
		t.Errorf("tags = %v", cleaned.Tags)
	}
}

func TestUpdateDeleteOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")
	bob := env.createUser(t, "bob", "user")
	admin := env.createUser(t, "root", "admin")
	post := env.createPost(t, alice, "Original text")

	if _, err := env.feed.Update(ctx, bob, post.ID, models.UpdatePostRequest{Content: "hijack"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign update: err = %v", err)
	}
	if _, err := env.feed.Update(ctx, Actor{}, post.ID, models.UpdatePostRequest{Content: "x"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("anonymous update: err = %v", err)
	}
	updated, err := env.feed.Update(ctx, alice, post.ID, models.UpdatePostRequest{Content: "Edited text", Tags: []string{"edit"}})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Content != "Edited text" || updated.Slug != post.Slug {
		t.Fatalf("update = %q slug %q", updated.Content, updated.Slug)
	}

	if _, err := env.likes.Toggle(ctx, post.ID, bob); err != nil {
		t.Fatal(err)
	}
	if err := env.feed.Delete(ctx, bob, post.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign delete: err = %v", err)
	}
	if err := env.feed.Delete(ctx, admin, post.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := env.feed.GetByID(ctx, post.ID, Actor{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted post: err = %v", err)
	}
	var likes int64
	env.db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likes)
	if likes != 0 {
		t.Fatalf("%d likes survived the post", likes)
	}
	if err := env.feed.Delete(ctx, admin, post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: err = %v", err)
	}
}
