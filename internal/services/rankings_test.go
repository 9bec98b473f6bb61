package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/anonto42/gammy/backend/internal/models"
	"gorm.io/datatypes"
)

func TestCountTags(t *testing.T) {
	got := CountTags([][]string{{"a", "a", "b"}, {"a"}, {"c", "b"}, nil}, 0)
	want := []models.TagCount{{Tag: "a", Count: 3}, {Tag: "b", Count: 2}, {Tag: "c", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CountTags = %v, want %v", got, want)
	}

	tied := CountTags([][]string{{"zeta", "alpha", "mid"}}, 2)
	if len(tied) != 2 || tied[0].Tag != "alpha" || tied[1].Tag != "mid" {
		t.Fatalf("ties must be ordered by tag and cut to the limit: %v", tied)
	}

	if empty := CountTags(nil, TopTagsLimit); empty == nil || len(empty) != 0 {
		t.Fatalf("no tags must give an empty list, got %#v", empty)
	}
}

func TestTopTagsCacheInvalidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")

	env.createPost(t, alice, "first", "go", "db")
	env.createPost(t, alice, "second", "go")

	tags, err := env.rankings.TopTags(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 2 || tags[0] != (models.TagCount{Tag: "go", Count: 2}) {
		t.Fatalf("tags = %v", tags)
	}

	// Written behind the service's back: the cached ranking stays until invalidated.
	raw := &models.Post{Slug: "raw", Content: "raw", Tags: datatypes.JSONSlice[string]{"db", "db", "db"}}
	if err := env.posts.CreatePost(ctx, raw); err != nil {
		t.Fatal(err)
	}
	tags, _ = env.rankings.TopTags(ctx)
	if tags[0].Tag != "go" {
		t.Fatalf("expected cached ranking, got %v", tags)
	}

	env.rankings.Invalidate(ctx)
	tags, _ = env.rankings.TopTags(ctx)
	if tags[0] != (models.TagCount{Tag: "db", Count: 4}) {
		t.Fatalf("after invalidation tags = %v", tags)
	}

	// Creating through the feed invalidates on its own.
	env.createPost(t, alice, "third", "rust", "rust", "rust", "rust", "rust")
	tags, _ = env.rankings.TopTags(ctx)
	if tags[0].Tag != "rust" {
		t.Fatalf("feed create did not invalidate rankings: %v", tags)
	}
}

func TestTopAuthors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	carol := env.createUser(t, "carol", "user")
	bob := env.createUser(t, "bob", "user")
	alice := env.createUser(t, "alice", "user")

	env.createPost(t, bob, "b1")
	env.createPost(t, bob, "b2")
	env.createPost(t, alice, "a1")
	env.createPost(t, alice, "a2")
	env.createPost(t, carol, "c1")

	env.settings.Set(ctx, SettingFeedAllowAnonymous, StringValue("true"))
	for i := 0; i < 3; i++ {
		env.createPost(t, Actor{AnonKey: "ip:1.2.3.4"}, "guest post")
	}

	if err := env.rankings.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	authors, err := env.rankings.TopAuthors(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, a := range authors {
		names = append(names, a.Name)
	}
	if !reflect.DeepEqual(names, []string{"alice", "bob", "carol"}) {
		t.Fatalf("authors = %v", names)
	}
	if authors[0].PostsCount != 2 || authors[2].PostsCount != 1 {
		t.Fatalf("post counts = %+v", authors)
	}
}
