package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
)

func TestArticleVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.createUser(t, "root", "admin")
	reader := env.createUser(t, "reader", "user")

	draft, err := env.articles.Create(ctx, admin, models.ArticleRequest{Title: "Work in progress"})
	if err != nil {
		t.Fatal(err)
	}
	if draft.Status != models.ArticleDraft || draft.Slug != "work-in-progress" {
		t.Fatalf("draft = %s %s", draft.Status, draft.Slug)
	}
	published, err := env.articles.Create(ctx, admin, models.ArticleRequest{Title: "Work in progress", Status: models.ArticlePublished, Category: "news"})
	if err != nil {
		t.Fatal(err)
	}
	if published.Slug != "work-in-progress-1" {
		t.Fatalf("slug = %s", published.Slug)
	}

	if _, err := env.articles.GetBySlug(ctx, draft.Slug, reader); !errors.Is(err, ErrNotFound) {
		t.Fatalf("reader sees draft: err = %v", err)
	}
	got, err := env.articles.GetBySlug(ctx, draft.Slug, admin)
	if err != nil || got.Views != 1 {
		t.Fatalf("admin draft fetch = %+v, %v", got, err)
	}

	public, _ := env.articles.List(ctx, repositories.ArticleFilter{})
	if len(public) != 1 || public[0].ID != published.ID || public[0].AuthorName != "root" {
		t.Fatalf("public list = %+v", public)
	}
	all, _ := env.articles.ListAll(ctx)
	if len(all) != 2 {
		t.Fatalf("admin list = %d", len(all))
	}

	if _, err := env.articles.Update(ctx, draft.ID, models.ArticleRequest{Title: "Done", Status: models.ArticlePublished}); err != nil {
		t.Fatal(err)
	}
	overview, err := env.articles.Overview(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if overview.TotalArticles != 2 || overview.Published != 2 || overview.TotalViews != 1 {
		t.Fatalf("overview = %+v", overview)
	}

	if _, err := env.articles.Create(ctx, admin, models.ArticleRequest{Title: "  "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank title: err = %v", err)
	}
	if err := env.articles.Delete(ctx, draft.ID); err != nil {
		t.Fatal(err)
	}
	if err := env.articles.Delete(ctx, draft.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: err = %v", err)
	}
}
