package services

import (
	"context"
	"strings"

	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
)

const maxArticleSlugLen = 200

// ArticleService manages blog articles. Drafts are visible to admins only.
type ArticleService struct {
	articles repositories.ArticleRepository
	comments repositories.CommentRepository
	users    repositories.UserRepository
}

func NewArticleService(articles repositories.ArticleRepository, comments repositories.CommentRepository, users repositories.UserRepository) *ArticleService {
	return &ArticleService{articles: articles, comments: comments, users: users}
}

// List returns articles matching filter. An empty status means published.
func (s *ArticleService) List(ctx context.Context, filter repositories.ArticleFilter) ([]models.ArticleView, error) {
	if filter.Status == "" {
		filter.Status = models.ArticlePublished
	}
	return s.list(ctx, filter)
}

// ListAll returns every article regardless of status.
func (s *ArticleService) ListAll(ctx context.Context) ([]models.ArticleView, error) {
	return s.list(ctx, repositories.ArticleFilter{})
}

func (s *ArticleService) list(ctx context.Context, filter repositories.ArticleFilter) ([]models.ArticleView, error) {
	articles, err := s.articles.ListArticles(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, articles)
}

// GetBySlug returns a visible article and counts the view.
func (s *ArticleService) GetBySlug(ctx context.Context, slug string, viewer Actor) (*models.ArticleView, error) {
	article, err := s.articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err)
	}
	if article.Status != models.ArticlePublished && !viewer.IsAdmin() {
		return nil, ErrNotFound
	}
	if err := s.articles.IncrementViews(ctx, article.ID); err != nil {
		return nil, err
	}
	article.Views++
	return s.decorateOne(ctx, article)
}

func (s *ArticleService) GetByID(ctx context.Context, id uint, viewer Actor) (*models.ArticleView, error) {
	article, err := s.articles.GetArticleByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if article.Status != models.ArticlePublished && !viewer.IsAdmin() {
		return nil, ErrNotFound
	}
	return s.decorateOne(ctx, article)
}

func (s *ArticleService) Create(ctx context.Context, actor Actor, req models.ArticleRequest) (*models.ArticleView, error) {
	article := &models.Article{AuthorID: actor.UserID}
	if err := s.apply(ctx, article, req); err != nil {
		return nil, err
	}
	if err := s.articles.CreateArticle(ctx, article); err != nil {
		return nil, err
	}
	return s.decorateOne(ctx, article)
}

func (s *ArticleService) Update(ctx context.Context, id uint, req models.ArticleRequest) (*models.ArticleView, error) {
	article, err := s.articles.GetArticleByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.apply(ctx, article, req); err != nil {
		return nil, err
	}
	if err := s.articles.UpdateArticle(ctx, article); err != nil {
		return nil, err
	}
	return s.decorateOne(ctx, article)
}

func (s *ArticleService) Delete(ctx context.Context, id uint) error {
	return notFound(s.articles.DeleteArticle(ctx, id))
}

// apply copies req onto article and resolves a free slug.
func (s *ArticleService) apply(ctx context.Context, article *models.Article, req models.ArticleRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return validationError("Title is required")
	}
	base := Slugify(req.Slug)
	if base == "" {
		base = Slugify(title)
	}
	if len(base) > maxArticleSlugLen {
		base = strings.TrimRight(base[:maxArticleSlugLen], "-")
	}
	if base == "" {
		base = "article"
	}
	slug, err := UniqueSlug(ctx, base, func(ctx context.Context, slug string) (bool, error) {
		return s.articles.SlugExists(ctx, slug, article.ID)
	})
	if err != nil {
		return err
	}

	article.Title = title
	article.Slug = slug
	article.Excerpt = req.Excerpt
	article.Content = req.Content
	article.Image = req.Image
	article.Category = req.Category
	article.Status = req.Status
	if article.Status == "" {
		article.Status = models.ArticleDraft
	}
	article.SeoTitle = req.SeoTitle
	article.SeoDescription = req.SeoDescription
	article.SeoKeywords = req.SeoKeywords
	return nil
}

func (s *ArticleService) Overview(ctx context.Context) (models.ArticleOverview, error) {
	return s.articles.Overview(ctx)
}

func (s *ArticleService) decorateOne(ctx context.Context, article *models.Article) (*models.ArticleView, error) {
	views, err := s.decorate(ctx, []models.Article{*article})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *ArticleService) decorate(ctx context.Context, articles []models.Article) ([]models.ArticleView, error) {
	views := make([]models.ArticleView, len(articles))
	if len(articles) == 0 {
		return views, nil
	}
	ids := make([]uint, len(articles))
	var authorIDs []uint
	for i, a := range articles {
		ids[i] = a.ID
		if a.AuthorID != nil {
			authorIDs = append(authorIDs, *a.AuthorID)
		}
	}
	counts, err := s.comments.CountByArticleIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	authors, err := s.users.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	for i, a := range articles {
		views[i] = models.ArticleView{Article: a, CommentsCount: counts[a.ID]}
		if a.AuthorID != nil {
			views[i].AuthorName = authors[*a.AuthorID].Name
		}
	}
	return views, nil
}
