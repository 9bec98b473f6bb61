package repositories

import (
	"context"

	"github.com/anonto42/gammy/backend/internal/models"
	"gorm.io/gorm"
)

// ArticleFilter narrows an article listing. Empty Status means any status.
type ArticleFilter struct {
	Category string
	Status   string
	Limit    int
	Offset   int
}

// ArticleRepository defines the interface for blog article storage
type ArticleRepository interface {
	CreateArticle(ctx context.Context, article *models.Article) error
	GetArticleByID(ctx context.Context, id uint) (*models.Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error)
	SlugExists(ctx context.Context, slug string, exceptID uint) (bool, error)
	ListArticles(ctx context.Context, filter ArticleFilter) ([]models.Article, error)
	UpdateArticle(ctx context.Context, article *models.Article) error
	DeleteArticle(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	Overview(ctx context.Context) (models.ArticleOverview, error)
}

// PostgresArticleRepository implements ArticleRepository
type PostgresArticleRepository struct {
	db *gorm.DB
}

// NewPostgresArticleRepository creates a new PostgresArticleRepository
func NewPostgresArticleRepository(db *gorm.DB) *PostgresArticleRepository {
	return &PostgresArticleRepository{db: db}
}

func (r *PostgresArticleRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *PostgresArticleRepository) GetArticleByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).First(&article, id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *PostgresArticleRepository) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *PostgresArticleRepository) SlugExists(ctx context.Context, slug string, exceptID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Article{}).Where("slug = ?", slug)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *PostgresArticleRepository) ListArticles(ctx context.Context, filter ArticleFilter) ([]models.Article, error) {
	q := r.db.WithContext(ctx).Model(&models.Article{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	var articles []models.Article
	err := q.Order("created_at DESC").Order("id DESC").Find(&articles).Error
	return articles, err
}

func (r *PostgresArticleRepository) UpdateArticle(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Save(article).Error
}

// DeleteArticle removes an article and its comments.
func (r *PostgresArticleRepository) DeleteArticle(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.ArticleComment{}).Error; err != nil {
			return err
		}
		return deleteByID(ctx, tx, &models.Article{}, id)
	})
}

func (r *PostgresArticleRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *PostgresArticleRepository) Overview(ctx context.Context) (models.ArticleOverview, error) {
	var o models.ArticleOverview
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Article{}).Count(&o.TotalArticles).Error; err != nil {
		return o, err
	}
	if err := db.Model(&models.Article{}).Select("COALESCE(SUM(views), 0)").Scan(&o.TotalViews).Error; err != nil {
		return o, err
	}
	if err := db.Model(&models.ArticleComment{}).Count(&o.TotalComments).Error; err != nil {
		return o, err
	}
	err := db.Model(&models.Article{}).Where("status = ?", models.ArticlePublished).Count(&o.Published).Error
	return o, err
}
