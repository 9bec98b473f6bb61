package repositories

import (
	"context"

	"github.com/anonto42/gammy/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository stores comments on posts and on articles
type CommentRepository interface {
	CreatePostComment(ctx context.Context, comment *models.PostComment) error
	GetPostComment(ctx context.Context, id uint) (*models.PostComment, error)
	ListPostComments(ctx context.Context, postID uint) ([]models.CommentView, error)
	DeletePostComment(ctx context.Context, id uint) error
	CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error)
	CountPostComments(ctx context.Context) (int64, error)
	LatestPostComments(ctx context.Context, limit int) ([]models.AdminComment, error)

	CreateArticleComment(ctx context.Context, comment *models.ArticleComment) error
	GetArticleComment(ctx context.Context, id uint) (*models.ArticleComment, error)
	ListArticleComments(ctx context.Context, articleID uint) ([]models.CommentView, error)
	DeleteArticleComment(ctx context.Context, id uint) error
	CountByArticleIDs(ctx context.Context, articleIDs []uint) (map[uint]int64, error)
	CountArticleComments(ctx context.Context) (int64, error)
	LatestArticleComments(ctx context.Context, limit int) ([]models.AdminComment, error)
}

// PostgresCommentRepository implements CommentRepository
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) CreatePostComment(ctx context.Context, comment *models.PostComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *PostgresCommentRepository) GetPostComment(ctx context.Context, id uint) (*models.PostComment, error) {
	var comment models.PostComment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *PostgresCommentRepository) ListPostComments(ctx context.Context, postID uint) ([]models.CommentView, error) {
	var comments []models.CommentView
	err := r.db.WithContext(ctx).Table("post_comments AS c").
		Select("c.id, c.post_id AS parent_id, c.user_id, c.author_name, c.author_email, c.content, c.created_at, u.avatar AS user_avatar").
		Joins("LEFT JOIN users u ON u.id = c.user_id").
		Where("c.post_id = ?", postID).
		Order("c.created_at DESC").Order("c.id DESC").
		Scan(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) DeletePostComment(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &models.PostComment{}, id)
}

func (r *PostgresCommentRepository) CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	return r.countGrouped(ctx, &models.PostComment{}, "post_id", postIDs)
}

func (r *PostgresCommentRepository) CountPostComments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostComment{}).Count(&count).Error
	return count, err
}

func (r *PostgresCommentRepository) LatestPostComments(ctx context.Context, limit int) ([]models.AdminComment, error) {
	var comments []models.AdminComment
	err := r.db.WithContext(ctx).Table("post_comments AS c").
		Select("c.id, 'post' AS type, c.post_id AS parent_id, p.slug AS parent_slug, c.user_id, c.author_name, c.author_email, c.content, c.created_at").
		Joins("JOIN posts p ON p.id = c.post_id").
		Order("c.created_at DESC").
		Limit(limit).
		Scan(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) CreateArticleComment(ctx context.Context, comment *models.ArticleComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *PostgresCommentRepository) GetArticleComment(ctx context.Context, id uint) (*models.ArticleComment, error) {
	var comment models.ArticleComment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *PostgresCommentRepository) ListArticleComments(ctx context.Context, articleID uint) ([]models.CommentView, error) {
	var comments []models.CommentView
	err := r.db.WithContext(ctx).Table("article_comments AS c").
		Select("c.id, c.article_id AS parent_id, c.user_id, c.author_name, c.author_email, c.content, c.created_at, u.avatar AS user_avatar").
		Joins("LEFT JOIN users u ON u.id = c.user_id").
		Where("c.article_id = ?", articleID).
		Order("c.created_at DESC").Order("c.id DESC").
		Scan(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) DeleteArticleComment(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &models.ArticleComment{}, id)
}

func (r *PostgresCommentRepository) CountByArticleIDs(ctx context.Context, articleIDs []uint) (map[uint]int64, error) {
	return r.countGrouped(ctx, &models.ArticleComment{}, "article_id", articleIDs)
}

func (r *PostgresCommentRepository) CountArticleComments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ArticleComment{}).Count(&count).Error
	return count, err
}

func (r *PostgresCommentRepository) LatestArticleComments(ctx context.Context, limit int) ([]models.AdminComment, error) {
	var comments []models.AdminComment
	err := r.db.WithContext(ctx).Table("article_comments AS c").
		Select("c.id, 'article' AS type, c.article_id AS parent_id, a.slug AS parent_slug, c.user_id, c.author_name, c.author_email, c.content, c.created_at").
		Joins("JOIN articles a ON a.id = c.article_id").
		Order("c.created_at DESC").
		Limit(limit).
		Scan(&comments).Error
	return comments, err
}

type parentCount struct {
	ParentID uint
	Count    int64
}

// countGrouped counts rows of model per value of column for the given ids.
func (r *PostgresCommentRepository) countGrouped(ctx context.Context, model any, column string, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []parentCount
	err := r.db.WithContext(ctx).Model(model).
		Select(column+" AS parent_id, COUNT(*) AS count").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ParentID] = row.Count
	}
	return counts, nil
}
