package repositories

import (
	"context"
	"time"

	"github.com/anonto42/gammy/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PostFilter narrows a feed listing. Tag wins over Search when both are set.
type PostFilter struct {
	Tag    string
	Search string
	Offset int
	Limit  int
}

// PostRepository defines the interface for feed post storage
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint) error
	ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, int64, error)
	IncrementViews(ctx context.Context, id uint) error
	GetAllTags(ctx context.Context) ([][]string, error)
	GetTopAuthors(ctx context.Context, limit int) ([]models.AuthorRank, error)
	CountPosts(ctx context.Context) (int64, error)
	SumViews(ctx context.Context) (int64, error)
	GetCreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

// PostgresPostRepository implements PostRepository on any gorm dialect
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostgresPostRepository) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostgresPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// UpdatePost writes the mutable fields of a post. Slug, author and views are left alone.
func (r *PostgresPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Model(&models.Post{ID: post.ID}).
		Select("content", "images", "tags").
		Updates(post).Error
}

// DeletePost removes a post together with its comments and likes.
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *PostgresPostRepository) ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, int64, error) {
	where := func(db *gorm.DB) *gorm.DB {
		switch {
		case filter.Tag != "":
			return db.Where("CAST(tags AS TEXT) LIKE ?", "%"+filter.Tag+"%")
		case filter.Search != "":
			return db.Where("content LIKE ?", "%"+filter.Search+"%")
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := r.db.WithContext(ctx).Scopes(where).
		Order("created_at DESC").Order("id ASC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *PostgresPostRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// GetAllTags returns the tag list of every post in insertion order.
func (r *PostgresPostRepository) GetAllTags(ctx context.Context) ([][]string, error) {
	var rows []datatypes.JSONSlice[string]
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Order("id ASC").Pluck("tags", &rows).Error; err != nil {
		return nil, err
	}
	tags := make([][]string, len(rows))
	for i, row := range rows {
		tags[i] = []string(row)
	}
	return tags, nil
}

func (r *PostgresPostRepository) GetTopAuthors(ctx context.Context, limit int) ([]models.AuthorRank, error) {
	var authors []models.AuthorRank
	err := r.db.WithContext(ctx).Table("users").
		Select("users.id, users.name, users.avatar, COUNT(posts.id) AS posts_count").
		Joins("JOIN posts ON posts.author_id = users.id").
		Group("users.id, users.name, users.avatar").
		Order("posts_count DESC, users.name ASC, users.id ASC").
		Limit(limit).
		Scan(&authors).Error
	return authors, err
}

func (r *PostgresPostRepository) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (r *PostgresPostRepository) SumViews(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Select("COALESCE(SUM(views), 0)").Scan(&sum).Error
	return sum, err
}

func (r *PostgresPostRepository) GetCreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var created []time.Time
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &created).Error
	return created, err
}
