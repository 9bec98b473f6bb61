package repositories

import (
	"context"

	"github.com/anonto42/gammy/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for the post like ledger
type LikeRepository interface {
	GetLike(ctx context.Context, postID uint, actorKey string) (*models.PostLike, error)
	CreateLike(ctx context.Context, like *models.PostLike) error
	DeleteLike(ctx context.Context, id uint) error
	CountByPostID(ctx context.Context, postID uint) (int64, error)
	CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error)
	LikedPostIDs(ctx context.Context, actorKey string, postIDs []uint) (map[uint]bool, error)
	CountAll(ctx context.Context) (int64, error)
}

// PostgresLikeRepository implements LikeRepository. Uniqueness of
// (post_id, actor_key) is enforced by the idx_post_actor index.
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

func (r *PostgresLikeRepository) GetLike(ctx context.Context, postID uint, actorKey string) (*models.PostLike, error) {
	var like models.PostLike
	res := r.db.WithContext(ctx).Where("post_id = ? AND actor_key = ?", postID, actorKey).Limit(1).Find(&like)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &like, nil
}

func (r *PostgresLikeRepository) CreateLike(ctx context.Context, like *models.PostLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *PostgresLikeRepository) DeleteLike(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &models.PostLike{}, id)
}

func (r *PostgresLikeRepository) CountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

type postCount struct {
	PostID uint
	Count  int64
}

func (r *PostgresLikeRepository) CountByPostIDs(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	var rows []postCount
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts, nil
}

func (r *PostgresLikeRepository) LikedPostIDs(ctx context.Context, actorKey string, postIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(postIDs))
	if len(postIDs) == 0 || actorKey == "" {
		return liked, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("actor_key = ? AND post_id IN ?", actorKey, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (r *PostgresLikeRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).Count(&count).Error
	return count, err
}
