package repositories

import (
	"context"

	"github.com/anonto42/gammy/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	ListByUserID(ctx context.Context, userID uint, limit int) ([]models.NotificationView, error)
	GetUnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkAsRead(ctx context.Context, id uint) error
	MarkAllAsRead(ctx context.Context, userID uint) error
	DeleteNotification(ctx context.Context, id uint) error
}

type gormNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *gormNotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *gormNotificationRepository) ListByUserID(ctx context.Context, userID uint, limit int) ([]models.NotificationView, error) {
	var notifications []models.NotificationView
	err := r.db.WithContext(ctx).Table("notifications").
		Select("notifications.*, users.avatar AS source_avatar").
		Joins("LEFT JOIN users ON users.id = notifications.source_user_id").
		Where("notifications.user_id = ?", userID).
		Order("notifications.created_at DESC").Order("notifications.id DESC").
		Limit(limit).
		Scan(&notifications).Error
	return notifications, err
}

func (r *gormNotificationRepository) GetUnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *gormNotificationRepository) MarkAsRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}

func (r *gormNotificationRepository) MarkAllAsRead(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *gormNotificationRepository) DeleteNotification(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &models.Notification{}, id)
}
