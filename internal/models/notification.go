package models

import "time"

type NotificationType string

const (
	NotificationCommentPost    NotificationType = "comment_post"
	NotificationCommentArticle NotificationType = "comment_article"
	NotificationLikePost       NotificationType = "like_post"
)

// Notification is addressed to UserID. Post, article and comment references
// are weak: the referenced rows may disappear without cleanup here.
type Notification struct {
	ID             uint             `json:"id" gorm:"primaryKey"`
	UserID         uint             `json:"user_id" gorm:"not null;index"`
	Type           NotificationType `json:"type" gorm:"size:30;not null"`
	SourceUserID   *uint            `json:"source_user_id"`
	SourceUserName string           `json:"source_user_name" gorm:"size:100"`
	PostID         *uint            `json:"post_id"`
	ArticleID      *uint            `json:"article_id"`
	CommentID      *uint            `json:"comment_id"`
	Message        string           `json:"message" gorm:"type:text"`
	IsRead         bool             `json:"is_read" gorm:"not null;default:false;index"`
	CreatedAt      time.Time        `json:"created_at" gorm:"index"`
}

// NotificationView adds the source user's avatar to a notification.
type NotificationView struct {
	Notification
	SourceAvatar string `json:"source_avatar,omitempty"`
}
