package models

import "time"

// PostLike records one like per (post, actor key). The actor key is
// "user:<id>" for members and an opaque anonymous key otherwise.
type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;uniqueIndex:idx_post_actor"`
	ActorKey  string    `json:"-" gorm:"size:128;not null;uniqueIndex:idx_post_actor"`
	UserID    *uint     `json:"user_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}
