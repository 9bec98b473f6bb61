package models

import "time"

// PostComment is a comment left on a feed post, by a member or a guest.
type PostComment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PostID      uint      `json:"post_id" gorm:"not null;index"`
	UserID      *uint     `json:"user_id" gorm:"index"`
	AuthorName  string    `json:"author_name" gorm:"size:100;not null"`
	AuthorEmail string    `json:"author_email"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// ArticleComment shares the shape of PostComment but hangs off an article.
type ArticleComment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ArticleID   uint      `json:"article_id" gorm:"not null;index"`
	UserID      *uint     `json:"user_id" gorm:"index"`
	AuthorName  string    `json:"author_name" gorm:"size:100;not null"`
	AuthorEmail string    `json:"author_email"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// CommentView is a comment of either kind with the commenter's avatar.
type CommentView struct {
	ID          uint      `json:"id"`
	ParentID    uint      `json:"parent_id"`
	UserID      *uint     `json:"user_id"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email,omitempty"`
	Content     string    `json:"content"`
	UserAvatar  string    `json:"user_avatar,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AdminComment is a row of the moderation list spanning posts and articles.
type AdminComment struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"` // post or article
	ParentID    uint      `json:"parent_id"`
	ParentSlug  string    `json:"parent_slug"`
	UserID      *uint     `json:"user_id"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateCommentRequest struct {
	AuthorName  string `json:"author_name" validate:"max=100"`
	AuthorEmail string `json:"author_email" validate:"omitempty,email,max=255"`
	Content     string `json:"content" validate:"max=5000"`
}
