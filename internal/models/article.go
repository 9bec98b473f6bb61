package models

import "time"

const (
	ArticleDraft     = "draft"
	ArticlePublished = "published"
)

// Article is a long-form blog entry managed from the admin panel.
type Article struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Title          string    `json:"title" gorm:"size:255;not null"`
	Slug           string    `json:"slug" gorm:"uniqueIndex;size:255"`
	Excerpt        string    `json:"excerpt" gorm:"type:text"`
	Content        string    `json:"content" gorm:"type:text"`
	Image          string    `json:"image"`
	Category       string    `json:"category" gorm:"size:100;index"`
	Status         string    `json:"status" gorm:"size:20;default:draft;index"`
	Views          int64     `json:"views" gorm:"not null;default:0"`
	AuthorID       *uint     `json:"author_id" gorm:"index"`
	SeoTitle       string    `json:"seo_title"`
	SeoDescription string    `json:"seo_description"`
	SeoKeywords    string    `json:"seo_keywords"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ArticleView carries the author's name and the live comment count.
type ArticleView struct {
	Article
	AuthorName    string `json:"author_name"`
	CommentsCount int64  `json:"comments_count"`
}

type ArticleRequest struct {
	Title          string `json:"title" validate:"required,max=255"`
	Slug           string `json:"slug" validate:"max=255"`
	Excerpt        string `json:"excerpt"`
	Content        string `json:"content"`
	Image          string `json:"image" validate:"max=2048"`
	Category       string `json:"category" validate:"max=100"`
	Status         string `json:"status" validate:"omitempty,oneof=draft published"`
	SeoTitle       string `json:"seo_title" validate:"max=255"`
	SeoDescription string `json:"seo_description" validate:"max=500"`
	SeoKeywords    string `json:"seo_keywords" validate:"max=500"`
}

type ArticleOverview struct {
	TotalArticles int64 `json:"totalArticles"`
	TotalViews    int64 `json:"totalViews"`
	TotalComments int64 `json:"totalComments"`
	Published     int64 `json:"published"`
}
