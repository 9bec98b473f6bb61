package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post is a short feed entry. Images and tags are stored as JSON lists.
type Post struct {
	ID         uint                        `json:"id" gorm:"primaryKey"`
	Slug       string                      `json:"slug" gorm:"uniqueIndex;size:80;not null"`
	Content    string                      `json:"content" gorm:"type:text;not null"`
	Images     datatypes.JSONSlice[string] `json:"images"`
	Tags       datatypes.JSONSlice[string] `json:"tags"`
	AuthorID   *uint                       `json:"author_id" gorm:"index"` // nil for anonymous posts
	AuthorName string                      `json:"author_name" gorm:"size:100"`
	Views      int64                       `json:"views" gorm:"not null;default:0"`
	CreatedAt  time.Time                   `json:"created_at" gorm:"index"`
}

// PostView is a post decorated with live counters for the requester.
type PostView struct {
	Post
	AuthorAvatar  string `json:"author_avatar,omitempty"`
	LikesCount    int64  `json:"likes_count"`
	CommentsCount int64  `json:"comments_count"`
	UserLiked     *bool  `json:"user_liked,omitempty"`
}

type CreatePostRequest struct {
	Content string   `json:"content" validate:"max=20000"`
	Images  []string `json:"images" validate:"max=10,dive,max=2048"`
	Tags    []string `json:"tags" validate:"max=20,dive,max=50"`
}

type UpdatePostRequest struct {
	Content string   `json:"content" validate:"max=20000"`
	Images  []string `json:"images" validate:"max=10,dive,max=2048"`
	Tags    []string `json:"tags" validate:"max=20,dive,max=50"`
}

// Pagination mirrors the offset pagination block returned with list endpoints.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type AuthorRank struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	PostsCount int64  `json:"posts_count"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// FeedOverview is the admin summary of feed activity.
type FeedOverview struct {
	TotalPosts    int64      `json:"totalPosts"`
	TotalViews    int64      `json:"totalViews"`
	TotalLikes    int64      `json:"totalLikes"`
	TotalComments int64      `json:"totalComments"`
	PostsPerDay   []DayCount `json:"postsPerDay"`
}
