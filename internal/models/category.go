package models

import "time"

type Category struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Slug         string    `json:"slug" gorm:"uniqueIndex;size:120;not null"`
	Color        string    `json:"color" gorm:"size:20;default:#6366f1"`
	Icon         string    `json:"icon"`
	ShowOnHome   bool      `json:"show_on_home" gorm:"not null"`
	ShowInFooter bool      `json:"show_in_footer" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

type CategoryRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Slug         string `json:"slug" validate:"max=120"`
	Color        string `json:"color" validate:"omitempty,max=20"`
	Icon         string `json:"icon" validate:"max=255"`
	ShowOnHome   bool   `json:"show_on_home"`
	ShowInFooter *bool  `json:"show_in_footer"`
}
