package repositories

import (
	"github.com/anonto42/gammy/backend/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostLike{},
		&models.PostComment{},
		&models.Article{},
		&models.ArticleComment{},
		&models.Category{},
		&models.Notification{},
		&models.Setting{},
	)
}
