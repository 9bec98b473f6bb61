package repositories

import (
	"context"

	"github.com/anonto42/gammy/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository persists the site key/value store
type SettingRepository interface {
	GetSetting(ctx context.Context, key string) (*models.Setting, error)
	GetAllSettings(ctx context.Context) ([]models.Setting, error)
	UpsertSettings(ctx context.Context, settings ...models.Setting) error
}

type PostgresSettingRepository struct {
	db *gorm.DB
}

func NewPostgresSettingRepository(db *gorm.DB) *PostgresSettingRepository {
	return &PostgresSettingRepository{db: db}
}

func (r *PostgresSettingRepository) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresSettingRepository) GetAllSettings(ctx context.Context) ([]models.Setting, error) {
	var settings []models.Setting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}

// UpsertSettings writes all rows in one transaction, replacing existing keys.
func (r *PostgresSettingRepository) UpsertSettings(ctx context.Context, settings ...models.Setting) error {
	if len(settings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range settings {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"kind", "value"}),
			}).Create(&settings[i]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
