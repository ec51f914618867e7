package repository

import (
	"Converse/internal/model"
	"context"

	"gorm.io/gorm"
)

type SettingsRepo interface {
	GetByUser(ctx context.Context, userID uint64) (*model.NotificationSettings, error)
	Create(ctx context.Context, s *model.NotificationSettings) error
	Updates(ctx context.Context, userID uint64, fields map[string]interface{}) error
}

type settingsRepoImpl struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) SettingsRepo {
	return &settingsRepoImpl{db: db}
}

func (s *settingsRepoImpl) GetByUser(ctx context.Context, userID uint64) (*model.NotificationSettings, error) {
	var settings model.NotificationSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *settingsRepoImpl) Create(ctx context.Context, settings *model.NotificationSettings) error {
	return s.db.WithContext(ctx).Create(settings).Error
}

// Updates 只更新调用方显式给出的字段
func (s *settingsRepoImpl) Updates(ctx context.Context, userID uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&model.NotificationSettings{}).
		Where("user_id = ?", userID).
		Updates(fields).Error
}
