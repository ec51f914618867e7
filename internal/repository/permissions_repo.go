package repository

import (
	"Converse/internal/model"
	"context"

	"gorm.io/gorm"
)

type PermissionsRepo interface {
	GetByChat(ctx context.Context, chatID uint64) (*model.GroupPermissions, error)
	Create(ctx context.Context, p *model.GroupPermissions) error
	Updates(ctx context.Context, chatID uint64, fields map[string]interface{}) error
}

type permissionsRepoImpl struct {
	db *gorm.DB
}

func NewPermissionsRepo(db *gorm.DB) PermissionsRepo {
	return &permissionsRepoImpl{db: db}
}

func (s *permissionsRepoImpl) GetByChat(ctx context.Context, chatID uint64) (*model.GroupPermissions, error) {
	var p model.GroupPermissions
	err := s.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *permissionsRepoImpl) Create(ctx context.Context, p *model.GroupPermissions) error {
	return s.db.WithContext(ctx).Create(p).Error
}

// Updates 只更新调用方显式给出的字段
func (s *permissionsRepoImpl) Updates(ctx context.Context, chatID uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&model.GroupPermissions{}).
		Where("chat_id = ?", chatID).
		Updates(fields).Error
}
