package repository

import (
	"Converse/internal/model"
	"context"

	"gorm.io/gorm"
)

type PinRepo interface {
	Create(ctx context.Context, p *model.PinnedMessage) error
	GetByChatAndMessage(ctx context.Context, chatID uint64, messageID string) (*model.PinnedMessage, error)
	Delete(ctx context.Context, pinID uint64) error
	ListByChat(ctx context.Context, chatID uint64) ([]*model.PinnedMessage, error)
}

type pinRepoImpl struct {
	db *gorm.DB
}

func NewPinRepo(db *gorm.DB) PinRepo {
	return &pinRepoImpl{db: db}
}

// Create 固定一条消息，(chat, message) 唯一索引兜底并发重复
func (s *pinRepoImpl) Create(ctx context.Context, p *model.PinnedMessage) error {
	return s.db.WithContext(ctx).Create(p).Error
}

// GetByChatAndMessage 查询会话内指定消息的固定记录
func (s *pinRepoImpl) GetByChatAndMessage(ctx context.Context, chatID uint64, messageID string) (*model.PinnedMessage, error) {
	var p model.PinnedMessage
	err := s.db.WithContext(ctx).
		Where("chat_id = ? AND message_id = ?", chatID, messageID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete 取消固定
func (s *pinRepoImpl) Delete(ctx context.Context, pinID uint64) error {
	res := s.db.WithContext(ctx).Delete(&model.PinnedMessage{}, pinID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByChat 会话固定消息列表，后固定的在前
func (s *pinRepoImpl) ListByChat(ctx context.Context, chatID uint64) ([]*model.PinnedMessage, error) {
	var list []*model.PinnedMessage
	err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
