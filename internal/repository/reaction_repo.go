package repository

import (
	"Converse/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReactionRepo interface {
	Upsert(ctx context.Context, r *model.Reaction) error
	GetByID(ctx context.Context, reactionID uint64) (*model.Reaction, error)
	Delete(ctx context.Context, reactionID uint64) error
	ListByMessage(ctx context.Context, messageID string) ([]*model.Reaction, error)
}

type reactionRepoImpl struct {
	db *gorm.DB
}

func NewReactionRepo(db *gorm.DB) ReactionRepo {
	return &reactionRepoImpl{db: db}
}

// Upsert (message, user) 唯一，重复表态只覆盖 emoji
func (s *reactionRepoImpl) Upsert(ctx context.Context, r *model.Reaction) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"emoji", "updated_at"}),
	}).Create(r).Error
}

// GetByID 根据表态 ID 获取记录
func (s *reactionRepoImpl) GetByID(ctx context.Context, reactionID uint64) (*model.Reaction, error) {
	var r model.Reaction
	err := s.db.WithContext(ctx).First(&r, reactionID).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete 删除表态
func (s *reactionRepoImpl) Delete(ctx context.Context, reactionID uint64) error {
	res := s.db.WithContext(ctx).Delete(&model.Reaction{}, reactionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByMessage 按消息列出全部表态
func (s *reactionRepoImpl) ListByMessage(ctx context.Context, messageID string) ([]*model.Reaction, error) {
	var list []*model.Reaction
	err := s.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
