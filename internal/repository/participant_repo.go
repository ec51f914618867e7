package repository

import (
	"Converse/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ParticipantRepo interface {
	GetByChatAndUser(ctx context.Context, chatID, userID uint64) (*model.ChatParticipant, error)
	ListCurrent(ctx context.Context, chatID uint64) ([]*model.ChatParticipant, error)
	CurrentMemberIDs(ctx context.Context, chatID uint64) ([]uint64, error)
	Add(ctx context.Context, chatID, userID uint64, role string) error
	Remove(ctx context.Context, chatID, userID uint64) error
	UpdateRole(ctx context.Context, chatID, userID uint64, role string) error
	UpdateReadSeq(ctx context.Context, chatID, userID, seq uint64) error
}

type participantRepoImpl struct {
	db *gorm.DB
}

func NewParticipantRepo(db *gorm.DB) ParticipantRepo {
	return &participantRepoImpl{db: db}
}

// GetByChatAndUser 获取成员记录，包含已退出的历史记录，由上层判定 LeftAt
func (s *participantRepoImpl) GetByChatAndUser(ctx context.Context, chatID, userID uint64) (*model.ChatParticipant, error) {
	var p model.ChatParticipant
	err := s.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListCurrent 列出当前成员，排除已退出记录
func (s *participantRepoImpl) ListCurrent(ctx context.Context, chatID uint64) ([]*model.ChatParticipant, error) {
	var members []*model.ChatParticipant
	err := s.db.WithContext(ctx).
		Where("chat_id = ? AND left_at IS NULL", chatID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

// CurrentMemberIDs 当前成员的用户 ID 列表
func (s *participantRepoImpl) CurrentMemberIDs(ctx context.Context, chatID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.ChatParticipant{}).
		Where("chat_id = ? AND left_at IS NULL", chatID).
		Order("joined_at ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// Add 加入会话。曾经退出过的成员复用历史行，清空 LeftAt 并刷新加入时间。
// 成员缓存列在同一事务内重算。
func (s *participantRepoImpl) Add(ctx context.Context, chatID, userID uint64, role string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.ChatParticipant
		err := tx.Where("chat_id = ? AND user_id = ?", chatID, userID).First(&existing).Error
		switch {
		case err == nil:
			if existing.LeftAt == nil {
				return nil
			}
			err = tx.Model(&model.ChatParticipant{}).
				Where("id = ?", existing.ID).
				Updates(map[string]interface{}{
					"left_at":      nil,
					"role":         role,
					"joined_at":    time.Now(),
					"read_msg_seq": 0,
				}).Error
			if err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			p := &model.ChatParticipant{
				ChatID:   chatID,
				UserID:   userID,
				Role:     role,
				JoinedAt: time.Now(),
			}
			if err = tx.Create(p).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return syncParticipantIDs(tx, chatID)
	})
}

// Remove 退出会话，保留行用于审计，同事务内重算成员缓存列
func (s *participantRepoImpl) Remove(ctx context.Context, chatID, userID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&model.ChatParticipant{}).
			Where("chat_id = ? AND user_id = ? AND left_at IS NULL", chatID, userID).
			Update("left_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return syncParticipantIDs(tx, chatID)
	})
}

// UpdateRole 调整成员角色
func (s *participantRepoImpl) UpdateRole(ctx context.Context, chatID, userID uint64, role string) error {
	res := s.db.WithContext(ctx).Model(&model.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ? AND left_at IS NULL", chatID, userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateReadSeq 更新用户已读进度 (已读回执)
func (s *participantRepoImpl) UpdateReadSeq(ctx context.Context, chatID, userID, seq uint64) error {
	return s.db.WithContext(ctx).Model(&model.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ? AND left_at IS NULL", chatID, userID).
		Update("read_msg_seq", seq).Error
}

// syncParticipantIDs 以成员表为准重算会话上的派生成员列表
func syncParticipantIDs(tx *gorm.DB, chatID uint64) error {
	var ids []uint64
	err := tx.Model(&model.ChatParticipant{}).
		Where("chat_id = ? AND left_at IS NULL", chatID).
		Order("joined_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []uint64{}
	}

	return tx.Model(&model.Chat{}).
		Where("id = ?", chatID).
		Update("participant_ids", ids).Error
}
