package repository

import (
	"Converse/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type ChatRepo interface {
	CreateChat(ctx context.Context, chat *model.Chat, members []*model.ChatParticipant) error
	GetChat(ctx context.Context, chatID uint64) (*model.Chat, error)
	GetChatByPeerKey(ctx context.Context, peerKey string) (*model.Chat, error)
	UpdateChatInfo(ctx context.Context, chatID uint64, fields map[string]interface{}) error

	IncrMaxSeq(ctx context.Context, chatID uint64, lastMsg string, msgType int8, senderID uint64) (uint64, error)

	GetUserChatMemberships(ctx context.Context, userID uint64) ([]*model.ChatParticipant, error)
	SearchByName(ctx context.Context, userID uint64, keyword string, limit, offset int) ([]*model.Chat, int64, error)
	GetUnreadByChats(ctx context.Context, userID uint64, chatIDs []uint64) (map[uint64]uint64, error)
	GetTotalUnreadCount(ctx context.Context, userID uint64) (int64, error)
}

type chatRepoImpl struct {
	db *gorm.DB
}

func NewChatRepo(db *gorm.DB) ChatRepo {
	return &chatRepoImpl{db: db}
}

// CreateChat 开启事务创建会话及初始成员，并落第一版成员缓存
func (s *chatRepoImpl) CreateChat(ctx context.Context, chat *model.Chat, members []*model.ChatParticipant) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uint64, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.UserID)
		}
		chat.ParticipantIDs = ids

		if err := tx.Create(chat).Error; err != nil {
			return err
		}
		for _, m := range members {
			m.ChatID = chat.ID
			m.JoinedAt = time.Now()
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetChat 根据会话 ID 获取会话
func (s *chatRepoImpl) GetChat(ctx context.Context, chatID uint64) (*model.Chat, error) {
	var chat model.Chat
	err := s.db.WithContext(ctx).First(&chat, chatID).Error
	return &chat, err
}

// GetChatByPeerKey 根据单聊无序对标识获取会话
func (s *chatRepoImpl) GetChatByPeerKey(ctx context.Context, peerKey string) (*model.Chat, error) {
	var chat model.Chat
	err := s.db.WithContext(ctx).Where("peer_key = ?", peerKey).First(&chat).Error
	return &chat, err
}

// UpdateChatInfo 局部更新会话展示信息
func (s *chatRepoImpl) UpdateChatInfo(ctx context.Context, chatID uint64, fields map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&model.Chat{}).
		Where("id = ?", chatID).
		Updates(fields).Error
}

// IncrMaxSeq 核心定序逻辑：利用 MySQL 行锁确保 Seq 绝对递增，同时刷新预览与活跃时间
func (s *chatRepoImpl) IncrMaxSeq(ctx context.Context, chatID uint64, lastMsg string, msgType int8, senderID uint64) (uint64, error) {
	var maxSeq uint64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Chat{}).Where("id = ?", chatID).
			Updates(map[string]interface{}{
				"max_msg_seq":      gorm.Expr("max_msg_seq + 1"),
				"last_msg_content": lastMsg,
				"last_msg_type":    msgType,
				"last_sender_id":   senderID,
				"last_message_at":  time.Now(),
			}).Error
		if err != nil {
			return err
		}

		return tx.Model(&model.Chat{}).Select("max_msg_seq").Where("id = ?", chatID).Scan(&maxSeq).Error
	})
	return maxSeq, err
}

// GetUserChatMemberships 联表查询会话列表，利用嵌套 Model 自动装配，未读数为 SQL 计算的虚拟列
func (s *chatRepoImpl) GetUserChatMemberships(ctx context.Context, userID uint64) ([]*model.ChatParticipant, error) {
	var members []*model.ChatParticipant
	// 使用 Chat__ 别名配合 GORM 的嵌套填充特性
	err := s.db.WithContext(ctx).Table("chat_participants p").
		Select("p.*, "+
			"c.id AS `Chat__id`, c.type AS `Chat__type`, "+
			"c.name AS `Chat__name`, c.avatar_url AS `Chat__avatar_url`, "+
			"c.peer_key AS `Chat__peer_key`, "+
			"c.max_msg_seq AS `Chat__max_msg_seq`, "+
			"c.last_msg_content AS `Chat__last_msg_content`, "+
			"c.last_msg_type AS `Chat__last_msg_type`, "+
			"c.last_sender_id AS `Chat__last_sender_id`, "+
			"c.last_message_at AS `Chat__last_message_at`, "+
			"(c.max_msg_seq - p.read_msg_seq) AS unread_count").
		Joins("JOIN chats c ON p.chat_id = c.id").
		Where("p.user_id = ? AND p.left_at IS NULL", userID).
		Order("p.is_pinned DESC, c.last_message_at DESC").
		Find(&members).Error
	return members, err
}

// SearchByName 在用户当前参与的会话内做大小写不敏感的名称子串匹配
func (s *chatRepoImpl) SearchByName(ctx context.Context, userID uint64, keyword string, limit, offset int) ([]*model.Chat, int64, error) {
	base := s.db.WithContext(ctx).Table("chats c").
		Joins("JOIN chat_participants p ON p.chat_id = c.id").
		Where("p.user_id = ? AND p.left_at IS NULL", userID).
		Where("LOWER(c.name) LIKE ?", "%"+escapeLike(keyword)+"%")

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var chats []*model.Chat
	err := base.Session(&gorm.Session{}).
		Select("c.*").
		Order("c.last_message_at DESC").
		Limit(limit).Offset(offset).
		Find(&chats).Error
	return chats, total, err
}

// GetUnreadByChats 批量获取指定会话的未读数
func (s *chatRepoImpl) GetUnreadByChats(ctx context.Context, userID uint64, chatIDs []uint64) (map[uint64]uint64, error) {
	type Result struct {
		ChatID      uint64
		UnreadCount uint64
	}
	var results []Result
	err := s.db.WithContext(ctx).Table("chat_participants p").
		Joins("JOIN chats c ON p.chat_id = c.id").
		Where("p.user_id = ? AND p.left_at IS NULL AND p.chat_id IN ?", userID, chatIDs).
		Select("p.chat_id AS chat_id, " +
			"CASE WHEN c.max_msg_seq > p.read_msg_seq THEN c.max_msg_seq - p.read_msg_seq ELSE 0 END AS unread_count").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	resMap := make(map[uint64]uint64, len(results))
	for _, r := range results {
		resMap[r.ChatID] = r.UnreadCount
	}
	return resMap, nil
}

// GetTotalUnreadCount 计算全局未读数
func (s *chatRepoImpl) GetTotalUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Table("chat_participants p").
		Joins("JOIN chats c ON p.chat_id = c.id").
		Where("p.user_id = ? AND p.left_at IS NULL", userID).
		Select("COALESCE(SUM(CASE WHEN c.max_msg_seq > p.read_msg_seq THEN c.max_msg_seq - p.read_msg_seq ELSE 0 END), 0)").
		Scan(&total).Error
	return total, err
}

// escapeLike 转义 LIKE 模式中的通配符，保证按字面子串匹配
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	lower := make([]byte, len(out))
	copy(lower, out)
	for i, c := range lower {
		if c >= 'A' && c <= 'Z' {
			lower[i] = c + 32
		}
	}
	return string(lower)
}
