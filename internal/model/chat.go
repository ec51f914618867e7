package model

import "time"

const (
	ChatTypeDirect int8 = 1
	ChatTypeGroup  int8 = 2
)

const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// Chat 会话主表
type Chat struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Type           int8      `gorm:"not null;default:1" json:"type"`      // 1-单聊, 2-群聊
	Name           string    `gorm:"type:varchar(128)" json:"name"`       // 群聊名称，单聊为空
	AvatarURL      string    `gorm:"type:varchar(255)" json:"avatarUrl"`  // 群头像
	PeerKey        *string   `gorm:"uniqueIndex;type:varchar(64)" json:"peerKey"` // 单聊无序对唯一键 uid1_uid2，群聊为 NULL
	CreatorID      uint64    `gorm:"not null;default:0" json:"creatorId"`
	MaxMsgSeq      uint64    `gorm:"not null;default:0" json:"maxMsgSeq"` // 会话内消息序列号
	LastMsgContent string    `gorm:"type:varchar(255)" json:"lastMsgContent"`
	LastMsgType    int8      `gorm:"not null;default:1" json:"lastMsgType"`
	LastSenderID   uint64    `gorm:"not null;default:0" json:"lastSenderId"`
	LastMessageAt  time.Time `gorm:"index" json:"lastMessageAt"`

	// ParticipantIDs 当前成员 ID 的派生缓存，成员变动时在事务内重算。
	// 鉴权一律走 chat_participants 表，此列只用于读展示。
	ParticipantIDs []uint64 `gorm:"serializer:json;type:json" json:"participantIds"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Chat) TableName() string { return "chats" }

// ChatParticipant 会话成员表，LeftAt 非空表示已退出但保留审计记录
type ChatParticipant struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID     uint64     `gorm:"uniqueIndex:idx_chat_user" json:"chatId"`
	UserID     uint64     `gorm:"uniqueIndex:idx_chat_user;index" json:"userId"`
	Role       string     `gorm:"type:varchar(16);not null;default:'MEMBER'" json:"role"` // ADMIN / MEMBER
	ReadMsgSeq uint64     `gorm:"not null;default:0" json:"readMsgSeq"` // 已读进度
	IsMuted    int8       `gorm:"not null;default:0" json:"isMuted"`    // 会话列表静音标记
	IsPinned   int8       `gorm:"not null;default:0" json:"isPinned"`   // 会话列表置顶标记
	JoinedAt   time.Time  `json:"joinedAt"`
	LeftAt     *time.Time `gorm:"index" json:"leftAt"`

	Chat Chat `gorm:"foreignKey:ChatID;references:ID" json:"chat"`

	// 虚拟字段：仅读不写，存储 SQL 计算结果
	UnreadCount uint64 `gorm:"->" json:"unreadCount"`
}

func (ChatParticipant) TableName() string { return "chat_participants" }

// IsLeft 成员是否已退出
func (p *ChatParticipant) IsLeft() bool {
	return p.LeftAt != nil
}
