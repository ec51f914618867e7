package model

import "time"

// 通知分类
const (
	NotifyCategoryMessage    = "message"
	NotifyCategoryMention    = "mention"
	NotifyCategoryGroupEvent = "group_event"
	NotifyCategoryCall       = "call"
	NotifyCategoryReaction   = "reaction"
	NotifyCategoryPin        = "pin"
	NotifyCategorySystem     = "system"
)

// NotificationSettings 用户通知偏好，一人一条，首次读写时懒创建
type NotificationSettings struct {
	ID                uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uint64     `gorm:"uniqueIndex" json:"userId"`
	PushEnabled       bool       `gorm:"not null;default:true" json:"pushEnabled"`
	EmailEnabled      bool       `gorm:"not null;default:true" json:"emailEnabled"`
	MessageEnabled    bool       `gorm:"not null;default:true" json:"messageEnabled"`
	MentionEnabled    bool       `gorm:"not null;default:true" json:"mentionEnabled"`
	GroupEventEnabled bool       `gorm:"not null;default:true" json:"groupEventEnabled"`
	CallEnabled       bool       `gorm:"not null;default:true" json:"callEnabled"`
	ReactionEnabled   bool       `gorm:"not null;default:true" json:"reactionEnabled"`
	PinEnabled        bool       `gorm:"not null;default:true" json:"pinEnabled"`
	MuteAll           bool       `gorm:"not null;default:false" json:"muteAll"`
	MuteUntil         *time.Time `json:"muteUntil"` // 设置后到期自动解除全局静音
	MutedChatIDs      []uint64   `gorm:"serializer:json;type:json" json:"mutedChatIds"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (NotificationSettings) TableName() string { return "notification_settings" }

// DefaultNotificationSettings 懒创建时的默认偏好：全部开启，无静音
func DefaultNotificationSettings(userID uint64) *NotificationSettings {
	return &NotificationSettings{
		UserID:            userID,
		PushEnabled:       true,
		EmailEnabled:      true,
		MessageEnabled:    true,
		MentionEnabled:    true,
		GroupEventEnabled: true,
		CallEnabled:       true,
		ReactionEnabled:   true,
		PinEnabled:        true,
		MuteAll:           false,
		MutedChatIDs:      []uint64{},
	}
}

// Muted 判断全局静音是否生效，MuteUntil 过期则视为已解除
func (s *NotificationSettings) Muted(now time.Time) bool {
	if !s.MuteAll {
		return false
	}
	if s.MuteUntil != nil && now.After(*s.MuteUntil) {
		return false
	}
	return true
}

// ChatMuted 指定会话是否被静音
func (s *NotificationSettings) ChatMuted(chatID uint64) bool {
	for _, id := range s.MutedChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

// CategoryEnabled 指定分类的推送开关
func (s *NotificationSettings) CategoryEnabled(category string) bool {
	switch category {
	case NotifyCategoryMessage:
		return s.MessageEnabled
	case NotifyCategoryMention:
		return s.MentionEnabled
	case NotifyCategoryGroupEvent:
		return s.GroupEventEnabled
	case NotifyCategoryCall:
		return s.CallEnabled
	case NotifyCategoryReaction:
		return s.ReactionEnabled
	case NotifyCategoryPin:
		return s.PinEnabled
	default:
		return true
	}
}
