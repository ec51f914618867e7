package model

import "time"

// PinnedMessage 会话固定消息，(chat, message) 同一时刻至多一条
type PinnedMessage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID    uint64    `gorm:"uniqueIndex:idx_chat_msg" json:"chatId"`
	MessageID string    `gorm:"uniqueIndex:idx_chat_msg;type:varchar(32)" json:"messageId"`
	PinnedBy  uint64    `gorm:"not null" json:"pinnedBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (PinnedMessage) TableName() string { return "pinned_messages" }
