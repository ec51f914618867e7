package model

import "time"

// Reaction 消息表态，(message, user) 唯一
type Reaction struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID string    `gorm:"uniqueIndex:idx_msg_user;type:varchar(32)" json:"messageId"`
	UserID    uint64    `gorm:"uniqueIndex:idx_msg_user;index" json:"userId"`
	ChatID    uint64    `gorm:"index" json:"chatId"`
	Emoji     string    `gorm:"type:varchar(32);not null" json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Reaction) TableName() string { return "reactions" }
