package model

import "time"

// GroupPermissions 群聊能力开关，一群一条，首次写入时懒创建
type GroupPermissions struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID            uint64    `gorm:"uniqueIndex" json:"chatId"`
	CanSendMessages   bool      `gorm:"not null;default:true" json:"canSendMessages"`
	CanAddMembers     bool      `gorm:"not null;default:true" json:"canAddMembers"`
	CanRemoveMembers  bool      `gorm:"not null;default:false" json:"canRemoveMembers"`
	CanEditGroupInfo  bool      `gorm:"not null;default:false" json:"canEditGroupInfo"`
	CanPinMessages    bool      `gorm:"not null;default:false" json:"canPinMessages"`
	CanDeleteMessages bool      `gorm:"not null;default:false" json:"canDeleteMessages"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (GroupPermissions) TableName() string { return "group_permissions" }

// DefaultGroupPermissions 懒创建时的默认能力
func DefaultGroupPermissions(chatID uint64) *GroupPermissions {
	return &GroupPermissions{
		ChatID:            chatID,
		CanSendMessages:   true,
		CanAddMembers:     true,
		CanRemoveMembers:  false,
		CanEditGroupInfo:  false,
		CanPinMessages:    false,
		CanDeleteMessages: false,
	}
}
