package dto

import "time"

// NotificationDTO 通知响应
type NotificationDTO struct {
	ID        string         `json:"id"`
	SenderID  uint64         `json:"sender_id"`
	ChatID    uint64         `json:"chat_id,omitempty"`
	Category  string         `json:"category"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Payload   map[string]any `json:"payload,omitempty"`
	IsRead    bool           `json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NotifyUnreadDTO 未读通知数响应
type NotifyUnreadDTO struct {
	Count int64 `json:"count"`
}

// NotificationSettingsDTO 通知偏好响应
type NotificationSettingsDTO struct {
	PushEnabled       bool       `json:"push_enabled"`
	EmailEnabled      bool       `json:"email_enabled"`
	MessageEnabled    bool       `json:"message_enabled"`
	MentionEnabled    bool       `json:"mention_enabled"`
	GroupEventEnabled bool       `json:"group_event_enabled"`
	CallEnabled       bool       `json:"call_enabled"`
	ReactionEnabled   bool       `json:"reaction_enabled"`
	PinEnabled        bool       `json:"pin_enabled"`
	MuteAll           bool       `json:"mute_all"`
	MuteUntil         *time.Time `json:"mute_until,omitempty"`
	MutedChatIDs      []uint64   `json:"muted_chat_ids"`
}

// UpdateNotificationSettingsReq 局部更新通知偏好，缺省字段不变。
// MuteUntil 传零值时间表示清除定时免打扰。
type UpdateNotificationSettingsReq struct {
	PushEnabled       *bool      `json:"push_enabled"`
	EmailEnabled      *bool      `json:"email_enabled"`
	MessageEnabled    *bool      `json:"message_enabled"`
	MentionEnabled    *bool      `json:"mention_enabled"`
	GroupEventEnabled *bool      `json:"group_event_enabled"`
	CallEnabled       *bool      `json:"call_enabled"`
	ReactionEnabled   *bool      `json:"reaction_enabled"`
	PinEnabled        *bool      `json:"pin_enabled"`
	MuteAll           *bool      `json:"mute_all"`
	MuteUntil         *time.Time `json:"mute_until"`
	MutedChatIDs      *[]uint64  `json:"muted_chat_ids"`
}

// NotificationReceivedData 新通知推送载荷。
// 推送帧统一用驼峰键名，通知分类在线上以 type 暴露，正文以 body 暴露。
type NotificationReceivedData struct {
	NotificationID string         `json:"notificationId"`
	Type           string         `json:"type"`
	Title          string         `json:"title"`
	Body           string         `json:"body"`
	Data           map[string]any `json:"data,omitempty"`
	ChatID         uint64         `json:"chatId,omitempty"`
	SenderID       uint64         `json:"senderId"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// NotificationReadData 通知已读推送载荷
type NotificationReadData struct {
	NotificationIDs []string  `json:"notificationIds"`
	ReadAt          time.Time `json:"readAt"`
}

// NotificationDeletedData 通知删除推送载荷
type NotificationDeletedData struct {
	NotificationID string    `json:"notificationId"`
	DeletedAt      time.Time `json:"deletedAt"`
}
