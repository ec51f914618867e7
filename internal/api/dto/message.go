package dto

import "time"

// PayloadDTO 消息附件
type PayloadDTO struct {
	MimeType string  `json:"mime_type"`
	MediaURL string  `json:"url"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Duration float64 `json:"duration"`
	CoverURL string  `json:"cover_url,omitempty"`
}

// SendMessageReq 发送消息
type SendMessageReq struct {
	ChatID   uint64       `json:"chat_id" binding:"required"`
	MsgType  int8         `json:"msg_type" binding:"required,min=1,max=7"`
	Content  string       `json:"content"`
	Payload  []PayloadDTO `json:"payload"`
	ReplyTo  string       `json:"reply_to"`
	Mentions []uint64     `json:"mentions"`
}

// ForwardMessageReq 转发消息到多个会话
type ForwardMessageReq struct {
	MessageID     string   `json:"message_id" binding:"required"`
	TargetChatIDs []uint64 `json:"target_chat_ids" binding:"required,min=1"`
}

// MessageAckReq 消息状态回执
type MessageAckReq struct {
	MessageID string `json:"message_id" binding:"required"`
}

// AddReactionReq 添加表情回应
type AddReactionReq struct {
	Emoji string `json:"emoji" binding:"required,max=16"`
}

// PinMessageReq 置顶消息
type PinMessageReq struct {
	MessageID string `json:"message_id" binding:"required"`
}

// MarkChatReadReq 标记会话已读到指定序号，缺省为全部已读
type MarkChatReadReq struct {
	Seq *uint64 `json:"seq"`
}

// MessageDTO 消息响应
type MessageDTO struct {
	ID        string         `json:"id"`
	ChatID    uint64         `json:"chat_id"`
	SenderID  uint64         `json:"sender_id"`
	MsgType   int8           `json:"msg_type"`
	Status    int8           `json:"status"`
	Content   string         `json:"content"`
	Payload   []PayloadDTO   `json:"payload,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	ReplyTo   string         `json:"reply_to,omitempty"`
	Seq       uint64         `json:"seq"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt *time.Time     `json:"deleted_at,omitempty"`
}

// ReactionDTO 表情回应响应
type ReactionDTO struct {
	ID        uint64    `json:"id"`
	MessageID string    `json:"message_id"`
	UserID    uint64    `json:"user_id"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// PinnedMessageDTO 置顶消息响应
type PinnedMessageDTO struct {
	ChatID    uint64      `json:"chat_id"`
	MessageID string      `json:"message_id"`
	PinnedBy  uint64      `json:"pinned_by"`
	PinnedAt  time.Time   `json:"pinned_at"`
	Message   *MessageDTO `json:"message,omitempty"`
}

// ReadReceiptDTO 已读回执响应
type ReadReceiptDTO struct {
	ChatID  uint64 `json:"chatId"`
	UserID  uint64 `json:"userId"`
	ReadSeq uint64 `json:"readSeq"`
}
