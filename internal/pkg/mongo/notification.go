package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification 通知收件箱模型
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 通知接收者ID
	SenderID   uint64             `bson:"sender_id" json:"senderId"`     // 动作发起者ID (系统通知为0)
	ChatID     uint64             `bson:"chat_id,omitempty" json:"chatId"` // 关联会话ID (无会话上下文为0)
	Category   string             `bson:"category" json:"category"`      // 通知分类: message / mention / group_event / call / reaction / pin / system
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`        // 通知文案预览或消息片段
	Payload    map[string]any     `bson:"payload" json:"payload"`        // 额外元数据 (如消息ID快照)
	IsRead     bool               `bson:"is_read" json:"isRead"`
	ReadAt     *time.Time         `bson:"read_at,omitempty" json:"readAt"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
