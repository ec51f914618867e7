package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 消息类型
const (
	MsgTypeText     int8 = 1
	MsgTypeImage    int8 = 2
	MsgTypeVideo    int8 = 3
	MsgTypeAudio    int8 = 4
	MsgTypeFile     int8 = 5
	MsgTypeVoice    int8 = 6
	MsgTypeLocation int8 = 7
)

// 消息状态，只允许前进：SENT -> DELIVERED -> READ；FAILED 为终态
const (
	MsgStatusSent      int8 = 1
	MsgStatusDelivered int8 = 2
	MsgStatusRead      int8 = 3
	MsgStatusFailed    int8 = 4
)

// 转发元数据键
const (
	MetaForwardedFrom  = "forwarded_from"
	MetaOriginalSender = "original_sender"
)

// Message MongoDB 消息明细模型
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatID    uint64             `bson:"chat_id" json:"chatId"`       // 关联 MySQL 的会话 ID
	SenderID  uint64             `bson:"sender_id" json:"senderId"`   // 发送者 UID
	MsgType   int8               `bson:"msg_type" json:"msgType"`     // 1-文本, 2-图片, 3-视频, 4-音频, 5-文件, 6-语音, 7-位置
	Status    int8               `bson:"status" json:"status"`        // 1-SENT, 2-DELIVERED, 3-READ, 4-FAILED
	Content   string             `bson:"content" json:"content"`      // 文本内容或媒体引用
	Payload   []Payload          `bson:"payload,omitempty" json:"payload"`   // 结构化附件
	Metadata  map[string]any     `bson:"metadata,omitempty" json:"metadata"` // 扩展元数据（转发来源等）
	ReplyTo   string             `bson:"reply_to,omitempty" json:"replyTo"`  // 被回复消息 ID，同会话内
	Seq       uint64             `bson:"seq" json:"seq"`              // 会话内唯一绝对序号 (来自 MySQL)
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	DeletedAt *time.Time         `bson:"deleted_at,omitempty" json:"deletedAt"` // 软删除时间，保留记录
}

// Payload 附件
type Payload struct {
	MimeType string  `bson:"mime_type" json:"mime_type"`
	MediaURL string  `bson:"url" json:"url"`
	Width    int     `bson:"width" json:"width"`
	Height   int     `bson:"height" json:"height"`
	Duration float64 `bson:"duration" json:"duration"`
	CoverURL string  `bson:"cover_url,omitempty" json:"cover_url"`
}
