package ws

import (
	"time"

	"github.com/goccy/go-json"
)

// 推送事件类型
const (
	EventNotificationReceived = "NOTIFICATION_RECEIVED"
	EventNotificationRead     = "NOTIFICATION_READ"
	EventNotificationDeleted  = "NOTIFICATION_DELETED"
	EventReadReceipt          = "READ_RECEIPT"
)

// Event 推送事件封包，一次推送一个 JSON 对象
type Event struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent 构造带当前时间戳的事件
func NewEvent(event string, data any) *Event {
	return &Event{
		Event:     event,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// Marshal 序列化一次，广播时向所有连接写同一份载荷
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
