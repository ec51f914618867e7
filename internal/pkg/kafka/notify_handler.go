package kafka

import (
	"Converse/internal/model"
	"Converse/internal/pkg/mongo"
	"Converse/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// NotifyEvent 平台其他服务发布的通知事件（系统公告、未接来电等）
type NotifyEvent struct {
	ReceiverID uint64         `json:"receiver_id"`
	SenderID   uint64         `json:"sender_id"`
	ChatID     uint64         `json:"chat_id"`
	Category   string         `json:"category"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Payload    map[string]any `json:"payload"`
	CreatedAt  int64          `json:"created_at"` // Unix 毫秒，缺省取消费时间
}

// NotifyHandler 把外部事件喂给统一的通知分发器，
// 静音与推送规则和站内事件走同一套判定。
type NotifyHandler struct {
	notifySvc service.NotificationService
}

func NewNotifyHandler(notifySvc service.NotificationService) *NotifyHandler {
	return &NotifyHandler{notifySvc: notifySvc}
}

func (s *NotifyHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("notify consumer setup")
	return nil
}

func (s *NotifyHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("notify consumer cleanup")
	return nil
}

func (s *NotifyHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-notify consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-notify process batch error", "err", err)
		return err
	}
	return nil
}

func (s *NotifyHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event NotifyEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// 坏消息不重试，记日志后跳过
		log.Error("unmarshal notify event error", "err", err, "offset", msg.Offset)
		return nil
	}
	if event.ReceiverID == 0 {
		log.Warn("notify event missing receiver, skipped", "offset", msg.Offset)
		return nil
	}
	if event.Category == "" {
		event.Category = model.NotifyCategorySystem
	}

	createdAt := time.Now()
	if event.CreatedAt > 0 {
		createdAt = time.UnixMilli(event.CreatedAt)
	}

	n := &mongo.Notification{
		ReceiverID: event.ReceiverID,
		SenderID:   event.SenderID,
		ChatID:     event.ChatID,
		Category:   event.Category,
		Title:      event.Title,
		Content:    event.Content,
		Payload:    event.Payload,
		CreatedAt:  createdAt,
	}
	if err := s.notifySvc.Dispatch(ctx, n); err != nil {
		return errors.Wrap(err, "dispatch notify event")
	}
	return nil
}
