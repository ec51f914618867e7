package kafka

import (
	"Converse/internal/model"
	"Converse/internal/pkg/mongo"
	"Converse/internal/service"
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifySvc struct {
	service.NotificationService
	got []*mongo.Notification
}

func (f *fakeNotifySvc) Dispatch(_ context.Context, n *mongo.Notification) error {
	f.got = append(f.got, n)
	return nil
}

func consumerMsg(value string) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{Topic: "platform-notify-events", Value: []byte(value)}
}

func TestNotifyHandlerLogic(t *testing.T) {
	svc := &fakeNotifySvc{}
	h := NewNotifyHandler(svc)

	err := h.logic(context.Background(), consumerMsg(`{
		"receiver_id": 7,
		"sender_id": 1,
		"chat_id": 3,
		"category": "call",
		"title": "未接来电",
		"content": "用户 1 呼叫了你",
		"created_at": 1735689600000
	}`))
	require.NoError(t, err)
	require.Len(t, svc.got, 1)

	n := svc.got[0]
	assert.Equal(t, uint64(7), n.ReceiverID)
	assert.Equal(t, model.NotifyCategoryCall, n.Category)
	assert.Equal(t, time.UnixMilli(1735689600000), n.CreatedAt)
}

func TestNotifyHandlerLogicDefaults(t *testing.T) {
	svc := &fakeNotifySvc{}
	h := NewNotifyHandler(svc)

	// 缺省分类归入系统通知，缺省时间取消费时间
	err := h.logic(context.Background(), consumerMsg(`{"receiver_id": 7, "content": "维护公告"}`))
	require.NoError(t, err)
	require.Len(t, svc.got, 1)
	assert.Equal(t, model.NotifyCategorySystem, svc.got[0].Category)
	assert.False(t, svc.got[0].CreatedAt.IsZero())
}

func TestNotifyHandlerLogicSkipsBadMessages(t *testing.T) {
	svc := &fakeNotifySvc{}
	h := NewNotifyHandler(svc)

	// 坏 JSON 与缺接收者的事件都跳过而不报错，避免卡死分区
	require.NoError(t, h.logic(context.Background(), consumerMsg(`{not json`)))
	require.NoError(t, h.logic(context.Background(), consumerMsg(`{"content": "无人认领"}`)))
	assert.Empty(t, svc.got)
}
