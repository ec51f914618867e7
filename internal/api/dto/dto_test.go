package dto

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keysOf(t *testing.T, v any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

// REST 响应统一下划线键名，同一载荷里不混用两种风格
func TestRestPayloadKeysAreSnakeCase(t *testing.T) {
	now := time.Now()

	chat := keysOf(t, &ChatDTO{LastMessageAt: now, CreatedAt: now})
	assert.Contains(t, chat, "last_message_at")
	assert.Contains(t, chat, "created_at")
	assert.NotContains(t, chat, "lastMessageAt")
	assert.NotContains(t, chat, "createdAt")

	item := keysOf(t, &ChatListItemDTO{LastMessageAt: now})
	assert.Contains(t, item, "unread_count")
	assert.Contains(t, item, "is_muted")
	assert.Contains(t, item, "is_pinned")

	notify := keysOf(t, &NotificationDTO{CreatedAt: now})
	assert.Contains(t, notify, "is_read")
	assert.Contains(t, notify, "created_at")
}

// 推送帧统一驼峰键名，通知分类在线上以 type 暴露，正文以 body 暴露
func TestPushPayloadKeysAreCamelCase(t *testing.T) {
	now := time.Now()

	received := keysOf(t, &NotificationReceivedData{
		NotificationID: "n1",
		Type:           "message",
		Body:           "hello",
		SenderID:       1,
		CreatedAt:      now,
	})
	assert.Contains(t, received, "notificationId")
	assert.Contains(t, received, "type")
	assert.Contains(t, received, "body")
	assert.Contains(t, received, "createdAt")
	assert.NotContains(t, received, "category")
	assert.NotContains(t, received, "content")

	read := keysOf(t, &NotificationReadData{NotificationIDs: []string{"n1"}, ReadAt: now})
	assert.Contains(t, read, "notificationIds")
	assert.Contains(t, read, "readAt")

	deleted := keysOf(t, &NotificationDeletedData{NotificationID: "n1", DeletedAt: now})
	assert.Contains(t, deleted, "notificationId")
	assert.Contains(t, deleted, "deletedAt")
}
