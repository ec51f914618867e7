package service

import (
	"Converse/internal/api/dto"
	"Converse/internal/model"
	"Converse/internal/pkg/mongo"
	"Converse/internal/ws"
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifyTestEnv struct {
	notices  *memNotificationRepo
	settings *memSettingsRepo
	registry *ws.Registry
	svc      NotificationService
}

func newNotifyTestEnv() *notifyTestEnv {
	notices := newMemNotificationRepo()
	settings := newMemSettingsRepo()
	registry := ws.NewRegistry()
	return &notifyTestEnv{
		notices:  notices,
		settings: settings,
		registry: registry,
		svc:      NewNotificationService(notices, settings, registry),
	}
}

func (e *notifyTestEnv) listen(userID uint64) *stubChannel {
	ch := newStubChannel()
	e.registry.Register(userID, ch)
	return ch
}

func (e *notifyTestEnv) saveSettings(t *testing.T, s *model.NotificationSettings) {
	t.Helper()
	require.NoError(t, e.settings.Create(context.Background(), s))
}

func notify(receiverID, chatID uint64, category string) *mongo.Notification {
	return &mongo.Notification{
		ReceiverID: receiverID,
		SenderID:   1,
		ChatID:     chatID,
		Category:   category,
		Title:      "群",
		Content:    "hello",
	}
}

func decodeEvent(t *testing.T, frame []byte) *ws.Event {
	t.Helper()
	var event ws.Event
	require.NoError(t, json.Unmarshal(frame, &event))
	return &event
}

func TestDispatchPersistsAndPushes(t *testing.T) {
	env := newNotifyTestEnv()
	ch := env.listen(7)

	require.NoError(t, env.svc.Dispatch(context.Background(), notify(7, 1, model.NotifyCategoryMessage)))

	frames := ch.received()
	require.Len(t, frames, 1)
	event := decodeEvent(t, frames[0])
	assert.Equal(t, ws.EventNotificationReceived, event.Event)
	data := event.Data.(map[string]interface{})
	assert.Equal(t, model.NotifyCategoryMessage, data["type"])
	assert.Equal(t, "hello", data["body"])
	assert.NotEmpty(t, data["notificationId"])

	count, err := env.svc.GetUnreadCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Count)
}

func TestDispatchOfflineStillPersists(t *testing.T) {
	env := newNotifyTestEnv()

	require.NoError(t, env.svc.Dispatch(context.Background(), notify(7, 1, model.NotifyCategoryMessage)))

	list, meta, err := env.svc.GetNotificationList(context.Background(), 7, 1, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), meta.Total)
	assert.False(t, list[0].IsRead)
}

func TestDispatchPushDisabledSuppressesPushOnly(t *testing.T) {
	env := newNotifyTestEnv()
	settings := model.DefaultNotificationSettings(7)
	settings.PushEnabled = false
	env.saveSettings(t, settings)
	ch := env.listen(7)

	require.NoError(t, env.svc.Dispatch(context.Background(), notify(7, 1, model.NotifyCategoryMessage)))

	// 总开关关掉后在线也不推，收件箱记录照常保留
	assert.Empty(t, ch.received())
	count, err := env.svc.GetUnreadCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Count)
}

func TestDispatchMuteAllSuppressesPushOnly(t *testing.T) {
	env := newNotifyTestEnv()
	settings := model.DefaultNotificationSettings(7)
	settings.MuteAll = true
	env.saveSettings(t, settings)
	ch := env.listen(7)

	require.NoError(t, env.svc.Dispatch(context.Background(), notify(7, 1, model.NotifyCategoryMessage)))

	// 静音只拦推送，收件箱记录照常保留
	assert.Empty(t, ch.received())
	count, err := env.svc.GetUnreadCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Count)
}

func TestDispatchMuteUntilExpired(t *testing.T) {
	env := newNotifyTestEnv()
	past := time.Now().Add(-time.Hour)
	settings := model.DefaultNotificationSettings(7)
	settings.MuteAll = true
	settings.MuteUntil = &past
	env.saveSettings(t, settings)
	ch := env.listen(7)

	// 定时免打扰到期后恢复推送
	require.NoError(t, env.svc.Dispatch(context.Background(), notify(7, 1, model.NotifyCategoryMessage)))
	assert.Len(t, ch.received(), 1)
}

func TestDispatchChatMuted(t *testing.T) {
	env := newNotifyTestEnv()
	settings := model.DefaultNotificationSettings(7)
	settings.MutedChatIDs = []uint64{42}
	env.saveSettings(t, settings)
	ch := env.listen(7)
	ctx := context.Background()

	require.NoError(t, env.svc.Dispatch(ctx, notify(7, 42, model.NotifyCategoryMessage)))
	assert.Empty(t, ch.received())

	// 只静音指定会话，其他会话不受影响
	require.NoError(t, env.svc.Dispatch(ctx, notify(7, 43, model.NotifyCategoryMessage)))
	assert.Len(t, ch.received(), 1)
}

func TestDispatchCategoryDisabled(t *testing.T) {
	env := newNotifyTestEnv()
	settings := model.DefaultNotificationSettings(7)
	settings.ReactionEnabled = false
	env.saveSettings(t, settings)
	ch := env.listen(7)
	ctx := context.Background()

	require.NoError(t, env.svc.Dispatch(ctx, notify(7, 1, model.NotifyCategoryReaction)))
	assert.Empty(t, ch.received())

	require.NoError(t, env.svc.Dispatch(ctx, notify(7, 1, model.NotifyCategoryMention)))
	assert.Len(t, ch.received(), 1)
}

func TestMarkRead(t *testing.T) {
	env := newNotifyTestEnv()
	ctx := context.Background()
	require.NoError(t, env.svc.Dispatch(ctx, notify(7, 1, model.NotifyCategoryMessage)))
	list, _, err := env.svc.GetNotificationList(ctx, 7, 1, 20)
	require.NoError(t, err)
	ch := env.listen(7)

	require.NoError(t, env.svc.MarkRead(ctx, 7, list[0].ID))

	list, _, err = env.svc.GetNotificationList(ctx, 7, 1, 20)
	require.NoError(t, err)
	assert.True(t, list[0].IsRead)
	assert.NotNil(t, list[0].ReadAt)

	frames := ch.received()
	require.Len(t, frames, 1)
	assert.Equal(t, ws.EventNotificationRead, decodeEvent(t, frames[0]).Event)

	// 非法 ID 与他人的通知都按 NotFound 处理
	assert.ErrorIs(t, env.svc.MarkRead(ctx, 7, "not-a-hex"), ErrNotificationNotFound)
	assert.ErrorIs(t, env.svc.MarkRead(ctx, 8, list[0].ID), ErrNotificationNotFound)
}

func TestMarkAllRead(t *testing.T) {
	env := newNotifyTestEnv()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, env.svc.Dispatch(ctx, notify(7, 1, model.NotifyCategoryMessage)))
	}
	ch := env.listen(7)

	require.NoError(t, env.svc.MarkAllRead(ctx, 7))

	count, err := env.svc.GetUnreadCount(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.Count)

	frames := ch.received()
	require.Len(t, frames, 1)
	event := decodeEvent(t, frames[0])
	assert.Equal(t, ws.EventNotificationRead, event.Event)
	data := event.Data.(map[string]interface{})
	assert.Len(t, data["notificationIds"], 3)

	// 没有未读时不再推送
	require.NoError(t, env.svc.MarkAllRead(ctx, 7))
	assert.Len(t, ch.received(), 1)
}

func TestDeleteNotification(t *testing.T) {
	env := newNotifyTestEnv()
	ctx := context.Background()
	require.NoError(t, env.svc.Dispatch(ctx, notify(7, 1, model.NotifyCategoryMessage)))
	list, _, err := env.svc.GetNotificationList(ctx, 7, 1, 20)
	require.NoError(t, err)
	ch := env.listen(7)

	require.NoError(t, env.svc.Delete(ctx, 7, list[0].ID))
	assert.ErrorIs(t, env.svc.Delete(ctx, 7, list[0].ID), ErrNotificationNotFound)

	frames := ch.received()
	require.Len(t, frames, 1)
	assert.Equal(t, ws.EventNotificationDeleted, decodeEvent(t, frames[0]).Event)

	_, meta, err := env.svc.GetNotificationList(ctx, 7, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), meta.Total)
}

func TestNotificationListPaging(t *testing.T) {
	env := newNotifyTestEnv()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, env.svc.Dispatch(ctx, notify(7, 1, model.NotifyCategoryMessage)))
	}

	list, meta, err := env.svc.GetNotificationList(ctx, 7, 1, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, int64(5), meta.Total)
	assert.Equal(t, 3, meta.Pages)

	list, _, err = env.svc.GetNotificationList(ctx, 7, 3, 2)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGetSettingsLazyCreate(t *testing.T) {
	env := newNotifyTestEnv()
	ctx := context.Background()

	got, err := env.svc.GetSettings(ctx, 7)
	require.NoError(t, err)
	assert.True(t, got.PushEnabled)
	assert.False(t, got.MuteAll)
	assert.Empty(t, got.MutedChatIDs)

	// 首次访问落库默认值
	_, err = env.settings.GetByUser(ctx, 7)
	require.NoError(t, err)
}

func TestUpdateSettingsPartial(t *testing.T) {
	env := newNotifyTestEnv()
	ctx := context.Background()
	mute := true
	until := time.Now().Add(time.Hour)

	got, err := env.svc.UpdateSettings(ctx, 7, &dto.UpdateNotificationSettingsReq{
		MuteAll:      &mute,
		MuteUntil:    &until,
		MutedChatIDs: &[]uint64{3, 4},
	})
	require.NoError(t, err)
	assert.True(t, got.MuteAll)
	require.NotNil(t, got.MuteUntil)
	assert.ElementsMatch(t, []uint64{3, 4}, got.MutedChatIDs)
	// 没出现的字段保持默认
	assert.True(t, got.MessageEnabled)

	// MuteUntil 传零值清除定时免打扰
	zero := time.Time{}
	got, err = env.svc.UpdateSettings(ctx, 7, &dto.UpdateNotificationSettingsReq{MuteUntil: &zero})
	require.NoError(t, err)
	assert.Nil(t, got.MuteUntil)
	assert.True(t, got.MuteAll)
}
