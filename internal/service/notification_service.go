package service

import (
	"Converse/internal/api/dto"
	"Converse/internal/model"
	"Converse/internal/pkg/mongo"
	"Converse/internal/pkg/util"
	"Converse/internal/repository"
	"Converse/internal/ws"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// NotificationService 通知收件箱 + 实时推送编排
type NotificationService interface {
	Dispatch(ctx context.Context, n *mongo.Notification) error
	GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.NotificationDTO, *dto.PageMeta, error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.NotifyUnreadDTO, error)
	MarkRead(ctx context.Context, userID uint64, notifyID string) error
	MarkAllRead(ctx context.Context, userID uint64) error
	Delete(ctx context.Context, userID uint64, notifyID string) error
	GetSettings(ctx context.Context, userID uint64) (*dto.NotificationSettingsDTO, error)
	UpdateSettings(ctx context.Context, userID uint64, req *dto.UpdateNotificationSettingsReq) (*dto.NotificationSettingsDTO, error)
}

type notificationServiceImpl struct {
	notifyRepo   mongo.NotificationRepo
	settingsRepo repository.SettingsRepo
	registry     *ws.Registry
}

func NewNotificationService(notifyRepo mongo.NotificationRepo, settingsRepo repository.SettingsRepo, registry *ws.Registry) NotificationService {
	return &notificationServiceImpl{
		notifyRepo:   notifyRepo,
		settingsRepo: settingsRepo,
		registry:     registry,
	}
}

// Dispatch 先落库，再按接收者的通知偏好决定是否实时推送。
// 关推送与静音只拦推送，收件箱记录永远保留，离线用户下次拉取时可见。
func (s *notificationServiceImpl) Dispatch(ctx context.Context, n *mongo.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if err := s.notifyRepo.Create(ctx, n); err != nil {
		return err
	}

	settings := s.loadSettings(ctx, n.ReceiverID)
	if !settings.PushEnabled {
		return nil
	}
	if settings.Muted(time.Now()) {
		return nil
	}
	if n.ChatID > 0 && settings.ChatMuted(n.ChatID) {
		return nil
	}
	if !settings.CategoryEnabled(n.Category) {
		return nil
	}

	s.push(n.ReceiverID, ws.EventNotificationReceived, &dto.NotificationReceivedData{
		NotificationID: n.ID.Hex(),
		Type:           n.Category,
		Title:          n.Title,
		Body:           n.Content,
		Data:           n.Payload,
		ChatID:         n.ChatID,
		SenderID:       n.SenderID,
		CreatedAt:      n.CreatedAt,
	})
	return nil
}

// GetNotificationList 分页拉取收件箱，时间倒序
func (s *notificationServiceImpl) GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.NotificationDTO, *dto.PageMeta, error) {
	page, pageSize = util.NormalizePage(page, pageSize, util.DefaultPageSize)
	limit := int64(pageSize)
	offset := int64(util.PageOffset(page, pageSize))

	list, total, err := s.notifyRepo.GetPage(ctx, userID, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	res := make([]*dto.NotificationDTO, 0, len(list))
	for _, n := range list {
		res = append(res, s.toDTO(n))
	}
	meta := &dto.PageMeta{
		Total: total,
		Page:  page,
		Limit: pageSize,
		Pages: util.PageCount(total, pageSize),
	}
	return res, meta, nil
}

func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.NotifyUnreadDTO, error) {
	count, err := s.notifyRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.NotifyUnreadDTO{Count: count}, nil
}

// MarkRead 标记单条已读，并向该用户所有在线连接同步已读状态
func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID uint64, notifyID string) error {
	oid, err := primitive.ObjectIDFromHex(notifyID)
	if err != nil {
		return ErrNotificationNotFound
	}

	now := time.Now()
	if err := s.notifyRepo.MarkAsRead(ctx, userID, oid, now); err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrNotificationNotFound
		}
		return err
	}

	s.push(userID, ws.EventNotificationRead, &dto.NotificationReadData{
		NotificationIDs: []string{notifyID},
		ReadAt:          now,
	})
	return nil
}

// MarkAllRead 全量已读：先收集未读 ID 用于推送，再落库
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	ids, err := s.notifyRepo.ListUnreadIDs(ctx, userID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	now := time.Now()
	if err := s.notifyRepo.MarkAllAsRead(ctx, userID, now); err != nil {
		return err
	}

	s.push(userID, ws.EventNotificationRead, &dto.NotificationReadData{
		NotificationIDs: ids,
		ReadAt:          now,
	})
	return nil
}

// Delete 删除通知，并向在线连接同步删除事件
func (s *notificationServiceImpl) Delete(ctx context.Context, userID uint64, notifyID string) error {
	oid, err := primitive.ObjectIDFromHex(notifyID)
	if err != nil {
		return ErrNotificationNotFound
	}

	if err := s.notifyRepo.Delete(ctx, userID, oid); err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrNotificationNotFound
		}
		return err
	}

	s.push(userID, ws.EventNotificationDeleted, &dto.NotificationDeletedData{
		NotificationID: notifyID,
		DeletedAt:      time.Now(),
	})
	return nil
}

// GetSettings 读取通知偏好，首次访问时落库默认值
func (s *notificationServiceImpl) GetSettings(ctx context.Context, userID uint64) (*dto.NotificationSettingsDTO, error) {
	settings, err := s.settingsRepo.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		settings = model.DefaultNotificationSettings(userID)
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	}
	return s.toSettingsDTO(settings), nil
}

// UpdateSettings 局部更新通知偏好，只动请求里显式出现的字段。
// MuteUntil 传零值表示清除定时免打扰。
func (s *notificationServiceImpl) UpdateSettings(ctx context.Context, userID uint64, req *dto.UpdateNotificationSettingsReq) (*dto.NotificationSettingsDTO, error) {
	if _, err := s.GetSettings(ctx, userID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.PushEnabled != nil {
		fields["push_enabled"] = *req.PushEnabled
	}
	if req.EmailEnabled != nil {
		fields["email_enabled"] = *req.EmailEnabled
	}
	if req.MessageEnabled != nil {
		fields["message_enabled"] = *req.MessageEnabled
	}
	if req.MentionEnabled != nil {
		fields["mention_enabled"] = *req.MentionEnabled
	}
	if req.GroupEventEnabled != nil {
		fields["group_event_enabled"] = *req.GroupEventEnabled
	}
	if req.CallEnabled != nil {
		fields["call_enabled"] = *req.CallEnabled
	}
	if req.ReactionEnabled != nil {
		fields["reaction_enabled"] = *req.ReactionEnabled
	}
	if req.PinEnabled != nil {
		fields["pin_enabled"] = *req.PinEnabled
	}
	if req.MuteAll != nil {
		fields["mute_all"] = *req.MuteAll
	}
	if req.MuteUntil != nil {
		if req.MuteUntil.IsZero() {
			fields["mute_until"] = nil
		} else {
			fields["mute_until"] = *req.MuteUntil
		}
	}
	if req.MutedChatIDs != nil {
		settings, err := s.settingsRepo.GetByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		settings.MutedChatIDs = *req.MutedChatIDs
		fields["muted_chat_ids"] = settings.MutedChatIDs
	}

	if err := s.settingsRepo.Updates(ctx, userID, fields); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toSettingsDTO(settings), nil
}

// loadSettings 推送判定用：没有记录时用内存默认值，不落库
func (s *notificationServiceImpl) loadSettings(ctx context.Context, userID uint64) *model.NotificationSettings {
	settings, err := s.settingsRepo.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("Failed to load notification settings", "userID", userID, "err", err)
		}
		return model.DefaultNotificationSettings(userID)
	}
	return settings
}

// push 序列化一次后广播到该用户全部在线连接，失败只记日志不上抛
func (s *notificationServiceImpl) push(userID uint64, event string, data any) {
	payload, err := ws.NewEvent(event, data).Marshal()
	if err != nil {
		log.Error("Failed to marshal push event", "event", event, "err", err)
		return
	}
	s.registry.Broadcast(userID, payload)
}

func (s *notificationServiceImpl) toDTO(n *mongo.Notification) *dto.NotificationDTO {
	return &dto.NotificationDTO{
		ID:        n.ID.Hex(),
		SenderID:  n.SenderID,
		ChatID:    n.ChatID,
		Category:  n.Category,
		Title:     n.Title,
		Content:   n.Content,
		Payload:   n.Payload,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func (s *notificationServiceImpl) toSettingsDTO(m *model.NotificationSettings) *dto.NotificationSettingsDTO {
	d := &dto.NotificationSettingsDTO{}
	_ = copier.Copy(d, m)
	if d.MutedChatIDs == nil {
		d.MutedChatIDs = []uint64{}
	}
	return d
}
