package service

import (
	"Converse/internal/api/dto"
	"Converse/internal/model"
	"Converse/internal/pkg/mongo"
	"Converse/internal/pkg/util"
	"Converse/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// MessageService 消息生命周期：发送、拉取、转发、状态推进、回应与置顶
type MessageService interface {
	SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	ListMessages(ctx context.Context, userID, chatID uint64, page, pageSize int) ([]*dto.MessageDTO, *dto.PageMeta, error)
	SyncMessages(ctx context.Context, userID, chatID uint64, lastSeq uint64, pageSize int) ([]*dto.MessageDTO, error)
	ForwardMessage(ctx context.Context, actorID uint64, req *dto.ForwardMessageReq) ([]*dto.MessageDTO, error)
	MarkDelivered(ctx context.Context, userID uint64, msgID string) error
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	MarkFailed(ctx context.Context, userID uint64, msgID string) error
	DeleteMessage(ctx context.Context, actorID uint64, msgID string) error

	AddReaction(ctx context.Context, actorID uint64, msgID string, emoji string) (*dto.ReactionDTO, error)
	RemoveReaction(ctx context.Context, actorID uint64, reactionID uint64) error
	ListReactions(ctx context.Context, userID uint64, msgID string) ([]*dto.ReactionDTO, error)

	PinMessage(ctx context.Context, actorID, chatID uint64, msgID string) error
	UnpinMessage(ctx context.Context, actorID, chatID uint64, msgID string) error
	ListPinnedMessages(ctx context.Context, userID, chatID uint64) ([]*dto.PinnedMessageDTO, error)

	SearchMessages(ctx context.Context, userID uint64, keyword string, chatID uint64, page, pageSize int) ([]*dto.MessageDTO, *dto.PageMeta, error)

	Close()
}

type messageServiceImpl struct {
	chatRepo        repository.ChatRepo
	participantRepo repository.ParticipantRepo
	permissionsRepo repository.PermissionsRepo
	reactionRepo    repository.ReactionRepo
	pinRepo         repository.PinRepo
	messageRepo     mongo.MessageRepo
	guard           *Guard
	notifySvc       NotificationService

	retryChan chan *mongo.Message
	wg        sync.WaitGroup
	stopChan  chan struct{}
}

// NewMessageService 构造函数：初始化服务并启动异步校准工作池
func NewMessageService(
	chatRepo repository.ChatRepo,
	participantRepo repository.ParticipantRepo,
	permissionsRepo repository.PermissionsRepo,
	reactionRepo repository.ReactionRepo,
	pinRepo repository.PinRepo,
	messageRepo mongo.MessageRepo,
	guard *Guard,
	notifySvc NotificationService,
) MessageService {
	s := &messageServiceImpl{
		chatRepo:        chatRepo,
		participantRepo: participantRepo,
		permissionsRepo: permissionsRepo,
		reactionRepo:    reactionRepo,
		pinRepo:         pinRepo,
		messageRepo:     messageRepo,
		guard:           guard,
		notifySvc:       notifySvc,
		retryChan:       make(chan *mongo.Message, 2048),
		stopChan:        make(chan struct{}),
	}

	workerCount := 5
	s.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go s.calibrationWorker()
	}

	return s
}

// SendMessage 发送消息：MySQL 原子定序，MongoDB 落明细，失败进重试队列。
// 会话的最新消息快照随定序一并更新。
func (s *messageServiceImpl) SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	chat, p, err := s.requireChatAndMember(ctx, req.ChatID, senderID)
	if err != nil {
		return nil, err
	}
	perms := s.loadPermissions(ctx, chat.ID)
	if !s.guard.CanModerate(p, perms, CapSendMessages) {
		return nil, ErrPermissionDenied
	}

	// 回复引用必须指向同会话内的消息
	if req.ReplyTo != "" {
		replied, err := s.messageRepo.GetByID(ctx, req.ReplyTo)
		if err != nil || replied.ChatID != chat.ID {
			return nil, ErrMessageNotFound
		}
	}

	// MySQL 原子定序
	newSeq, err := s.chatRepo.IncrMaxSeq(ctx, chat.ID, req.Content, req.MsgType, senderID)
	if err != nil {
		return nil, err
	}

	msgModel := &mongo.Message{
		ChatID:    chat.ID,
		SenderID:  senderID,
		MsgType:   req.MsgType,
		Status:    mongo.MsgStatusSent,
		Content:   req.Content,
		Payload:   toPayloads(req.Payload),
		ReplyTo:   req.ReplyTo,
		Seq:       newSeq,
		CreatedAt: time.Now(),
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.messageRepo.SaveMessage(writeCtx, msgModel); err != nil {
		select {
		case s.retryChan <- msgModel:
		default:
			log.Error("Retry queue full, message detail dropped", "chatID", chat.ID, "seq", newSeq)
		}
	}

	s.notifyMessage(chat, msgModel, req.Mentions)
	return toMessageDTO(msgModel), nil
}

// ListMessages 时间倒序分页拉取，软删除的消息保留占位
func (s *messageServiceImpl) ListMessages(ctx context.Context, userID, chatID uint64, page, pageSize int) ([]*dto.MessageDTO, *dto.PageMeta, error) {
	if _, _, err := s.requireChatAndMember(ctx, chatID, userID); err != nil {
		return nil, nil, err
	}
	page, pageSize = util.NormalizePage(page, pageSize, util.DefaultMessagePageSize)

	models, total, err := s.messageRepo.GetPage(ctx, chatID, int64(pageSize), int64(util.PageOffset(page, pageSize)))
	if err != nil {
		return nil, nil, err
	}

	res := make([]*dto.MessageDTO, 0, len(models))
	for _, m := range models {
		res = append(res, toMessageDTO(m))
	}
	meta := &dto.PageMeta{
		Total: total,
		Page:  page,
		Limit: pageSize,
		Pages: util.PageCount(total, pageSize),
	}
	return res, meta, nil
}

// SyncMessages 增量同步：拉取 seq 大于 lastSeq 的消息
func (s *messageServiceImpl) SyncMessages(ctx context.Context, userID, chatID uint64, lastSeq uint64, pageSize int) ([]*dto.MessageDTO, error) {
	if _, _, err := s.requireChatAndMember(ctx, chatID, userID); err != nil {
		return nil, err
	}
	_, pageSize = util.NormalizePage(1, pageSize, util.DefaultMessagePageSize)

	models, err := s.messageRepo.GetHistory(ctx, chatID, lastSeq, pageSize)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.MessageDTO, 0, len(models))
	for _, m := range models {
		res = append(res, toMessageDTO(m))
	}
	return res, nil
}

// ForwardMessage 转发到多个会话，全有或全无：
// 任何一个目标校验失败就整体拒绝，不产生部分拷贝。
func (s *messageServiceImpl) ForwardMessage(ctx context.Context, actorID uint64, req *dto.ForwardMessageReq) ([]*dto.MessageDTO, error) {
	original, err := s.messageRepo.GetByID(ctx, req.MessageID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if original.DeletedAt != nil {
		return nil, ErrMessageDeleted
	}

	// 源会话成员校验
	src, err := s.participantRepo.GetByChatAndUser(ctx, original.ChatID, actorID)
	if err != nil || !s.guard.IsParticipant(src) {
		return nil, ErrNotParticipant
	}

	// 目标预检：先全部校验，再动任何数据
	targets := make([]*model.Chat, 0, len(req.TargetChatIDs))
	for _, chatID := range req.TargetChatIDs {
		chat, p, err := s.requireChatAndMember(ctx, chatID, actorID)
		if err != nil {
			if errors.Is(err, ErrChatNotFound) || errors.Is(err, ErrNotParticipant) {
				return nil, ErrTargetChatInvalid
			}
			return nil, err
		}
		perms := s.loadPermissions(ctx, chat.ID)
		if !s.guard.CanModerate(p, perms, CapSendMessages) {
			return nil, ErrTargetChatInvalid
		}
		targets = append(targets, chat)
	}

	res := make([]*dto.MessageDTO, 0, len(targets))
	for _, chat := range targets {
		newSeq, err := s.chatRepo.IncrMaxSeq(ctx, chat.ID, original.Content, original.MsgType, actorID)
		if err != nil {
			return nil, err
		}
		copyModel := &mongo.Message{
			ChatID:   chat.ID,
			SenderID: actorID,
			MsgType:  original.MsgType,
			Status:   mongo.MsgStatusSent,
			Content:  original.Content,
			Payload:  original.Payload,
			Metadata: map[string]any{
				mongo.MetaForwardedFrom:  original.ID.Hex(),
				mongo.MetaOriginalSender: original.SenderID,
			},
			Seq:       newSeq,
			CreatedAt: time.Now(),
		}

		writeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = s.messageRepo.SaveMessage(writeCtx, copyModel)
		cancel()
		if err != nil {
			select {
			case s.retryChan <- copyModel:
			default:
				log.Error("Retry queue full, message detail dropped", "chatID", chat.ID, "seq", newSeq)
			}
		}

		s.notifyMessage(chat, copyModel, nil)
		res = append(res, toMessageDTO(copyModel))
	}
	return res, nil
}

// MarkDelivered 送达回执，状态只前进不后退
func (s *messageServiceImpl) MarkDelivered(ctx context.Context, userID uint64, msgID string) error {
	return s.advanceStatus(ctx, userID, msgID, mongo.MsgStatusDelivered)
}

// MarkRead 已读回执。FAILED 是终态，对 FAILED 消息标已读按无操作处理
func (s *messageServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	return s.advanceStatus(ctx, userID, msgID, mongo.MsgStatusRead)
}

// MarkFailed 发送端上报投递失败。只有发送者能标记自己的消息，
// 仅 SENT 状态会进入 FAILED 终态，已送达或已读的消息按无操作处理。
func (s *messageServiceImpl) MarkFailed(ctx context.Context, userID uint64, msgID string) error {
	msg, err := s.messageRepo.GetByID(ctx, msgID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrMessageNotFound
		}
		return err
	}
	if msg.SenderID != userID {
		return ErrPermissionDenied
	}
	return s.messageRepo.MarkFailed(ctx, msgID)
}

func (s *messageServiceImpl) advanceStatus(ctx context.Context, userID uint64, msgID string, target int8) error {
	msg, err := s.messageRepo.GetByID(ctx, msgID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrMessageNotFound
		}
		return err
	}

	p, err := s.participantRepo.GetByChatAndUser(ctx, msg.ChatID, userID)
	if err != nil || !s.guard.IsParticipant(p) {
		return ErrNotParticipant
	}

	// 逆向与 FAILED 上的回执都按无操作吞掉，乱序回执不报错
	return s.messageRepo.AdvanceStatus(ctx, msgID, target)
}

// DeleteMessage 软删除：发送者可删自己的，其余按群能力开关判定。
// 记录保留，历史分页照常返回占位。
func (s *messageServiceImpl) DeleteMessage(ctx context.Context, actorID uint64, msgID string) error {
	msg, err := s.messageRepo.GetByID(ctx, msgID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrMessageNotFound
		}
		return err
	}
	if msg.DeletedAt != nil {
		return ErrMessageDeleted
	}

	p, err := s.participantRepo.GetByChatAndUser(ctx, msg.ChatID, actorID)
	if err != nil || !s.guard.IsParticipant(p) {
		return ErrNotParticipant
	}
	if msg.SenderID != actorID {
		perms := s.loadPermissions(ctx, msg.ChatID)
		if !s.guard.CanModerate(p, perms, CapDeleteMessages) {
			return ErrPermissionDenied
		}
	}

	return s.messageRepo.SoftDelete(ctx, msgID, time.Now())
}

// AddReaction 一人一条，重复添加覆盖表情
func (s *messageServiceImpl) AddReaction(ctx context.Context, actorID uint64, msgID string, emoji string) (*dto.ReactionDTO, error) {
	msg, err := s.messageRepo.GetByID(ctx, msgID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if msg.DeletedAt != nil {
		return nil, ErrMessageDeleted
	}

	p, err := s.participantRepo.GetByChatAndUser(ctx, msg.ChatID, actorID)
	if err != nil || !s.guard.IsParticipant(p) {
		return nil, ErrNotParticipant
	}

	r := &model.Reaction{
		MessageID: msgID,
		ChatID:    msg.ChatID,
		UserID:    actorID,
		Emoji:     emoji,
	}
	if err := s.reactionRepo.Upsert(ctx, r); err != nil {
		return nil, err
	}

	if msg.SenderID != actorID {
		s.notifyReaction(msg, actorID, emoji)
	}
	return toReactionDTO(r), nil
}

// RemoveReaction 只能移除自己的表情回应
func (s *messageServiceImpl) RemoveReaction(ctx context.Context, actorID uint64, reactionID uint64) error {
	r, err := s.reactionRepo.GetByID(ctx, reactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReactionNotFound
		}
		return err
	}
	if r.UserID != actorID {
		return ErrReactionNotOwned
	}
	if err := s.reactionRepo.Delete(ctx, reactionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReactionNotFound
		}
		return err
	}
	return nil
}

func (s *messageServiceImpl) ListReactions(ctx context.Context, userID uint64, msgID string) ([]*dto.ReactionDTO, error) {
	msg, err := s.messageRepo.GetByID(ctx, msgID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	p, err := s.participantRepo.GetByChatAndUser(ctx, msg.ChatID, userID)
	if err != nil || !s.guard.IsParticipant(p) {
		return nil, ErrNotParticipant
	}

	list, err := s.reactionRepo.ListByMessage(ctx, msgID)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ReactionDTO, 0, len(list))
	for _, r := range list {
		res = append(res, toReactionDTO(r))
	}
	return res, nil
}

// PinMessage 置顶，仅管理员。消息必须属于给定会话，跨会话按 NotFound 处理
func (s *messageServiceImpl) PinMessage(ctx context.Context, actorID, chatID uint64, msgID string) error {
	_, p, err := s.requireChatAndMember(ctx, chatID, actorID)
	if err != nil {
		return err
	}
	if !s.guard.IsAdmin(p) {
		return ErrAdminRequired
	}

	msg, err := s.messageRepo.GetByID(ctx, msgID)
	if err != nil || msg.ChatID != chatID {
		return ErrMessageNotFound
	}
	if msg.DeletedAt != nil {
		return ErrMessageDeleted
	}

	if _, err := s.pinRepo.GetByChatAndMessage(ctx, chatID, msgID); err == nil {
		return ErrAlreadyPinned
	}
	err = s.pinRepo.Create(ctx, &model.PinnedMessage{
		ChatID:    chatID,
		MessageID: msgID,
		PinnedBy:  actorID,
	})
	if err != nil {
		// 并发重复置顶由唯一索引兜底
		if isDuplicateError(err) {
			return ErrAlreadyPinned
		}
		return err
	}
	return nil
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// UnpinMessage 取消置顶，仅管理员。重复取消按 NotFound 处理
func (s *messageServiceImpl) UnpinMessage(ctx context.Context, actorID, chatID uint64, msgID string) error {
	_, p, err := s.requireChatAndMember(ctx, chatID, actorID)
	if err != nil {
		return err
	}
	if !s.guard.IsAdmin(p) {
		return ErrAdminRequired
	}

	pin, err := s.pinRepo.GetByChatAndMessage(ctx, chatID, msgID)
	if err != nil {
		return ErrPinNotFound
	}
	if err := s.pinRepo.Delete(ctx, pin.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPinNotFound
		}
		return err
	}
	return nil
}

// ListPinnedMessages 置顶列表，附带消息明细
func (s *messageServiceImpl) ListPinnedMessages(ctx context.Context, userID, chatID uint64) ([]*dto.PinnedMessageDTO, error) {
	if _, _, err := s.requireChatAndMember(ctx, chatID, userID); err != nil {
		return nil, err
	}

	pins, err := s.pinRepo.ListByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.PinnedMessageDTO, 0, len(pins))
	for _, pin := range pins {
		d := &dto.PinnedMessageDTO{
			ChatID:    pin.ChatID,
			MessageID: pin.MessageID,
			PinnedBy:  pin.PinnedBy,
			PinnedAt:  pin.CreatedAt,
		}
		if msg, err := s.messageRepo.GetByID(ctx, pin.MessageID); err == nil {
			d.Message = toMessageDTO(msg)
		}
		res = append(res, d)
	}
	return res, nil
}

// SearchMessages 内容大小写不敏感模糊搜索。
// chatID 为 0 时搜自己所有会话；指定的会话不存在或不可见时返回空页而不报错。
func (s *messageServiceImpl) SearchMessages(ctx context.Context, userID uint64, keyword string, chatID uint64, page, pageSize int) ([]*dto.MessageDTO, *dto.PageMeta, error) {
	page, pageSize = util.NormalizePage(page, pageSize, util.DefaultMessagePageSize)

	var chatIDs []uint64
	if chatID > 0 {
		p, err := s.participantRepo.GetByChatAndUser(ctx, chatID, userID)
		if err == nil && s.guard.IsParticipant(p) {
			chatIDs = []uint64{chatID}
		}
	} else {
		members, err := s.chatRepo.GetUserChatMemberships(ctx, userID)
		if err != nil {
			return nil, nil, err
		}
		for _, m := range members {
			chatIDs = append(chatIDs, m.ChatID)
		}
	}

	models, total, err := s.messageRepo.SearchByContent(ctx, chatIDs, keyword, int64(pageSize), int64(util.PageOffset(page, pageSize)))
	if err != nil {
		return nil, nil, err
	}

	res := make([]*dto.MessageDTO, 0, len(models))
	for _, m := range models {
		res = append(res, toMessageDTO(m))
	}
	meta := &dto.PageMeta{
		Total: total,
		Page:  page,
		Limit: pageSize,
		Pages: util.PageCount(total, pageSize),
	}
	return res, meta, nil
}

// Close 停止校准工作池并等待排空
func (s *messageServiceImpl) Close() {
	close(s.stopChan)
	s.wg.Wait()
	log.Info("MessageService shut down gracefully")
}

// calibrationWorker 消费重试队列，指数退避补写 MongoDB
func (s *messageServiceImpl) calibrationWorker() {
	defer s.wg.Done()
	for {
		select {
		case msg := <-s.retryChan:
			backoff := time.Second
			for i := 0; i < 3; i++ {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err := s.messageRepo.SaveMessage(ctx, msg)
				cancel()
				if err == nil {
					break
				}
				if i == 2 {
					log.Error("Message calibration exhausted retries", "chatID", msg.ChatID, "seq", msg.Seq, "err", err)
					break
				}
				time.Sleep(backoff)
				backoff *= 2
			}
		case <-s.stopChan:
			return
		}
	}
}

// notifyMessage 给会话内其他成员投递新消息/被提及通知
func (s *messageServiceImpl) notifyMessage(chat *model.Chat, msg *mongo.Message, mentions []uint64) {
	mentioned := make(map[uint64]bool, len(mentions))
	for _, id := range mentions {
		mentioned[id] = true
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		memberIDs, err := s.participantRepo.CurrentMemberIDs(ctx, chat.ID)
		if err != nil {
			log.Error("Failed to load members for message notify", "chatID", chat.ID, "err", err)
			return
		}
		for _, id := range memberIDs {
			if id == msg.SenderID {
				continue
			}
			category := model.NotifyCategoryMessage
			if mentioned[id] {
				category = model.NotifyCategoryMention
			}
			n := &mongo.Notification{
				ReceiverID: id,
				SenderID:   msg.SenderID,
				ChatID:     chat.ID,
				Category:   category,
				Title:      chat.Name,
				Content:    previewContent(msg),
				Payload:    map[string]any{"message_id": msg.ID.Hex(), "seq": msg.Seq},
			}
			if err := s.notifySvc.Dispatch(ctx, n); err != nil {
				log.Error("Failed to dispatch message notification", "chatID", chat.ID, "receiver", id, "err", err)
			}
		}
	}()
}

// notifyReaction 通知消息作者收到了表情回应
func (s *messageServiceImpl) notifyReaction(msg *mongo.Message, actorID uint64, emoji string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		n := &mongo.Notification{
			ReceiverID: msg.SenderID,
			SenderID:   actorID,
			ChatID:     msg.ChatID,
			Category:   model.NotifyCategoryReaction,
			Content:    emoji,
			Payload:    map[string]any{"message_id": msg.ID.Hex()},
		}
		if err := s.notifySvc.Dispatch(ctx, n); err != nil {
			log.Error("Failed to dispatch reaction notification", "messageID", msg.ID.Hex(), "err", err)
		}
	}()
}

// requireChatAndMember 会话必须存在且操作者是当前成员
func (s *messageServiceImpl) requireChatAndMember(ctx context.Context, chatID, userID uint64) (*model.Chat, *model.ChatParticipant, error) {
	chat, err := s.chatRepo.GetChat(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrChatNotFound
		}
		return nil, nil, err
	}
	p, err := s.participantRepo.GetByChatAndUser(ctx, chatID, userID)
	if err != nil || !s.guard.IsParticipant(p) {
		return nil, nil, ErrNotParticipant
	}
	return chat, p, nil
}

func (s *messageServiceImpl) loadPermissions(ctx context.Context, chatID uint64) *model.GroupPermissions {
	perms, err := s.permissionsRepo.GetByChat(ctx, chatID)
	if err != nil {
		return nil
	}
	return perms
}

// previewContent 通知文案截断，媒体消息用占位文案
func previewContent(msg *mongo.Message) string {
	if msg.MsgType != mongo.MsgTypeText {
		return "[媒体消息]"
	}
	content := []rune(msg.Content)
	if len(content) > 64 {
		return string(content[:64])
	}
	return msg.Content
}

func toMessageDTO(m *mongo.Message) *dto.MessageDTO {
	return &dto.MessageDTO{
		ID:        m.ID.Hex(),
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		MsgType:   m.MsgType,
		Status:    m.Status,
		Content:   m.Content,
		Payload:   toPayloadDTOs(m.Payload),
		Metadata:  m.Metadata,
		ReplyTo:   m.ReplyTo,
		Seq:       m.Seq,
		CreatedAt: m.CreatedAt,
		DeletedAt: m.DeletedAt,
	}
}

func toReactionDTO(r *model.Reaction) *dto.ReactionDTO {
	return &dto.ReactionDTO{
		ID:        r.ID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     r.Emoji,
		CreatedAt: r.CreatedAt,
	}
}

func toPayloads(in []dto.PayloadDTO) []mongo.Payload {
	if len(in) == 0 {
		return nil
	}
	res := make([]mongo.Payload, 0, len(in))
	for _, p := range in {
		res = append(res, mongo.Payload{
			MimeType: p.MimeType,
			MediaURL: p.MediaURL,
			Width:    p.Width,
			Height:   p.Height,
			Duration: p.Duration,
			CoverURL: p.CoverURL,
		})
	}
	return res
}

func toPayloadDTOs(in []mongo.Payload) []dto.PayloadDTO {
	if len(in) == 0 {
		return nil
	}
	res := make([]dto.PayloadDTO, 0, len(in))
	for _, p := range in {
		res = append(res, dto.PayloadDTO{
			MimeType: p.MimeType,
			MediaURL: p.MediaURL,
			Width:    p.Width,
			Height:   p.Height,
			Duration: p.Duration,
			CoverURL: p.CoverURL,
		})
	}
	return res
}
