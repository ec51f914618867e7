package service

import (
	"Converse/internal/api/dto"
	"Converse/internal/model"
	"Converse/internal/pkg/consts"
	"Converse/internal/pkg/mongo"
	"Converse/internal/pkg/redis"
	"Converse/internal/pkg/util"
	"Converse/internal/repository"
	"Converse/internal/ws"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatService 会话生命周期与成员治理
type ChatService interface {
	CreateDirectChat(ctx context.Context, userID, targetUserID uint64) (*dto.ChatDTO, error)
	CreateGroupChat(ctx context.Context, creatorID uint64, req *dto.CreateGroupChatReq) (*dto.ChatDTO, error)
	GetChat(ctx context.Context, userID, chatID uint64) (*dto.ChatDTO, error)
	GetConversationList(ctx context.Context, userID uint64) ([]*dto.ChatListItemDTO, error)
	UpdateChatInfo(ctx context.Context, actorID, chatID uint64, req *dto.UpdateChatInfoReq) (*dto.ChatDTO, error)

	ListParticipants(ctx context.Context, userID, chatID uint64) ([]*dto.ParticipantDTO, error)
	AddParticipant(ctx context.Context, actorID, chatID, targetUserID uint64) error
	RemoveParticipant(ctx context.Context, actorID, chatID, targetUserID uint64) error
	UpdateParticipantRole(ctx context.Context, actorID, chatID, targetUserID uint64, role string) error
	LeaveChat(ctx context.Context, userID, chatID uint64) error

	GetGroupPermissions(ctx context.Context, userID, chatID uint64) (*dto.GroupPermissionsDTO, error)
	UpdateGroupPermissions(ctx context.Context, actorID, chatID uint64, req *dto.UpdatePermissionsReq) (*dto.GroupPermissionsDTO, error)

	SearchChats(ctx context.Context, userID uint64, keyword string, page, pageSize int) ([]*dto.ChatDTO, *dto.PageMeta, error)
	GetUnreadCount(ctx context.Context, userID uint64, chatIDs []uint64) (*dto.UnreadSummaryDTO, error)
	MarkChatRead(ctx context.Context, userID, chatID uint64, seq *uint64) error
}

type chatServiceImpl struct {
	chatRepo        repository.ChatRepo
	participantRepo repository.ParticipantRepo
	permissionsRepo repository.PermissionsRepo
	guard           *Guard
	notifySvc       NotificationService
	registry        *ws.Registry
}

func NewChatService(
	chatRepo repository.ChatRepo,
	participantRepo repository.ParticipantRepo,
	permissionsRepo repository.PermissionsRepo,
	guard *Guard,
	notifySvc NotificationService,
	registry *ws.Registry,
) ChatService {
	return &chatServiceImpl{
		chatRepo:        chatRepo,
		participantRepo: participantRepo,
		permissionsRepo: permissionsRepo,
		guard:           guard,
		notifySvc:       notifySvc,
		registry:        registry,
	}
}

// CreateDirectChat 获取或创建单聊。
// PeerKey 是无序对唯一键，配合分布式锁和唯一索引保证并发下只产生一条会话。
// 单聊双方都是 ADMIN，互相拥有全部操作权限。
func (s *chatServiceImpl) CreateDirectChat(ctx context.Context, userID, targetUserID uint64) (*dto.ChatDTO, error) {
	if targetUserID == 0 || targetUserID == userID {
		return nil, ErrDirectChatSelf
	}
	peerKey := buildPeerKey(userID, targetUserID)

	if chat, err := s.chatRepo.GetChatByPeerKey(ctx, peerKey); err == nil {
		return s.toChatDTO(chat, userID), nil
	}

	lockVal := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.DirectChatLock+peerKey, lockVal, 3*time.Second, 3)
	if err != nil || !locked {
		return nil, UnExpectedError
	}
	defer redis.UnLock(ctx, consts.DirectChatLock+peerKey, lockVal)

	// 拿到锁后二次确认，对手方可能同时发起
	if chat, err := s.chatRepo.GetChatByPeerKey(ctx, peerKey); err == nil {
		return s.toChatDTO(chat, userID), nil
	}

	now := time.Now()
	chat := &model.Chat{
		Type:          model.ChatTypeDirect,
		PeerKey:       &peerKey,
		CreatorID:     userID,
		LastMessageAt: now,
	}
	members := []*model.ChatParticipant{
		{UserID: userID, Role: model.RoleAdmin, JoinedAt: now},
		{UserID: targetUserID, Role: model.RoleAdmin, JoinedAt: now},
	}
	if err := s.chatRepo.CreateChat(ctx, chat, members); err != nil {
		return nil, err
	}
	return s.toChatDTO(chat, userID), nil
}

// CreateGroupChat 创建群聊，创建者为 ADMIN，其余成员为 MEMBER
func (s *chatServiceImpl) CreateGroupChat(ctx context.Context, creatorID uint64, req *dto.CreateGroupChatReq) (*dto.ChatDTO, error) {
	now := time.Now()
	chat := &model.Chat{
		Type:          model.ChatTypeGroup,
		Name:          req.Name,
		AvatarURL:     req.AvatarURL,
		CreatorID:     creatorID,
		LastMessageAt: now,
	}

	members := []*model.ChatParticipant{
		{UserID: creatorID, Role: model.RoleAdmin, JoinedAt: now},
	}
	for _, id := range req.MemberIDs {
		if id == creatorID || id == 0 {
			continue
		}
		members = append(members, &model.ChatParticipant{UserID: id, Role: model.RoleMember, JoinedAt: now})
	}

	if err := s.chatRepo.CreateChat(ctx, chat, members); err != nil {
		return nil, err
	}
	return s.toChatDTO(chat, creatorID), nil
}

// GetChat 会话不存在报 NotFound，存在但非成员报 Forbidden
func (s *chatServiceImpl) GetChat(ctx context.Context, userID, chatID uint64) (*dto.ChatDTO, error) {
	chat, p, err := s.fetchChatAndMember(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if !s.guard.IsParticipant(p) {
		return nil, ErrNotParticipant
	}
	return s.toChatDTO(chat, userID), nil
}

// GetConversationList 会话列表，含未读数与静音/置顶标记
func (s *chatServiceImpl) GetConversationList(ctx context.Context, userID uint64) ([]*dto.ChatListItemDTO, error) {
	members, err := s.chatRepo.GetUserChatMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatListItemDTO, 0, len(members))
	for _, m := range members {
		d := &dto.ChatListItemDTO{
			ChatID:         m.ChatID,
			Type:           m.Chat.Type,
			Name:           m.Chat.Name,
			AvatarURL:      m.Chat.AvatarURL,
			Role:           m.Role,
			LastMsgContent: m.Chat.LastMsgContent,
			LastMsgType:    m.Chat.LastMsgType,
			LastSenderID:   m.Chat.LastSenderID,
			LastMessageAt:  m.Chat.LastMessageAt,
			UnreadCount:    m.UnreadCount,
			IsMuted:        m.IsMuted == 1,
			IsPinned:       m.IsPinned == 1,
		}
		if m.Chat.Type == model.ChatTypeDirect {
			d.PeerID, _ = parsePeerID(m.Chat.PeerKey, userID)
		}
		res = append(res, d)
	}
	return res, nil
}

// UpdateChatInfo 修改群名/头像，只动请求里显式出现的字段
func (s *chatServiceImpl) UpdateChatInfo(ctx context.Context, actorID, chatID uint64, req *dto.UpdateChatInfoReq) (*dto.ChatDTO, error) {
	chat, p, err := s.fetchChatAndMember(ctx, chatID, actorID)
	if err != nil {
		return nil, err
	}
	if chat.Type != model.ChatTypeGroup {
		return nil, ErrGroupOnly
	}
	perms := s.loadPermissions(ctx, chatID)
	if !s.guard.CanModerate(p, perms, CapEditGroupInfo) {
		return nil, ErrPermissionDenied
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrParamInvalid
		}
		fields["name"] = *req.Name
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}
	if err := s.chatRepo.UpdateChatInfo(ctx, chatID, fields); err != nil {
		return nil, err
	}

	chat, err = s.chatRepo.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return s.toChatDTO(chat, actorID), nil
}

// ListParticipants 当前成员列表，已退出的不出现
func (s *chatServiceImpl) ListParticipants(ctx context.Context, userID, chatID uint64) ([]*dto.ParticipantDTO, error) {
	_, p, err := s.fetchChatAndMember(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if !s.guard.IsParticipant(p) {
		return nil, ErrNotParticipant
	}

	list, err := s.participantRepo.ListCurrent(ctx, chatID)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ParticipantDTO, 0, len(list))
	for _, m := range list {
		res = append(res, &dto.ParticipantDTO{
			UserID:     m.UserID,
			Role:       m.Role,
			ReadMsgSeq: m.ReadMsgSeq,
			JoinedAt:   m.JoinedAt,
		})
	}
	return res, nil
}

// AddParticipant 拉人入群，曾退出的成员重新入群
func (s *chatServiceImpl) AddParticipant(ctx context.Context, actorID, chatID, targetUserID uint64) error {
	chat, p, err := s.fetchChatAndMember(ctx, chatID, actorID)
	if err != nil {
		return err
	}
	if chat.Type != model.ChatTypeGroup {
		return ErrGroupOnly
	}
	perms := s.loadPermissions(ctx, chatID)
	if !s.guard.CanModerate(p, perms, CapAddMembers) {
		return ErrPermissionDenied
	}

	if target, err := s.participantRepo.GetByChatAndUser(ctx, chatID, targetUserID); err == nil && !target.IsLeft() {
		return ErrParticipantExist
	}
	if err := s.participantRepo.Add(ctx, chatID, targetUserID, model.RoleMember); err != nil {
		return err
	}

	s.notifyGroupEvent(chat, actorID, targetUserID, fmt.Sprintf("用户 %d 加入了群聊", targetUserID))
	return nil
}

// RemoveParticipant 踢人，仅管理员可操作。
// 目标不在本群时报 NotFound，即使这个用户存在于其他会话。
func (s *chatServiceImpl) RemoveParticipant(ctx context.Context, actorID, chatID, targetUserID uint64) error {
	chat, p, err := s.fetchChatAndMember(ctx, chatID, actorID)
	if err != nil {
		return err
	}
	if chat.Type != model.ChatTypeGroup {
		return ErrGroupOnly
	}
	if !s.guard.IsAdmin(p) {
		return ErrAdminRequired
	}

	target, err := s.participantRepo.GetByChatAndUser(ctx, chatID, targetUserID)
	if err != nil || target.IsLeft() {
		return ErrParticipantNotFound
	}

	if err := s.participantRepo.Remove(ctx, chatID, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}

	s.notifyGroupEvent(chat, actorID, targetUserID, fmt.Sprintf("用户 %d 被移出群聊", targetUserID))
	return nil
}

// UpdateParticipantRole 调整角色，仅管理员可操作
func (s *chatServiceImpl) UpdateParticipantRole(ctx context.Context, actorID, chatID, targetUserID uint64, role string) error {
	if role != model.RoleAdmin && role != model.RoleMember {
		return ErrParamInvalid
	}

	_, p, err := s.fetchChatAndMember(ctx, chatID, actorID)
	if err != nil {
		return err
	}
	if !s.guard.IsAdmin(p) {
		return ErrAdminRequired
	}

	target, err := s.participantRepo.GetByChatAndUser(ctx, chatID, targetUserID)
	if err != nil || target.IsLeft() {
		return ErrParticipantNotFound
	}

	return s.participantRepo.UpdateRole(ctx, chatID, targetUserID, role)
}

// LeaveChat 主动退出群聊
func (s *chatServiceImpl) LeaveChat(ctx context.Context, userID, chatID uint64) error {
	chat, p, err := s.fetchChatAndMember(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if chat.Type != model.ChatTypeGroup {
		return ErrGroupOnly
	}
	if !s.guard.IsParticipant(p) {
		return ErrNotParticipant
	}

	if err := s.participantRepo.Remove(ctx, chatID, userID); err != nil {
		return err
	}

	s.notifyGroupEvent(chat, userID, userID, fmt.Sprintf("用户 %d 退出了群聊", userID))
	return nil
}

// GetGroupPermissions 查看群能力开关，未显式配置时返回默认值
func (s *chatServiceImpl) GetGroupPermissions(ctx context.Context, userID, chatID uint64) (*dto.GroupPermissionsDTO, error) {
	chat, p, err := s.fetchChatAndMember(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if chat.Type != model.ChatTypeGroup {
		return nil, ErrGroupOnly
	}
	if !s.guard.IsParticipant(p) {
		return nil, ErrNotParticipant
	}

	perms := s.loadPermissions(ctx, chatID)
	if perms == nil {
		perms = model.DefaultGroupPermissions(chatID)
	}
	return toPermissionsDTO(perms), nil
}

// UpdateGroupPermissions 仅管理员可改。首次调用落库默认值再合并，
// 请求里没出现的开关保持不变。
func (s *chatServiceImpl) UpdateGroupPermissions(ctx context.Context, actorID, chatID uint64, req *dto.UpdatePermissionsReq) (*dto.GroupPermissionsDTO, error) {
	chat, p, err := s.fetchChatAndMember(ctx, chatID, actorID)
	if err != nil {
		return nil, err
	}
	if chat.Type != model.ChatTypeGroup {
		return nil, ErrGroupOnly
	}
	if !s.guard.IsAdmin(p) {
		return nil, ErrAdminRequired
	}

	if _, err := s.permissionsRepo.GetByChat(ctx, chatID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.permissionsRepo.Create(ctx, model.DefaultGroupPermissions(chatID)); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{}
	if req.CanSendMessages != nil {
		fields["can_send_messages"] = *req.CanSendMessages
	}
	if req.CanAddMembers != nil {
		fields["can_add_members"] = *req.CanAddMembers
	}
	if req.CanRemoveMembers != nil {
		fields["can_remove_members"] = *req.CanRemoveMembers
	}
	if req.CanEditGroupInfo != nil {
		fields["can_edit_group_info"] = *req.CanEditGroupInfo
	}
	if req.CanPinMessages != nil {
		fields["can_pin_messages"] = *req.CanPinMessages
	}
	if req.CanDeleteMessages != nil {
		fields["can_delete_messages"] = *req.CanDeleteMessages
	}
	if err := s.permissionsRepo.Updates(ctx, chatID, fields); err != nil {
		return nil, err
	}

	perms, err := s.permissionsRepo.GetByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return toPermissionsDTO(perms), nil
}

// SearchChats 按名称大小写不敏感模糊搜索自己所在的会话
func (s *chatServiceImpl) SearchChats(ctx context.Context, userID uint64, keyword string, page, pageSize int) ([]*dto.ChatDTO, *dto.PageMeta, error) {
	page, pageSize = util.NormalizePage(page, pageSize, util.DefaultPageSize)

	chats, total, err := s.chatRepo.SearchByName(ctx, userID, keyword, pageSize, util.PageOffset(page, pageSize))
	if err != nil {
		return nil, nil, err
	}

	res := make([]*dto.ChatDTO, 0, len(chats))
	for _, c := range chats {
		res = append(res, s.toChatDTO(c, userID))
	}
	meta := &dto.PageMeta{
		Total: total,
		Page:  page,
		Limit: pageSize,
		Pages: util.PageCount(total, pageSize),
	}
	return res, meta, nil
}

// GetUnreadCount 未读汇总：总数 + 指定会话的逐会话明细
func (s *chatServiceImpl) GetUnreadCount(ctx context.Context, userID uint64, chatIDs []uint64) (*dto.UnreadSummaryDTO, error) {
	total, err := s.chatRepo.GetTotalUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &dto.UnreadSummaryDTO{
		Total: total,
		Chats: make([]dto.ChatUnreadDTO, 0, len(chatIDs)),
	}
	if len(chatIDs) == 0 {
		return res, nil
	}

	counts, err := s.chatRepo.GetUnreadByChats(ctx, userID, chatIDs)
	if err != nil {
		return nil, err
	}
	// 按入参顺序回填
	for _, id := range chatIDs {
		res.Chats = append(res.Chats, dto.ChatUnreadDTO{ChatID: id, UnreadCount: counts[id]})
	}
	return res, nil
}

// MarkChatRead 推进已读进度，seq 缺省或越界时取会话最大序号。
// 已读进度只前进不后退，并向其他成员广播已读回执。
func (s *chatServiceImpl) MarkChatRead(ctx context.Context, userID, chatID uint64, seq *uint64) error {
	chat, p, err := s.fetchChatAndMember(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !s.guard.IsParticipant(p) {
		return ErrNotParticipant
	}

	targetSeq := chat.MaxMsgSeq
	if seq != nil && *seq < chat.MaxMsgSeq {
		targetSeq = *seq
	}
	if targetSeq <= p.ReadMsgSeq {
		return nil
	}

	if err := s.participantRepo.UpdateReadSeq(ctx, chatID, userID, targetSeq); err != nil {
		return err
	}

	go s.publishReadReceipt(chatID, userID, targetSeq)
	return nil
}

// publishReadReceipt 把已读回执推给会话内其他在线成员
func (s *chatServiceImpl) publishReadReceipt(chatID, userID, seq uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	memberIDs, err := s.participantRepo.CurrentMemberIDs(ctx, chatID)
	if err != nil {
		log.Error("Failed to load members for read receipt", "chatID", chatID, "err", err)
		return
	}

	payload, err := ws.NewEvent(ws.EventReadReceipt, &dto.ReadReceiptDTO{
		ChatID:  chatID,
		UserID:  userID,
		ReadSeq: seq,
	}).Marshal()
	if err != nil {
		return
	}
	for _, id := range memberIDs {
		if id == userID {
			continue
		}
		s.registry.Broadcast(id, payload)
	}
}

// notifyGroupEvent 向会话内其他成员投递群事件通知，失败不影响主流程
func (s *chatServiceImpl) notifyGroupEvent(chat *model.Chat, actorID, subjectID uint64, content string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		memberIDs, err := s.participantRepo.CurrentMemberIDs(ctx, chat.ID)
		if err != nil {
			log.Error("Failed to load members for group event", "chatID", chat.ID, "err", err)
			return
		}
		for _, id := range memberIDs {
			if id == actorID {
				continue
			}
			n := &mongo.Notification{
				ReceiverID: id,
				SenderID:   actorID,
				ChatID:     chat.ID,
				Category:   model.NotifyCategoryGroupEvent,
				Title:      chat.Name,
				Content:    content,
				Payload:    map[string]any{"subject_id": strconv.FormatUint(subjectID, 10)},
			}
			if err := s.notifySvc.Dispatch(ctx, n); err != nil {
				log.Error("Failed to dispatch group event", "chatID", chat.ID, "receiver", id, "err", err)
			}
		}
	}()
}

// fetchChatAndMember 取会话与操作者成员记录。
// 会话不存在直接报 NotFound；成员记录允许为 nil（含已退出），由调用方判定。
func (s *chatServiceImpl) fetchChatAndMember(ctx context.Context, chatID, userID uint64) (*model.Chat, *model.ChatParticipant, error) {
	chat, err := s.chatRepo.GetChat(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrChatNotFound
		}
		return nil, nil, err
	}
	p, err := s.participantRepo.GetByChatAndUser(ctx, chatID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat, nil, nil
		}
		return nil, nil, err
	}
	return chat, p, nil
}

// loadPermissions 读群能力开关，未配置时返回 nil，由 Guard 按默认值判定
func (s *chatServiceImpl) loadPermissions(ctx context.Context, chatID uint64) *model.GroupPermissions {
	perms, err := s.permissionsRepo.GetByChat(ctx, chatID)
	if err != nil {
		return nil
	}
	return perms
}

func (s *chatServiceImpl) toChatDTO(chat *model.Chat, userID uint64) *dto.ChatDTO {
	d := &dto.ChatDTO{
		ID:             chat.ID,
		Type:           chat.Type,
		Name:           chat.Name,
		AvatarURL:      chat.AvatarURL,
		CreatorID:      chat.CreatorID,
		ParticipantIDs: chat.ParticipantIDs,
		LastMsgContent: chat.LastMsgContent,
		LastMsgType:    chat.LastMsgType,
		LastSenderID:   chat.LastSenderID,
		LastMessageAt:  chat.LastMessageAt,
		CreatedAt:      chat.CreatedAt,
	}
	if chat.Type == model.ChatTypeDirect {
		d.PeerID, _ = parsePeerID(chat.PeerKey, userID)
	}
	return d
}

func toPermissionsDTO(p *model.GroupPermissions) *dto.GroupPermissionsDTO {
	return &dto.GroupPermissionsDTO{
		ChatID:            p.ChatID,
		CanSendMessages:   p.CanSendMessages,
		CanAddMembers:     p.CanAddMembers,
		CanRemoveMembers:  p.CanRemoveMembers,
		CanEditGroupInfo:  p.CanEditGroupInfo,
		CanPinMessages:    p.CanPinMessages,
		CanDeleteMessages: p.CanDeleteMessages,
	}
}

// buildPeerKey 单聊无序对唯一键，低 ID 在前
func buildPeerKey(a, b uint64) string {
	if a < b {
		return fmt.Sprintf("%d_%d", a, b)
	}
	return fmt.Sprintf("%d_%d", b, a)
}

// parsePeerID 从 PeerKey 解析出对手方 ID
func parsePeerID(peerKey *string, selfID uint64) (uint64, error) {
	if peerKey == nil {
		return 0, fmt.Errorf("missing peer key")
	}
	parts := strings.Split(*peerKey, "_")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid peer key: %s", *peerKey)
	}
	a, err1 := strconv.ParseUint(parts[0], 10, 64)
	b, err2 := strconv.ParseUint(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		return 0, fmt.Errorf("invalid peer key: %s", *peerKey)
	}
	if a == selfID {
		return b, nil
	}
	return a, nil
}
