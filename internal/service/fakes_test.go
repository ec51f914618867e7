package service

import (
	"Converse/internal/model"
	"Converse/internal/pkg/mongo"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// 内存版仓储，与生产实现满足同一套接口契约

type memChatRepo struct {
	mu      sync.Mutex
	nextID  uint64
	chats   map[uint64]*model.Chat
	peerIdx map[string]uint64
	members *memParticipantRepo
}

func newMemChatRepo(members *memParticipantRepo) *memChatRepo {
	return &memChatRepo{
		nextID:  1,
		chats:   make(map[uint64]*model.Chat),
		peerIdx: make(map[string]uint64),
		members: members,
	}
}

func (r *memChatRepo) CreateChat(_ context.Context, chat *model.Chat, members []*model.ChatParticipant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat.ID = r.nextID
	r.nextID++
	chat.CreatedAt = time.Now()
	for _, m := range members {
		m.ChatID = chat.ID
		chat.ParticipantIDs = append(chat.ParticipantIDs, m.UserID)
		r.members.put(m)
	}
	r.chats[chat.ID] = chat
	if chat.PeerKey != nil {
		r.peerIdx[*chat.PeerKey] = chat.ID
	}
	return nil
}

func (r *memChatRepo) GetChat(_ context.Context, chatID uint64) (*model.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *chat
	return &cp, nil
}

func (r *memChatRepo) GetChatByPeerKey(_ context.Context, peerKey string) (*model.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.peerIdx[peerKey]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r.chats[id]
	return &cp, nil
}

func (r *memChatRepo) UpdateChatInfo(_ context.Context, chatID uint64, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["name"]; ok {
		chat.Name = v.(string)
	}
	if v, ok := fields["avatar_url"]; ok {
		chat.AvatarURL = v.(string)
	}
	return nil
}

func (r *memChatRepo) IncrMaxSeq(_ context.Context, chatID uint64, lastMsg string, msgType int8, senderID uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[chatID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	chat.MaxMsgSeq++
	chat.LastMsgContent = lastMsg
	chat.LastMsgType = msgType
	chat.LastSenderID = senderID
	chat.LastMessageAt = time.Now()
	return chat.MaxMsgSeq, nil
}

func (r *memChatRepo) GetUserChatMemberships(_ context.Context, userID uint64) ([]*model.ChatParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*model.ChatParticipant
	for _, m := range r.members.all() {
		if m.UserID != userID || m.LeftAt != nil {
			continue
		}
		cp := *m
		cp.Chat = *r.chats[m.ChatID]
		cp.UnreadCount = r.chats[m.ChatID].MaxMsgSeq - m.ReadMsgSeq
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ChatID < res[j].ChatID })
	return res, nil
}

func (r *memChatRepo) SearchByName(_ context.Context, userID uint64, keyword string, limit, offset int) ([]*model.Chat, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*model.Chat
	for _, m := range r.members.all() {
		if m.UserID != userID || m.LeftAt != nil {
			continue
		}
		chat := r.chats[m.ChatID]
		if strings.Contains(strings.ToLower(chat.Name), strings.ToLower(keyword)) {
			cp := *chat
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *memChatRepo) GetUnreadByChats(_ context.Context, userID uint64, chatIDs []uint64) (map[uint64]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make(map[uint64]uint64)
	for _, id := range chatIDs {
		m := r.members.find(id, userID)
		if m == nil || m.LeftAt != nil {
			continue
		}
		res[id] = r.chats[id].MaxMsgSeq - m.ReadMsgSeq
	}
	return res, nil
}

func (r *memChatRepo) GetTotalUnreadCount(_ context.Context, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, m := range r.members.all() {
		if m.UserID != userID || m.LeftAt != nil {
			continue
		}
		total += int64(r.chats[m.ChatID].MaxMsgSeq - m.ReadMsgSeq)
	}
	return total, nil
}

type memParticipantRepo struct {
	mu     sync.Mutex
	nextID uint64
	rows   []*model.ChatParticipant
}

func newMemParticipantRepo() *memParticipantRepo {
	return &memParticipantRepo{nextID: 1}
}

func (r *memParticipantRepo) put(m *model.ChatParticipant) {
	m.ID = r.nextID
	r.nextID++
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	r.rows = append(r.rows, m)
}

func (r *memParticipantRepo) all() []*model.ChatParticipant {
	return r.rows
}

func (r *memParticipantRepo) find(chatID, userID uint64) *model.ChatParticipant {
	for _, m := range r.rows {
		if m.ChatID == chatID && m.UserID == userID {
			return m
		}
	}
	return nil
}

func (r *memParticipantRepo) GetByChatAndUser(_ context.Context, chatID, userID uint64) (*model.ChatParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.find(chatID, userID)
	if m == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memParticipantRepo) ListCurrent(_ context.Context, chatID uint64) ([]*model.ChatParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*model.ChatParticipant
	for _, m := range r.rows {
		if m.ChatID == chatID && m.LeftAt == nil {
			cp := *m
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *memParticipantRepo) CurrentMemberIDs(_ context.Context, chatID uint64) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []uint64
	for _, m := range r.rows {
		if m.ChatID == chatID && m.LeftAt == nil {
			res = append(res, m.UserID)
		}
	}
	return res, nil
}

func (r *memParticipantRepo) Add(_ context.Context, chatID, userID uint64, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.find(chatID, userID); m != nil {
		m.LeftAt = nil
		m.Role = role
		m.ReadMsgSeq = 0
		m.JoinedAt = time.Now()
		return nil
	}
	r.put(&model.ChatParticipant{ChatID: chatID, UserID: userID, Role: role})
	return nil
}

func (r *memParticipantRepo) Remove(_ context.Context, chatID, userID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.find(chatID, userID)
	if m == nil || m.LeftAt != nil {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	m.LeftAt = &now
	return nil
}

func (r *memParticipantRepo) UpdateRole(_ context.Context, chatID, userID uint64, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.find(chatID, userID)
	if m == nil || m.LeftAt != nil {
		return gorm.ErrRecordNotFound
	}
	m.Role = role
	return nil
}

func (r *memParticipantRepo) UpdateReadSeq(_ context.Context, chatID, userID, seq uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.find(chatID, userID)
	if m == nil || m.LeftAt != nil {
		return gorm.ErrRecordNotFound
	}
	if seq > m.ReadMsgSeq {
		m.ReadMsgSeq = seq
	}
	return nil
}

type memPermissionsRepo struct {
	mu   sync.Mutex
	rows map[uint64]*model.GroupPermissions
}

func newMemPermissionsRepo() *memPermissionsRepo {
	return &memPermissionsRepo{rows: make(map[uint64]*model.GroupPermissions)}
}

func (r *memPermissionsRepo) GetByChat(_ context.Context, chatID uint64) (*model.GroupPermissions, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[chatID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPermissionsRepo) Create(_ context.Context, p *model.GroupPermissions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.ChatID] = p
	return nil
}

func (r *memPermissionsRepo) Updates(_ context.Context, chatID uint64, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(fields) == 0 {
		return nil
	}
	p, ok := r.rows[chatID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for col, v := range fields {
		b := v.(bool)
		switch col {
		case "can_send_messages":
			p.CanSendMessages = b
		case "can_add_members":
			p.CanAddMembers = b
		case "can_remove_members":
			p.CanRemoveMembers = b
		case "can_edit_group_info":
			p.CanEditGroupInfo = b
		case "can_pin_messages":
			p.CanPinMessages = b
		case "can_delete_messages":
			p.CanDeleteMessages = b
		}
	}
	return nil
}

type memSettingsRepo struct {
	mu   sync.Mutex
	rows map[uint64]*model.NotificationSettings
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{rows: make(map[uint64]*model.NotificationSettings)}
}

func (r *memSettingsRepo) GetByUser(_ context.Context, userID uint64) (*model.NotificationSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memSettingsRepo) Create(_ context.Context, s *model.NotificationSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[s.UserID] = s
	return nil
}

func (r *memSettingsRepo) Updates(_ context.Context, userID uint64, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(fields) == 0 {
		return nil
	}
	s, ok := r.rows[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for col, v := range fields {
		switch col {
		case "push_enabled":
			s.PushEnabled = v.(bool)
		case "email_enabled":
			s.EmailEnabled = v.(bool)
		case "message_enabled":
			s.MessageEnabled = v.(bool)
		case "mention_enabled":
			s.MentionEnabled = v.(bool)
		case "group_event_enabled":
			s.GroupEventEnabled = v.(bool)
		case "call_enabled":
			s.CallEnabled = v.(bool)
		case "reaction_enabled":
			s.ReactionEnabled = v.(bool)
		case "pin_enabled":
			s.PinEnabled = v.(bool)
		case "mute_all":
			s.MuteAll = v.(bool)
		case "mute_until":
			if v == nil {
				s.MuteUntil = nil
			} else {
				t := v.(time.Time)
				s.MuteUntil = &t
			}
		case "muted_chat_ids":
			s.MutedChatIDs = v.([]uint64)
		}
	}
	return nil
}

type memReactionRepo struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Reaction
}

func newMemReactionRepo() *memReactionRepo {
	return &memReactionRepo{nextID: 1, rows: make(map[uint64]*model.Reaction)}
}

func (r *memReactionRepo) Upsert(_ context.Context, in *model.Reaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.MessageID == in.MessageID && row.UserID == in.UserID {
			row.Emoji = in.Emoji
			in.ID = row.ID
			in.CreatedAt = row.CreatedAt
			return nil
		}
	}
	in.ID = r.nextID
	r.nextID++
	in.CreatedAt = time.Now()
	cp := *in
	r.rows[in.ID] = &cp
	return nil
}

func (r *memReactionRepo) GetByID(_ context.Context, reactionID uint64) (*model.Reaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[reactionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *memReactionRepo) Delete(_ context.Context, reactionID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[reactionID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, reactionID)
	return nil
}

func (r *memReactionRepo) ListByMessage(_ context.Context, messageID string) ([]*model.Reaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*model.Reaction
	for _, row := range r.rows {
		if row.MessageID == messageID {
			cp := *row
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

type memPinRepo struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.PinnedMessage
}

func newMemPinRepo() *memPinRepo {
	return &memPinRepo{nextID: 1, rows: make(map[uint64]*model.PinnedMessage)}
}

func (r *memPinRepo) Create(_ context.Context, p *model.PinnedMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *memPinRepo) GetByChatAndMessage(_ context.Context, chatID uint64, messageID string) (*model.PinnedMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ChatID == chatID && row.MessageID == messageID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPinRepo) Delete(_ context.Context, pinID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[pinID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, pinID)
	return nil
}

func (r *memPinRepo) ListByChat(_ context.Context, chatID uint64) ([]*model.PinnedMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*model.PinnedMessage
	for _, row := range r.rows {
		if row.ChatID == chatID {
			cp := *row
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

type memMessageRepo struct {
	mu   sync.Mutex
	rows map[string]*mongo.Message
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{rows: make(map[string]*mongo.Message)}
}

func (r *memMessageRepo) SaveMessage(_ context.Context, msg *mongo.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	cp := *msg
	r.rows[msg.ID.Hex()] = &cp
	return nil
}

func (r *memMessageRepo) GetByID(_ context.Context, msgID string) (*mongo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[msgID]
	if !ok {
		return nil, mongoDB.ErrNoDocuments
	}
	cp := *row
	return &cp, nil
}

func (r *memMessageRepo) GetHistory(_ context.Context, chatID uint64, lastSeq uint64, pageSize int) ([]*mongo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*mongo.Message
	for _, row := range r.rows {
		if row.ChatID == chatID && row.Seq > lastSeq {
			cp := *row
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Seq < res[j].Seq })
	if len(res) > pageSize {
		res = res[:pageSize]
	}
	return res, nil
}

func (r *memMessageRepo) GetPage(_ context.Context, chatID uint64, limit, offset int64) ([]*mongo.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*mongo.Message
	for _, row := range r.rows {
		if row.ChatID == chatID {
			cp := *row
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Seq > all[j].Seq })
	total := int64(len(all))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *memMessageRepo) AdvanceStatus(_ context.Context, msgID string, target int8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[msgID]
	if !ok {
		return nil
	}
	if row.Status < target && row.Status != mongo.MsgStatusFailed {
		row.Status = target
	}
	return nil
}

func (r *memMessageRepo) MarkFailed(_ context.Context, msgID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[msgID]
	if !ok {
		return nil
	}
	if row.Status == mongo.MsgStatusSent {
		row.Status = mongo.MsgStatusFailed
	}
	return nil
}

func (r *memMessageRepo) SoftDelete(_ context.Context, msgID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[msgID]
	if !ok {
		return mongoDB.ErrNoDocuments
	}
	if row.DeletedAt == nil {
		row.DeletedAt = &at
	}
	return nil
}

func (r *memMessageRepo) SearchByContent(_ context.Context, chatIDs []uint64, keyword string, limit, offset int64) ([]*mongo.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(chatIDs) == 0 {
		return nil, 0, nil
	}
	inScope := make(map[uint64]bool, len(chatIDs))
	for _, id := range chatIDs {
		inScope[id] = true
	}
	var all []*mongo.Message
	for _, row := range r.rows {
		if inScope[row.ChatID] && strings.Contains(strings.ToLower(row.Content), strings.ToLower(keyword)) {
			cp := *row
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Seq > all[j].Seq })
	total := int64(len(all))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

type memNotificationRepo struct {
	mu   sync.Mutex
	rows map[string]*mongo.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{rows: make(map[string]*mongo.Notification)}
}

func (r *memNotificationRepo) Create(_ context.Context, n *mongo.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	cp := *n
	r.rows[n.ID.Hex()] = &cp
	return nil
}

func (r *memNotificationRepo) GetPage(_ context.Context, userID uint64, limit, offset int64) ([]*mongo.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*mongo.Notification
	for _, row := range r.rows {
		if row.ReceiverID == userID {
			cp := *row
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *memNotificationRepo) GetByID(_ context.Context, id primitive.ObjectID) (*mongo.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id.Hex()]
	if !ok {
		return nil, mongoDB.ErrNoDocuments
	}
	cp := *row
	return &cp, nil
}

func (r *memNotificationRepo) MarkAsRead(_ context.Context, userID uint64, id primitive.ObjectID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id.Hex()]
	if !ok || row.ReceiverID != userID {
		return mongoDB.ErrNoDocuments
	}
	if !row.IsRead {
		row.IsRead = true
		row.ReadAt = &at
	}
	return nil
}

func (r *memNotificationRepo) ListUnreadIDs(_ context.Context, userID uint64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []string
	for id, row := range r.rows {
		if row.ReceiverID == userID && !row.IsRead {
			res = append(res, id)
		}
	}
	sort.Strings(res)
	return res, nil
}

func (r *memNotificationRepo) MarkAllAsRead(_ context.Context, userID uint64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ReceiverID == userID && !row.IsRead {
			row.IsRead = true
			row.ReadAt = &at
		}
	}
	return nil
}

func (r *memNotificationRepo) Delete(_ context.Context, userID uint64, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id.Hex()]
	if !ok || row.ReceiverID != userID {
		return mongoDB.ErrNoDocuments
	}
	delete(r.rows, id.Hex())
	return nil
}

func (r *memNotificationRepo) GetUnreadCount(_ context.Context, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, row := range r.rows {
		if row.ReceiverID == userID && !row.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, row := range r.rows {
		if row.IsRead && row.CreatedAt.Before(cutoff) {
			delete(r.rows, id)
			deleted++
		}
	}
	return deleted, nil
}

// stubChannel 记录收到的推送载荷
type stubChannel struct {
	mu     sync.Mutex
	open   bool
	frames [][]byte
}

func newStubChannel() *stubChannel {
	return &stubChannel{open: true}
}

func (c *stubChannel) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	c.frames = append(c.frames, cp)
	return nil
}

func (c *stubChannel) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *stubChannel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
}

func (c *stubChannel) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := make([][]byte, len(c.frames))
	copy(res, c.frames)
	return res
}
