package dto

import "time"

// CreateDirectChatReq 创建或获取单聊
type CreateDirectChatReq struct {
	TargetUserID uint64 `json:"target_user_id" binding:"required"`
}

// CreateGroupChatReq 创建群聊
type CreateGroupChatReq struct {
	Name      string   `json:"name" binding:"required,max=128"`
	AvatarURL string   `json:"avatar_url"`
	MemberIDs []uint64 `json:"member_ids" binding:"required,min=1"`
}

// UpdateChatInfoReq 局部更新群信息，缺省字段不变
type UpdateChatInfoReq struct {
	Name      *string `json:"name" binding:"omitempty,max=128"`
	AvatarURL *string `json:"avatar_url"`
}

// ChatDTO 会话详情响应
type ChatDTO struct {
	ID             uint64    `json:"id"`
	Type           int8      `json:"type"` // 1-单聊, 2-群聊
	Name           string    `json:"name"`
	AvatarURL      string    `json:"avatar_url"`
	PeerID         uint64    `json:"peer_id"` // 对手方ID (单聊有效)
	CreatorID      uint64    `json:"creator_id"`
	ParticipantIDs []uint64  `json:"participant_ids"`
	LastMsgContent string    `json:"last_msg_content"`
	LastMsgType    int8      `json:"last_msg_type"`
	LastSenderID   uint64    `json:"last_sender_id"`
	LastMessageAt  time.Time `json:"last_message_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// ChatListItemDTO 会话列表项响应
type ChatListItemDTO struct {
	ChatID         uint64    `json:"chat_id"`
	Type           int8      `json:"type"`
	Name           string    `json:"name"`
	AvatarURL      string    `json:"avatar_url"`
	PeerID         uint64    `json:"peer_id"`
	Role           string    `json:"role"`
	LastMsgContent string    `json:"last_msg_content"`
	LastMsgType    int8      `json:"last_msg_type"`
	LastSenderID   uint64    `json:"last_sender_id"`
	LastMessageAt  time.Time `json:"last_message_at"`
	UnreadCount    uint64    `json:"unread_count"`
	IsMuted        bool      `json:"is_muted"`
	IsPinned       bool      `json:"is_pinned"`
}

// ParticipantDTO 会话成员响应
type ParticipantDTO struct {
	UserID     uint64    `json:"user_id"`
	Role       string    `json:"role"`
	ReadMsgSeq uint64    `json:"read_msg_seq"`
	JoinedAt   time.Time `json:"joined_at"`
}

// AddParticipantReq 拉人入群
type AddParticipantReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

// UpdateRoleReq 调整成员角色
type UpdateRoleReq struct {
	Role string `json:"role" binding:"required,oneof=ADMIN MEMBER"`
}

// UpdatePermissionsReq 局部更新群能力开关，缺省字段不变
type UpdatePermissionsReq struct {
	CanSendMessages   *bool `json:"can_send_messages"`
	CanAddMembers     *bool `json:"can_add_members"`
	CanRemoveMembers  *bool `json:"can_remove_members"`
	CanEditGroupInfo  *bool `json:"can_edit_group_info"`
	CanPinMessages    *bool `json:"can_pin_messages"`
	CanDeleteMessages *bool `json:"can_delete_messages"`
}

// GroupPermissionsDTO 群能力开关响应
type GroupPermissionsDTO struct {
	ChatID            uint64 `json:"chat_id"`
	CanSendMessages   bool   `json:"can_send_messages"`
	CanAddMembers     bool   `json:"can_add_members"`
	CanRemoveMembers  bool   `json:"can_remove_members"`
	CanEditGroupInfo  bool   `json:"can_edit_group_info"`
	CanPinMessages    bool   `json:"can_pin_messages"`
	CanDeleteMessages bool   `json:"can_delete_messages"`
}

// ChatUnreadDTO 单会话未读数
type ChatUnreadDTO struct {
	ChatID      uint64 `json:"chat_id"`
	UnreadCount uint64 `json:"unread_count"`
}

// UnreadSummaryDTO 未读汇总响应
type UnreadSummaryDTO struct {
	Total int64           `json:"total"`
	Chats []ChatUnreadDTO `json:"chats"`
}
