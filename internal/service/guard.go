package service

import (
	"Converse/internal/model"
)

// Capability 群成员可被授权的操作能力
type Capability int

const (
	CapSendMessages Capability = iota + 1
	CapAddMembers
	CapRemoveMembers
	CapEditGroupInfo
	CapPinMessages
	CapDeleteMessages
)

// Guard 纯判定集合：入参全部是已取好的记录，不做任何 I/O。
// 判定失败只返回 false，由调用方翻译成业务错误。
type Guard struct{}

func NewGuard() *Guard {
	return &Guard{}
}

// IsParticipant 是否为当前成员（已退出的历史记录不算）
func (g *Guard) IsParticipant(p *model.ChatParticipant) bool {
	return p != nil && !p.IsLeft()
}

// IsAdmin 是否为当前管理员
func (g *Guard) IsAdmin(p *model.ChatParticipant) bool {
	return g.IsParticipant(p) && p.Role == model.RoleAdmin
}

// CanModerate 管理员直通；普通成员看群能力开关，perms 为 nil 时按默认开关判定
func (g *Guard) CanModerate(p *model.ChatParticipant, perms *model.GroupPermissions, cap Capability) bool {
	if g.IsAdmin(p) {
		return true
	}
	if !g.IsParticipant(p) {
		return false
	}
	if perms == nil {
		perms = model.DefaultGroupPermissions(p.ChatID)
	}
	switch cap {
	case CapSendMessages:
		return perms.CanSendMessages
	case CapAddMembers:
		return perms.CanAddMembers
	case CapRemoveMembers:
		return perms.CanRemoveMembers
	case CapEditGroupInfo:
		return perms.CanEditGroupInfo
	case CapPinMessages:
		return perms.CanPinMessages
	case CapDeleteMessages:
		return perms.CanDeleteMessages
	default:
		return false
	}
}
