package service

import (
	"Converse/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func member(role string) *model.ChatParticipant {
	return &model.ChatParticipant{ChatID: 1, UserID: 10, Role: role}
}

func leftMember(role string) *model.ChatParticipant {
	p := member(role)
	now := time.Now()
	p.LeftAt = &now
	return p
}

func TestGuardIsParticipant(t *testing.T) {
	g := NewGuard()

	assert.True(t, g.IsParticipant(member(model.RoleMember)))
	assert.True(t, g.IsParticipant(member(model.RoleAdmin)))
	assert.False(t, g.IsParticipant(nil))
	assert.False(t, g.IsParticipant(leftMember(model.RoleAdmin)))
}

func TestGuardIsAdmin(t *testing.T) {
	g := NewGuard()

	assert.True(t, g.IsAdmin(member(model.RoleAdmin)))
	assert.False(t, g.IsAdmin(member(model.RoleMember)))
	assert.False(t, g.IsAdmin(nil))
	// 退群后管理员身份随之失效
	assert.False(t, g.IsAdmin(leftMember(model.RoleAdmin)))
}

func TestGuardCanModerateAdminBypass(t *testing.T) {
	g := NewGuard()
	admin := member(model.RoleAdmin)

	// 所有能力开关全关，管理员依然直通
	perms := &model.GroupPermissions{ChatID: 1}
	for _, cap := range []Capability{
		CapSendMessages, CapAddMembers, CapRemoveMembers,
		CapEditGroupInfo, CapPinMessages, CapDeleteMessages,
	} {
		assert.True(t, g.CanModerate(admin, perms, cap))
	}
}

func TestGuardCanModerateMemberFollowsSwitches(t *testing.T) {
	g := NewGuard()
	m := member(model.RoleMember)

	perms := &model.GroupPermissions{
		ChatID:           1,
		CanSendMessages:  false,
		CanAddMembers:    true,
		CanEditGroupInfo: true,
	}
	assert.False(t, g.CanModerate(m, perms, CapSendMessages))
	assert.True(t, g.CanModerate(m, perms, CapAddMembers))
	assert.True(t, g.CanModerate(m, perms, CapEditGroupInfo))
	assert.False(t, g.CanModerate(m, perms, CapRemoveMembers))
	assert.False(t, g.CanModerate(m, perms, CapPinMessages))
	assert.False(t, g.CanModerate(m, perms, CapDeleteMessages))
}

func TestGuardCanModerateNilPermsUsesDefaults(t *testing.T) {
	g := NewGuard()
	m := member(model.RoleMember)

	// 未显式配置的群：发言和拉人默认放行，其余默认拒绝
	assert.True(t, g.CanModerate(m, nil, CapSendMessages))
	assert.True(t, g.CanModerate(m, nil, CapAddMembers))
	assert.False(t, g.CanModerate(m, nil, CapRemoveMembers))
	assert.False(t, g.CanModerate(m, nil, CapEditGroupInfo))
	assert.False(t, g.CanModerate(m, nil, CapPinMessages))
	assert.False(t, g.CanModerate(m, nil, CapDeleteMessages))
}

func TestGuardCanModerateNonParticipant(t *testing.T) {
	g := NewGuard()
	open := &model.GroupPermissions{
		ChatID: 1, CanSendMessages: true, CanAddMembers: true,
		CanRemoveMembers: true, CanEditGroupInfo: true,
		CanPinMessages: true, CanDeleteMessages: true,
	}

	// 非成员与已退出成员即使开关全开也一律拒绝
	assert.False(t, g.CanModerate(nil, open, CapSendMessages))
	assert.False(t, g.CanModerate(leftMember(model.RoleMember), open, CapSendMessages))
	assert.False(t, g.CanModerate(leftMember(model.RoleAdmin), open, CapDeleteMessages))
}
