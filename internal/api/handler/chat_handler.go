package handler

import (
	"Converse/internal/api/dto"
	"Converse/internal/pkg/response"
	"Converse/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// CreateDirectChat 创建或获取单聊
func (s *ChatHandler) CreateDirectChat(c *gin.Context) {
	var req dto.CreateDirectChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.chatService.CreateDirectChat(c, userID, req.TargetUserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// CreateGroupChat 创建群聊
func (s *ChatHandler) CreateGroupChat(c *gin.Context) {
	var req dto.CreateGroupChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.chatService.CreateGroupChat(c, userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetChat 获取会话详情
func (s *ChatHandler) GetChat(c *gin.Context) {
	chatID, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.chatService.GetChat(c, userID, chatID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetConversationList 获取会话列表
func (s *ChatHandler) GetConversationList(c *gin.Context) {
	userID := c.GetUint64("user_id")

	res, err := s.chatService.GetConversationList(c, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// UpdateChatInfo 修改群信息
func (s *ChatHandler) UpdateChatInfo(c *gin.Context) {
	chatID, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.UpdateChatInfoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.chatService.UpdateChatInfo(c, userID, chatID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListParticipants 获取成员列表
func (s *ChatHandler) ListParticipants(c *gin.Context) {
	chatID, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.chatService.ListParticipants(c, userID, chatID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// AddParticipant 拉人入群
func (s *ChatHandler) AddParticipant(c *gin.Context) {
	chatID, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.AddParticipantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.chatService.AddParticipant(c, userID, chatID, req.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// RemoveParticipant 移出成员
func (s *ChatHandler) RemoveParticipant(c *gin.Context) {
	chatID, err1 := strconv.ParseUint(c.Param("chatId"), 10, 64)
	targetID, err2 := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err1 != nil || err2 != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.chatService.RemoveParticipant(c, userID, chatID, targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// UpdateParticipantRole 调整成员角色
func (s *ChatHandler) UpdateParticipantRole(c *gin.Context) {
	chatID, err1 := strconv.ParseUint(c.Param("chatId"), 10, 64)
	targetID, err2 := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err1 != nil || err2 != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.UpdateRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.chatService.UpdateParticipantRole(c, userID, chatID, targetID, req.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// LeaveChat 退出群聊
func (s *ChatHandler) LeaveChat(c *gin.Context) {
	chatID, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.chatService.LeaveChat(c, userID, chatID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetGroupPermissions 查看群能力开关
func (s *ChatHandler) GetGroupPermissions(c *gin.Context) {
	chatID, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.chatService.GetGroupPermissions(c, userID, chatID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// UpdateGroupPermissions 更新群能力开关
func (s *ChatHandler) UpdateGroupPermissions(c *gin.Context) {
	chatID, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.UpdatePermissionsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.chatService.UpdateGroupPermissions(c, userID, chatID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SearchChats 按名称搜索会话
func (s *ChatHandler) SearchChats(c *gin.Context) {
	keyword := c.Query("keyword")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	userID := c.GetUint64("user_id")

	res, meta, err := s.chatService.SearchChats(c, userID, keyword, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessPage(c, res, *meta)
}

// GetUnreadCount 未读汇总
func (s *ChatHandler) GetUnreadCount(c *gin.Context) {
	var chatIDs []uint64
	for _, raw := range c.QueryArray("chatId") {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			chatIDs = append(chatIDs, id)
		}
	}

	userID := c.GetUint64("user_id")

	res, err := s.chatService.GetUnreadCount(c, userID, chatIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// MarkChatRead 标记会话已读
func (s *ChatHandler) MarkChatRead(c *gin.Context) {
	chatID, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.MarkChatReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.chatService.MarkChatRead(c, userID, chatID, req.Seq); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
