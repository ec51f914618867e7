package handler

import (
	"Converse/internal/api/dto"
	"Converse/internal/pkg/response"
	"Converse/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessage 发送消息
func (s *MessageHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	senderID := c.GetUint64("user_id")

	res, err := s.messageService.SendMessage(c, senderID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListMessages 分页拉取历史消息
func (s *MessageHandler) ListMessages(c *gin.Context) {
	chatID, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	userID := c.GetUint64("user_id")

	res, meta, err := s.messageService.ListMessages(c, userID, chatID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessPage(c, res, *meta)
}

// SyncMessages 按序号增量同步
func (s *MessageHandler) SyncMessages(c *gin.Context) {
	chatID, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	lastSeq, _ := strconv.ParseUint(c.Query("lastSeq"), 10, 64)
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	userID := c.GetUint64("user_id")

	res, err := s.messageService.SyncMessages(c, userID, chatID, lastSeq, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ForwardMessage 转发消息
func (s *MessageHandler) ForwardMessage(c *gin.Context) {
	var req dto.ForwardMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.messageService.ForwardMessage(c, userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// MarkDelivered 送达回执
func (s *MessageHandler) MarkDelivered(c *gin.Context) {
	var req dto.MessageAckReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.messageService.MarkDelivered(c, userID, req.MessageID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkRead 已读回执
func (s *MessageHandler) MarkRead(c *gin.Context) {
	var req dto.MessageAckReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.messageService.MarkRead(c, userID, req.MessageID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkFailed 投递失败回执
func (s *MessageHandler) MarkFailed(c *gin.Context) {
	var req dto.MessageAckReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.messageService.MarkFailed(c, userID, req.MessageID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteMessage 删除消息
func (s *MessageHandler) DeleteMessage(c *gin.Context) {
	msgID := c.Param("messageId")
	if msgID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.messageService.DeleteMessage(c, userID, msgID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// AddReaction 添加表情回应
func (s *MessageHandler) AddReaction(c *gin.Context) {
	msgID := c.Param("messageId")
	if msgID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.AddReactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.messageService.AddReaction(c, userID, msgID, req.Emoji)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// RemoveReaction 移除自己的表情回应
func (s *MessageHandler) RemoveReaction(c *gin.Context) {
	reactionID, err := strconv.ParseUint(c.Param("reactionId"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.messageService.RemoveReaction(c, userID, reactionID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListReactions 查看消息的表情回应
func (s *MessageHandler) ListReactions(c *gin.Context) {
	msgID := c.Param("messageId")
	if msgID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.messageService.ListReactions(c, userID, msgID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// PinMessage 置顶消息
func (s *MessageHandler) PinMessage(c *gin.Context) {
	chatID, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.PinMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.messageService.PinMessage(c, userID, chatID, req.MessageID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// UnpinMessage 取消置顶
func (s *MessageHandler) UnpinMessage(c *gin.Context) {
	chatID, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	msgID := c.Param("messageId")
	if msgID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.messageService.UnpinMessage(c, userID, chatID, msgID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListPinnedMessages 置顶列表
func (s *MessageHandler) ListPinnedMessages(c *gin.Context) {
	chatID, err := strconv.ParseUint(c.Param("chatId"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.messageService.ListPinnedMessages(c, userID, chatID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SearchMessages 按内容搜索消息
func (s *MessageHandler) SearchMessages(c *gin.Context) {
	keyword := c.Query("keyword")
	chatID, _ := strconv.ParseUint(c.Query("chatId"), 10, 64)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	userID := c.GetUint64("user_id")

	res, meta, err := s.messageService.SearchMessages(c, userID, keyword, chatID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessPage(c, res, *meta)
}
