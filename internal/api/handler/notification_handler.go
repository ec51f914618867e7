package handler

import (
	"Converse/internal/api/dto"
	"Converse/internal/pkg/response"
	"Converse/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifyService service.NotificationService
}

func NewNotificationHandler(notifyService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifyService: notifyService}
}

// GetNotificationList 通知收件箱分页
func (s *NotificationHandler) GetNotificationList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	userID := c.GetUint64("user_id")

	res, meta, err := s.notifyService.GetNotificationList(c, userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessPage(c, res, *meta)
}

// GetUnreadCount 未读通知数
func (s *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("user_id")

	res, err := s.notifyService.GetUnreadCount(c, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// MarkRead 标记单条已读
func (s *NotificationHandler) MarkRead(c *gin.Context) {
	notifyID := c.Param("notifyId")
	if notifyID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.notifyService.MarkRead(c, userID, notifyID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllRead 全部标记已读
func (s *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := s.notifyService.MarkAllRead(c, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Delete 删除通知
func (s *NotificationHandler) Delete(c *gin.Context) {
	notifyID := c.Param("notifyId")
	if notifyID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.notifyService.Delete(c, userID, notifyID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetSettings 查看通知偏好
func (s *NotificationHandler) GetSettings(c *gin.Context) {
	userID := c.GetUint64("user_id")

	res, err := s.notifyService.GetSettings(c, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// UpdateSettings 更新通知偏好
func (s *NotificationHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateNotificationSettingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.notifyService.UpdateSettings(c, userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
