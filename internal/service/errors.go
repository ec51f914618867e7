package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrChatNotFound         = errors.New("会话不存在")
	ErrNotParticipant       = errors.New("不是会话成员")
	ErrAdminRequired        = errors.New("需要管理员权限")
	ErrPermissionDenied     = errors.New("没有操作权限")
	ErrParticipantNotFound  = errors.New("成员不存在")
	ErrParticipantExist     = errors.New("成员已在会话中")
	ErrMessageNotFound      = errors.New("消息不存在")
	ErrMessageDeleted       = errors.New("消息已删除")
	ErrReactionNotFound     = errors.New("表情回应不存在")
	ErrReactionNotOwned     = errors.New("只能移除自己的表情回应")
	ErrPinNotFound          = errors.New("置顶记录不存在")
	ErrAlreadyPinned        = errors.New("消息已置顶")
	ErrTargetChatInvalid    = errors.New("目标会话无效")
	ErrDirectChatSelf       = errors.New("不能和自己建立单聊")
	ErrGroupOnly            = errors.New("仅群聊支持此操作")
	ErrNotificationNotFound = errors.New("通知不存在")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrChatNotFound:         NotFound,
	ErrNotParticipant:       Forbidden,
	ErrAdminRequired:        Forbidden,
	ErrPermissionDenied:     Forbidden,
	ErrParticipantNotFound:  NotFound,
	ErrParticipantExist:     BadRequest,
	ErrMessageNotFound:      NotFound,
	ErrMessageDeleted:       BadRequest,
	ErrReactionNotFound:     NotFound,
	ErrReactionNotOwned:     Forbidden,
	ErrPinNotFound:          NotFound,
	ErrAlreadyPinned:        BadRequest,
	ErrTargetChatInvalid:    BadRequest,
	ErrDirectChatSelf:       BadRequest,
	ErrGroupOnly:            BadRequest,
	ErrNotificationNotFound: NotFound,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}
