package api

import "Converse/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	ChatHandler         *handler.ChatHandler
	MessageHandler      *handler.MessageHandler
	NotificationHandler *handler.NotificationHandler
	WSHandler           *handler.WsHandler
}
