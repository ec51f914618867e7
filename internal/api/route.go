package api

import (
	"Converse/internal/api/middleware"
	"Converse/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		// 实时推送连接，token 走查询参数
		apiGroup.GET("/ws", group.WSHandler.Connect)

		chatGroup := apiGroup.Group("/chats")
		chatGroup.Use(middleware.AuthMiddleware())
		{
			chatGroup.POST("/direct", group.ChatHandler.CreateDirectChat)
			chatGroup.POST("/group", group.ChatHandler.CreateGroupChat)
			chatGroup.GET("/list", group.ChatHandler.GetConversationList)
			chatGroup.GET("/search", group.ChatHandler.SearchChats)
			chatGroup.GET("/unread", group.ChatHandler.GetUnreadCount)
			chatGroup.GET("/:chatId", group.ChatHandler.GetChat)
			chatGroup.PUT("/:chatId", group.ChatHandler.UpdateChatInfo)
			chatGroup.POST("/:chatId/read", group.ChatHandler.MarkChatRead)
			chatGroup.POST("/:chatId/leave", group.ChatHandler.LeaveChat)

			chatGroup.GET("/:chatId/participants", group.ChatHandler.ListParticipants)
			chatGroup.POST("/:chatId/participants", group.ChatHandler.AddParticipant)
			chatGroup.DELETE("/:chatId/participants/:userId", group.ChatHandler.RemoveParticipant)
			chatGroup.PUT("/:chatId/participants/:userId/role", group.ChatHandler.UpdateParticipantRole)

			chatGroup.GET("/:chatId/permissions", group.ChatHandler.GetGroupPermissions)
			chatGroup.PUT("/:chatId/permissions", group.ChatHandler.UpdateGroupPermissions)

			chatGroup.GET("/:chatId/messages", group.MessageHandler.ListMessages)
			chatGroup.GET("/:chatId/messages/sync", group.MessageHandler.SyncMessages)
			chatGroup.GET("/:chatId/pins", group.MessageHandler.ListPinnedMessages)
			chatGroup.POST("/:chatId/pins", group.MessageHandler.PinMessage)
			chatGroup.DELETE("/:chatId/pins/:messageId", group.MessageHandler.UnpinMessage)
		}

		messageGroup := apiGroup.Group("/messages")
		messageGroup.Use(middleware.AuthMiddleware())
		{
			messageGroup.POST("/send", group.MessageHandler.SendMessage)
			messageGroup.POST("/forward", group.MessageHandler.ForwardMessage)
			messageGroup.POST("/delivered", group.MessageHandler.MarkDelivered)
			messageGroup.POST("/read", group.MessageHandler.MarkRead)
			messageGroup.POST("/failed", group.MessageHandler.MarkFailed)
			messageGroup.GET("/search", group.MessageHandler.SearchMessages)
			messageGroup.DELETE("/:messageId", group.MessageHandler.DeleteMessage)

			messageGroup.GET("/:messageId/reactions", group.MessageHandler.ListReactions)
			messageGroup.POST("/:messageId/reactions", group.MessageHandler.AddReaction)
			messageGroup.DELETE("/reactions/:reactionId", group.MessageHandler.RemoveReaction)
		}

		notifyGroup := apiGroup.Group("/notifications")
		notifyGroup.Use(middleware.AuthMiddleware())
		{
			notifyGroup.GET("/list", group.NotificationHandler.GetNotificationList)
			notifyGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
			notifyGroup.POST("/read/all", group.NotificationHandler.MarkAllRead)
			notifyGroup.POST("/:notifyId/read", group.NotificationHandler.MarkRead)
			notifyGroup.DELETE("/:notifyId", group.NotificationHandler.Delete)

			notifyGroup.GET("/settings", group.NotificationHandler.GetSettings)
			notifyGroup.PUT("/settings", group.NotificationHandler.UpdateSettings)
		}
	}

	return r
}
