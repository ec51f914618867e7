package handler

import (
	"Converse/internal/pkg/response"
	"Converse/internal/pkg/security"
	"Converse/internal/service"
	"Converse/internal/ws"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WsHandler struct {
	registry *ws.Registry
}

func NewWsHandler(registry *ws.Registry) *WsHandler {
	return &WsHandler{registry: registry}
}

// Connect 建立实时推送连接。
// 连接在注册表中的生命周期由本协程负责：读循环发现断开后自行注销，
// 广播路径只跳过已关闭的连接，从不代为注销。
func (s *WsHandler) Connect(c *gin.Context) {
	// 鉴权
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	// 升级 Websocket
	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}

	conn := ws.NewConn(sock)
	s.registry.Register(userID, conn)
	log.Info("WS 连接建立", "userID", userID)

	defer func() {
		s.registry.Unregister(userID, conn)
		conn.Close()
		log.Info("WS 连接断开", "userID", userID)
	}()

	// 下行推送走 Conn 的写泵，这里只消费读方向以感知断开
	for {
		if _, _, err := sock.ReadMessage(); err != nil {
			return
		}
	}
}
