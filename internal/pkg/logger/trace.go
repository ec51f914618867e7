package logger

import (
	"context"
	log "log/slog"
)

// TraceIDKey 定义 Context 中的 Key
const TraceIDKey = "trace_id"

// UserIDKey 认证中间件写入请求 Context 的用户标识
const UserIDKey = "user_id"

// ContextHandler 包装器，把 ctx 里的 trace_id 与操作者 user_id 附到每条日志上
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
			r.AddAttrs(log.String("trace_id", traceID))
		}
		if userID, ok := ctx.Value(UserIDKey).(uint64); ok {
			r.AddAttrs(log.Uint64("user_id", userID))
		}
	}
	return h.Handler.Handle(ctx, r)
}
