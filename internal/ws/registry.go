package ws

import (
	log "log/slog"
	"sync"
)

// Channel 一条可投递的下行通道，通常是一个 Websocket 连接
type Channel interface {
	Send(payload []byte) error
	IsOpen() bool
	Close()
}

// Registry 进程内的用户连接注册表。
// 一个用户可以有多个同时在线的连接（多端/多标签页），按用户分桶加锁，
// 广播路径不持有任何全局锁，慢连接不会拖住其他用户的投递。
type Registry struct {
	mu    sync.RWMutex
	users map[uint64]*userEntry
}

type userEntry struct {
	mu       sync.Mutex
	channels map[Channel]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		users: make(map[uint64]*userEntry),
	}
}

// Register 注册连接，用户桶不存在时创建。
// 写入必须在外层锁内完成：并发的 Unregister 可能在锁释放后删掉整个用户桶，
// 新连接若落进已摘除的桶里，用户会被误判为离线。
func (r *Registry) Register(userID uint64, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.users[userID]
	if !ok {
		entry = &userEntry{channels: make(map[Channel]struct{})}
		r.users[userID] = entry
	}
	entry.mu.Lock()
	entry.channels[ch] = struct{}{}
	entry.mu.Unlock()
}

// Unregister 注销连接，最后一条连接移除后整个用户桶一并删除
func (r *Registry) Unregister(userID uint64, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.users[userID]
	if !ok {
		return
	}

	entry.mu.Lock()
	delete(entry.channels, ch)
	empty := len(entry.channels) == 0
	entry.mu.Unlock()

	if empty {
		delete(r.users, userID)
	}
}

// Broadcast 向用户的所有存活连接投递同一份载荷。
// 用户不在线时静默返回；先在桶锁内做快照，真正的写操作在锁外进行。
// 报告已关闭的连接只是跳过，注销由连接自身的关闭回调负责。
func (r *Registry) Broadcast(userID uint64, payload []byte) int {
	r.mu.RLock()
	entry, ok := r.users[userID]
	r.mu.RUnlock()
	if !ok {
		return 0
	}

	entry.mu.Lock()
	channels := make([]Channel, 0, len(entry.channels))
	for ch := range entry.channels {
		channels = append(channels, ch)
	}
	entry.mu.Unlock()

	delivered := 0
	for _, ch := range channels {
		if !ch.IsOpen() {
			continue
		}
		if err := ch.Send(payload); err != nil {
			log.Warn("WS 推送失败", "userID", userID, "err", err)
			continue
		}
		delivered++
	}
	return delivered
}

// IsOnline 用户是否有在线连接
func (r *Registry) IsOnline(userID uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[userID]
	return ok
}

// OnlineUsers 在线用户快照
func (r *Registry) OnlineUsers() []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uint64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	return ids
}

// Shutdown 进程退出时关闭所有连接并清空注册表
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.users {
		entry.mu.Lock()
		for ch := range entry.channels {
			ch.Close()
		}
		entry.mu.Unlock()
	}
	r.users = make(map[uint64]*userEntry)
	log.Info("连接注册表已关闭")
}
