package ws

import (
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu     sync.Mutex
	open   bool
	frames [][]byte
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{open: true}
}

func (c *fakeChannel) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, payload)
	return nil
}

func (c *fakeChannel) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *fakeChannel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
}

func (c *fakeChannel) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func TestRegistryBroadcastToAllConnections(t *testing.T) {
	r := NewRegistry()
	a := newFakeChannel()
	b := newFakeChannel()
	r.Register(1, a)
	r.Register(1, b)
	other := newFakeChannel()
	r.Register(2, other)

	delivered := r.Broadcast(1, []byte("hello"))

	// 同一用户的所有连接都收到，别的用户收不到
	assert.Equal(t, 2, delivered)
	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
	assert.Equal(t, 0, other.count())
}

func TestRegistryBroadcastOfflineUser(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Broadcast(42, []byte("hello")))
}

func TestRegistrySkipsClosedChannels(t *testing.T) {
	r := NewRegistry()
	alive := newFakeChannel()
	dead := newFakeChannel()
	r.Register(1, alive)
	r.Register(1, dead)
	dead.Close()

	delivered := r.Broadcast(1, []byte("hello"))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 0, dead.count())
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	a := newFakeChannel()
	b := newFakeChannel()
	r.Register(1, a)
	r.Register(1, b)
	assert.True(t, r.IsOnline(1))

	r.Unregister(1, a)
	assert.True(t, r.IsOnline(1))
	assert.Equal(t, 1, r.Broadcast(1, []byte("x")))
	assert.Equal(t, 0, a.count())

	// 最后一条连接注销后用户整体离线
	r.Unregister(1, b)
	assert.False(t, r.IsOnline(1))
	assert.Empty(t, r.OnlineUsers())

	// 重复注销是无操作
	r.Unregister(1, b)
	r.Unregister(99, b)
}

func TestRegistryOnlineUsers(t *testing.T) {
	r := NewRegistry()
	r.Register(1, newFakeChannel())
	r.Register(2, newFakeChannel())
	r.Register(2, newFakeChannel())

	assert.ElementsMatch(t, []uint64{1, 2}, r.OnlineUsers())
}

func TestRegistryShutdown(t *testing.T) {
	r := NewRegistry()
	a := newFakeChannel()
	b := newFakeChannel()
	r.Register(1, a)
	r.Register(2, b)

	r.Shutdown()

	assert.False(t, a.IsOpen())
	assert.False(t, b.IsOpen())
	assert.False(t, r.IsOnline(1))
	assert.Equal(t, 0, r.Broadcast(1, []byte("x")))
}

func TestRegistryConcurrentRegisterBroadcast(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			ch := newFakeChannel()
			r.Register(userID, ch)
			r.Broadcast(userID, []byte("x"))
			r.Unregister(userID, ch)
		}(uint64(i % 4))
	}
	wg.Wait()

	assert.Empty(t, r.OnlineUsers())
}

// 注销最后一条旧连接与注册新连接并发时，新连接不能丢：
// 每轮结束后用户必须在线且广播能送达新连接。
func TestRegistryRegisterSurvivesConcurrentUnregister(t *testing.T) {
	r := NewRegistry()
	const userID = 7

	for i := 0; i < 5000; i++ {
		oldCh := newFakeChannel()
		r.Register(userID, oldCh)

		newCh := newFakeChannel()
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register(userID, newCh)
		}()
		go func() {
			defer wg.Done()
			r.Unregister(userID, oldCh)
		}()
		wg.Wait()

		require.True(t, r.IsOnline(userID), "iteration %d", i)
		require.Equal(t, 1, r.Broadcast(userID, []byte("x")), "iteration %d", i)

		r.Unregister(userID, newCh)
	}
}

func TestEventMarshal(t *testing.T) {
	event := NewEvent(EventNotificationReceived, map[string]string{"k": "v"})
	payload, err := event.Marshal()
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, EventNotificationReceived, got.Event)
	assert.False(t, got.Timestamp.IsZero())
	data := got.Data.(map[string]interface{})
	assert.Equal(t, "v", data["k"])
}
