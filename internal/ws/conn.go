package ws

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 64
	writeTimeout   = 10 * time.Second
)

var (
	ErrChannelClosed  = errors.New("连接已关闭")
	ErrSendBufferFull = errors.New("发送缓冲已满")
)

// Conn 把 gorilla 连接适配成 Channel：
// Send 只做入队，独立的写协程串行刷出，慢客户端丢帧而不是阻塞广播方。
type Conn struct {
	sock   *websocket.Conn
	out    chan []byte
	done   chan struct{}
	closed atomic.Bool
	once   sync.Once
}

func NewConn(sock *websocket.Conn) *Conn {
	c := &Conn{
		sock: sock,
		out:  make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
	go c.writePump()
	return c
}

// Send 非阻塞入队。缓冲满时丢弃本帧，尽力投递。
func (c *Conn) Send(payload []byte) error {
	if c.closed.Load() {
		return ErrChannelClosed
	}
	select {
	case c.out <- payload:
		return nil
	case <-c.done:
		return ErrChannelClosed
	default:
		return ErrSendBufferFull
	}
}

func (c *Conn) IsOpen() bool {
	return !c.closed.Load()
}

// Close 幂等关闭，终止写协程并断开底层连接
func (c *Conn) Close() {
	c.once.Do(func() {
		c.closed.Store(true)
		close(c.done)
		_ = c.sock.Close()
	})
}

func (c *Conn) writePump() {
	for {
		select {
		case payload := <-c.out:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.sock.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
