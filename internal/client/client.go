package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/scout/internal/protocol"
	"github.com/palemoky/scout/internal/protocol/codec"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// 心跳检测间隔
	heartbeatInterval = 5 * time.Second
)

var (
	ErrClosed         = errors.New("connection closed")
	ErrSendBufferFull = errors.New("send buffer full")
	ErrTimeout        = errors.New("receive timeout")
)

// Client Scout 服务端的 WebSocket 客户端
type Client struct {
	ServerURL string

	codec   codec.Codec
	conn    *websocket.Conn
	send    chan []byte
	receive chan *protocol.Message
	done    chan struct{}

	PlayerID   string
	PlayerName string

	// 客户端视角的对局状态
	State *GameState

	// 网络延迟（毫秒）
	latency atomic.Int64

	// 回调，在读协程中调用
	OnMessage func(*protocol.Message)
	OnError   func(error)
	OnClose   func()

	mu     sync.RWMutex
	closed bool
}

// NewClient 创建客户端，frameCodec 需与服务端 server.codec 一致，nil 时使用 JSON
func NewClient(serverURL string, frameCodec codec.Codec) *Client {
	if frameCodec == nil {
		frameCodec = codec.JSONCodec{}
	}
	return &Client{
		ServerURL: serverURL,
		codec:     frameCodec,
		State:     NewGameState(),
		send:      make(chan []byte, 256),
		receive:   make(chan *protocol.Message, 256),
		done:      make(chan struct{}),
	}
}

// Connect 连接服务器并等待 connected 消息
func (c *Client) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, resp, err := dialer.DialContext(ctx, c.ServerURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return err
	}
	c.conn = conn

	// 启动读写协程
	go c.readPump()
	go c.writePump()

	for {
		msg, err := c.receiveCtx(ctx)
		if err != nil {
			c.Close()
			return err
		}
		if msg.Type == protocol.MsgConnected {
			return nil
		}
	}
}

// SendMessage 发送消息
func (c *Client) SendMessage(msg *protocol.Message) error {
	data, err := c.codec.Encode(msg)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Receive 接收消息 (阻塞)
func (c *Client) Receive() (*protocol.Message, error) {
	return c.receiveCtx(context.Background())
}

// ReceiveWithTimeout 带超时接收消息
func (c *Client) ReceiveWithTimeout(timeout time.Duration) (*protocol.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	msg, err := c.receiveCtx(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, ErrTimeout
	}
	return msg, err
}

// WaitFor 丢弃其他消息，直到收到指定类型的消息
func (c *Client) WaitFor(msgType protocol.MessageType, timeout time.Duration) (*protocol.Message, error) {
	deadline := time.Now().Add(timeout)
	for {
		msg, err := c.ReceiveWithTimeout(time.Until(deadline))
		if err != nil {
			return nil, err
		}
		if msg.Type == msgType {
			return msg, nil
		}
	}
}

func (c *Client) receiveCtx(ctx context.Context) (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, ErrClosed
	}
}

// Close 关闭连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

// IsConnected 是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil
}

// Latency 最近一次心跳的往返延迟（毫秒）
func (c *Client) Latency() int64 {
	return c.latency.Load()
}
