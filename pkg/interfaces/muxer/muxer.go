// Package muxer 定义多路复用接口
//
// 一条 TCP 连接经过升级后成为 Muxer，入站的 Stream 经过协议协商
// 再升级为通知子流。
package muxer

import (
	"context"
	"io"
	"time"
)

// Muxer 单条连接上的多路复用会话
type Muxer interface {
	// NewStream 打开出站流，ctx 结束时放弃等待
	NewStream(ctx context.Context) (Stream, error)

	// AcceptStream 阻塞直到对端打开新流，会话关闭后返回错误
	AcceptStream() (Stream, error)

	// Close 关闭会话和其上所有流
	Close() error

	// IsClosed 会话是否已关闭
	IsClosed() bool

	// CloseChan 会话关闭时关闭
	CloseChan() <-chan struct{}
}

// Stream 会话上的一条全双工流
type Stream interface {
	io.ReadWriteCloser

	// ID 会话内唯一
	ID() uint32

	SetDeadline(t time.Time) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error

	// CloseWrite 半关闭，对端读到 EOF，本端仍可读
	CloseWrite() error

	// Reset 立即中止流，阻塞中的读写返回错误
	Reset() error
}

// MuxerFactory 在原始连接上建立会话
type MuxerFactory interface {
	// NewMuxer isServer 为监听端
	NewMuxer(conn io.ReadWriteCloser, isServer bool) (Muxer, error)

	// Protocol multistream-select 使用的协议名，如 "/yamux/1.0.0"
	Protocol() string
}

// Config 多路复用配置
type Config struct {
	// MaxStreams 待接受流的队列长度
	MaxStreams int

	// MaxStreamWindowSize 单流最大接收窗口
	MaxStreamWindowSize uint32

	// KeepAliveInterval 会话心跳间隔
	KeepAliveInterval time.Duration

	// ConnectionWriteTimeout 写超时，超时后会话关闭
	ConnectionWriteTimeout time.Duration

	// EnableKeepAlive 是否发送会话心跳
	EnableKeepAlive bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		MaxStreams:             256,
		MaxStreamWindowSize:    256 << 10,
		KeepAliveInterval:      30 * time.Second,
		ConnectionWriteTimeout: 10 * time.Second,
		EnableKeepAlive:        true,
	}
}
