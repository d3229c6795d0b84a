package config

import (
	"fmt"
	"time"
)

// MuxerConfig yamux 多路复用配置
type MuxerConfig struct {
	// MaxStreams 最大待接受流数
	MaxStreams int `json:"max_streams"`

	// MaxStreamWindowSize 最大流窗口大小
	MaxStreamWindowSize uint32 `json:"max_stream_window_size"`

	// EnableKeepAlive 是否启用 yamux 保活
	EnableKeepAlive bool `json:"enable_keep_alive"`

	// KeepAliveInterval 保活间隔
	KeepAliveInterval Duration `json:"keep_alive_interval"`

	// ConnectionWriteTimeout 连接写超时
	ConnectionWriteTimeout Duration `json:"connection_write_timeout"`
}

// DefaultMuxerConfig 返回默认多路复用配置
func DefaultMuxerConfig() MuxerConfig {
	return MuxerConfig{
		MaxStreams:             256,
		MaxStreamWindowSize:    256 * 1024,
		EnableKeepAlive:        true,
		KeepAliveInterval:      Duration(30 * time.Second),
		ConnectionWriteTimeout: Duration(10 * time.Second),
	}
}

// Validate 验证多路复用配置
func (c MuxerConfig) Validate() error {
	if c.MaxStreams < 0 {
		return fmt.Errorf("%w: max_streams must not be negative", ErrInvalidConfig)
	}
	// yamux 要求窗口不小于 256 KB
	if c.MaxStreamWindowSize != 0 && c.MaxStreamWindowSize < 256*1024 {
		return fmt.Errorf("%w: max_stream_window_size must be at least 262144", ErrInvalidConfig)
	}
	if c.EnableKeepAlive && c.KeepAliveInterval <= 0 {
		return fmt.Errorf("%w: keep_alive_interval must be positive", ErrInvalidConfig)
	}
	return nil
}
