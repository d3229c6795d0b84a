package config

import (
	"fmt"
	"time"
)

// SwarmConfig 连接层配置
type SwarmConfig struct {
	// ListenAddr TCP 监听地址，空表示不监听
	ListenAddr string `json:"listen_addr"`

	// NegotiationTimeout 入站子流协商超时
	NegotiationTimeout Duration `json:"negotiation_timeout"`

	// IdleTimeout 处理器不需要保活后关闭连接的等待时间
	IdleTimeout Duration `json:"idle_timeout"`

	// EventBufferSize 处理器事件缓冲大小
	EventBufferSize int `json:"event_buffer_size"`

	// InputBufferSize 每个连接的决策输入缓冲大小
	InputBufferSize int `json:"input_buffer_size"`
}

// DefaultSwarmConfig 返回默认连接层配置
func DefaultSwarmConfig() SwarmConfig {
	return SwarmConfig{
		ListenAddr:         "127.0.0.1:0",
		NegotiationTimeout: Duration(10 * time.Second),
		IdleTimeout:        Duration(10 * time.Second),
		EventBufferSize:    64,
		InputBufferSize:    16,
	}
}

// Validate 验证连接层配置
func (c SwarmConfig) Validate() error {
	if c.NegotiationTimeout <= 0 {
		return fmt.Errorf("%w: negotiation_timeout must be positive", ErrInvalidConfig)
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("%w: idle_timeout must be positive", ErrInvalidConfig)
	}
	if c.EventBufferSize < 0 || c.InputBufferSize < 0 {
		return fmt.Errorf("%w: buffer sizes must not be negative", ErrInvalidConfig)
	}
	return nil
}
