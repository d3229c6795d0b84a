package swarm

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
)

// Config Swarm 配置
type Config struct {
	// DialTimeout 拨号超时
	DialTimeout time.Duration

	// NegotiationTimeout 入站子流协商超时
	NegotiationTimeout time.Duration

	// IdleTimeout 处理器不需要保活后关闭连接的等待时间
	IdleTimeout time.Duration

	// EventBufferSize 事件通道缓冲
	EventBufferSize int

	// InputBufferSize 每个连接的输入通道缓冲
	InputBufferSize int
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		DialTimeout:        15 * time.Second,
		NegotiationTimeout: 10 * time.Second,
		IdleTimeout:        10 * time.Second,
		EventBufferSize:    64,
		InputBufferSize:    16,
	}
}

// Validate 超时必须为正，缓冲不能为负
func (c *Config) Validate() error {
	for name, d := range map[string]time.Duration{
		"dial_timeout":        c.DialTimeout,
		"negotiation_timeout": c.NegotiationTimeout,
		"idle_timeout":        c.IdleTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, name)
		}
	}
	if c.EventBufferSize < 0 || c.InputBufferSize < 0 {
		return fmt.Errorf("%w: buffer sizes must not be negative", ErrInvalidConfig)
	}
	return nil
}

// options 构造选项
type options struct {
	config  *Config
	clock   clock.Clock
	metrics *Metrics
}

// Option Swarm 选项函数
type Option func(*options) error

// WithConfig 设置配置
func WithConfig(config *Config) Option {
	return func(o *options) error {
		if config == nil {
			return ErrInvalidConfig
		}
		if err := config.Validate(); err != nil {
			return err
		}
		o.config = config
		return nil
	}
}

// WithClock 设置时钟，测试中使用 clock.NewMock()
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		if clk != nil {
			o.clock = clk
		}
		return nil
	}
}

// WithMetrics 设置指标
func WithMetrics(m *Metrics) Option {
	return func(o *options) error {
		o.metrics = m
		return nil
	}
}
