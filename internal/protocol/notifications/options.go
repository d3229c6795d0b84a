package notifications

import "github.com/dep2p/go-notif/internal/core/upgrade"

// Config 处理器配置
type Config struct {
	// MaxHandshakeSize 握手最大字节数
	MaxHandshakeSize int

	// MaxNotificationSize 单条通知最大字节数
	MaxNotificationSize int

	// Metrics 指标，nil 表示不记录
	Metrics *Metrics
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		MaxHandshakeSize:    upgrade.MaxHandshakeSize,
		MaxNotificationSize: upgrade.MaxNotificationSize,
	}
}

// Option 定义配置选项函数
type Option func(*Config)

// WithMaxHandshakeSize 设置握手大小限制
func WithMaxHandshakeSize(size int) Option {
	return func(c *Config) {
		c.MaxHandshakeSize = size
	}
}

// WithMaxNotificationSize 设置通知大小限制
func WithMaxNotificationSize(size int) Option {
	return func(c *Config) {
		c.MaxNotificationSize = size
	}
}

// WithMetrics 设置指标
func WithMetrics(m *Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}
