package config

import (
	"fmt"

	"github.com/dep2p/go-notif/pkg/types"
)

// 通知协议默认值
const (
	// DefaultProtocol 默认通知协议名称
	DefaultProtocol = "/notif/1"

	// DefaultMaxHandshakeSize 握手消息最大字节数
	DefaultMaxHandshakeSize = 1024

	// DefaultMaxNotificationSize 单条通知最大字节数（1 MiB）
	DefaultMaxNotificationSize = 1024 * 1024
)

// NotificationsConfig 通知子流配置
type NotificationsConfig struct {
	// Protocol 入站子流协商使用的协议名称
	Protocol string `json:"protocol"`

	// MaxHandshakeSize 握手消息最大字节数
	MaxHandshakeSize int `json:"max_handshake_size"`

	// MaxNotificationSize 单条通知最大字节数
	MaxNotificationSize int `json:"max_notification_size"`
}

// DefaultNotificationsConfig 返回默认通知配置
func DefaultNotificationsConfig() NotificationsConfig {
	return NotificationsConfig{
		Protocol:            DefaultProtocol,
		MaxHandshakeSize:    DefaultMaxHandshakeSize,
		MaxNotificationSize: DefaultMaxNotificationSize,
	}
}

// Validate 验证通知配置
func (c NotificationsConfig) Validate() error {
	if err := types.ProtocolID(c.Protocol).Validate(); err != nil {
		return fmt.Errorf("%w: notifications protocol: %w", ErrInvalidConfig, err)
	}
	if c.MaxHandshakeSize <= 0 {
		return fmt.Errorf("%w: max_handshake_size must be positive", ErrInvalidConfig)
	}
	if c.MaxNotificationSize <= 0 {
		return fmt.Errorf("%w: max_notification_size must be positive", ErrInvalidConfig)
	}
	return nil
}

// WithProtocol 设置协议名称
func (c NotificationsConfig) WithProtocol(protocol string) NotificationsConfig {
	c.Protocol = protocol
	return c
}
