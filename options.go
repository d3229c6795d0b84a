package notif

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-notif/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	config *config.Config

	// registry 指标注册表，为空时由节点创建
	registry *prometheus.Registry

	// 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

// WithListenAddr 设置 TCP 监听地址，空字符串表示不监听
func WithListenAddr(addr string) Option {
	return func(o *options) error {
		o.config.Swarm.ListenAddr = addr
		return nil
	}
}

// WithProtocol 设置通知协议名
func WithProtocol(protocol string) Option {
	return func(o *options) error {
		if protocol == "" {
			return fmt.Errorf("%w: empty protocol", config.ErrInvalidConfig)
		}
		o.config.Notifications.Protocol = protocol
		return nil
	}
}

// WithRegistry 使用外部的 Prometheus 注册表
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) error {
		o.registry = reg
		return nil
	}
}

// WithMetrics 启用或禁用指标
func WithMetrics(enable bool) Option {
	return func(o *options) error {
		o.config.Metrics.Enable = enable
		return nil
	}
}

// WithFxOption 追加自定义 Fx 选项
func WithFxOption(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
