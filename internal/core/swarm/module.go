package swarm

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-notif/config"
	"github.com/dep2p/go-notif/internal/core/upgrader"
	"github.com/dep2p/go-notif/pkg/interfaces/handler"
)

// Params Swarm 依赖参数
type Params[In, Out, S any] struct {
	fx.In

	Proto      handler.IntoHandler[In, Out, S]
	Upgrader   *upgrader.Upgrader
	UnifiedCfg *config.Config        `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
	Lifecycle  fx.Lifecycle
}

// Module 返回 Swarm Fx 模块
func Module[In, Out, S any]() fx.Option {
	return fx.Module("swarm",
		fx.Provide(
			NewSwarmFromParams[In, Out, S],
		),
	)
}

// ConfigFromUnified 从统一配置创建 Swarm 配置
func ConfigFromUnified(cfg *config.Config) *Config {
	if cfg == nil {
		return DefaultConfig()
	}

	defaultCfg := DefaultConfig()
	return &Config{
		DialTimeout:        defaultCfg.DialTimeout,
		NegotiationTimeout: cfg.Swarm.NegotiationTimeout.Duration(),
		IdleTimeout:        cfg.Swarm.IdleTimeout.Duration(),
		EventBufferSize:    cfg.Swarm.EventBufferSize,
		InputBufferSize:    cfg.Swarm.InputBufferSize,
	}
}

// NewSwarmFromParams 从参数创建 Swarm 并注册生命周期
//
// 启动时监听 Swarm.ListenAddr（为空则不监听），停止时关闭。
func NewSwarmFromParams[In, Out, S any](p Params[In, Out, S]) (*Swarm[In, Out, S], error) {
	opts := []Option{WithConfig(ConfigFromUnified(p.UnifiedCfg))}

	if p.Registerer != nil && (p.UnifiedCfg == nil || p.UnifiedCfg.Metrics.Enable) {
		namespace := "notif"
		if p.UnifiedCfg != nil {
			namespace = p.UnifiedCfg.Metrics.Namespace
		}
		m, err := NewMetrics(p.Registerer, namespace)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithMetrics(m))
	}

	s, err := NewSwarm(p.Proto, p.Upgrader, opts...)
	if err != nil {
		return nil, err
	}

	listenAddr := ""
	if p.UnifiedCfg != nil {
		listenAddr = p.UnifiedCfg.Swarm.ListenAddr
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if listenAddr == "" {
				return nil
			}
			return s.Listen(listenAddr)
		},
		OnStop: func(_ context.Context) error {
			return s.Close()
		},
	})
	return s, nil
}
