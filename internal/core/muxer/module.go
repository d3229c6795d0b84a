package muxer

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-notif/config"
	"github.com/dep2p/go-notif/internal/core/muxer/yamux"
	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
)

// ConfigFromUnified 从统一配置创建 Muxer 配置
func ConfigFromUnified(cfg *config.Config) muxerif.Config {
	if cfg == nil {
		return muxerif.DefaultConfig()
	}
	return muxerif.Config{
		MaxStreams:             cfg.Muxer.MaxStreams,
		MaxStreamWindowSize:    cfg.Muxer.MaxStreamWindowSize,
		KeepAliveInterval:      cfg.Muxer.KeepAliveInterval.Duration(),
		ConnectionWriteTimeout: cfg.Muxer.ConnectionWriteTimeout.Duration(),
		EnableKeepAlive:        cfg.Muxer.EnableKeepAlive,
	}
}

// Params Muxer 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Module 是 muxer 的 Fx 模块
var Module = fx.Module("muxer",
	fx.Provide(
		fx.Annotate(
			NewFactoryFromParams,
			fx.As(new(muxerif.MuxerFactory)),
		),
	),
)

// NewFactoryFromParams 从参数创建 yamux 工厂
func NewFactoryFromParams(p Params) *yamux.Factory {
	return yamux.NewFactory(ConfigFromUnified(p.UnifiedCfg))
}
