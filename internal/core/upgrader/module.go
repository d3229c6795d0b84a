package upgrader

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-notif/config"
	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
)

// Params Upgrader 依赖参数
type Params struct {
	fx.In

	Muxer      muxerif.MuxerFactory
	UnifiedCfg *config.Config `optional:"true"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("upgrader",
		fx.Provide(ProvideUpgrader),
	)
}

// ConfigFromUnified 从统一配置创建 Upgrader 配置
//
// 多路复用器协商与子流协商共用 Swarm.NegotiationTimeout。
func ConfigFromUnified(cfg *config.Config, muxer muxerif.MuxerFactory) Config {
	c := NewConfig(muxer)
	if cfg != nil {
		c.NegotiateTimeout = cfg.Swarm.NegotiationTimeout.Duration()
	}
	return c
}

// ProvideUpgrader 提供 Upgrader
func ProvideUpgrader(p Params) (*Upgrader, error) {
	u, err := New(ConfigFromUnified(p.UnifiedCfg, p.Muxer))
	if err != nil {
		return nil, err
	}
	logger.Debug("升级器就绪", "muxers", u.Protocols())
	return u, nil
}
