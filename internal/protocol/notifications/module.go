package notifications

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-notif/config"
	"github.com/dep2p/go-notif/pkg/interfaces/handler"
	notifif "github.com/dep2p/go-notif/pkg/interfaces/notifications"
	"github.com/dep2p/go-notif/pkg/types"
)

// MetricsParams 指标依赖参数
type MetricsParams struct {
	fx.In

	UnifiedCfg *config.Config       `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// Params 处理器工厂依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	Metrics    *Metrics       `optional:"true"`
}

// Module 是通知协议的 Fx 模块
//
// 提供 *HandlerProto，同时以 handler.IntoHandler 形式提供给连接层。
var Module = fx.Module("protocol/notifications",
	fx.Provide(
		NewMetricsFromParams,
		fx.Annotate(
			NewProtoFromParams,
			fx.As(fx.Self()),
			fx.As(new(handler.IntoHandler[HandlerIn, HandlerOut, notifif.Substream])),
		),
	),
)

// NewMetricsFromParams 按配置创建指标，未启用时返回 nil
func NewMetricsFromParams(p MetricsParams) (*Metrics, error) {
	if p.Registerer == nil {
		return nil, nil
	}
	namespace := "notif"
	if p.UnifiedCfg != nil {
		if !p.UnifiedCfg.Metrics.Enable {
			return nil, nil
		}
		namespace = p.UnifiedCfg.Metrics.Namespace
	}
	return NewMetrics(p.Registerer, namespace)
}

// NewProtoFromParams 从统一配置创建处理器工厂
func NewProtoFromParams(p Params) *HandlerProto {
	cfg := config.DefaultNotificationsConfig()
	if p.UnifiedCfg != nil {
		cfg = p.UnifiedCfg.Notifications
	}

	logger.Info("注册通知协议", "protocol", cfg.Protocol)
	return New(types.ProtocolID(cfg.Protocol),
		WithMaxHandshakeSize(cfg.MaxHandshakeSize),
		WithMaxNotificationSize(cfg.MaxNotificationSize),
		WithMetrics(p.Metrics),
	)
}
