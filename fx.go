package notif

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-notif/internal/core/muxer"
	"github.com/dep2p/go-notif/internal/core/swarm"
	"github.com/dep2p/go-notif/internal/core/upgrader"
	"github.com/dep2p/go-notif/internal/protocol/notifications"
	notifif "github.com/dep2p/go-notif/pkg/interfaces/notifications"
	"github.com/dep2p/go-notif/pkg/lib/log"
)

var fxLogger = log.Logger("notif/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//
//	Muxer → Upgrader → Protocol(notifications) → Swarm
func buildFxApp(o *options, node *Node) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		// 配置注入
		fx.Supply(o.config),
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 指标（条件加载）
	// ════════════════════════════════════════════════════════════════════════
	if o.config.Metrics.Enable {
		reg := o.registry
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return reg }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 连接层与协议层
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		muxer.Module,         // Yamux 多路复用
		upgrader.Module(),    // 连接升级器
		notifications.Module, // 通知协议处理器

		// 连接驱动
		swarm.Module[HandlerIn, HandlerOut, notifif.Substream](),
	)

	// ════════════════════════════════════════════════════════════════════════
	// 4. 用户自定义选项
	// ════════════════════════════════════════════════════════════════════════
	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 5. Node 组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Invoke(injectNodeComponents(node)))

	// ════════════════════════════════════════════════════════════════════════
	// 6. Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	if o.config.Log.FxEvents {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("create fx event logger: %w", err)
		}
		modules = append(modules, fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zl}
		}))
	} else {
		// 禁用 Fx 日志输出（避免干扰用户日志）
		modules = append(modules, fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}))
	}

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		fxLogger.Error("Fx 应用构建失败", "error", err)
		return nil, err
	}
	return app, nil
}

// ════════════════════════════════════════════════════════════════════════════
// 组件注入辅助函数
// ════════════════════════════════════════════════════════════════════════════

// nodeInjectParams Node 组件注入参数
type nodeInjectParams struct {
	fx.In

	Swarm *nodeSwarm
	Proto *notifications.HandlerProto
}

// injectNodeComponents 把 Fx 构造的组件交给 Node
func injectNodeComponents(node *Node) func(nodeInjectParams) {
	return func(p nodeInjectParams) {
		node.swarm = p.Swarm
		node.proto = p.Proto
		fxLogger.Debug("节点组件已注入", "protocol", p.Proto.ProtocolName())
	}
}
