// Package handler 定义连接处理器接口
//
// 连接层为每条连接持有一个 ConnectionHandler，负责：
//   - 协商入站子流并把升级结果交给处理器
//   - 把上层引擎的输入事件转交处理器
//   - 反复 Poll 处理器取得输出事件
//   - 根据 ConnectionKeepAlive 决定是否回收空闲连接
//
// 处理器只由连接层的单个 goroutine 驱动，自身不加锁。
package handler

import (
	"context"

	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
	"github.com/dep2p/go-notif/pkg/types"
)

// ============================================================================
//                              升级描述
// ============================================================================

// InboundUpgrade 入站升级描述
//
// S 为升级完成后得到的子流类型。
type InboundUpgrade[S any] interface {
	// ProtocolInfo 返回可接受的协议列表
	ProtocolInfo() []types.ProtocolID

	// UpgradeInbound 在协议协商完成后把原始流升级为子流
	UpgradeInbound(ctx context.Context, stream muxerif.Stream, protocol types.ProtocolID) (S, error)
}

// OutboundUpgrade 出站升级描述
type OutboundUpgrade interface {
	// ProtocolInfo 返回出站可用的协议列表
	ProtocolInfo() []types.ProtocolID

	// UpgradeOutbound 升级出站流
	UpgradeOutbound(ctx context.Context, stream muxerif.Stream, protocol types.ProtocolID) error
}

// ============================================================================
//                              ConnectionHandler 接口
// ============================================================================

// ConnectionHandler 单连接处理器
//
// In 为上层引擎发给处理器的事件，Out 为处理器产生的事件。
type ConnectionHandler[In, Out, S any] interface {
	// ListenProtocol 返回入站子流需要协商的升级描述
	ListenProtocol() InboundUpgrade[S]

	// InjectFullyNegotiatedInbound 入站子流升级完成
	InjectFullyNegotiatedInbound(substream S)

	// InjectFullyNegotiatedOutbound 出站子流升级完成
	InjectFullyNegotiatedOutbound(stream muxerif.Stream)

	// InjectEvent 注入上层引擎的事件
	InjectEvent(event In)

	// InjectDialUpgradeError 出站升级失败
	InjectDialUpgradeError(err error)

	// ConnectionKeepAlive 查询连接是否需要保活
	ConnectionKeepAlive() types.KeepAlive

	// Poll 取得一个输出事件
	//
	// 不阻塞。没有进展时第二个返回值为 false，
	// 调用方应等待 Wake 或新的注入后再次调用。
	Poll() (Out, bool)

	// Wake 返回唤醒通道
	//
	// 可能为 nil（没有等待中的子流）。
	Wake() <-chan struct{}

	// Close 释放处理器持有的资源
	Close() error
}

// IntoHandler 处理器工厂
//
// 连接建立且对端身份和端点已知时创建处理器。
type IntoHandler[In, Out, S any] interface {
	// InboundProtocol 返回入站升级描述
	InboundProtocol() InboundUpgrade[S]

	// IntoHandler 为连接创建新的处理器
	IntoHandler(peer types.PeerID, endpoint types.ConnectedPoint) ConnectionHandler[In, Out, S]
}
