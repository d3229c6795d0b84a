package notifications

import (
	"github.com/dep2p/go-notif/internal/core/upgrade"
	"github.com/dep2p/go-notif/pkg/interfaces/handler"
	notifif "github.com/dep2p/go-notif/pkg/interfaces/notifications"
	"github.com/dep2p/go-notif/pkg/types"
)

// HandlerProto 处理器工厂
//
// 每个协议一个，构造后不可变。每条连接建立时创建新的 Handler。
type HandlerProto struct {
	inProtocol upgrade.NotificationsIn
	metrics    *protocolMetrics
}

var _ handler.IntoHandler[HandlerIn, HandlerOut, notifif.Substream] = (*HandlerProto)(nil)

// New 创建处理器工厂
func New(protocol types.ProtocolID, opts ...Option) *HandlerProto {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	return &HandlerProto{
		inProtocol: upgrade.NewNotificationsIn(protocol,
			upgrade.WithMaxHandshakeSize(config.MaxHandshakeSize),
			upgrade.WithMaxNotificationSize(config.MaxNotificationSize),
		),
		metrics: config.Metrics.forProtocol(protocol),
	}
}

// ProtocolName 返回协议名称
func (p *HandlerProto) ProtocolName() types.ProtocolID {
	return p.inProtocol.ProtocolName()
}

// InboundProtocol 返回入站升级描述
func (p *HandlerProto) InboundProtocol() handler.InboundUpgrade[notifif.Substream] {
	return p.inProtocol
}

// IntoHandler 为连接创建处理器
func (p *HandlerProto) IntoHandler(peer types.PeerID, endpoint types.ConnectedPoint) handler.ConnectionHandler[HandlerIn, HandlerOut, notifif.Substream] {
	return p.NewHandler(peer, endpoint)
}

// NewHandler 创建处理器：没有子流，pending 为零，队列为空
func (p *HandlerProto) NewHandler(peer types.PeerID, endpoint types.ConnectedPoint) *Handler {
	return &Handler{
		inProtocol: p.inProtocol,
		peer:       peer,
		endpoint:   endpoint,
		metrics:    p.metrics,
	}
}
