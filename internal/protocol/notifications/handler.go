package notifications

import (
	"github.com/dep2p/go-notif/internal/core/upgrade"
	"github.com/dep2p/go-notif/pkg/interfaces/handler"
	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
	notifif "github.com/dep2p/go-notif/pkg/interfaces/notifications"
	"github.com/dep2p/go-notif/pkg/lib/log"
	"github.com/dep2p/go-notif/pkg/types"
)

var logger = log.Logger("protocol/notifications")

// Handler 单连接的入站通知子流处理器
type Handler struct {
	inProtocol upgrade.NotificationsIn
	peer       types.PeerID
	endpoint   types.ConnectedPoint
	metrics    *protocolMetrics

	// substream 当前持有的子流，最多一条
	substream notifif.Substream

	// pending 已发出但尚未收到 Accept/Refuse 的 OpenRequest 数量
	pending int

	// queue 待交付的输出事件，只在尾部追加、从头部取出
	queue []HandlerOut
}

var _ handler.ConnectionHandler[HandlerIn, HandlerOut, notifif.Substream] = (*Handler)(nil)

// ProtocolName 返回接受的协议名称
func (h *Handler) ProtocolName() types.ProtocolID {
	return h.inProtocol.ProtocolName()
}

// Peer 返回对端节点
func (h *Handler) Peer() types.PeerID {
	return h.peer
}

// Endpoint 返回连接端点
func (h *Handler) Endpoint() types.ConnectedPoint {
	return h.endpoint
}

// State 返回当前状态
func (h *Handler) State() State {
	switch {
	case h.substream == nil:
		return StateIdle
	case h.pending > 0:
		return StateAwaitingDecision
	default:
		return StateOpen
	}
}

// Pending 返回尚未回复的 OpenRequest 数量
func (h *Handler) Pending() int {
	return h.pending
}

// ListenProtocol 返回入站升级描述
func (h *Handler) ListenProtocol() handler.InboundUpgrade[notifif.Substream] {
	return h.inProtocol
}

// OutboundProtocol 返回出站升级描述，永远拒绝
func (h *Handler) OutboundProtocol() handler.OutboundUpgrade {
	return upgrade.DeniedUpgrade{}
}

// InjectFullyNegotiatedInbound 入站子流升级完成
//
// 已持有子流时丢弃新的子流。
func (h *Handler) InjectFullyNegotiatedInbound(substream notifif.Substream) {
	if substream == nil {
		return
	}

	if h.substream != nil {
		logger.Warn("收到重复的入站子流",
			"peer", log.TruncateID(h.peer.String(), 8),
			"protocol", h.ProtocolName())
		h.metrics.duplicate()
		if err := substream.Close(); err != nil {
			logger.Debug("关闭重复子流失败", "error", err)
		}
		return
	}

	h.substream = substream
	h.queue = append(h.queue, OpenRequest{})
	h.pending++
	h.metrics.openRequest()

	logger.Debug("入站通知子流已协商",
		"peer", log.TruncateID(h.peer.String(), 8),
		"protocol", h.ProtocolName(),
		"pending", h.pending)
}

// InjectFullyNegotiatedOutbound 出站子流升级完成
//
// 处理器从不请求出站子流，到达这里说明连接层有误。
func (h *Handler) InjectFullyNegotiatedOutbound(stream muxerif.Stream) {
	logger.Error("不应出现的出站子流",
		"peer", log.TruncateID(h.peer.String(), 8),
		"protocol", h.ProtocolName())
	if stream != nil {
		stream.Reset()
	}
}

// InjectEvent 应用引擎的决定
//
// 只有让 pending 归零的决定会被应用，更早的决定已被后来的 OpenRequest 取代。
func (h *Handler) InjectEvent(event HandlerIn) {
	switch event.(type) {
	case Accept, Refuse:
	default:
		logger.Error("未知的处理器输入", "event", event)
		return
	}

	if h.pending == 0 {
		logger.Error("状态不一致：没有待回复的请求却收到 Accept/Refuse",
			"peer", log.TruncateID(h.peer.String(), 8),
			"protocol", h.ProtocolName())
		h.metrics.unexpected()
		return
	}

	h.pending--
	if h.pending != 0 {
		h.metrics.stale()
		return
	}

	switch ev := event.(type) {
	case Accept:
		h.accept(ev.Handshake)
	case Refuse:
		h.refuse()
	}
}

func (h *Handler) accept(handshake []byte) {
	if h.substream == nil {
		return
	}
	h.metrics.accept()
	if err := h.substream.SendHandshake(handshake); err != nil {
		logger.Warn("发送握手失败",
			"peer", log.TruncateID(h.peer.String(), 8),
			"protocol", h.ProtocolName(),
			"error", err)
	}
}

func (h *Handler) refuse() {
	h.metrics.refuse()
	if h.substream == nil {
		return
	}
	if err := h.substream.Close(); err != nil {
		logger.Debug("关闭被拒绝的子流失败", "error", err)
	}
	h.substream = nil
}

// InjectDialUpgradeError 出站升级失败
//
// 处理器从不拨出子流，只记录日志。
func (h *Handler) InjectDialUpgradeError(err error) {
	logger.Error("不应出现的出站升级错误",
		"peer", log.TruncateID(h.peer.String(), 8),
		"protocol", h.ProtocolName(),
		"error", err)
}

// ConnectionKeepAlive 持有子流时保活
func (h *Handler) ConnectionKeepAlive() types.KeepAlive {
	if h.substream != nil {
		return types.KeepAliveYes
	}
	return types.KeepAliveNo
}

// Poll 取得一个输出事件
//
// 队列非空时只取队首，不推进子流；否则推进子流一次。
func (h *Handler) Poll() (HandlerOut, bool) {
	if len(h.queue) > 0 {
		ev := h.queue[0]
		h.queue[0] = nil
		h.queue = h.queue[1:]
		return ev, true
	}

	if h.substream == nil {
		return nil, false
	}

	msg, state := h.substream.Poll()
	switch state {
	case notifif.PollReady:
		h.metrics.notification(len(msg))
		return Notif{Message: msg}, true
	case notifif.PollClosed:
		if err := h.substream.Close(); err != nil {
			logger.Debug("释放已关闭子流失败", "error", err)
		}
		h.substream = nil
		h.metrics.remoteClosed()
		logger.Debug("对端关闭了通知子流",
			"peer", log.TruncateID(h.peer.String(), 8),
			"protocol", h.ProtocolName())
		return Closed{}, true
	default:
		return nil, false
	}
}

// Wake 返回当前子流的唤醒通道，没有子流时为 nil
func (h *Handler) Wake() <-chan struct{} {
	if h.substream == nil {
		return nil
	}
	return h.substream.Wake()
}

// Close 释放持有的子流
func (h *Handler) Close() error {
	h.queue = nil
	if h.substream == nil {
		return nil
	}
	err := h.substream.Close()
	h.substream = nil
	return err
}
