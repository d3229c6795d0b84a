package swarm

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	mss "github.com/multiformats/go-multistream"
	"go.uber.org/multierr"

	"github.com/dep2p/go-notif/internal/core/upgrader"
	"github.com/dep2p/go-notif/pkg/interfaces/handler"
	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
	"github.com/dep2p/go-notif/pkg/types"
)

// Conn 单条连接及其驱动循环
//
// 处理器只由 run 所在的 goroutine 访问。
type Conn[In, Out, S any] struct {
	swarm    *Swarm[In, Out, S]
	id       types.ConnID
	peer     types.PeerID
	endpoint types.ConnectedPoint
	uc       *upgrader.UpgradedConn

	handler handler.ConnectionHandler[In, Out, S]
	listen  handler.InboundUpgrade[S]
	mss     *mss.MultistreamMuxer[types.ProtocolID]

	inputs     chan In
	substreams chan S
	acceptDone chan struct{} // 接受循环退出时关闭

	// 外部保活计数，如出站通知子流
	holds    atomic.Int32
	holdWake chan struct{}

	closing   chan struct{}
	closeOnce sync.Once
	done      chan struct{} // 驱动循环退出时关闭
	closeErr  error         // 释放资源时的错误
	reason    error         // 关闭原因
}

func newConn[In, Out, S any](s *Swarm[In, Out, S], uc *upgrader.UpgradedConn) *Conn[In, Out, S] {
	peer := uc.RemotePeer()
	endpoint := uc.Endpoint()
	h := s.proto.IntoHandler(peer, endpoint)

	// 监听协议在连接建立时确定，协商 goroutine 不访问处理器
	listen := h.ListenProtocol()
	mux := mss.NewMultistreamMuxer[types.ProtocolID]()
	for _, p := range listen.ProtocolInfo() {
		mux.AddHandler(p, nil)
	}

	return &Conn[In, Out, S]{
		swarm:      s,
		id:         types.NewConnID(),
		peer:       peer,
		endpoint:   endpoint,
		uc:         uc,
		handler:    h,
		listen:     listen,
		mss:        mux,
		inputs:     make(chan In, s.config.InputBufferSize),
		substreams: make(chan S),
		acceptDone: make(chan struct{}),
		holdWake:   make(chan struct{}, 1),
		closing:    make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// ID 返回连接 ID
func (c *Conn[In, Out, S]) ID() types.ConnID {
	return c.id
}

// RemotePeer 返回远端节点
func (c *Conn[In, Out, S]) RemotePeer() types.PeerID {
	return c.peer
}

// Endpoint 返回连接端点
func (c *Conn[In, Out, S]) Endpoint() types.ConnectedPoint {
	return c.endpoint
}

// NewStream 打开出站流
func (c *Conn[In, Out, S]) NewStream(ctx context.Context) (muxerif.Stream, error) {
	select {
	case <-c.done:
		return nil, ErrConnectionClosed
	default:
	}
	return c.uc.NewStream(ctx)
}

// Hold 在处理器之外保持连接存活，返回的函数释放保活
//
// 释放函数可重复调用，仅第一次生效。
func (c *Conn[In, Out, S]) Hold() (release func()) {
	c.holds.Add(1)
	c.wakeHold()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.holds.Add(-1)
			c.wakeHold()
		})
	}
}

func (c *Conn[In, Out, S]) wakeHold() {
	select {
	case c.holdWake <- struct{}{}:
	default:
	}
}

// Done 返回连接关闭通知
func (c *Conn[In, Out, S]) Done() <-chan struct{} {
	return c.done
}

// Close 关闭连接并等待驱动循环退出
func (c *Conn[In, Out, S]) Close() error {
	c.closeOnce.Do(func() {
		close(c.closing)
	})
	<-c.done
	return c.closeErr
}

// Reason 返回关闭原因，连接仍打开时为 nil
func (c *Conn[In, Out, S]) Reason() error {
	select {
	case <-c.done:
		return c.reason
	default:
		return nil
	}
}

func (c *Conn[In, Out, S]) send(ctx context.Context, in In) error {
	select {
	case c.inputs <- in:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ============================================================================
//                              驱动循环
// ============================================================================

// run 驱动处理器直到连接关闭
func (c *Conn[In, Out, S]) run(ctx context.Context) {
	reason := ErrConnectionClosed
	defer func() { c.finish(reason) }()

	h := c.handler
	if !c.swarm.emit(c.event(EventConnectionEstablished), c.closing) {
		return
	}

	var (
		idleTimer *clock.Timer
		idleC     <-chan time.Time

		// 多路复用器关闭后仍等待处理器交付已收到的通知
		acceptDone = c.acceptDone
		muxClosed  bool
	)
	defer func() {
		if idleTimer != nil {
			idleTimer.Stop()
		}
	}()

	for {
		// 推进处理器直到没有进展
		for {
			out, ok := h.Poll()
			if !ok {
				break
			}
			ev := c.event(EventHandler)
			ev.Out = out
			if !c.swarm.emit(ev, c.closing) {
				return
			}
		}

		if muxClosed && !h.ConnectionKeepAlive().IsYes() {
			return
		}

		// 保活：处理器持续不需要保活 IdleTimeout 后关闭连接
		if h.ConnectionKeepAlive().IsYes() || c.holds.Load() > 0 {
			if idleTimer != nil {
				idleTimer.Stop()
				idleTimer, idleC = nil, nil
			}
		} else if idleTimer == nil {
			idleTimer = c.swarm.clock.Timer(c.swarm.config.IdleTimeout)
			idleC = idleTimer.C
		}

		select {
		case <-ctx.Done():
			return
		case <-c.closing:
			return
		case <-acceptDone:
			acceptDone, muxClosed = nil, true
		case sub := <-c.substreams:
			h.InjectFullyNegotiatedInbound(sub)
		case in := <-c.inputs:
			h.InjectEvent(in)
		case <-h.Wake():
		case <-c.holdWake:
		case <-idleC:
			logger.Debug("连接空闲超时", "conn", c.id.ShortString(), "peer", c.peer)
			reason = ErrIdleTimeout
			return
		}
	}
}

// finish 释放处理器和连接，发送关闭事件
func (c *Conn[In, Out, S]) finish(reason error) {
	c.closeErr = multierr.Combine(c.handler.Close(), c.uc.Close())
	c.reason = reason
	close(c.done)

	c.swarm.removeConn(c)

	label := "closed"
	if errors.Is(reason, ErrIdleTimeout) {
		label = "idle"
	}
	c.swarm.metrics.connClosed(label)

	ev := c.event(EventConnectionClosed)
	ev.Err = reason
	c.swarm.emit(ev, nil)

	logger.Debug("连接已关闭", "conn", c.id.ShortString(), "peer", c.peer, "reason", reason)
}

func (c *Conn[In, Out, S]) event(t EventType) Event[Out] {
	return Event[Out]{
		Type:     t,
		ConnID:   c.id,
		Peer:     c.peer,
		Endpoint: c.endpoint,
	}
}

// ============================================================================
//                              入站子流
// ============================================================================

// acceptStreams 接受入站流，每个流单独协商
func (c *Conn[In, Out, S]) acceptStreams() {
	defer close(c.acceptDone)

	for {
		stream, err := c.uc.AcceptStream()
		if err != nil {
			select {
			case <-c.done:
			default:
				logger.Debug("接受流结束", "conn", c.id.ShortString(), "error", err)
			}
			return
		}
		go c.negotiateInbound(stream)
	}
}

// negotiateInbound 协商并升级入站流，成功后交给驱动循环
func (c *Conn[In, Out, S]) negotiateInbound(stream muxerif.Stream) {
	timeout := c.swarm.config.NegotiationTimeout
	ctx, cancel := context.WithTimeout(c.swarm.ctx, timeout)
	defer cancel()

	stream.SetDeadline(time.Now().Add(timeout))
	proto, _, err := c.mss.Negotiate(stream)
	if err != nil {
		logger.Debug("入站流协商失败", "conn", c.id.ShortString(), "error", err)
		c.swarm.metrics.negotiationFailed()
		stream.Reset()
		return
	}
	stream.SetDeadline(time.Time{})

	sub, err := c.listen.UpgradeInbound(ctx, stream, proto)
	if err != nil {
		logger.Debug("入站流升级失败", "conn", c.id.ShortString(), "protocol", proto, "error", err)
		c.swarm.metrics.negotiationFailed()
		stream.Reset()
		return
	}

	select {
	case c.substreams <- sub:
		c.swarm.metrics.substreamDelivered()
	case <-c.done:
		closeSubstream(sub)
	}
}

// closeSubstream 关闭未能交付的子流
func closeSubstream[S any](sub S) {
	if cl, ok := any(sub).(io.Closer); ok {
		cl.Close()
	}
}
