package upgrade

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dep2p/go-notif/pkg/interfaces/handler"
	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
	notifif "github.com/dep2p/go-notif/pkg/interfaces/notifications"
	"github.com/dep2p/go-notif/pkg/lib/log"
	"github.com/dep2p/go-notif/pkg/types"
)

var logger = log.Logger("core/upgrade")

// ============================================================================
//                              NotificationsIn
// ============================================================================

// NotificationsIn 入站通知子流升级描述
//
// 值类型，复制到每个处理器中使用。
type NotificationsIn struct {
	protocol types.ProtocolID
	limits   Limits
}

var _ handler.InboundUpgrade[notifif.Substream] = NotificationsIn{}

// NewNotificationsIn 创建入站升级描述
func NewNotificationsIn(protocol types.ProtocolID, opts ...Option) NotificationsIn {
	return NotificationsIn{
		protocol: protocol,
		limits:   applyOptions(opts),
	}
}

// ProtocolName 返回协议名称
func (u NotificationsIn) ProtocolName() types.ProtocolID {
	return u.protocol
}

// ProtocolInfo 返回可接受的协议列表
func (u NotificationsIn) ProtocolInfo() []types.ProtocolID {
	return []types.ProtocolID{u.protocol}
}

// Limits 返回大小限制
func (u NotificationsIn) Limits() Limits {
	return u.limits
}

// UpgradeInbound 把协商好的流包装为通知子流
func (u NotificationsIn) UpgradeInbound(ctx context.Context, stream muxerif.Stream, protocol types.ProtocolID) (notifif.Substream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if protocol != u.protocol {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrProtocolMismatch, protocol, u.protocol)
	}
	return NewNotificationsInSubstream(stream, u.limits), nil
}

// ============================================================================
//                              NotificationsInSubstream
// ============================================================================

// NotificationsInSubstream 入站通知子流
//
// 创建后即由后台 goroutine 读取帧。握手发送前 Poll 只报告关闭，
// 握手发送后依次交付缓冲的通知，读取结束后报告关闭。
//
// Poll 和 SendHandshake 只允许由同一个 goroutine 调用。
type NotificationsInSubstream struct {
	stream muxerif.Stream
	limits Limits

	handshakeSent bool

	frames   chan []byte   // 读取到的通知，读取结束时关闭
	finished chan struct{} // 读取 goroutine 退出时关闭
	wake     chan struct{} // 容量为 1 的唤醒信号

	closing   chan struct{}
	closeOnce sync.Once
	closeErr  error
}

var _ notifif.Substream = (*NotificationsInSubstream)(nil)

// NewNotificationsInSubstream 包装流并启动读取
func NewNotificationsInSubstream(stream muxerif.Stream, limits Limits) *NotificationsInSubstream {
	s := &NotificationsInSubstream{
		stream:   stream,
		limits:   limits,
		frames:   make(chan []byte, limits.FrameBuffer),
		finished: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		closing:  make(chan struct{}),
	}
	go s.readLoop()
	return s
}

// SendHandshake 发送握手
//
// 写入在后台进行，写入失败会重置流，随后 Poll 报告关闭。
func (s *NotificationsInSubstream) SendHandshake(handshake []byte) error {
	if s.handshakeSent {
		return ErrHandshakeAlreadySent
	}
	if len(handshake) > s.limits.MaxHandshakeSize {
		return fmt.Errorf("%w: %d > %d", ErrHandshakeTooLarge, len(handshake), s.limits.MaxHandshakeSize)
	}
	select {
	case <-s.closing:
		return ErrSubstreamClosed
	default:
	}

	s.handshakeSent = true
	s.signal()

	go func() {
		if err := WriteFrame(s.stream, handshake); err != nil {
			logger.Debug("握手写入失败", "stream", s.stream.ID(), "error", err)
			s.stream.Reset()
		}
	}()
	return nil
}

// HandshakeSent 握手是否已发送
func (s *NotificationsInSubstream) HandshakeSent() bool {
	return s.handshakeSent
}

// Poll 非阻塞地推进一次
func (s *NotificationsInSubstream) Poll() ([]byte, notifif.PollState) {
	if !s.handshakeSent {
		select {
		case <-s.finished:
			return nil, notifif.PollClosed
		default:
			return nil, notifif.PollPending
		}
	}

	select {
	case msg, ok := <-s.frames:
		if !ok {
			return nil, notifif.PollClosed
		}
		return msg, notifif.PollReady
	default:
		return nil, notifif.PollPending
	}
}

// Wake 返回唤醒通道
func (s *NotificationsInSubstream) Wake() <-chan struct{} {
	return s.wake
}

// Close 重置流并停止读取，可重复调用
func (s *NotificationsInSubstream) Close() error {
	s.closeOnce.Do(func() {
		close(s.closing)
		s.closeErr = s.stream.Reset()
	})
	return s.closeErr
}

func (s *NotificationsInSubstream) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *NotificationsInSubstream) readLoop() {
	defer func() {
		close(s.frames)
		close(s.finished)
		s.signal()
	}()

	r := bufio.NewReader(s.stream)
	for {
		msg, err := ReadFrame(r, s.limits.MaxNotificationSize)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				logger.Debug("对端关闭通知子流", "stream", s.stream.ID())
			case errors.Is(err, ErrFrameTooLarge):
				logger.Warn("通知超过大小限制，关闭子流", "stream", s.stream.ID(), "error", err)
				s.stream.Reset()
			default:
				logger.Debug("读取通知子流失败", "stream", s.stream.ID(), "error", err)
			}
			return
		}

		select {
		case s.frames <- msg:
			s.signal()
		case <-s.closing:
			return
		}
	}
}
