package upgrade

import (
	"context"
	"fmt"
	"time"

	mss "github.com/multiformats/go-multistream"

	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
	"github.com/dep2p/go-notif/pkg/types"
)

// StreamOpener 能打开新流的连接
type StreamOpener interface {
	NewStream(ctx context.Context) (muxerif.Stream, error)
}

// NotificationsOut 出站通知子流升级
//
// 拨号端使用：选择协议后等待对端握手，然后发送通知。
// 通知处理器本身不会打开出站子流。
type NotificationsOut struct {
	protocol types.ProtocolID
	limits   Limits
}

// NewNotificationsOut 创建出站升级描述
func NewNotificationsOut(protocol types.ProtocolID, opts ...Option) NotificationsOut {
	return NotificationsOut{
		protocol: protocol,
		limits:   applyOptions(opts),
	}
}

// ProtocolInfo 返回出站协议列表
func (u NotificationsOut) ProtocolInfo() []types.ProtocolID {
	return []types.ProtocolID{u.protocol}
}

// Open 在连接上打开流、选择协议并完成升级
func (u NotificationsOut) Open(ctx context.Context, conn StreamOpener) (*NotificationsOutSubstream, error) {
	stream, err := conn.NewStream(ctx)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}

	if d, ok := ctx.Deadline(); ok {
		stream.SetDeadline(d)
	}
	if err := mss.SelectProtoOrFail(u.protocol, stream); err != nil {
		stream.Reset()
		return nil, fmt.Errorf("select protocol %s: %w", u.protocol, err)
	}

	sub, err := u.UpgradeOutbound(ctx, stream, u.protocol)
	if err != nil {
		stream.Reset()
		return nil, err
	}
	return sub, nil
}

// UpgradeOutbound 等待对端握手
//
// 对端拒绝时会直接关闭流，此处返回读取错误。
func (u NotificationsOut) UpgradeOutbound(ctx context.Context, stream muxerif.Stream, protocol types.ProtocolID) (*NotificationsOutSubstream, error) {
	if protocol != u.protocol {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrProtocolMismatch, protocol, u.protocol)
	}

	if d, ok := ctx.Deadline(); ok {
		stream.SetReadDeadline(d)
	}
	// 逐字节读取，握手之后的数据留在流中
	handshake, err := ReadFrame(&byteReader{Reader: stream}, u.limits.MaxHandshakeSize)
	if err != nil {
		return nil, fmt.Errorf("read handshake: %w", err)
	}
	stream.SetDeadline(time.Time{})

	return &NotificationsOutSubstream{
		stream:    stream,
		handshake: handshake,
		limits:    u.limits,
	}, nil
}

// NotificationsOutSubstream 出站通知子流
type NotificationsOutSubstream struct {
	stream    muxerif.Stream
	handshake []byte
	limits    Limits
}

// Handshake 返回对端握手
func (s *NotificationsOutSubstream) Handshake() []byte {
	return s.handshake
}

// Send 发送一条通知
func (s *NotificationsOutSubstream) Send(msg []byte) error {
	if len(msg) > s.limits.MaxNotificationSize {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(msg), s.limits.MaxNotificationSize)
	}
	return WriteFrame(s.stream, msg)
}

// Close 关闭子流
func (s *NotificationsOutSubstream) Close() error {
	return s.stream.Close()
}

// Reset 重置子流
func (s *NotificationsOutSubstream) Reset() error {
	return s.stream.Reset()
}
