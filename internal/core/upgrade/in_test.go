package upgrade

import (
	"context"
	"net"
	"testing"
	"time"

	mss "github.com/multiformats/go-multistream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-notif/internal/core/muxer/yamux"
	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
	notifif "github.com/dep2p/go-notif/pkg/interfaces/notifications"
	"github.com/dep2p/go-notif/pkg/types"
)

const testProtocol = types.ProtocolID("/notif/test/1")

// createMuxerPair 在 net.Pipe 上创建一对 yamux 多路复用器
func createMuxerPair(t *testing.T) (dialer, listener muxerif.Muxer) {
	t.Helper()

	a, b := net.Pipe()
	factory := yamux.NewFactory(muxerif.DefaultConfig())

	dialer, err := factory.NewMuxer(a, false)
	require.NoError(t, err)
	listener, err = factory.NewMuxer(b, true)
	require.NoError(t, err)

	t.Cleanup(func() {
		dialer.Close()
		listener.Close()
	})
	return dialer, listener
}

// acceptInbound 在监听端接受一个流并完成协商和升级
func acceptInbound(t *testing.T, listener muxerif.Muxer, in NotificationsIn) notifif.Substream {
	t.Helper()

	stream, err := listener.AcceptStream()
	require.NoError(t, err)

	mux := mss.NewMultistreamMuxer[types.ProtocolID]()
	for _, p := range in.ProtocolInfo() {
		mux.AddHandler(p, nil)
	}
	proto, _, err := mux.Negotiate(stream)
	require.NoError(t, err)

	sub, err := in.UpgradeInbound(context.Background(), stream, proto)
	require.NoError(t, err)
	t.Cleanup(func() { sub.Close() })
	return sub
}

// pollUntil 反复 Poll 直到非 Pending 或超时
func pollUntil(t *testing.T, sub notifif.Substream) ([]byte, notifif.PollState) {
	t.Helper()

	timeout := time.After(5 * time.Second)
	for {
		msg, state := sub.Poll()
		if state != notifif.PollPending {
			return msg, state
		}
		select {
		case <-sub.Wake():
		case <-timeout:
			t.Fatal("poll timed out")
			return nil, notifif.PollPending
		}
	}
}

type openResult struct {
	sub *NotificationsOutSubstream
	err error
}

func openOutbound(dialer muxerif.Muxer, out NotificationsOut) <-chan openResult {
	ch := make(chan openResult, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		sub, err := out.Open(ctx, dialer)
		ch <- openResult{sub, err}
	}()
	return ch
}

func TestNotificationsIn_Descriptor(t *testing.T) {
	in := NewNotificationsIn(testProtocol)
	assert.Equal(t, testProtocol, in.ProtocolName())
	assert.Equal(t, []types.ProtocolID{testProtocol}, in.ProtocolInfo())
	assert.Equal(t, DefaultLimits(), in.Limits())
}

func TestNotificationsIn_UpgradeErrors(t *testing.T) {
	in := NewNotificationsIn(testProtocol)

	_, err := in.UpgradeInbound(context.Background(), nil, "/other/1")
	assert.ErrorIs(t, err, ErrProtocolMismatch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = in.UpgradeInbound(ctx, nil, testProtocol)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestNotificationsIn_HandshakeAndNotifications 测试握手后依次收到通知，对端关闭后报告关闭
func TestNotificationsIn_HandshakeAndNotifications(t *testing.T) {
	dialer, listener := createMuxerPair(t)

	outCh := openOutbound(dialer, NewNotificationsOut(testProtocol))
	sub := acceptInbound(t, listener, NewNotificationsIn(testProtocol))

	// 握手发送前没有进展
	_, state := sub.Poll()
	assert.Equal(t, notifif.PollPending, state)

	require.NoError(t, sub.SendHandshake([]byte("hi")))
	assert.ErrorIs(t, sub.SendHandshake([]byte("again")), ErrHandshakeAlreadySent)

	res := <-outCh
	require.NoError(t, res.err)
	assert.Equal(t, "hi", string(res.sub.Handshake()))

	require.NoError(t, res.sub.Send([]byte("m1")))
	require.NoError(t, res.sub.Send([]byte("m2")))
	require.NoError(t, res.sub.Close())

	msg, state := pollUntil(t, sub)
	require.Equal(t, notifif.PollReady, state)
	assert.Equal(t, "m1", string(msg))

	msg, state = pollUntil(t, sub)
	require.Equal(t, notifif.PollReady, state)
	assert.Equal(t, "m2", string(msg))

	_, state = pollUntil(t, sub)
	assert.Equal(t, notifif.PollClosed, state)
}

// TestNotificationsIn_PeerClosesBeforeHandshake 测试握手前对端关闭
func TestNotificationsIn_PeerClosesBeforeHandshake(t *testing.T) {
	dialer, listener := createMuxerPair(t)

	go func() {
		stream, err := dialer.NewStream(context.Background())
		if err != nil {
			return
		}
		if err := mss.SelectProtoOrFail(testProtocol, stream); err != nil {
			return
		}
		stream.Close()
	}()

	sub := acceptInbound(t, listener, NewNotificationsIn(testProtocol))

	_, state := pollUntil(t, sub)
	assert.Equal(t, notifif.PollClosed, state)
}

func TestNotificationsIn_HandshakeTooLarge(t *testing.T) {
	dialer, listener := createMuxerPair(t)

	_ = openOutbound(dialer, NewNotificationsOut(testProtocol))
	sub := acceptInbound(t, listener, NewNotificationsIn(testProtocol, WithMaxHandshakeSize(4)))

	err := sub.SendHandshake([]byte("too large"))
	assert.ErrorIs(t, err, ErrHandshakeTooLarge)

	// 失败的握手不计入一次性发送
	assert.NoError(t, sub.SendHandshake([]byte("ok")))
}

// TestNotificationsIn_OversizeNotification 测试超长通知终止子流
func TestNotificationsIn_OversizeNotification(t *testing.T) {
	dialer, listener := createMuxerPair(t)

	outCh := openOutbound(dialer, NewNotificationsOut(testProtocol))
	sub := acceptInbound(t, listener, NewNotificationsIn(testProtocol, WithMaxNotificationSize(4)))
	require.NoError(t, sub.SendHandshake(nil))

	res := <-outCh
	require.NoError(t, res.err)
	require.NoError(t, res.sub.Send([]byte("0123456789")))

	_, state := pollUntil(t, sub)
	assert.Equal(t, notifif.PollClosed, state)
}

func TestNotificationsIn_CloseIdempotent(t *testing.T) {
	dialer, listener := createMuxerPair(t)

	_ = openOutbound(dialer, NewNotificationsOut(testProtocol))
	sub := acceptInbound(t, listener, NewNotificationsIn(testProtocol))

	assert.NoError(t, sub.Close())
	assert.NoError(t, sub.Close())
	assert.ErrorIs(t, sub.SendHandshake([]byte("hi")), ErrSubstreamClosed)

	_, state := pollUntil(t, sub)
	assert.Equal(t, notifif.PollClosed, state)
}

func TestNotificationsOut_UnsupportedProtocol(t *testing.T) {
	dialer, listener := createMuxerPair(t)

	outCh := openOutbound(dialer, NewNotificationsOut("/unknown/1"))

	stream, err := listener.AcceptStream()
	require.NoError(t, err)
	mux := mss.NewMultistreamMuxer[types.ProtocolID]()
	mux.AddHandler(testProtocol, nil)
	go mux.Negotiate(stream)

	res := <-outCh
	assert.Error(t, res.err)
}

func TestNotificationsOut_SendTooLarge(t *testing.T) {
	sub := &NotificationsOutSubstream{limits: applyOptions([]Option{WithMaxNotificationSize(2)})}
	assert.ErrorIs(t, sub.Send([]byte("abc")), ErrFrameTooLarge)
}
