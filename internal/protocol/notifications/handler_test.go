package notifications

//go:generate mockgen -destination=mock_substream_test.go -package=notifications github.com/dep2p/go-notif/pkg/interfaces/notifications Substream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dep2p/go-notif/internal/core/upgrade"
	notifif "github.com/dep2p/go-notif/pkg/interfaces/notifications"
	"github.com/dep2p/go-notif/pkg/types"
)

const testProtocol = types.ProtocolID("/notif/test/1")

func newTestHandler() *Handler {
	return New(testProtocol).NewHandler("127.0.0.1:40123", types.ConnectedPoint{
		Direction:  types.DirInbound,
		LocalAddr:  "127.0.0.1:30333",
		RemoteAddr: "127.0.0.1:40123",
	})
}

// mustPoll 断言 Poll 产生事件
func mustPoll(t *testing.T, h *Handler) HandlerOut {
	t.Helper()
	ev, ok := h.Poll()
	require.True(t, ok, "expected an event")
	return ev
}

// assertNoEvent 断言 Poll 没有进展
func assertNoEvent(t *testing.T, h *Handler) {
	t.Helper()
	ev, ok := h.Poll()
	assert.False(t, ok, "unexpected event %v", ev)
	assert.Nil(t, ev)
}

// ============================================================================
//                              场景测试
// ============================================================================

// TestHandler_AcceptAndReceive 升级完成、接受后依次收到通知
func TestHandler_AcceptAndReceive(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := NewMockSubstream(ctrl)
	h := newTestHandler()

	h.InjectFullyNegotiatedInbound(sub)
	assert.Equal(t, StateAwaitingDecision, h.State())
	assert.Equal(t, OpenRequest{}, mustPoll(t, h))

	sub.EXPECT().SendHandshake([]byte("hi")).Return(nil).Times(1)
	h.InjectEvent(Accept{Handshake: []byte("hi")})
	assert.Equal(t, StateOpen, h.State())
	assert.Equal(t, 0, h.Pending())

	gomock.InOrder(
		sub.EXPECT().Poll().Return([]byte("m1"), notifif.PollReady),
		sub.EXPECT().Poll().Return(nil, notifif.PollPending),
		sub.EXPECT().Poll().Return([]byte("m2"), notifif.PollReady),
	)

	assert.Equal(t, Notif{Message: []byte("m1")}, mustPoll(t, h))
	assertNoEvent(t, h)
	assert.Equal(t, Notif{Message: []byte("m2")}, mustPoll(t, h))
	assert.Equal(t, types.KeepAliveYes, h.ConnectionKeepAlive())
}

// TestHandler_Refuse 拒绝后释放子流，不产生多余的 Closed
func TestHandler_Refuse(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := NewMockSubstream(ctrl)
	h := newTestHandler()

	h.InjectFullyNegotiatedInbound(sub)
	assert.Equal(t, OpenRequest{}, mustPoll(t, h))

	sub.EXPECT().Close().Return(nil).Times(1)
	h.InjectEvent(Refuse{})

	assert.Equal(t, StateIdle, h.State())
	assert.Equal(t, types.KeepAliveNo, h.ConnectionKeepAlive())
	assertNoEvent(t, h)
	assertNoEvent(t, h)
}

// TestHandler_DuplicateInbound 第二条入站子流被丢弃，状态不变
func TestHandler_DuplicateInbound(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := NewMockSubstream(ctrl)
	second := NewMockSubstream(ctrl)
	h := newTestHandler()

	second.EXPECT().Close().Return(nil).Times(1)

	h.InjectFullyNegotiatedInbound(first)
	h.InjectFullyNegotiatedInbound(second)

	assert.Equal(t, 1, h.Pending())
	assert.Same(t, first, h.substream)

	assert.Equal(t, OpenRequest{}, mustPoll(t, h))

	// 队列清空后才推进持有的子流
	first.EXPECT().Poll().Return(nil, notifif.PollPending)
	assertNoEvent(t, h)
}

// TestHandler_PeerClosesBeforeDecision 决定到达前对端关闭，迟到的 Accept 被忽略
func TestHandler_PeerClosesBeforeDecision(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := NewMockSubstream(ctrl)
	h := newTestHandler()

	h.InjectFullyNegotiatedInbound(sub)
	assert.Equal(t, OpenRequest{}, mustPoll(t, h))

	gomock.InOrder(
		sub.EXPECT().Poll().Return(nil, notifif.PollClosed),
		sub.EXPECT().Close().Return(nil),
	)
	assert.Equal(t, Closed{}, mustPoll(t, h))
	assert.Equal(t, StateIdle, h.State())
	// Closed 不取消未回复的 OpenRequest
	assert.Equal(t, 1, h.Pending())

	// SendHandshake 不会被调用
	h.InjectEvent(Accept{Handshake: []byte("late")})
	assert.Equal(t, 0, h.Pending())
	assert.Equal(t, StateIdle, h.State())
	assertNoEvent(t, h)
}

// ============================================================================
//                              计数对账
// ============================================================================

// TestHandler_StaleDecisionDiscarded 两个 OpenRequest 后只应用最后一个决定
func TestHandler_StaleDecisionDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := NewMockSubstream(ctrl)
	second := NewMockSubstream(ctrl)
	h := newTestHandler()

	h.InjectFullyNegotiatedInbound(first)
	assert.Equal(t, OpenRequest{}, mustPoll(t, h))

	gomock.InOrder(
		first.EXPECT().Poll().Return(nil, notifif.PollClosed),
		first.EXPECT().Close().Return(nil),
	)
	assert.Equal(t, Closed{}, mustPoll(t, h))

	h.InjectFullyNegotiatedInbound(second)
	assert.Equal(t, OpenRequest{}, mustPoll(t, h))
	assert.Equal(t, 2, h.Pending())

	// 第一个决定已过期
	h.InjectEvent(Accept{Handshake: []byte("stale")})
	assert.Equal(t, 1, h.Pending())
	assert.Equal(t, StateAwaitingDecision, h.State())

	second.EXPECT().SendHandshake([]byte("fresh")).Return(nil).Times(1)
	h.InjectEvent(Accept{Handshake: []byte("fresh")})
	assert.Equal(t, 0, h.Pending())
	assert.Equal(t, StateOpen, h.State())
}

// TestHandler_StaleRefuseDoesNotClose 过期的 Refuse 不关闭当前子流
func TestHandler_StaleRefuseDoesNotClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := NewMockSubstream(ctrl)
	second := NewMockSubstream(ctrl)
	h := newTestHandler()

	h.InjectFullyNegotiatedInbound(first)
	mustPoll(t, h)
	first.EXPECT().Poll().Return(nil, notifif.PollClosed)
	first.EXPECT().Close().Return(nil)
	mustPoll(t, h)

	h.InjectFullyNegotiatedInbound(second)
	mustPoll(t, h)

	h.InjectEvent(Refuse{})
	assert.Equal(t, StateAwaitingDecision, h.State())

	second.EXPECT().Close().Return(nil).Times(1)
	h.InjectEvent(Refuse{})
	assert.Equal(t, StateIdle, h.State())
}

// TestHandler_DecisionWithoutRequest 没有请求时的决定被丢弃，pending 不为负
func TestHandler_DecisionWithoutRequest(t *testing.T) {
	h := newTestHandler()

	h.InjectEvent(Accept{Handshake: []byte("x")})
	h.InjectEvent(Refuse{})

	assert.Equal(t, 0, h.Pending())
	assert.Equal(t, StateIdle, h.State())
	assertNoEvent(t, h)
}

// TestHandler_ExtraAcceptAfterOpen 打开后多余的 Accept 不会再次发送握手
func TestHandler_ExtraAcceptAfterOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := NewMockSubstream(ctrl)
	h := newTestHandler()

	h.InjectFullyNegotiatedInbound(sub)
	mustPoll(t, h)

	sub.EXPECT().SendHandshake([]byte("hs")).Return(nil).Times(1)
	h.InjectEvent(Accept{Handshake: []byte("hs")})
	h.InjectEvent(Accept{Handshake: []byte("hs")})

	assert.Equal(t, 0, h.Pending())
	assert.Equal(t, StateOpen, h.State())
}

// TestHandler_AcceptRoundTrip 握手内容原样交给子流，且只发送一次
func TestHandler_AcceptRoundTrip(t *testing.T) {
	payloads := [][]byte{
		nil,
		{},
		[]byte("status"),
		{0x00, 0xFF, 0x10, 0x80},
	}

	for _, payload := range payloads {
		ctrl := gomock.NewController(t)
		sub := NewMockSubstream(ctrl)
		h := newTestHandler()

		h.InjectFullyNegotiatedInbound(sub)
		mustPoll(t, h)

		var got []byte
		calls := 0
		sub.EXPECT().SendHandshake(gomock.Any()).DoAndReturn(func(b []byte) error {
			got = b
			calls++
			return nil
		})
		h.InjectEvent(Accept{Handshake: payload})

		assert.Equal(t, 1, calls)
		assert.Equal(t, payload, got)
	}
}

func TestHandler_SendHandshakeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := NewMockSubstream(ctrl)
	h := newTestHandler()

	h.InjectFullyNegotiatedInbound(sub)
	mustPoll(t, h)

	sub.EXPECT().SendHandshake(gomock.Any()).Return(upgrade.ErrHandshakeTooLarge)
	h.InjectEvent(Accept{Handshake: []byte("hs")})

	// 子流保留，由对端关闭或连接关闭时释放
	assert.Equal(t, StateOpen, h.State())
	assert.Equal(t, types.KeepAliveYes, h.ConnectionKeepAlive())
}

// ============================================================================
//                              队列与轮询
// ============================================================================

// TestHandler_QueueFIFO 队列按生成顺序交付，且先于子流推进
func TestHandler_QueueFIFO(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := NewMockSubstream(ctrl)
	second := NewMockSubstream(ctrl)
	h := newTestHandler()

	// 在轮询之前积累两个 OpenRequest
	first.EXPECT().Close().Return(nil)
	h.InjectFullyNegotiatedInbound(first)
	h.InjectEvent(Refuse{})
	h.InjectFullyNegotiatedInbound(second)
	require.Len(t, h.queue, 2)

	assert.Equal(t, OpenRequest{}, mustPoll(t, h))
	assert.Equal(t, OpenRequest{}, mustPoll(t, h))

	gomock.InOrder(
		second.EXPECT().Poll().Return([]byte("early"), notifif.PollReady),
		second.EXPECT().Poll().Return(nil, notifif.PollClosed),
		second.EXPECT().Close().Return(nil),
	)
	assert.Equal(t, Notif{Message: []byte("early")}, mustPoll(t, h))
	assert.Equal(t, Closed{}, mustPoll(t, h))
	assertNoEvent(t, h)
}

func TestHandler_IdleHasNoProgress(t *testing.T) {
	h := newTestHandler()

	assert.Equal(t, StateIdle, h.State())
	assert.Equal(t, types.KeepAliveNo, h.ConnectionKeepAlive())
	assert.Nil(t, h.Wake())
	assertNoEvent(t, h)
}

func TestHandler_Wake(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := NewMockSubstream(ctrl)
	h := newTestHandler()

	ch := make(chan struct{}, 1)
	sub.EXPECT().Wake().Return((<-chan struct{})(ch))

	h.InjectFullyNegotiatedInbound(sub)
	wake := h.Wake()
	require.NotNil(t, wake)

	ch <- struct{}{}
	select {
	case <-wake:
	case <-time.After(time.Second):
		t.Fatal("wake not delivered")
	}
}

// ============================================================================
//                              不一致状态
// ============================================================================

type fakeStream struct {
	reset bool
}

func (s *fakeStream) Read([]byte) (int, error)         { return 0, errors.New("unused") }
func (s *fakeStream) Write(p []byte) (int, error)      { return len(p), nil }
func (s *fakeStream) Close() error                     { return nil }
func (s *fakeStream) ID() uint32                       { return 1 }
func (s *fakeStream) SetDeadline(time.Time) error      { return nil }
func (s *fakeStream) SetReadDeadline(time.Time) error  { return nil }
func (s *fakeStream) SetWriteDeadline(time.Time) error { return nil }
func (s *fakeStream) CloseWrite() error                { return nil }
func (s *fakeStream) Reset() error                     { s.reset = true; return nil }

func TestHandler_UnexpectedOutbound(t *testing.T) {
	h := newTestHandler()

	stream := &fakeStream{}
	h.InjectFullyNegotiatedOutbound(stream)
	h.InjectFullyNegotiatedOutbound(nil)
	h.InjectDialUpgradeError(upgrade.ErrUpgradeDenied)

	assert.True(t, stream.reset)
	assert.Equal(t, StateIdle, h.State())
	assert.Equal(t, 0, h.Pending())
	assertNoEvent(t, h)
}

func TestHandler_UnknownInputIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := NewMockSubstream(ctrl)
	h := newTestHandler()

	h.InjectFullyNegotiatedInbound(sub)
	h.InjectEvent(nil)

	assert.Equal(t, 1, h.Pending())
}

func TestHandler_NilInboundIgnored(t *testing.T) {
	h := newTestHandler()
	h.InjectFullyNegotiatedInbound(nil)

	assert.Equal(t, 0, h.Pending())
	assertNoEvent(t, h)
}

func TestHandler_OutboundDenied(t *testing.T) {
	h := newTestHandler()

	out := h.OutboundProtocol()
	assert.Empty(t, out.ProtocolInfo())
	assert.ErrorIs(t, out.UpgradeOutbound(context.Background(), nil, testProtocol), upgrade.ErrUpgradeDenied)
}

// ============================================================================
//                              生命周期
// ============================================================================

func TestHandler_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := NewMockSubstream(ctrl)
	h := newTestHandler()

	h.InjectFullyNegotiatedInbound(sub)

	closeErr := errors.New("reset failed")
	sub.EXPECT().Close().Return(closeErr).Times(1)
	assert.ErrorIs(t, h.Close(), closeErr)

	assert.Equal(t, StateIdle, h.State())
	assertNoEvent(t, h)
	assert.NoError(t, h.Close())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting-decision", StateAwaitingDecision.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestEvents_String(t *testing.T) {
	assert.Equal(t, "OpenRequest", OpenRequest{}.String())
	assert.Equal(t, "Closed", Closed{}.String())
	assert.Equal(t, "Notif(3 bytes)", Notif{Message: []byte("abc")}.String())
}
