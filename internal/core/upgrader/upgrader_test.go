package upgrader

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-notif/config"
	"github.com/dep2p/go-notif/internal/core/muxer/yamux"
	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
	"github.com/dep2p/go-notif/pkg/types"
)

// fakeFactory 只用于协商失败场景的多路复用器
type fakeFactory struct {
	proto string
}

func (f fakeFactory) NewMuxer(io.ReadWriteCloser, bool) (muxerif.Muxer, error) {
	return nil, errors.New("not implemented")
}

func (f fakeFactory) Protocol() string { return f.proto }

func newTestUpgrader(t *testing.T, factories ...muxerif.MuxerFactory) *Upgrader {
	t.Helper()
	if len(factories) == 0 {
		factories = []muxerif.MuxerFactory{yamux.NewFactory(muxerif.DefaultConfig())}
	}
	u, err := New(Config{StreamMuxers: factories, NegotiateTimeout: 5 * time.Second})
	require.NoError(t, err)
	return u
}

type upgradeResult struct {
	conn *UpgradedConn
	err  error
}

// upgradePair 在 net.Pipe 两端并发执行升级
func upgradePair(t *testing.T, server, client *Upgrader) (upgradeResult, upgradeResult) {
	t.Helper()

	serverConn, clientConn := net.Pipe()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverCh := make(chan upgradeResult, 1)
	go func() {
		c, err := server.Upgrade(ctx, serverConn, types.DirInbound)
		serverCh <- upgradeResult{c, err}
	}()

	c, err := client.Upgrade(ctx, clientConn, types.DirOutbound)
	clientRes := upgradeResult{c, err}
	if err != nil {
		// 客户端失败时已关闭连接，服务端随之结束
		clientConn.Close()
	}
	return <-serverCh, clientRes
}

func TestUpgrader_New(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoStreamMuxer)

	u := newTestUpgrader(t)
	assert.Equal(t, defaultNegotiateTimeout, NewConfig().NegotiateTimeout)
	assert.Equal(t, 5*time.Second, u.negotiateTimeout)
}

func TestUpgrader_NilConn(t *testing.T) {
	u := newTestUpgrader(t)
	_, err := u.Upgrade(context.Background(), nil, types.DirInbound)
	assert.ErrorIs(t, err, ErrNilConn)
}

// TestUpgrader_Upgrade 测试两端升级后可以收发数据
func TestUpgrader_Upgrade(t *testing.T) {
	serverRes, clientRes := upgradePair(t, newTestUpgrader(t), newTestUpgrader(t))
	require.NoError(t, serverRes.err)
	require.NoError(t, clientRes.err)
	defer serverRes.conn.Close()
	defer clientRes.conn.Close()

	assert.Equal(t, yamux.ProtocolID, serverRes.conn.MuxerProtocol())
	assert.True(t, serverRes.conn.Endpoint().IsListener())
	assert.True(t, clientRes.conn.Endpoint().IsDialer())
	assert.Equal(t, types.PeerID(serverRes.conn.Endpoint().RemoteAddr), serverRes.conn.RemotePeer())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := clientRes.conn.NewStream(ctx)
	require.NoError(t, err)
	_, err = stream.Write([]byte("ping"))
	require.NoError(t, err)

	accepted, err := serverRes.conn.AcceptStream()
	require.NoError(t, err)

	buf := make([]byte, 4)
	_, err = io.ReadFull(accepted, buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))
}

// TestUpgrader_NoCommonMuxer 测试没有共同多路复用器时两端都失败
func TestUpgrader_NoCommonMuxer(t *testing.T) {
	client := newTestUpgrader(t, fakeFactory{proto: "/mplex/6.7.0"})

	serverRes, clientRes := upgradePair(t, newTestUpgrader(t), client)
	assert.Error(t, clientRes.err)
	assert.Error(t, serverRes.err)
}

func TestConfigFromUnified(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Swarm.NegotiationTimeout = config.Duration(3 * time.Second)

	f := yamux.NewFactory(muxerif.DefaultConfig())
	uc := ConfigFromUnified(cfg, f)
	assert.Equal(t, 3*time.Second, uc.NegotiateTimeout)
	require.Len(t, uc.StreamMuxers, 1)

	uc = ConfigFromUnified(nil, f)
	assert.Equal(t, defaultNegotiateTimeout, uc.NegotiateTimeout)
}

func TestConfig_Validate(t *testing.T) {
	f := yamux.NewFactory(muxerif.DefaultConfig())

	assert.ErrorIs(t, NewConfig().Validate(), ErrNoStreamMuxer)
	assert.ErrorIs(t, NewConfig(f, fakeFactory{proto: yamux.ProtocolID}).Validate(), ErrDuplicateMuxer)
	assert.NoError(t, NewConfig(f, fakeFactory{proto: "/mplex/6.7.0"}).Validate())

	u, err := New(NewConfig(f, fakeFactory{proto: "/mplex/6.7.0"}))
	require.NoError(t, err)
	assert.Equal(t, []string{yamux.ProtocolID, "/mplex/6.7.0"}, u.Protocols())
}
