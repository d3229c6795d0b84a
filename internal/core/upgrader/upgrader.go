package upgrader

import (
	"context"
	"fmt"
	"net"
	"time"

	mss "github.com/multiformats/go-multistream"

	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
	"github.com/dep2p/go-notif/pkg/lib/log"
	"github.com/dep2p/go-notif/pkg/types"
)

var logger = log.Logger("core/upgrader")

// Upgrader 连接升级器
//
// 只读结构，可被多个 goroutine 同时使用。
type Upgrader struct {
	// 拨号端提议顺序
	proposals []string
	// 监听端协商器
	listener *mss.MultistreamMuxer[string]
	byProto  map[string]muxerif.MuxerFactory

	negotiateTimeout time.Duration
}

// New 创建连接升级器
func New(cfg Config) (*Upgrader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.NegotiateTimeout
	if timeout <= 0 {
		timeout = defaultNegotiateTimeout
	}

	u := &Upgrader{
		listener:         mss.NewMultistreamMuxer[string](),
		byProto:          make(map[string]muxerif.MuxerFactory, len(cfg.StreamMuxers)),
		negotiateTimeout: timeout,
	}
	for _, f := range cfg.StreamMuxers {
		u.proposals = append(u.proposals, f.Protocol())
		u.listener.AddHandler(f.Protocol(), nil)
		u.byProto[f.Protocol()] = f
	}
	return u, nil
}

// Protocols 返回支持的多路复用器协议
func (u *Upgrader) Protocols() []string {
	return append([]string(nil), u.proposals...)
}

// Upgrade 在原始连接上协商多路复用器并建立会话
//
// 监听端（DirInbound）作为 yamux 服务端。失败时关闭原始连接。
func (u *Upgrader) Upgrade(ctx context.Context, conn net.Conn, dir types.Direction) (*UpgradedConn, error) {
	if conn == nil {
		return nil, ErrNilConn
	}

	endpoint := types.ConnectedPoint{
		Direction:  dir,
		LocalAddr:  conn.LocalAddr().String(),
		RemoteAddr: conn.RemoteAddr().String(),
	}
	isServer := endpoint.IsListener()

	factory, err := u.negotiateMuxer(ctx, conn, isServer)
	if err != nil {
		logger.Warn("多路复用器协商失败", "remote", endpoint.RemoteAddr, "direction", dir, "error", err)
		conn.Close()
		return nil, fmt.Errorf("muxer negotiation: %w", err)
	}

	m, err := factory.NewMuxer(conn, isServer)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("muxer setup: %w", err)
	}

	logger.Debug("连接升级成功",
		"remote", endpoint.RemoteAddr,
		"direction", dir,
		"muxer", factory.Protocol())
	return &UpgradedConn{
		Muxer:    m,
		muxerID:  factory.Protocol(),
		endpoint: endpoint,
	}, nil
}
