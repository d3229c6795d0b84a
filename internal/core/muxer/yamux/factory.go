package yamux

import (
	"fmt"
	"io"

	"github.com/hashicorp/yamux"

	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
)

// ProtocolID yamux 的协议标识
const ProtocolID = "/yamux/1.0.0"

// Factory 按固定配置创建 yamux 会话
type Factory struct {
	config muxerif.Config
	native *yamux.Config
}

var _ muxerif.MuxerFactory = (*Factory)(nil)

// NewFactory 创建 yamux 工厂
func NewFactory(config muxerif.Config) *Factory {
	return &Factory{
		config: config,
		native: ConfigToYamux(config),
	}
}

// NewMuxer 在连接上建立 yamux 会话
//
// 监听端为服务端。会话建立失败时不关闭 conn，由调用方处理。
func (f *Factory) NewMuxer(conn io.ReadWriteCloser, isServer bool) (muxerif.Muxer, error) {
	if conn == nil {
		return nil, ErrNilConn
	}

	newSession := yamux.Client
	if isServer {
		newSession = yamux.Server
	}
	session, err := newSession(conn, f.native)
	if err != nil {
		return nil, fmt.Errorf("create yamux session: %w", err)
	}
	return NewMuxer(session, isServer), nil
}

// Protocol 返回协议名称
func (f *Factory) Protocol() string {
	return ProtocolID
}

// Config 返回配置
func (f *Factory) Config() muxerif.Config {
	return f.config
}

// YamuxConfig 返回 yamux 原生配置
func (f *Factory) YamuxConfig() *yamux.Config {
	return f.native
}
