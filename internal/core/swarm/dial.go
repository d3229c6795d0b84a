package swarm

import (
	"context"
	"fmt"
	"net"

	"github.com/dep2p/go-notif/pkg/types"
)

// Dial 拨号 TCP 地址并建立连接
//
// 拨号端连接同样由处理器驱动。
func (s *Swarm[In, Out, S]) Dial(ctx context.Context, addr string) (*Conn[In, Out, S], error) {
	if s.closed.Load() {
		return nil, ErrSwarmClosed
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.DialTimeout)
	defer cancel()

	var d net.Dialer
	rawConn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	uc, err := s.upgrader.Upgrade(ctx, rawConn, types.DirOutbound)
	if err != nil {
		return nil, fmt.Errorf("upgrade %s: %w", addr, err)
	}

	logger.Debug("拨号成功", "addr", addr, "muxer", uc.MuxerProtocol())
	return s.addConn(uc)
}
