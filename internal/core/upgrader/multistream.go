package upgrader

import (
	"context"
	"fmt"
	"net"
	"time"

	mss "github.com/multiformats/go-multistream"

	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
)

// negotiateMuxer 用 multistream-select 选出多路复用器
//
// 监听端用 Negotiate 回应提议，拨号端用 SelectOneOf 依次提议。
// 协商期间连接的超时取 negotiateTimeout 与 ctx 截止时间中较早者。
func (u *Upgrader) negotiateMuxer(ctx context.Context, conn net.Conn, isServer bool) (muxerif.MuxerFactory, error) {
	deadline := time.Now().Add(u.negotiateTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}
	defer conn.SetDeadline(time.Time{})

	var (
		selected string
		err      error
	)
	if isServer {
		selected, _, err = u.listener.Negotiate(conn)
	} else {
		selected, err = mss.SelectOneOf(u.proposals, conn)
	}
	if err != nil {
		return nil, err
	}

	factory, ok := u.byProto[selected]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMuxerNotFound, selected)
	}
	return factory, nil
}
