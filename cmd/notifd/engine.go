package main

import (
	"context"
	"fmt"
	"io"

	notif "github.com/dep2p/go-notif"
)

// Node 引擎依赖的节点能力
type Node interface {
	Events() <-chan notif.Event
	Send(ctx context.Context, connID notif.ConnID, in notif.HandlerIn) error
}

// engine 命令行使用的简单决策引擎
//
// 对每个 OpenRequest 统一接受或拒绝，并打印收到的通知。
type engine struct {
	node      Node
	handshake []byte
	refuse    bool
	out       io.Writer
}

// run 处理事件直到 ctx 结束或事件通道关闭
func (e *engine) run(ctx context.Context) error {
	events := e.node.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := e.handle(ctx, ev); err != nil {
				logger.Warn("处理事件失败", "event", ev.String(), "error", err)
			}
		}
	}
}

func (e *engine) handle(ctx context.Context, ev notif.Event) error {
	switch ev.Type {
	case notif.EventConnectionEstablished:
		fmt.Fprintf(e.out, "+ %s (%s)\n", ev.Peer, ev.ConnID.ShortString())
		return nil
	case notif.EventConnectionClosed:
		fmt.Fprintf(e.out, "- %s (%s)\n", ev.Peer, ev.ConnID.ShortString())
		return nil
	}

	switch out := ev.Out.(type) {
	case notif.OpenRequest:
		if e.refuse {
			return e.node.Send(ctx, ev.ConnID, notif.Refuse{})
		}
		return e.node.Send(ctx, ev.ConnID, notif.Accept{Handshake: e.handshake})
	case notif.Notif:
		fmt.Fprintf(e.out, "%s: %s\n", ev.Peer, out.Message)
	case notif.Closed:
		fmt.Fprintf(e.out, "%s: 子流已关闭\n", ev.Peer)
	}
	return nil
}
