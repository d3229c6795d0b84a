// Package swarm 实现连接层驱动
//
// swarm 为每条 TCP 连接建立 yamux 会话，并用一个 goroutine 驱动
// 该连接的处理器（handler.ConnectionHandler）。
//
// # 核心功能
//
// 连接管理：
//   - TCP 监听与拨号
//   - 连接升级（multistream-select 协商 yamux）
//   - 连接 ID（uuid）与端点信息
//   - 空闲回收（处理器不需要保活超过 IdleTimeout 后关闭连接）
//
// 入站子流：
//   - 接受循环为每个流启动协商 goroutine
//   - multistream-select 协商处理器的监听协议，超时为 NegotiationTimeout
//   - 升级成功的子流恰好交给处理器一次，不支持的协议被重置
//
// 驱动循环：
//   - 反复 Poll 处理器直到没有进展，事件带上节点和连接 ID 发往 Events()
//   - 然后在子流、引擎输入、处理器唤醒、空闲计时器、关闭之间 select
//
// # 快速开始
//
//	proto := notifications.New("/notif/1")
//	up, _ := upgrader.New(upgrader.Config{StreamMuxers: ...})
//
//	s, err := swarm.NewSwarm[notifications.HandlerIn, notifications.HandlerOut, notifif.Substream](proto, up)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	err = s.Listen("127.0.0.1:30333")
//
//	for ev := range s.Events() {
//	    if _, ok := ev.Out.(notifications.OpenRequest); ok {
//	        s.Send(ctx, ev.ConnID, notifications.Accept{Handshake: []byte("hi")})
//	    }
//	}
//
// 调用方必须持续读取 Events()，否则驱动循环会在发送事件时阻塞。
package swarm
