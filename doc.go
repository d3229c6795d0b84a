// Package notif 提供入站通知子流节点
//
// 节点在 TCP + yamux 连接上监听一个通知协议。对端每打开一个通知子流，
// 连接的处理器就向上层产生一个 OpenRequest，上层用 Accept 或 Refuse 回应；
// 接受之后对端发来的每条通知以 Notif 事件交付，对端关闭时产生 Closed。
//
// # 快速开始
//
//	node, err := notif.New(config.NewConfig())
//	if err != nil {
//	    return err
//	}
//	if err := node.Start(ctx); err != nil {
//	    return err
//	}
//	defer node.Close()
//
//	for ev := range node.Events() {
//	    switch out := ev.Out.(type) {
//	    case notif.OpenRequest:
//	        node.Send(ctx, ev.ConnID, notif.Accept{Handshake: []byte("hi")})
//	    case notif.Notif:
//	        fmt.Printf("%s: %s\n", ev.Peer, out.Message)
//	    }
//	}
//
// # 发送通知
//
// OpenNotifications 拨号远端节点并打开出站通知子流：
//
//	sub, err := node.OpenNotifications(ctx, "127.0.0.1:4001")
//	if err != nil {
//	    return err
//	}
//	defer sub.Close()
//	sub.Send([]byte("hello"))
//
// # 模块组装
//
// 节点内部使用 Fx 组装：
//
//	config → muxer(yamux) → upgrader → protocol/notifications → swarm
package notif
