// Package upgrader 实现连接升级器
//
// # 概述
//
// upgrader 负责将原始 TCP 连接升级为多路复用连接。
// 加密不在本模块范围内，升级只包含多路复用器协商：
//
//  1. 多路复用器协商（multistream-select）
//     - 客户端提议：[/yamux/1.0.0]
//     - 服务器选择：/yamux/1.0.0
//
//  2. 多路复用设置
//     - 创建 yamux session
//     - 按配置启用 keepalive
//
// # 使用示例
//
//	up, err := upgrader.New(upgrader.Config{
//	    StreamMuxers: []muxer.MuxerFactory{yamux.NewFactory(muxer.DefaultConfig())},
//	})
//
//	conn, _ := net.Dial("tcp", "127.0.0.1:30333")
//	uc, err := up.Upgrade(ctx, conn, types.DirOutbound)
//
//	stream, _ := uc.NewStream(ctx)
//
// # 依赖
//
// 外部库：
//   - go-multistream: 协议协商
package upgrader
