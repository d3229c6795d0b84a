// Package muxer 组装流多路复用模块
//
// 具体实现位于 yamux 子包，本包负责把统一配置转换为
// muxer.Config 并通过 Fx 提供 muxer.MuxerFactory。
//
// # yamux 配置
//
//   - MaxStreamWindowSize: 256KB 起（yamux 的下限）
//   - KeepAliveInterval: 30s（心跳检测）
//   - MaxStreams: 待接受流的上限
//
// 通知协议每个连接最多只保留一条入站子流，
// 因此默认的窗口和流数量足够使用。
package muxer
