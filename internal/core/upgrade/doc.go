// Package upgrade 实现通知子流的升级协议
//
// 协议协商由连接层通过 multistream-select 完成，本包负责协商之后的部分：
//
//   - NotificationsIn: 入站升级描述，把协商好的流包装为 NotificationsInSubstream
//   - NotificationsInSubstream: 一次性发送握手，随后按帧读取对端通知
//   - NotificationsOut: 拨号端辅助，选择协议、等待对端握手、发送通知
//   - DeniedUpgrade: 永远拒绝的出站升级描述
//
// # 帧格式
//
// 每一帧为 unsigned-varint 长度前缀加负载：
//
//	+----------------+------------------+
//	| uvarint length |     payload      |
//	+----------------+------------------+
//
// 超过 MaxNotificationSize 的帧会终止子流。
package upgrade
