// Package notifications 实现入站通知子流处理器
//
// 每条连接一个 Handler，最多持有一条入站通知子流：
//
//	连接层 ──升级完成──▶ Handler ──OpenRequest──▶ 引擎
//	引擎   ──Accept/Refuse──▶ Handler ──握手/关闭──▶ 子流
//	连接层 ◀──Notif/Closed── Handler.Poll
//
// # 状态
//
// 状态由持有的子流和 pending 计数推导：
//
//   - Idle: 没有子流
//   - AwaitingDecision: 有子流，pending ≥ 1
//   - Open: 有子流，pending = 0，握手已发送
//
// Closed 是瞬时状态，Poll 返回 Closed 事件后立即回到 Idle。
//
// # 计数对账
//
// 子流快速打开关闭时，引擎回复前可能已经收到多个 OpenRequest。
// 每个 OpenRequest 使 pending 加一，每个 Accept/Refuse 使其减一，
// 只有让 pending 归零的决定会被应用，且作用于当时持有的子流（没有则忽略）。
// Closed 不会取消尚未回复的 OpenRequest。
//
// # 并发
//
// Handler 只由连接层的单个 goroutine 驱动，不加锁。
// 子流的读取在子流自己的 goroutine 中进行，Poll 从不阻塞。
package notifications
