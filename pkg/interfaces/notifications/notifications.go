// Package notifications 定义通知子流接口
package notifications

// PollState 子流推进结果
type PollState int

const (
	// PollPending 暂无数据
	PollPending PollState = iota
	// PollReady 取得一条通知
	PollReady
	// PollClosed 对端已关闭子流
	PollClosed
)

// String 返回状态名称
func (s PollState) String() string {
	switch s {
	case PollPending:
		return "pending"
	case PollReady:
		return "ready"
	case PollClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Substream 已协商的入站通知子流
//
// 子流由处理器独占，不允许其他组件并发读写。
type Substream interface {
	// Poll 非阻塞地推进一次
	//
	// 返回 PollReady 时第一个返回值为通知内容。
	Poll() ([]byte, PollState)

	// SendHandshake 发送握手，只能调用一次
	SendHandshake(handshake []byte) error

	// Wake 返回唤醒通道，Poll 可能有进展时收到信号
	Wake() <-chan struct{}

	// Close 关闭子流
	Close() error
}
