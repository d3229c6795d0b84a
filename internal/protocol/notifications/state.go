package notifications

// State 处理器状态
type State int

const (
	// StateIdle 没有子流
	StateIdle State = iota
	// StateAwaitingDecision 有子流，等待引擎决定
	StateAwaitingDecision
	// StateOpen 有子流，握手已发送
	StateOpen
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingDecision:
		return "awaiting-decision"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
