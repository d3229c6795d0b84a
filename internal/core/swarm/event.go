package swarm

import (
	"fmt"

	"github.com/dep2p/go-notif/pkg/types"
)

// EventType 事件类型
type EventType int

const (
	// EventConnectionEstablished 连接建立
	EventConnectionEstablished EventType = iota
	// EventHandler 处理器产生的事件
	EventHandler
	// EventConnectionClosed 连接关闭
	EventConnectionClosed
)

// String 返回事件类型名称
func (t EventType) String() string {
	switch t {
	case EventConnectionEstablished:
		return "connection-established"
	case EventHandler:
		return "handler"
	case EventConnectionClosed:
		return "connection-closed"
	default:
		return "unknown"
	}
}

// Event 发往上层引擎的事件
//
// 同一连接的事件按产生顺序交付：先 Established，再处理器事件，最后 Closed。
type Event[Out any] struct {
	Type     EventType
	ConnID   types.ConnID
	Peer     types.PeerID
	Endpoint types.ConnectedPoint

	// Out 处理器事件，仅 EventHandler 有效
	Out Out

	// Err 关闭原因，仅 EventConnectionClosed 有效
	Err error
}

// String 返回事件描述
func (e Event[Out]) String() string {
	switch e.Type {
	case EventHandler:
		return fmt.Sprintf("%s[%s] %v", e.Type, e.ConnID.ShortString(), e.Out)
	case EventConnectionClosed:
		return fmt.Sprintf("%s[%s] %v", e.Type, e.ConnID.ShortString(), e.Err)
	default:
		return fmt.Sprintf("%s[%s] %s", e.Type, e.ConnID.ShortString(), e.Endpoint)
	}
}
