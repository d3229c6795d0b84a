package notifications

import "fmt"

// ============================================================================
//                              输入事件
// ============================================================================

// HandlerIn 引擎发给处理器的事件
//
// 取值为 Accept 或 Refuse，每个 OpenRequest 必须对应一个。
type HandlerIn interface {
	isHandlerIn()
}

// Accept 接受入站子流，Handshake 为发给对端的握手
//
// 此后子流视为已打开，可以收到 Notif。
type Accept struct {
	Handshake []byte
}

// Refuse 拒绝入站子流
type Refuse struct{}

func (Accept) isHandlerIn() {}
func (Refuse) isHandlerIn() {}

// ============================================================================
//                              输出事件
// ============================================================================

// HandlerOut 处理器产生的事件
//
// 取值为 OpenRequest、Closed 或 Notif。
type HandlerOut interface {
	isHandlerOut()
	fmt.Stringer
}

// OpenRequest 对端请求打开子流，引擎必须回复 Accept 或 Refuse
type OpenRequest struct{}

// Closed 对端关闭了子流
//
// 不取消之前发出的 OpenRequest。
type Closed struct{}

// Notif 收到一条通知，只会出现在 Accept 之后、Closed 之前
type Notif struct {
	Message []byte
}

func (OpenRequest) isHandlerOut() {}
func (Closed) isHandlerOut()      {}
func (Notif) isHandlerOut()       {}

func (OpenRequest) String() string { return "OpenRequest" }
func (Closed) String() string      { return "Closed" }
func (n Notif) String() string     { return fmt.Sprintf("Notif(%d bytes)", len(n.Message)) }
