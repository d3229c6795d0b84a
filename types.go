package notif

import (
	"github.com/dep2p/go-notif/internal/core/swarm"
	"github.com/dep2p/go-notif/internal/protocol/notifications"
	notifif "github.com/dep2p/go-notif/pkg/interfaces/notifications"
	"github.com/dep2p/go-notif/pkg/types"
)

// ============================================================================
//                              处理器事件
// ============================================================================

type (
	// HandlerIn 发给连接处理器的决策，Accept 或 Refuse
	HandlerIn = notifications.HandlerIn

	// Accept 接受入站通知子流
	Accept = notifications.Accept

	// Refuse 拒绝入站通知子流
	Refuse = notifications.Refuse

	// HandlerOut 连接处理器产生的事件
	HandlerOut = notifications.HandlerOut

	// OpenRequest 对端请求打开通知子流
	OpenRequest = notifications.OpenRequest

	// Notif 对端发来的一条通知
	Notif = notifications.Notif

	// Closed 对端关闭了通知子流
	Closed = notifications.Closed
)

// ============================================================================
//                              连接层
// ============================================================================

type (
	// ConnID 连接标识
	ConnID = types.ConnID

	// PeerID 远端节点标识
	PeerID = types.PeerID

	// Event 连接层事件
	Event = swarm.Event[HandlerOut]

	// Conn 节点上的一条连接
	Conn = swarm.Conn[HandlerIn, HandlerOut, notifif.Substream]

	nodeSwarm = swarm.Swarm[HandlerIn, HandlerOut, notifif.Substream]
)

// 连接层事件类型
const (
	EventConnectionEstablished = swarm.EventConnectionEstablished
	EventHandler               = swarm.EventHandler
	EventConnectionClosed      = swarm.EventConnectionClosed
)
