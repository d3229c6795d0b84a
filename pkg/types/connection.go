package types

import "fmt"

// ============================================================================
//                              ConnectedPoint - 连接端点
// ============================================================================

// ConnectedPoint 描述本地在连接中的角色及两端地址
type ConnectedPoint struct {
	// Direction 连接方向（出站 = 本地为拨号方）
	Direction Direction

	// LocalAddr 本地地址
	LocalAddr string

	// RemoteAddr 远端地址
	RemoteAddr string
}

// IsDialer 本地是否为拨号方
func (c ConnectedPoint) IsDialer() bool {
	return c.Direction == DirOutbound
}

// IsListener 本地是否为监听方
func (c ConnectedPoint) IsListener() bool {
	return c.Direction == DirInbound
}

// String 返回端点的字符串表示
func (c ConnectedPoint) String() string {
	return fmt.Sprintf("%s %s<->%s", c.Direction, c.LocalAddr, c.RemoteAddr)
}
