package types

import (
	"github.com/google/uuid"
)

// ============================================================================
//                              PeerID - 节点标识
// ============================================================================

// PeerID 远端节点标识
//
// 本模块不包含身份层，PeerID 由连接层决定（默认使用远端地址）。
type PeerID string

// String 返回 PeerID 的字符串表示
func (p PeerID) String() string {
	return string(p)
}

// ShortString 返回 PeerID 的短字符串表示（用于日志）
func (p PeerID) ShortString() string {
	s := string(p)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// IsEmpty 检查 PeerID 是否为空
func (p PeerID) IsEmpty() bool {
	return p == ""
}

// ============================================================================
//                              ConnID - 连接标识
// ============================================================================

// ConnID 连接唯一标识
type ConnID string

// NewConnID 生成新的连接 ID
func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}

// String 返回 ConnID 的字符串表示
func (c ConnID) String() string {
	return string(c)
}

// ShortString 返回 ConnID 的短字符串表示（用于日志）
func (c ConnID) ShortString() string {
	s := string(c)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
