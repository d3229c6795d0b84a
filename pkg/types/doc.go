// Package types 定义 go-notif 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - ids.go        - PeerID, ConnID
//   - protocol.go   - ProtocolID
//   - enums.go      - Direction, KeepAlive
//   - connection.go - ConnectedPoint
package types
