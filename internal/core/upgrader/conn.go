package upgrader

import (
	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
	"github.com/dep2p/go-notif/pkg/types"
)

// UpgradedConn 升级后的连接
//
// 嵌入多路复用器，附带协商结果和端点信息。
type UpgradedConn struct {
	muxerif.Muxer // 嵌入多路复用器

	muxerID  string               // 使用的多路复用器
	endpoint types.ConnectedPoint // 本端角色与地址
}

// RemotePeer 返回远端节点 ID
//
// 没有身份层，远端 TCP 地址即节点标识。
func (c *UpgradedConn) RemotePeer() types.PeerID {
	return types.PeerID(c.endpoint.RemoteAddr)
}

// Endpoint 返回连接端点
func (c *UpgradedConn) Endpoint() types.ConnectedPoint {
	return c.endpoint
}

// MuxerProtocol 返回协商的多路复用器
func (c *UpgradedConn) MuxerProtocol() string {
	return c.muxerID
}
