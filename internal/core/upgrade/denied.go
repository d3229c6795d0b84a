package upgrade

import (
	"context"

	"github.com/dep2p/go-notif/pkg/interfaces/handler"
	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
	"github.com/dep2p/go-notif/pkg/types"
)

// DeniedUpgrade 永远拒绝的出站升级
//
// 不提供任何协议，连接层无法据此打开出站子流。
type DeniedUpgrade struct{}

var _ handler.OutboundUpgrade = DeniedUpgrade{}

// ProtocolInfo 返回空协议列表
func (DeniedUpgrade) ProtocolInfo() []types.ProtocolID {
	return nil
}

// UpgradeOutbound 总是返回 ErrUpgradeDenied
func (DeniedUpgrade) UpgradeOutbound(context.Context, muxerif.Stream, types.ProtocolID) error {
	return ErrUpgradeDenied
}
