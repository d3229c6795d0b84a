package upgrade

import "errors"

var (
	// ErrHandshakeAlreadySent 握手已发送
	ErrHandshakeAlreadySent = errors.New("upgrade: handshake already sent")

	// ErrHandshakeTooLarge 握手超过大小限制
	ErrHandshakeTooLarge = errors.New("upgrade: handshake too large")

	// ErrFrameTooLarge 帧超过大小限制
	ErrFrameTooLarge = errors.New("upgrade: frame too large")

	// ErrProtocolMismatch 协商出的协议与描述不符
	ErrProtocolMismatch = errors.New("upgrade: protocol mismatch")

	// ErrUpgradeDenied 出站升级被拒绝
	ErrUpgradeDenied = errors.New("upgrade: outbound upgrade denied")

	// ErrSubstreamClosed 子流已关闭
	ErrSubstreamClosed = errors.New("upgrade: substream closed")
)
