package upgrader

import (
	"fmt"
	"time"

	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
)

// defaultNegotiateTimeout 默认协商超时，与 Swarm 的子流协商超时一致
const defaultNegotiateTimeout = 10 * time.Second

// Config 升级器配置
type Config struct {
	// StreamMuxers 拨号端按此顺序提议多路复用器
	StreamMuxers []muxerif.MuxerFactory

	// NegotiateTimeout 多路复用器协商超时，非正值使用默认值
	NegotiateTimeout time.Duration
}

// NewConfig 创建默认配置
func NewConfig(muxers ...muxerif.MuxerFactory) Config {
	return Config{
		StreamMuxers:     muxers,
		NegotiateTimeout: defaultNegotiateTimeout,
	}
}

// Validate 检查多路复用器列表
func (c Config) Validate() error {
	if len(c.StreamMuxers) == 0 {
		return ErrNoStreamMuxer
	}
	seen := make(map[string]struct{}, len(c.StreamMuxers))
	for _, f := range c.StreamMuxers {
		if f == nil {
			return fmt.Errorf("%w: nil factory", ErrNoStreamMuxer)
		}
		if _, dup := seen[f.Protocol()]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateMuxer, f.Protocol())
		}
		seen[f.Protocol()] = struct{}{}
	}
	return nil
}
