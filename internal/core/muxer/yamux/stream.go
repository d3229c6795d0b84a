package yamux

import (
	"sync"
	"time"

	"github.com/hashicorp/yamux"

	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
)

// Stream 单条 yamux 流
//
// Close、CloseWrite 和 Reset 只有第一次生效，生效时把流从会话登记表移除。
type Stream struct {
	*yamux.Stream

	once   sync.Once
	done   chan struct{}
	detach func()
}

var _ muxerif.Stream = (*Stream)(nil)

// NewStream 包装一条不受会话登记表管理的流
func NewStream(s *yamux.Stream) *Stream {
	return wrapStream(s, nil)
}

func wrapStream(s *yamux.Stream, detach func()) *Stream {
	return &Stream{Stream: s, done: make(chan struct{}), detach: detach}
}

// ID 流 ID
func (s *Stream) ID() uint32 { return s.StreamID() }

// Close 发送 FIN
//
// yamux 发送 FIN 后仍能读到对端剩余数据。
func (s *Stream) Close() error {
	return s.finish(true, nil)
}

// CloseWrite 与 Close 相同
func (s *Stream) CloseWrite() error {
	return s.Close()
}

// Reset 中止流
//
// hashicorp/yamux 没有单独的 RST 接口，先让阻塞的 Read 过期返回再关闭。
func (s *Stream) Reset() error {
	return s.finish(true, func() { _ = s.SetReadDeadline(time.Now()) })
}

// IsClosed 是否已经关闭
func (s *Stream) IsClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// shutdown 会话关闭时调用，登记表已清空，不再回调
func (s *Stream) shutdown() error {
	return s.finish(false, nil)
}

func (s *Stream) finish(notify bool, before func()) error {
	var err error
	s.once.Do(func() {
		close(s.done)
		if notify && s.detach != nil {
			s.detach()
		}
		if before != nil {
			before()
		}
		err = s.Stream.Close()
	})
	return err
}
