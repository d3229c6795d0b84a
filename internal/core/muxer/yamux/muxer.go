// Package yamux 提供基于 hashicorp/yamux 的多路复用实现
package yamux

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/yamux"
	"go.uber.org/multierr"

	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
)

// Muxer 单个 yamux 会话
//
// 会话上打开或接受的流都登记在 registry 中，Muxer 关闭时一并关闭。
type Muxer struct {
	session  *yamux.Session
	isServer bool
	shut     atomic.Bool
	registry *streamRegistry
}

var _ muxerif.Muxer = (*Muxer)(nil)

// NewMuxer 包装已建立的会话
func NewMuxer(session *yamux.Session, isServer bool) *Muxer {
	return &Muxer{
		session:  session,
		isServer: isServer,
		registry: newStreamRegistry(),
	}
}

type openResult struct {
	stream *yamux.Stream
	err    error
}

// NewStream 打开出站流
//
// yamux 的 OpenStream 会在窗口耗尽时阻塞，这里在独立 goroutine 中等待，
// ctx 先结束时由该 goroutine 关闭迟到的流。
func (m *Muxer) NewStream(ctx context.Context) (muxerif.Stream, error) {
	if m.IsClosed() {
		return nil, ErrMuxerClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan openResult, 1)
	go func() {
		s, err := m.session.OpenStream()
		done <- openResult{s, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("yamux open: %w", r.err)
		}
		return m.adopt(r.stream), nil
	case <-ctx.Done():
		go discardLate(done)
		return nil, ctx.Err()
	}
}

func discardLate(done <-chan openResult) {
	if r := <-done; r.stream != nil {
		_ = r.stream.Close()
	}
}

// AcceptStream 等待对端打开的流
func (m *Muxer) AcceptStream() (muxerif.Stream, error) {
	if m.IsClosed() {
		return nil, ErrMuxerClosed
	}
	s, err := m.session.AcceptStream()
	if err != nil {
		return nil, fmt.Errorf("yamux accept: %w", err)
	}
	return m.adopt(s), nil
}

// Close 关闭全部流和会话，可重复调用
func (m *Muxer) Close() error {
	if m.shut.Swap(true) {
		return nil
	}
	var err error
	for _, s := range m.registry.drain() {
		err = multierr.Append(err, s.shutdown())
	}
	return multierr.Append(err, m.session.Close())
}

// IsClosed 本端关闭或会话已断开
func (m *Muxer) IsClosed() bool {
	return m.shut.Load() || m.session.IsClosed()
}

// CloseChan 会话断开时关闭
func (m *Muxer) CloseChan() <-chan struct{} {
	return m.session.CloseChan()
}

// IsServer 是否为监听端
func (m *Muxer) IsServer() bool { return m.isServer }

// NumStreams 当前登记的流数
func (m *Muxer) NumStreams() int { return m.registry.len() }

// GetStream 按 ID 查找登记的流
func (m *Muxer) GetStream(id uint32) (*Stream, bool) { return m.registry.get(id) }

// Ping 测量会话往返时延
func (m *Muxer) Ping() (time.Duration, error) {
	if m.IsClosed() {
		return 0, ErrMuxerClosed
	}
	return m.session.Ping()
}

func (m *Muxer) adopt(s *yamux.Stream) *Stream {
	id := s.StreamID()
	st := wrapStream(s, func() { m.registry.remove(id) })
	m.registry.add(st)
	return st
}
