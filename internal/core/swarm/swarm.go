package swarm

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"

	"github.com/dep2p/go-notif/internal/core/upgrader"
	"github.com/dep2p/go-notif/pkg/interfaces/handler"
	"github.com/dep2p/go-notif/pkg/lib/log"
	"github.com/dep2p/go-notif/pkg/types"
)

var logger = log.Logger("core/swarm")

// Swarm 连接层驱动
//
// In/Out 为处理器的输入输出事件类型，S 为入站子流类型。
type Swarm[In, Out, S any] struct {
	mu sync.RWMutex

	// 处理器工厂
	proto handler.IntoHandler[In, Out, S]

	// 连接升级器
	upgrader *upgrader.Upgrader

	// 连接池：connID -> Conn
	conns map[types.ConnID]*Conn[In, Out, S]

	// 监听器
	listener net.Listener

	// 事件通道，Close 后关闭
	events chan Event[Out]

	config  *Config
	clock   clock.Clock
	metrics *Metrics

	ctx    context.Context
	cancel context.CancelFunc

	// 驱动循环
	wg sync.WaitGroup

	// 状态
	closed atomic.Bool
}

// NewSwarm 创建 Swarm
func NewSwarm[In, Out, S any](proto handler.IntoHandler[In, Out, S], up *upgrader.Upgrader, opts ...Option) (*Swarm[In, Out, S], error) {
	if proto == nil {
		return nil, ErrNilHandlerProto
	}
	if up == nil {
		return nil, ErrNilUpgrader
	}

	o := &options{
		config: DefaultConfig(),
		clock:  clock.New(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Swarm[In, Out, S]{
		proto:    proto,
		upgrader: up,
		conns:    make(map[types.ConnID]*Conn[In, Out, S]),
		events:   make(chan Event[Out], o.config.EventBufferSize),
		config:   o.config,
		clock:    o.clock,
		metrics:  o.metrics,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Events 返回事件通道
//
// Swarm 关闭后通道被关闭。
func (s *Swarm[In, Out, S]) Events() <-chan Event[Out] {
	return s.events
}

// Send 把引擎输入交给指定连接的处理器
func (s *Swarm[In, Out, S]) Send(ctx context.Context, id types.ConnID, in In) error {
	if s.closed.Load() {
		return ErrSwarmClosed
	}

	c := s.Conn(id)
	if c == nil {
		return ErrNoConnection
	}
	return c.send(ctx, in)
}

// Conn 返回指定连接，不存在时返回 nil
func (s *Swarm[In, Out, S]) Conn(id types.ConnID) *Conn[In, Out, S] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conns[id]
}

// Conns 返回所有活跃连接
func (s *Swarm[In, Out, S]) Conns() []*Conn[In, Out, S] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conns := make([]*Conn[In, Out, S], 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	return conns
}

// ConnsToPeer 返回到指定节点的连接
func (s *Swarm[In, Out, S]) ConnsToPeer(peer types.PeerID) []*Conn[In, Out, S] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var conns []*Conn[In, Out, S]
	for _, c := range s.conns {
		if c.peer == peer {
			conns = append(conns, c)
		}
	}
	return conns
}

// NumConns 返回连接数量
func (s *Swarm[In, Out, S]) NumConns() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

// Close 关闭监听器和所有连接，等待驱动循环退出后关闭事件通道
func (s *Swarm[In, Out, S]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	logger.Info("正在关闭 Swarm")
	s.cancel()

	var err error
	s.mu.Lock()
	if s.listener != nil {
		err = multierr.Append(err, s.listener.Close())
		s.listener = nil
	}
	conns := make([]*Conn[In, Out, S], 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		err = multierr.Append(err, c.Close())
	}

	s.wg.Wait()
	close(s.events)

	logger.Info("Swarm 已关闭")
	return err
}

// addConn 登记升级后的连接并启动驱动循环
func (s *Swarm[In, Out, S]) addConn(uc *upgrader.UpgradedConn) (*Conn[In, Out, S], error) {
	c := newConn(s, uc)

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		uc.Close()
		return nil, ErrSwarmClosed
	}
	s.conns[c.id] = c
	s.wg.Add(1)
	s.mu.Unlock()

	s.metrics.connOpened(c.endpoint.Direction)
	logger.Debug("连接已建立",
		"conn", c.id.ShortString(),
		"peer", c.peer,
		"direction", c.endpoint.Direction)

	go c.acceptStreams()
	go func() {
		defer s.wg.Done()
		c.run(s.ctx)
	}()
	return c, nil
}

// removeConn 移除连接
func (s *Swarm[In, Out, S]) removeConn(c *Conn[In, Out, S]) {
	s.mu.Lock()
	delete(s.conns, c.id)
	s.mu.Unlock()
}

// emit 发送事件，连接关闭或 Swarm 关闭时放弃
func (s *Swarm[In, Out, S]) emit(ev Event[Out], abort <-chan struct{}) bool {
	select {
	case s.events <- ev:
		return true
	case <-abort:
		return false
	case <-s.ctx.Done():
		return false
	}
}
