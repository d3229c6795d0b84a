package notif

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-notif/config"
	"github.com/dep2p/go-notif/internal/core/upgrade"
	"github.com/dep2p/go-notif/internal/protocol/notifications"
	"github.com/dep2p/go-notif/pkg/lib/log"
	"github.com/dep2p/go-notif/pkg/types"
)

var logger = log.Logger("notif")

const (
	// startTimeout Fx 应用启动超时
	startTimeout = 30 * time.Second

	// stopTimeout Close 使用的停止超时
	stopTimeout = 10 * time.Second
)

// Node 通知节点
//
// 节点停止后不能再次启动。
type Node struct {
	mu sync.Mutex

	app      *fx.App
	config   *config.Config
	registry *prometheus.Registry

	// 由 Fx 注入
	swarm *nodeSwarm
	proto *notifications.HandlerProto

	started bool
	closed  bool
}

// New 创建节点
//
// cfg 为 nil 时使用默认配置；cfg 会被复制，选项只修改副本。
func New(cfg *config.Config, opts ...Option) (*Node, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	c := *cfg

	o := &options{config: &c}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
		o.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	node := &Node{
		config:   o.config,
		registry: o.registry,
	}

	app, err := buildFxApp(o, node)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	node.app = app
	return node, nil
}

// Start 启动节点，配置了监听地址时开始监听
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNodeClosed
	}
	if n.started {
		return ErrAlreadyStarted
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	if err := n.app.Start(startCtx); err != nil {
		logger.Error("节点启动失败", "error", err)
		return fmt.Errorf("start fx app: %w", err)
	}
	n.started = true

	logger.Info("节点已启动",
		"protocol", n.proto.ProtocolName(),
		"listen", n.swarm.ListenAddr())
	return nil
}

// Stop 停止节点，关闭所有连接和事件通道
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNodeClosed
	}
	if !n.started {
		return ErrNotStarted
	}
	return n.stopLocked(ctx)
}

// Close 关闭节点并释放所有资源，可重复调用
func (n *Node) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	if !n.started {
		// 未启动时 OnStop 不会执行，直接关闭连接层
		n.closed = true
		return n.swarm.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return n.stopLocked(ctx)
}

func (n *Node) stopLocked(ctx context.Context) error {
	logger.Info("正在停止节点")

	err := n.app.Stop(ctx)
	n.started = false
	n.closed = true
	if err != nil {
		logger.Error("停止节点失败", "error", err)
		return fmt.Errorf("stop fx app: %w", err)
	}

	logger.Info("节点已停止")
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              基本信息
// ════════════════════════════════════════════════════════════════════════════

// Protocol 返回通知协议名
func (n *Node) Protocol() types.ProtocolID {
	return n.proto.ProtocolName()
}

// ListenAddr 返回实际监听地址，未监听时为空
func (n *Node) ListenAddr() string {
	return n.swarm.ListenAddr()
}

// Registry 返回指标注册表
func (n *Node) Registry() *prometheus.Registry {
	return n.registry
}

// Config 返回节点使用的配置
func (n *Node) Config() *config.Config {
	return n.config
}

// Events 返回连接层事件通道
//
// 调用方需要持续读取，节点停止后通道被关闭。
func (n *Node) Events() <-chan Event {
	return n.swarm.Events()
}

// Conns 返回所有活跃连接
func (n *Node) Conns() []*Conn {
	return n.swarm.Conns()
}

// ════════════════════════════════════════════════════════════════════════════
//                              决策与拨号
// ════════════════════════════════════════════════════════════════════════════

// Send 把 Accept 或 Refuse 交给指定连接的处理器
func (n *Node) Send(ctx context.Context, connID types.ConnID, in HandlerIn) error {
	return n.swarm.Send(ctx, connID, in)
}

// Dial 拨号远端节点
func (n *Node) Dial(ctx context.Context, addr string) (*Conn, error) {
	if err := n.checkStarted(); err != nil {
		return nil, err
	}
	return n.swarm.Dial(ctx, addr)
}

// OpenNotifications 拨号远端节点并打开出站通知子流
//
// 返回时已收到对端握手；远端拒绝时返回错误。
// 子流使用一条新的连接，关闭子流时连接随之关闭。
func (n *Node) OpenNotifications(ctx context.Context, addr string) (*OutboundSubstream, error) {
	conn, err := n.Dial(ctx, addr)
	if err != nil {
		return nil, err
	}
	release := conn.Hold()

	out := upgrade.NewNotificationsOut(n.Protocol(),
		upgrade.WithMaxHandshakeSize(n.config.Notifications.MaxHandshakeSize),
		upgrade.WithMaxNotificationSize(n.config.Notifications.MaxNotificationSize),
	)
	sub, err := out.Open(ctx, conn)
	if err != nil {
		release()
		conn.Close()
		return nil, fmt.Errorf("open notifications to %s: %w", addr, err)
	}

	logger.Debug("出站通知子流已打开", "addr", addr, "handshake_len", len(sub.Handshake()))
	return &OutboundSubstream{
		sub:     sub,
		conn:    conn,
		release: release,
	}, nil
}

func (n *Node) checkStarted() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNodeClosed
	}
	if !n.started {
		return ErrNotStarted
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              出站子流
// ════════════════════════════════════════════════════════════════════════════

// OutboundSubstream 出站通知子流
type OutboundSubstream struct {
	sub     *upgrade.NotificationsOutSubstream
	conn    *Conn
	release func()
}

// Handshake 返回远端握手
func (s *OutboundSubstream) Handshake() []byte {
	return s.sub.Handshake()
}

// Send 发送一条通知
func (s *OutboundSubstream) Send(msg []byte) error {
	return s.sub.Send(msg)
}

// Conn 返回子流所在的连接
func (s *OutboundSubstream) Conn() *Conn {
	return s.conn
}

// Close 关闭子流和所在连接
func (s *OutboundSubstream) Close() error {
	err := s.sub.Close()
	s.release()
	return multierr.Append(err, s.conn.Close())
}
