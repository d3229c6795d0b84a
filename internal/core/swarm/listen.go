package swarm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/dep2p/go-notif/pkg/types"
)

// Listen 监听 TCP 地址
func (s *Swarm[In, Out, S]) Listen(addr string) error {
	if s.closed.Load() {
		return ErrSwarmClosed
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(s.ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.mu.Lock()
	if s.listener != nil {
		s.mu.Unlock()
		ln.Close()
		return ErrAlreadyListening
	}
	s.listener = ln
	s.mu.Unlock()

	logger.Info("监听成功", "addr", ln.Addr().String())

	// 启动 Accept 循环（异步）
	go s.acceptLoop(ln)
	return nil
}

// ListenAddr 返回实际监听地址，未监听时为空
func (s *Swarm[In, Out, S]) ListenAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// acceptLoop 接受连接循环
func (s *Swarm[In, Out, S]) acceptLoop(ln net.Listener) {
	for {
		rawConn, err := ln.Accept()
		if err != nil {
			// 如果是关闭错误，退出循环
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Warn("接受连接失败", "error", err)
			continue
		}

		// 异步处理连接
		go s.acceptConn(rawConn)
	}
}

// acceptConn 升级接受的连接
func (s *Swarm[In, Out, S]) acceptConn(rawConn net.Conn) {
	ctx, cancel := context.WithTimeout(s.ctx, s.config.NegotiationTimeout)
	defer cancel()

	uc, err := s.upgrader.Upgrade(ctx, rawConn, types.DirInbound)
	if err != nil {
		logger.Debug("入站连接升级失败", "remote", rawConn.RemoteAddr().String(), "error", err)
		return
	}

	if _, err := s.addConn(uc); err != nil {
		logger.Debug("登记入站连接失败", "error", err)
	}
}
