package swarm

import "errors"

var (
	// ErrSwarmClosed Swarm 已关闭
	ErrSwarmClosed = errors.New("swarm closed")

	// ErrNoConnection 没有连接
	ErrNoConnection = errors.New("no such connection")

	// ErrConnectionClosed 连接已关闭
	ErrConnectionClosed = errors.New("connection closed")

	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("invalid config")

	// ErrAlreadyListening 已在监听
	ErrAlreadyListening = errors.New("already listening")

	// ErrIdleTimeout 连接空闲超时
	ErrIdleTimeout = errors.New("connection idle timeout")

	// ErrNilHandlerProto 处理器工厂为空
	ErrNilHandlerProto = errors.New("handler proto is nil")

	// ErrNilUpgrader 升级器为空
	ErrNilUpgrader = errors.New("upgrader is nil")
)
