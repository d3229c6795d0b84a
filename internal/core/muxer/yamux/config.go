package yamux

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/yamux"

	muxerif "github.com/dep2p/go-notif/pkg/interfaces/muxer"
	"github.com/dep2p/go-notif/pkg/lib/log"
)

var logger = log.Logger("core/muxer/yamux")

// 在 yamux 自带默认值之上的覆盖值
const (
	defaultAcceptBacklog   = 256
	defaultWindowSize      = 256 * 1024
	defaultKeepAlive       = 30 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	sessionLoggerComponent = "yamux"
)

// DefaultYamuxConfig 返回默认的 yamux 配置
func DefaultYamuxConfig() *yamux.Config {
	return ConfigToYamux(muxerif.DefaultConfig())
}

// ConfigToYamux 将 muxer.Config 转换为 yamux.Config
//
// 零值字段保留默认值；EnableKeepAlive 总是按 cfg 设置。
// yamux 会话日志转到 Debug 级别的组件日志。
func ConfigToYamux(cfg muxerif.Config) *yamux.Config {
	yc := yamux.DefaultConfig()
	yc.AcceptBacklog = defaultAcceptBacklog
	yc.MaxStreamWindowSize = defaultWindowSize
	yc.KeepAliveInterval = defaultKeepAlive
	yc.ConnectionWriteTimeout = defaultWriteTimeout
	yc.LogOutput = nil
	yc.Logger = sessionLogger{}

	if cfg.MaxStreams > 0 {
		yc.AcceptBacklog = cfg.MaxStreams
	}
	if cfg.MaxStreamWindowSize > 0 {
		yc.MaxStreamWindowSize = cfg.MaxStreamWindowSize
	}
	if cfg.KeepAliveInterval > 0 {
		yc.KeepAliveInterval = cfg.KeepAliveInterval
	}
	if cfg.ConnectionWriteTimeout > 0 {
		yc.ConnectionWriteTimeout = cfg.ConnectionWriteTimeout
	}
	yc.EnableKeepAlive = cfg.EnableKeepAlive

	return yc
}

// sessionLogger 实现 yamux.Logger
type sessionLogger struct{}

func (sessionLogger) Print(v ...interface{}) {
	logger.Debug(strings.TrimSpace(fmt.Sprint(v...)), "source", sessionLoggerComponent)
}

func (sessionLogger) Printf(format string, v ...interface{}) {
	logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "source", sessionLoggerComponent)
}

func (sessionLogger) Println(v ...interface{}) {
	logger.Debug(strings.TrimSpace(fmt.Sprintln(v...)), "source", sessionLoggerComponent)
}
