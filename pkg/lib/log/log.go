// Package log 组件日志
//
// 基于 log/slog。组件在包级别声明 logger，每次输出时读取当前默认 handler，
// 因此 Setup 可以在组件初始化之后调用：
//
//	var logger = log.Logger("protocol/notifications")
//	logger.Warn("收到重复的入站子流", "peer", peer)
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// 日志级别
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format 输出格式
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Setup 替换默认 handler
func Setup(w io.Writer, level slog.Level, format Format) {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
}

var levelNames = map[string]slog.Level{
	"":        slog.LevelInfo,
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLevel 解析级别名，大小写不敏感，空串为 info
func ParseLevel(name string) (slog.Level, error) {
	lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return lvl, nil
}

// ParseFormat 解析格式名，空串为 text
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON:
		return f, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", name)
}

// ============================================================================
//                              组件 logger
// ============================================================================

// ComponentLogger 带组件名的 logger
type ComponentLogger struct {
	component string
}

// Logger 返回组件 logger
func Logger(component string) *ComponentLogger {
	return &ComponentLogger{component: component}
}

func (l *ComponentLogger) current() *slog.Logger {
	return slog.Default().With("component", l.component)
}

func (l *ComponentLogger) Debug(msg string, args ...any) { l.current().Debug(msg, args...) }
func (l *ComponentLogger) Info(msg string, args ...any)  { l.current().Info(msg, args...) }
func (l *ComponentLogger) Warn(msg string, args ...any)  { l.current().Warn(msg, args...) }
func (l *ComponentLogger) Error(msg string, args ...any) { l.current().Error(msg, args...) }

// With 返回附加了属性的 slog.Logger，之后不再跟随默认 handler 的变化
func (l *ComponentLogger) With(args ...any) *slog.Logger {
	return l.current().With(args...)
}

// Component 组件名
func (l *ComponentLogger) Component() string { return l.component }

// TruncateID 截取 ID 的前 n 个字节用于日志
func TruncateID(id string, n int) string {
	if len(id) > n {
		return id[:n]
	}
	return id
}

func init() {
	Setup(os.Stderr, slog.LevelInfo, FormatText)
}
