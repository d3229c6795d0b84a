package config

import (
	"fmt"

	"github.com/dep2p/go-notif/pkg/lib/log"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别：debug / info / warn / error
	Level string `json:"level"`

	// Format 日志格式：text / json
	Format string `json:"format"`

	// File 日志文件路径，空表示输出到 stderr
	File string `json:"file"`

	// FxEvents 是否输出 fx 依赖注入事件
	FxEvents bool `json:"fx_events"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: string(log.FormatText),
	}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	if _, err := log.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := log.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
