package main

import (
	"os"
	"strconv"

	"github.com/dep2p/go-notif/config"
)

// ============================================================================
//                              环境变量（CLI 专用）
// ============================================================================

// 环境变量名，均使用 NOTIF_ 前缀
const (
	envPrefix     = "NOTIF_"
	envListenAddr = "LISTEN_ADDR"
	envProtocol   = "PROTOCOL"
	envLogLevel   = "LOG_LEVEL"
	envLogFile    = "LOG_FILE"
	envMetrics    = "METRICS"
)

// applyEnvOverrides 应用环境变量覆盖配置
//
// 环境变量优先级高于配置文件，但低于命令行参数。
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv(envPrefix + envListenAddr); v != "" {
		cfg.Swarm.ListenAddr = v
	}
	if v := os.Getenv(envPrefix + envProtocol); v != "" {
		cfg.Notifications.Protocol = v
	}
	if v := os.Getenv(envPrefix + envLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(envPrefix + envLogFile); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv(envPrefix + envMetrics); v != "" {
		if enable, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enable = enable
		}
	}
}
