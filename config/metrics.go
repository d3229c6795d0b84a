package config

import "fmt"

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	// Enable 是否启用指标
	Enable bool `json:"enable"`

	// ListenAddr 指标 HTTP 服务地址，如 "127.0.0.1:9100"
	ListenAddr string `json:"listen_addr"`

	// Namespace 指标命名空间
	Namespace string `json:"namespace"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enable:    true,
		Namespace: "notif",
	}
}

// Validate 验证指标配置
func (c MetricsConfig) Validate() error {
	if c.Enable && c.Namespace == "" {
		return fmt.Errorf("%w: metrics namespace is empty", ErrInvalidConfig)
	}
	return nil
}
