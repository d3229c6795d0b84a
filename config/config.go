// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Notifications.Protocol = "/notif/block-announces/1"
//
//	// 从 JSON 文件加载
//	cfg, err := config.LoadFile("notifd.json")
package config

// Config 是 go-notif 的完整配置结构
//
// 配置按照功能模块组织：
//   - Notifications: 通知子流协议
//   - Swarm: 连接层（监听、协商、空闲回收）
//   - Muxer: yamux 多路复用
//   - Log: 日志
//   - Metrics: Prometheus 指标
type Config struct {
	// Notifications 通知协议配置
	Notifications NotificationsConfig `json:"notifications"`

	// Swarm 连接层配置
	Swarm SwarmConfig `json:"swarm"`

	// Muxer 多路复用配置
	Muxer MuxerConfig `json:"muxer"`

	// Log 日志配置
	Log LogConfig `json:"log"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Notifications: DefaultNotificationsConfig(),
		Swarm:         DefaultSwarmConfig(),
		Muxer:         DefaultMuxerConfig(),
		Log:           DefaultLogConfig(),
		Metrics:       DefaultMetricsConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置是否有效，如果发现无效配置则返回错误。
func (c *Config) Validate() error {
	if err := c.Notifications.Validate(); err != nil {
		return err
	}
	if err := c.Swarm.Validate(); err != nil {
		return err
	}
	if err := c.Muxer.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return c.Metrics.Validate()
}
