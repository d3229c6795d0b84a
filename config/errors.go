package config

import "errors"

var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("config: invalid config")

	// ErrNilConfig 配置为 nil
	ErrNilConfig = errors.New("config: config is nil")
)
