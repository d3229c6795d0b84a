package upgrade

// Limits 子流大小限制
type Limits struct {
	// MaxHandshakeSize 握手消息最大字节数
	MaxHandshakeSize int

	// MaxNotificationSize 单条通知最大字节数
	MaxNotificationSize int

	// FrameBuffer 读取端缓冲的帧数
	FrameBuffer int
}

// DefaultLimits 返回默认限制
func DefaultLimits() Limits {
	return Limits{
		MaxHandshakeSize:    MaxHandshakeSize,
		MaxNotificationSize: MaxNotificationSize,
		FrameBuffer:         16,
	}
}

// Option 升级选项
type Option func(*Limits)

// WithMaxHandshakeSize 设置握手大小限制
func WithMaxHandshakeSize(n int) Option {
	return func(l *Limits) {
		if n > 0 {
			l.MaxHandshakeSize = n
		}
	}
}

// WithMaxNotificationSize 设置通知大小限制
func WithMaxNotificationSize(n int) Option {
	return func(l *Limits) {
		if n > 0 {
			l.MaxNotificationSize = n
		}
	}
}

// WithFrameBuffer 设置读取端缓冲帧数
func WithFrameBuffer(n int) Option {
	return func(l *Limits) {
		if n >= 0 {
			l.FrameBuffer = n
		}
	}
}

func applyOptions(opts []Option) Limits {
	l := DefaultLimits()
	for _, opt := range opts {
		opt(&l)
	}
	return l
}
