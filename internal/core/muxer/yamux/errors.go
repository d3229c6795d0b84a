package yamux

import "errors"

var (
	// ErrMuxerClosed 多路复用器已关闭
	ErrMuxerClosed = errors.New("yamux: muxer closed")

	// ErrNilConn 连接为 nil
	ErrNilConn = errors.New("yamux: conn is nil")
)
