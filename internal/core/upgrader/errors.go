package upgrader

import "errors"

var (
	// ErrNilConn 连接为空
	ErrNilConn = errors.New("upgrader: conn is nil")

	// ErrNoStreamMuxer 没有流复用器
	ErrNoStreamMuxer = errors.New("upgrader: no stream muxer configured")

	// ErrDuplicateMuxer 多路复用器协议重复
	ErrDuplicateMuxer = errors.New("upgrader: duplicate stream muxer")

	// ErrMuxerNotFound 协商出的多路复用器未注册
	ErrMuxerNotFound = errors.New("upgrader: negotiated muxer not found")
)
