package upgrade

import (
	"fmt"
	"io"

	"github.com/multiformats/go-varint"
)

// 大小限制默认值
const (
	// MaxHandshakeSize 握手消息最大字节数
	MaxHandshakeSize = 1024

	// MaxNotificationSize 单条通知最大字节数（1 MiB）
	MaxNotificationSize = 1024 * 1024
)

// ByteReader 帧读取所需的读接口
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// WriteFrame 写入一帧
//
// 长度前缀和负载合并为一次 Write，避免在多路复用流上拆成两个数据包。
func WriteFrame(w io.Writer, payload []byte) error {
	buf := make([]byte, 0, varint.UvarintSize(uint64(len(payload)))+len(payload))
	buf = append(buf, varint.ToUvarint(uint64(len(payload)))...)
	buf = append(buf, payload...)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReadFrame 读取一帧
//
// 对端在帧边界关闭时返回 io.EOF。
func ReadFrame(r ByteReader, maxSize int) ([]byte, error) {
	length, err := varint.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if length > uint64(maxSize) {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, length, maxSize)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read frame payload: %w", err)
	}
	return buf, nil
}

// byteReader 为无缓冲的 io.Reader 提供 ReadByte
type byteReader struct {
	io.Reader
	b [1]byte
}

// ReadByte 读取一个字节
func (r *byteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(r.Reader, r.b[:]); err != nil {
		return 0, err
	}
	return r.b[0], nil
}
