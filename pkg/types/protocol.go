package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProtocol 协议名不能用于 multistream-select 协商
var ErrInvalidProtocol = errors.New("invalid protocol id")

// ProtocolID 子流协商使用的协议名，如 "/notif/block-announces/1"
type ProtocolID string

func (p ProtocolID) String() string { return string(p) }

// Validate 协议名必须以 '/' 开头，且不含换行
//
// multistream-select 以 '\n' 结束每一行，协议名中的换行会破坏协商。
func (p ProtocolID) Validate() error {
	switch {
	case p == "":
		return fmt.Errorf("%w: empty", ErrInvalidProtocol)
	case !strings.HasPrefix(string(p), "/"):
		return fmt.Errorf("%w: %q must start with '/'", ErrInvalidProtocol, string(p))
	case strings.ContainsAny(string(p), "\r\n"):
		return fmt.Errorf("%w: %q contains a line break", ErrInvalidProtocol, string(p))
	}
	return nil
}

// Version 最后一段路径，"/notif/grandpa/2" 的版本为 "2"
func (p ProtocolID) Version() string {
	s := string(p)
	return s[strings.LastIndexByte(s, '/')+1:]
}

// Name 去掉版本段后的前缀，没有版本段时原样返回
func (p ProtocolID) Name() string {
	s := string(p)
	if i := strings.LastIndexByte(s, '/'); i > 0 {
		return s[:i]
	}
	return s
}
