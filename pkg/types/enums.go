package types

// Direction 连接由哪一端发起
type Direction int

const (
	DirUnknown Direction = iota
	// DirInbound 远端拨入
	DirInbound
	// DirOutbound 本端拨出
	DirOutbound
)

var directionNames = [...]string{
	DirUnknown:  "unknown",
	DirInbound:  "inbound",
	DirOutbound: "outbound",
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return directionNames[DirUnknown]
	}
	return directionNames[d]
}

// KeepAlive 处理器是否需要连接继续存在
//
// 连接层只在所有意见都为 KeepAliveNo 并且空闲超时后关闭连接。
type KeepAlive bool

const (
	KeepAliveNo  KeepAlive = false
	KeepAliveYes KeepAlive = true
)

func (k KeepAlive) String() string {
	if k {
		return "yes"
	}
	return "no"
}

// IsYes 是否需要保持连接
func (k KeepAlive) IsYes() bool { return bool(k) }
