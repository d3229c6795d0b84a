package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Duration 在 JSON 中写作 "10s"、"1m30s" 的时长
//
// 读取时也接受整数纳秒，写出时总是字符串。
type Duration time.Duration

// UnmarshalJSON 解析字符串或整数纳秒
func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, s, err)
		}
		*d = Duration(v)
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: duration must be a string like \"10s\" or integer nanoseconds, got %s",
			ErrInvalidConfig, data)
	}
	*d = Duration(n)
	return nil
}

// MarshalJSON 写出 time.Duration 的字符串形式
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Duration 返回 time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}
