package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirection_String(t *testing.T) {
	assert.Equal(t, "unknown", DirUnknown.String())
	assert.Equal(t, "inbound", DirInbound.String())
	assert.Equal(t, "outbound", DirOutbound.String())
	assert.Equal(t, "unknown", Direction(-1).String())
	assert.Equal(t, "unknown", Direction(99).String())
}

func TestKeepAlive(t *testing.T) {
	assert.True(t, KeepAliveYes.IsYes())
	assert.False(t, KeepAliveNo.IsYes())
	assert.Equal(t, "yes", KeepAliveYes.String())
	assert.Equal(t, "no", KeepAliveNo.String())

	var zero KeepAlive
	assert.Equal(t, KeepAliveNo, zero)
}
