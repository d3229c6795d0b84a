package yamux

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_FinishOnce(t *testing.T) {
	server, client := sessions(t)
	in, _ := connected(t, server, client)

	s := in.(*Stream)
	require.False(t, s.IsClosed())
	require.NoError(t, s.Close())
	assert.True(t, s.IsClosed())

	// 后续调用都不再生效
	assert.NoError(t, s.Close())
	assert.NoError(t, s.CloseWrite())
	assert.NoError(t, s.Reset())
}

func TestStream_CloseWriteFlushes(t *testing.T) {
	server, client := sessions(t)
	in, out := connected(t, server, client)

	_, err := out.Write([]byte("last words"))
	require.NoError(t, err)
	require.NoError(t, out.CloseWrite())

	rest, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, "last words", string(rest))
}

func TestStream_ResetInterruptsRead(t *testing.T) {
	server, client := sessions(t)
	in, _ := connected(t, server, client)

	errCh := make(chan error, 1)
	go func() {
		var b [1]byte
		_, err := in.Read(b[:])
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, in.Reset())

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("read still blocked after reset")
	}
}

func TestStream_ReadDeadline(t *testing.T) {
	server, client := sessions(t)
	in, _ := connected(t, server, client)

	require.NoError(t, in.SetReadDeadline(time.Now().Add(10*time.Millisecond)))
	var b [1]byte
	_, err := in.Read(b[:])
	assert.Error(t, err)

	assert.NoError(t, in.SetDeadline(time.Time{}))
	assert.NoError(t, in.SetWriteDeadline(time.Time{}))
}

func TestStream_Unregistered(t *testing.T) {
	server, client := sessions(t)
	in, _ := connected(t, server, client)

	raw := NewStream(in.(*Stream).Stream)
	assert.Equal(t, in.ID(), raw.ID())
	assert.NoError(t, raw.Close())
	assert.Equal(t, 1, server.NumStreams())
}
