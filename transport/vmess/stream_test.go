package vmess

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// newStreamPair spins up a real in-process WebSocket server and client
// and returns each side wrapped as a *Stream, so the adapter in
// stream.go is exercised end to end rather than against a mock.
func newStreamPair(t *testing.T) (client, server *Stream) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverCh := make(chan *websocket.Conn, 1)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		serverCh <- conn
	}))
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	serverConn := <-serverCh
	return NewStream(clientConn), NewStream(serverConn)
}

func TestStreamWriteIsOneMessage(t *testing.T) {
	client, server := newStreamPair(t)
	t.Cleanup(func() { _ = client.Close(); _ = server.Close() })

	payload := []byte("hello vmess")
	n, err := client.Write(payload)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)

	buf := make([]byte, 64)
	n, err = server.Read(buf)
	require.NoError(t, err)
	require.Equal(t, payload, buf[:n])
}

func TestStreamReadSplitsAcrossCarryBuffer(t *testing.T) {
	client, server := newStreamPair(t)
	t.Cleanup(func() { _ = client.Close(); _ = server.Close() })

	payload := []byte("0123456789")
	_, err := client.Write(payload)
	require.NoError(t, err)

	first := make([]byte, 4)
	n, err := server.Read(first)
	require.NoError(t, err)
	require.Equal(t, []byte("0123"), first[:n])

	rest := make([]byte, 16)
	n, err = server.Read(rest)
	require.NoError(t, err)
	require.Equal(t, []byte("456789"), rest[:n])
}

func TestStreamDiscardMessageSkipsControlFrames(t *testing.T) {
	client, server := newStreamPair(t)
	t.Cleanup(func() { _ = client.Close(); _ = server.Close() })

	done := make(chan error, 1)
	go func() {
		done <- server.discardMessage()
	}()

	require.NoError(t, client.conn.WriteMessage(websocket.PingMessage, nil))
	time.Sleep(10 * time.Millisecond)
	_, err := client.Write([]byte("greeting"))
	require.NoError(t, err)

	require.NoError(t, <-done)

	// discardMessage must not leak the greeting into the carry buffer.
	_, err = client.Write([]byte("payload"))
	require.NoError(t, err)
	buf := make([]byte, 16)
	n, err := server.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "payload", string(buf[:n]))
}

func TestStreamReadThreeByteChunks(t *testing.T) {
	client, server := newStreamPair(t)
	t.Cleanup(func() { _ = client.Close(); _ = server.Close() })

	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	_, err := client.Write(payload)
	require.NoError(t, err)

	chunk := make([]byte, 3)

	n, err := server.Read(chunk)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, chunk[:n])

	n, err = server.Read(chunk)
	require.NoError(t, err)
	require.Equal(t, []byte{0x04, 0x05, 0x06}, chunk[:n])

	n, err = server.Read(chunk)
	require.NoError(t, err)
	require.Equal(t, []byte{0x07, 0x08}, chunk[:n])
}

func TestStreamSatisfiesNetConn(t *testing.T) {
	client, server := newStreamPair(t)
	defer func() { _ = client.Close(); _ = server.Close() }()

	require.NotNil(t, client.LocalAddr())
	require.NotNil(t, client.RemoteAddr())
	require.NoError(t, client.SetDeadline(time.Now().Add(time.Second)))
	require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, client.SetWriteDeadline(time.Now().Add(time.Second)))
}

var _ io.ReadWriteCloser = (*Stream)(nil)
