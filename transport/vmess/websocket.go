package vmess

import (
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
)

// WebsocketConfig describes how to reach the VMess WS endpoint. Only
// network "ws" is supported; TLS for the WS transport is a documented
// Non-goal (plain ws:// only).
type WebsocketConfig struct {
	Server string // used as both dial host and default Host header
	Port   uint16
	Path   string // defaults to "/"
	Host   string // overrides the Host header when set
}

// DialWebsocket opens a plain ws:// connection to the configured
// endpoint and wraps it as a byte-stream Stream.
func DialWebsocket(cfg WebsocketConfig) (*Stream, error) {
	path := cfg.Path
	if path == "" {
		path = "/"
	}

	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(cfg.Server, fmt.Sprintf("%d", cfg.Port)),
		Path:   path,
	}

	header := http.Header{}
	if cfg.Host != "" {
		header.Set("Host", cfg.Host)
	}

	dialer := websocket.Dialer{}
	conn, resp, err := dialer.Dial(u.String(), header)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return nil, fmt.Errorf("vmess: websocket dial %s: %w", u.String(), err)
	}

	return NewStream(conn), nil
}
