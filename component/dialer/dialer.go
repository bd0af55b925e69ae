// Package dialer is the TCP dial the Direct and Trojan outbound handlers
// reach the network through (VMess dials via gorilla/websocket's own
// Dialer), mirroring the teacher's own component/dialer split between
// business logic and the raw net.Dialer. The full teacher package races
// dual-stack lookups and binds to specific interfaces/routing marks for
// multi-homed hosts; none of that applies here (no IPv6, no multi-homed
// routing in this spec), so this is the plain single-stack form.
package dialer

import (
	"context"
	"net"
	"time"
)

const keepAlivePeriod = 30 * time.Second

// DialContext dials a TCP connection and enables keepalive the way every
// outbound handler's dialer.DialContext(ctx, "tcp", addr) call expects.
func DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetKeepAlive(true)
		_ = tcp.SetKeepAlivePeriod(keepAlivePeriod)
		_ = tcp.SetLinger(0)
	}

	return conn, nil
}
