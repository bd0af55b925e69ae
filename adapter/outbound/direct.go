package outbound

import (
	"context"
	"net"

	"github.com/trojan-gate/trojan-gate/component/dialer"
)

// Direct is the trivial outbound: a raw TCP connect, no framing.
type Direct struct {
	*Base
}

func NewDirect() *Direct {
	return &Direct{Base: &Base{name: DirectName}}
}

// Connect implements Handler.
func (d *Direct) Connect(ctx context.Context, host string, port uint16) (net.Conn, error) {
	addr := net.JoinHostPort(host, portString(port))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, connectError(addr, err)
	}
	return conn, nil
}
