package outbound

import (
	"context"
	"net"

	"github.com/trojan-gate/trojan-gate/component/dialer"
	"github.com/trojan-gate/trojan-gate/transport/trojan"
)

// TrojanOption is the immutable configuration for one Trojan outbound.
type TrojanOption struct {
	Name           string
	Server         string
	Port           uint16
	Password       string
	SNI            string
	SkipCertVerify bool
}

// Trojan dials TCP to its configured server, hands the connection to the
// trojan transport for the TLS handshake and greeting, and returns the
// resulting tunnel.
type Trojan struct {
	*Base
	option   *TrojanOption
	instance *trojan.Trojan
}

func NewTrojan(option TrojanOption) *Trojan {
	serverName := option.SNI
	if serverName == "" {
		serverName = option.Server
	}
	return &Trojan{
		Base:   &Base{name: option.Name},
		option: &option,
		instance: trojan.New(&trojan.Option{
			Password:       option.Password,
			ServerName:     serverName,
			SkipCertVerify: option.SkipCertVerify,
		}),
	}
}

// Connect implements Handler.
func (t *Trojan) Connect(ctx context.Context, host string, port uint16) (net.Conn, error) {
	addr := net.JoinHostPort(t.option.Server, portString(t.option.Port))

	c, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, connectError(addr, err)
	}

	stream, err := t.instance.StreamConn(c, host, port)
	if err != nil {
		safeClose(c, err)
		return nil, err
	}

	return stream, nil
}
