// Package constant holds the types shared across the dispatcher, the
// routing runtime and the outbound handlers, mirroring the role the
// teacher's own constant package plays for its Metadata/Proxy contract.
package constant

import (
	"strconv"
	"time"

	"github.com/trojan-gate/trojan-gate/transport/socks5"
)

// DefaultTCPTimeout is the deadline of the context a session passes to
// Handler.Connect. Direct and Trojan apply it to their TCP dial; the
// Trojan TLS handshake and the VMess WebSocket dial and handshake do not
// use the context.
const DefaultTCPTimeout = 10 * time.Second

// Metadata describes one CONNECT request's destination, parsed off the
// inbound SOCKS5 request.
type Metadata struct {
	Host string
	Port uint16
}

// AddrType reports which SOCKS5 address type this destination would
// serialize as: IPv4 for a host of only digits and dots, domain
// otherwise.
func (m Metadata) AddrType() byte {
	if m.Host == "" {
		return socks5.AtypIPv4
	}
	for i := 0; i < len(m.Host); i++ {
		c := m.Host[i]
		if !(c == '.' || (c >= '0' && c <= '9')) {
			return socks5.AtypDomainName
		}
	}
	return socks5.AtypIPv4
}

// RemoteAddress renders "host:port" for logging.
func (m Metadata) RemoteAddress() string {
	return m.Host + ":" + strconv.Itoa(int(m.Port))
}
