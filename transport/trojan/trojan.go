// Package trojan implements the client side of the Trojan protocol: a TLS
// tunnel over which the client presents a password and an HTTP-CONNECT-like
// header before the connection becomes an opaque byte pipe.
package trojan

import (
	"crypto/tls"
	"fmt"
	"io"
	"net"
)

// Option configures a Trojan client instance. It is immutable after
// construction, matching the Handler variant's lifecycle in the data
// model.
type Option struct {
	Password       string
	ServerName     string // SNI; defaults to the host of the conn's remote address if empty
	SkipCertVerify bool
}

// Trojan holds the static per-proxy configuration and knows how to drive
// one TLS tunnel's handshake. It carries no per-connection state.
type Trojan struct {
	option *Option
}

func New(option *Option) *Trojan {
	return &Trojan{option: option}
}

// StreamConn performs the TLS client handshake over c (dialed by the
// caller) and writes the Trojan greeting. The returned net.Conn is the
// opaque tunnel: every subsequent byte is the proxied payload.
func (t *Trojan) StreamConn(c net.Conn, host string, port uint16) (net.Conn, error) {
	serverName := t.option.ServerName
	if serverName == "" {
		if h, _, err := net.SplitHostPort(c.RemoteAddr().String()); err == nil {
			serverName = h
		}
	}

	tlsConn := tls.Client(c, &tls.Config{
		ServerName:         serverName,
		InsecureSkipVerify: t.option.SkipCertVerify,
		MinVersion:         tls.VersionTLS12,
	})
	if err := tlsConn.Handshake(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("trojan TLS handshake: %w", err)
	}

	if err := t.writeHeader(tlsConn, host, port); err != nil {
		_ = tlsConn.Close()
		return nil, err
	}

	return tlsConn, nil
}

// writeHeader sends the single greeting frame: password, CRLF, an
// HTTP/1.1-shaped CONNECT line, a Host header, and the blank line that
// terminates it. The wire format is UTF-8 text, not length-prefixed.
func (t *Trojan) writeHeader(w io.Writer, host string, port uint16) error {
	target := fmt.Sprintf("%s:%d", host, port)
	greeting := t.option.Password + "\r\n" +
		"CONNECT " + target + " HTTP/1.1\r\n" +
		"Host: " + target + "\r\n" +
		"\r\n"

	if _, err := io.WriteString(w, greeting); err != nil {
		return fmt.Errorf("trojan write greeting: %w", err)
	}
	return nil
}

