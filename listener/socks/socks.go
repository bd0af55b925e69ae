// Package socks is the SOCKS5 inbound dispatcher: it accepts TCP
// connections, runs the handshake from transport/socks5, consults the
// routing runtime for the current outbound, opens it, and stitches a
// bidirectional byte pump between the two ends. Grounded on the
// teacher's listener/listener.go accept-and-spawn pattern and
// tunnel/tunnel.go's per-session relay, generalized per spec §4.1 away
// from clash's rule-matching dispatch to this spec's single
// fixed-group lookup.
package socks

import (
	"context"
	"fmt"
	"io"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/trojan-gate/trojan-gate/adapter/outbound"
	C "github.com/trojan-gate/trojan-gate/constant"
	"github.com/trojan-gate/trojan-gate/log"
	"github.com/trojan-gate/trojan-gate/routing"
	"github.com/trojan-gate/trojan-gate/transport/socks5"
)

// Listener accepts SOCKS5 connections on one TCP address and dispatches
// each to an outbound chosen by consulting the routing runtime's
// RoutingGroup on every request.
type Listener struct {
	ln           net.Listener
	registry     *outbound.Registry
	runtime      *routing.Runtime
	routingGroup string
}

// New binds addr and returns a Listener that has not yet started
// accepting; call Serve to run it. Binding is the only fatal-to-process
// failure in this core (spec §7).
func New(addr string, registry *outbound.Registry, runtime *routing.Runtime, routingGroup string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("socks: listen %s: %w", addr, err)
	}
	return &Listener{ln: ln, registry: registry, runtime: runtime, routingGroup: routingGroup}, nil
}

// Address returns the bound local address.
func (l *Listener) Address() string {
	return l.ln.Addr().String()
}

// Close stops accepting new connections. Sessions already in progress
// are not cancelled.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Serve accepts connections until the listener is closed, spawning one
// independent session goroutine per connection. It never returns under
// normal operation.
func (l *Listener) Serve() error {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			return err
		}
		go l.handle(conn)
	}
}

func (l *Listener) handle(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	if err := socks5.Handshake(conn); err != nil {
		log.Debugln("[SOCKS5] handshake from %s: %s", conn.RemoteAddr(), err)
		return
	}

	req, err := socks5.ReadRequest(conn)
	if err != nil {
		log.Debugln("[SOCKS5] request from %s: %s", conn.RemoteAddr(), err)
		return
	}
	metadata := C.Metadata{Host: req.Host, Port: req.Port}

	handler, err := l.resolveHandler()
	if err != nil {
		log.Warnln("[SOCKS5] %s: %s", conn.RemoteAddr(), err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), C.DefaultTCPTimeout)
	defer cancel()

	remote, err := handler.Connect(ctx, metadata.Host, metadata.Port)
	if err != nil {
		log.Warnln("[SOCKS5] dial %s via %s: %s", metadata.RemoteAddress(), handler.Name(), err)
		return
	}
	defer func() { _ = remote.Close() }()

	if err := socks5.WriteSuccess(conn); err != nil {
		log.Debugln("[SOCKS5] write success reply to %s: %s", conn.RemoteAddr(), err)
		return
	}

	log.Infoln("[SOCKS5] %s --> %s using %s", conn.RemoteAddr(), metadata.RemoteAddress(), handler.Name())
	relay(conn, remote)
}

// resolveHandler implements spec §4.1 step 5: look up the fixed routing
// group, read its current selection, and resolve that name in the
// handler registry. Either miss fails the session.
func (l *Listener) resolveHandler() (outbound.Handler, error) {
	group, ok := l.runtime.GetGroup(l.routingGroup)
	if !ok {
		return nil, fmt.Errorf("routing group %q is not registered", l.routingGroup)
	}

	name := group.Get()
	handler, ok := l.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("outbound %q selected by group %q is not registered", name, l.routingGroup)
	}
	return handler, nil
}

// relay runs a full-duplex copy between client and remote as two
// sibling goroutines and returns once both have finished; both sides
// are then closed by the deferred Close calls in handle. A direction
// that reaches EOF half-closes its destination (where supported) and
// leaves the other direction draining in-flight bytes; a direction that
// fails with an error closes both conns, which ends the other direction.
func relay(client, remote net.Conn) {
	g := new(errgroup.Group)

	g.Go(func() error {
		_, err := copyAndHalfClose(remote, client)
		return err
	})
	g.Go(func() error {
		_, err := copyAndHalfClose(client, remote)
		return err
	})

	_ = g.Wait()
}

// halfCloser is implemented by *net.TCPConn; closing only the write
// side lets the other direction's copy keep draining in-flight bytes.
type halfCloser interface {
	CloseWrite() error
}

func copyAndHalfClose(dst, src net.Conn) (int64, error) {
	n, err := io.Copy(dst, src)
	if err != nil {
		_ = dst.Close()
		_ = src.Close()
		return n, err
	}
	if hc, ok := dst.(halfCloser); ok {
		_ = hc.CloseWrite()
	}
	return n, err
}
