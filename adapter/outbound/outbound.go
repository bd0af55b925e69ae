// Package outbound holds the closed set of outbound handler variants —
// Direct, Trojan, VMess, plus the supplemented Reject sink — and the
// registry that maps an outbound name to one of them. This is the
// "Outbound Handler abstraction" of spec §4.2: one capability (Connect),
// represented here as an interface rather than a tagged union since Go
// has no sum types and the teacher's own ProxyAdapter is exactly this
// shape.
package outbound

import (
	"context"
	"fmt"
	"net"
)

// Handler opens a byte-stream tunnel to (host, port). The returned
// net.Conn is a full-duplex reliable byte pipe whose far end is the
// requested destination, possibly through intermediary tunneling.
type Handler interface {
	Name() string
	Connect(ctx context.Context, host string, port uint16) (net.Conn, error)
}

// Base carries the one attribute every variant shares. Embedding it is
// the teacher's own pattern (every adapter/outbound/*.go type embeds
// *Base for its Name()).
type Base struct {
	name string
}

func (b *Base) Name() string {
	return b.name
}

// Registry is the immutable-after-build outbound-name -> Handler map
// (spec §3's HandlerRegistry). It is built once at startup and never
// mutated, so it is safe to alias freely across sessions without a lock.
type Registry struct {
	handlers map[string]Handler
}

// DirectName is the outbound name that must always resolve in a
// Registry, per spec §3's invariant.
const DirectName = "DIRECT"

// RejectName is a supplemented no-op sink for proxy entries config
// could not parse into a known variant (see SPEC_FULL.md §4.2).
const RejectName = "REJECT"

func NewRegistry(handlers ...Handler) *Registry {
	r := &Registry{handlers: make(map[string]Handler, len(handlers)+2)}
	for _, h := range handlers {
		r.handlers[h.Name()] = h
	}
	if _, ok := r.handlers[DirectName]; !ok {
		r.handlers[DirectName] = NewDirect()
	}
	if _, ok := r.handlers[RejectName]; !ok {
		r.handlers[RejectName] = NewReject()
	}
	return r
}

// Get looks up a handler by name.
func (r *Registry) Get(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

func safeClose(c net.Conn, err error) {
	if err != nil && c != nil {
		_ = c.Close()
	}
}

func connectError(addr string, err error) error {
	return fmt.Errorf("%s connect error: %w", addr, err)
}
