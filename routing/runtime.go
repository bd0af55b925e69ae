// Package routing is the process-wide routing runtime: a map from group
// name to a currently-selected outbound name, mutated by the control
// plane and read on every SOCKS5 session's hot path.
package routing

import (
	"sync"

	"go.uber.org/atomic"
)

// Group is a named routing slot holding one currently-selected outbound
// name. Its current selection is an atomic.String: readers get a
// wait-free Load of an immutable string, and Set publishes with release
// ordering so no reader ever observes a torn value — the "atomic pointer
// to an immutable string" option named in spec §9.
type Group struct {
	name    string
	all     []string
	current atomic.String
}

// Name returns the group's own name.
func (g *Group) Name() string {
	return g.name
}

// All returns the fixed list of outbound names this group may be
// switched between, in the order config declared them.
func (g *Group) All() []string {
	return g.all
}

// Get returns a snapshot copy of the current selection.
func (g *Group) Get() string {
	return g.current.Load()
}

// Set replaces the current selection. The runtime does not validate
// that name exists in any handler registry; callers (the SOCKS5
// dispatcher) are responsible for failing sessions on an unknown name.
func (g *Group) Set(name string) {
	g.current.Store(name)
}

// Runtime is the concurrency-safe group-name -> Group map. Registration
// happens at startup; reads and writes to individual groups' selections
// go through the Group, not the Runtime, once registered.
type Runtime struct {
	mu     sync.RWMutex
	groups map[string]*Group
}

func NewRuntime() *Runtime {
	return &Runtime{groups: make(map[string]*Group)}
}

// RegisterGroup inserts or replaces a group with the given candidate
// outbound list, defaulting its current selection to the first entry.
// Idempotent in intent; typically called only at startup.
func (r *Runtime) RegisterGroup(name string, candidates []string) *Group {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := &Group{name: name, all: candidates}
	g.current.Store(candidates[0])
	r.groups[name] = g
	return g
}

// GetGroup returns a snapshot handle to a registered group, or false if
// no group by that name has been registered.
func (r *Runtime) GetGroup(name string) (*Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[name]
	return g, ok
}

// Groups returns every registered group, in no particular order, for the
// control plane's list endpoint.
func (r *Runtime) Groups() []*Group {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Group, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, g)
	}
	return out
}
