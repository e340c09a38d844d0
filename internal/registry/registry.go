package registry

import "sync"

// Registry is a process-wide, append-only set of asset names produced by the
// injection engine. Every plugin instance records its destination name here,
// and entry sources consult it so that no instance can ever precache a
// service worker that the engine itself generated. Entries are added, never
// removed; the set lives for the lifetime of the process.
type Registry struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

// New creates an empty registry. Most callers want Shared instead; New exists
// so tests and embedders can scope registration to their own lifetime.
func New() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register adds a destination asset name to the set. Registering the same
// name twice is a no-op.
func (r *Registry) Register(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[name] = struct{}{}
}

// IsGenerated reports whether name was produced by any injection instance in
// this process.
func (r *Registry) IsGenerated(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.names[name]
	return ok
}

// Names returns a snapshot of all registered names, in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.names))
	for name := range r.names {
		out = append(out, name)
	}
	return out
}

var shared = New()

// Shared returns the process-wide registry. All plugin instances that are not
// explicitly constructed with a private registry share this one, which is what
// gives cross-instance self-exclusion its process lifetime.
func Shared() *Registry {
	return shared
}
