package registry

import "sync/atomic"

// Guard detects repeated injection runs within what should be a single
// logical build. Watch-style workflows keep one plugin instance alive across
// rebuilds, so a second run means the manifest may be generated against stale
// assumptions. The guard only detects this condition; it never blocks the run.
//
// The zero value is ready to use.
type Guard struct {
	invoked atomic.Bool
	warned  atomic.Bool
}

// NoteInvocation records that the injection step ran. It returns false on the
// first call and true on every later call.
func (g *Guard) NoteInvocation() bool {
	return g.invoked.Swap(true)
}

// ShouldWarn reports whether a repeated-invocation warning should be emitted
// now. It returns true at most once per guard lifetime, so callers can warn
// unconditionally on a true result and still never duplicate the warning.
func (g *Guard) ShouldWarn() bool {
	return !g.warned.Swap(true)
}
