package compilation

import "context"

// LegacyHooks adapts a Compilation to hosts written against the older
// single-callback emit API, which has no stage ordering: every tapped
// callback runs once, in registration order, after all assets are emitted.
// New integrations should tap the staged API on Compilation directly.
type LegacyHooks struct {
	c *Compilation
}

// Legacy returns the emit-style hook surface for this compilation.
func (c *Compilation) Legacy() *LegacyHooks {
	return &LegacyHooks{c: c}
}

// TapEmit registers fn on the legacy after-emit callback list. It is mapped
// onto the finalize stage of the staged API so both hook flavors interleave
// correctly when mixed.
func (l *LegacyHooks) TapEmit(name string, fn ProcessorFunc) {
	l.c.TapProcessAssets(StageFinalize, name, fn)
}

// RunEmit runs the registered callbacks. Equivalent to ProcessAssets.
func (l *LegacyHooks) RunEmit(ctx context.Context) error {
	return l.c.ProcessAssets(ctx)
}
