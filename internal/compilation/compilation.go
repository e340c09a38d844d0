// Package compilation models the slice of an asset build toolchain that the
// injection stage needs from its host: a named asset store, a diagnostics
// sink for non-fatal warnings and fatal errors, input and output filesystem
// abstractions, file-dependency tracking for rebuild triggering, and a staged
// asset-processing hook system. The CLI drives a Compilation over a dist
// directory; library consumers embed one in their own build loop.
package compilation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// Asset is one named build output: a byte payload plus the modification time
// of the file it was loaded from (zero for assets emitted in memory).
// Companion source maps are stored as separate assets named "<name>.map".
type Asset struct {
	Name    string
	Source  []byte
	ModTime time.Time
}

// BuildMeta carries the outer build's settings that the injection stage
// derives configuration from.
type BuildMeta struct {
	Mode       string // "production" or "development"
	Devtool    string // source map style, e.g. "source-map", "eval-cheap-source-map", "" for none
	Minify     bool
	OutputDir  string
	PublicPath string
}

// Options configures a new Compilation.
type Options struct {
	InputFS  afero.Fs
	OutputFS afero.Fs
	Meta     BuildMeta
}

// Compilation is the mutable state of one build: its assets, diagnostics,
// dependency set, and registered asset processors. All methods are safe for
// concurrent use.
type Compilation struct {
	mu         sync.Mutex
	assets     map[string]*Asset
	errors     []error
	warnings   []error
	fileDeps   map[string]struct{}
	processors []processor

	inputFS  afero.Fs
	outputFS afero.Fs
	meta     BuildMeta
}

// New creates a Compilation. Missing filesystems default to the OS
// filesystem; tests typically pass afero.NewMemMapFs for both.
func New(opts Options) *Compilation {
	if opts.InputFS == nil {
		opts.InputFS = afero.NewOsFs()
	}
	if opts.OutputFS == nil {
		opts.OutputFS = afero.NewOsFs()
	}
	return &Compilation{
		assets:   make(map[string]*Asset),
		fileDeps: make(map[string]struct{}),
		inputFS:  opts.InputFS,
		outputFS: opts.OutputFS,
		meta:     opts.Meta,
	}
}

// Meta returns the outer build's settings.
func (c *Compilation) Meta() BuildMeta { return c.meta }

// InputFS returns the filesystem source files are read from.
func (c *Compilation) InputFS() afero.Fs { return c.inputFS }

// OutputFS returns the filesystem final assets are written to.
func (c *Compilation) OutputFS() afero.Fs { return c.outputFS }

// Asset returns the asset with the given output-relative name.
func (c *Compilation) Asset(name string) (*Asset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.assets[name]
	return a, ok
}

// EmitAsset adds or replaces an asset.
func (c *Compilation) EmitAsset(name string, source []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assets[name] = &Asset{Name: name, Source: source}
}

// UpdateAsset replaces the payload of an existing asset, preserving its
// recorded modification time.
func (c *Compilation) UpdateAsset(name string, source []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.assets[name]; ok {
		c.assets[name] = &Asset{Name: name, Source: source, ModTime: a.ModTime}
		return
	}
	c.assets[name] = &Asset{Name: name, Source: source}
}

// Assets returns all assets sorted by name, so iteration order is
// deterministic across builds.
func (c *Compilation) Assets() []*Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Asset, 0, len(c.assets))
	for _, a := range c.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddError records a fatal diagnostic. Errors do not stop other processors;
// the build consumer decides how to surface them.
func (c *Compilation) AddError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, err)
}

// AddWarning records a non-fatal diagnostic.
func (c *Compilation) AddWarning(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, err)
}

// Errors returns the recorded fatal diagnostics.
func (c *Compilation) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.errors...)
}

// Warnings returns the recorded non-fatal diagnostics.
func (c *Compilation) Warnings() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.warnings...)
}

// AddFileDependency registers a source file as a build input, so a watching
// host knows to rebuild when it changes.
func (c *Compilation) AddFileDependency(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fileDeps[path] = struct{}{}
}

// FileDependencies returns the registered build inputs, sorted.
func (c *Compilation) FileDependencies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.fileDeps))
	for p := range c.fileDeps {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ProcessorFunc is one asset-processing stage callback.
type ProcessorFunc func(ctx context.Context, c *Compilation) error

type processor struct {
	stage int
	order int
	name  string
	fn    ProcessorFunc
}

// Asset-processing stages, run in ascending order. A processor that must see
// finalized assets but still change them (like manifest injection) belongs in
// StageFinalize; read-only consumers belong in StageReport.
const (
	StageAdditions = 100
	StageOptimize  = 200
	StageFinalize  = 300
	StageReport    = 400
)

// TapProcessAssets registers fn to run at the given stage. Registration
// order breaks ties within a stage.
func (c *Compilation) TapProcessAssets(stage int, name string, fn ProcessorFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processors = append(c.processors, processor{stage: stage, order: len(c.processors), name: name, fn: fn})
}

// ProcessAssets runs every registered processor in stage order. A failing
// processor does not prevent later processors from running; the first
// error is returned.
func (c *Compilation) ProcessAssets(ctx context.Context) error {
	c.mu.Lock()
	procs := append([]processor(nil), c.processors...)
	c.mu.Unlock()

	sort.Slice(procs, func(i, j int) bool {
		if procs[i].stage != procs[j].stage {
			return procs[i].stage < procs[j].stage
		}
		return procs[i].order < procs[j].order
	})

	var first error
	for _, p := range procs {
		if err := p.fn(ctx, c); err != nil && first == nil {
			first = err
		}
	}
	return first
}
