package injector

import (
	"context"
	"errors"
	"fmt"

	"github.com/precachekit/swinject/internal/bundler"
	"github.com/precachekit/swinject/internal/compilation"
	"github.com/precachekit/swinject/internal/config"
	"github.com/precachekit/swinject/internal/manifest"
	"github.com/precachekit/swinject/internal/registry"
	"github.com/precachekit/swinject/internal/sourcemap"
	"github.com/precachekit/swinject/internal/utils"
)

// pluginName identifies the stage in hook registrations and diagnostics.
const pluginName = "swinject"

// Plugin is one configured injection target. A Plugin is built once and may
// run many times (watch workflows), though repeated runs of one instance
// trigger a staleness warning.
type Plugin struct {
	cfg      config.Config
	bundler  bundler.Bundler
	source   manifest.EntrySource
	registry *registry.Registry
	guard    registry.Guard
	logger   *utils.Logger
	report   func(dest string, entries []manifest.Entry, totalSize int64)
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithBundler substitutes the nested build toolchain.
func WithBundler(b bundler.Bundler) Option {
	return func(p *Plugin) { p.bundler = b }
}

// WithEntrySource substitutes the manifest entry source.
func WithEntrySource(s manifest.EntrySource) Option {
	return func(p *Plugin) { p.source = s }
}

// WithRegistry scopes generated-asset bookkeeping to a private registry
// instead of the process-wide one.
func WithRegistry(r *registry.Registry) Option {
	return func(p *Plugin) { p.registry = r }
}

// WithLogger sets the operational logger.
func WithLogger(l *utils.Logger) Option {
	return func(p *Plugin) { p.logger = l }
}

// WithManifestReport registers fn to receive the computed entries and their
// total byte size each run, before the splice. The CLI uses this for its
// list mode.
func WithManifestReport(fn func(dest string, entries []manifest.Entry, totalSize int64)) Option {
	return func(p *Plugin) { p.report = fn }
}

// New creates a plugin instance for one injection target.
func New(cfg config.Config, opts ...Option) *Plugin {
	p := &Plugin{
		cfg:      cfg,
		bundler:  bundler.NewEsbuild(),
		registry: registry.Shared(),
		logger:   utils.NewDefaultLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.source == nil {
		p.source = manifest.NewAssetSource(manifest.AssetSourceOptions{Logger: p.logger})
	}
	p.logger = p.logger.WithComponent(pluginName)
	return p
}

// ProcessAssetsHost is the staged hook API a host may expose.
type ProcessAssetsHost interface {
	TapProcessAssets(stage int, name string, fn compilation.ProcessorFunc)
}

// EmitHost is the legacy single-callback hook API.
type EmitHost interface {
	TapEmit(name string, fn compilation.ProcessorFunc)
}

// Attach registers Run on whichever hook API the host exposes. The capability
// check happens once, here; Run itself never branches on host flavor. Staged
// hosts are preferred so injection runs after all content-producing stages
// but before the output is considered final.
func (p *Plugin) Attach(host any) error {
	switch h := host.(type) {
	case ProcessAssetsHost:
		h.TapProcessAssets(compilation.StageFinalize, pluginName, p.Run)
	case EmitHost:
		h.TapEmit(pluginName, p.Run)
	default:
		return ErrUnsupportedHost
	}
	return nil
}

// Run executes the injection stage against a finished build: materialize the
// service worker, validate the injection point, compute and serialize the
// manifest, splice it in, and update the destination asset (and companion
// map) in place. Fatal errors are both returned and recorded on the
// compilation.
func (p *Plugin) Run(ctx context.Context, comp *compilation.Compilation) error {
	if p.guard.NoteInvocation() && p.guard.ShouldWarn() {
		warning := errors.New("precache manifest was generated again by the same plugin instance; in watch mode the manifest may be stale, construct a fresh instance per build")
		comp.AddWarning(warning)
		p.logger.Warn().Msg(warning.Error())
	}

	res, err := p.resolveConfig(comp)
	if err != nil {
		comp.AddError(err)
		return err
	}
	log := p.logger.WithTarget(res.swDest)

	if err := p.materializeSW(ctx, comp, res); err != nil {
		comp.AddError(err)
		return err
	}

	asset, ok := comp.Asset(res.swDest)
	if !ok {
		// A failed nested build has already appended its errors; the stage
		// ends here without adding a crash on top.
		if len(comp.Errors()) > 0 {
			log.Debug().Msg("skipping injection, nested build produced no output")
			return nil
		}
		err := fmt.Errorf("%w: %s", ErrMissingAsset, res.swDest)
		comp.AddError(err)
		return err
	}

	text := string(asset.Source)
	if _, err := validateInjectionPoint(text, res.injectionPoint); err != nil {
		comp.AddError(err)
		return err
	}

	entries, totalSize, err := p.source.ComputeEntries(comp, manifest.SourceConfig{
		Include:      res.include,
		Exclude:      res.exclude,
		ExcludeFuncs: res.excludeFuncs,
		MaxFileSize:  res.maxFileSize,
		Transforms:   res.transforms,
	})
	if err != nil {
		comp.AddError(err)
		return err
	}
	if p.report != nil {
		p.report(res.swDest, entries, totalSize)
	}

	serialized, err := manifest.Serialize(entries, manifest.SerializeOptions{
		CompiledSW: res.compileSrc,
		Devtool:    res.devtool,
		Minify:     res.minify,
	})
	if err != nil {
		comp.AddError(err)
		return err
	}

	var srcMap *sourcemap.Map
	mapName := res.swDest + ".map"
	if mapAsset, ok := comp.Asset(mapName); ok {
		srcMap, err = sourcemap.Parse(mapAsset.Source)
		if err != nil {
			comp.AddError(err)
			return err
		}
	}

	spliced, err := sourcemap.Splice(text, res.injectionPoint, serialized, srcMap)
	if err != nil {
		comp.AddError(err)
		return err
	}

	comp.UpdateAsset(res.swDest, []byte(spliced.Text))
	if spliced.Map != nil {
		spliced.Map.File = res.swDest
		encoded, err := spliced.Map.Encode()
		if err != nil {
			comp.AddError(err)
			return err
		}
		comp.UpdateAsset(mapName, encoded)
	}

	log.Info().
		Int("entries", len(entries)).
		Int64("bytes", totalSize).
		Msg("precache manifest injected")
	return nil
}
