package injector

import (
	"path"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/precachekit/swinject/internal/compilation"
	"github.com/precachekit/swinject/internal/config"
	"github.com/precachekit/swinject/internal/manifest"
)

// resolved is the fully merged configuration of one build invocation:
// defaults, host-derived values, and explicit settings folded into a single
// immutable value. Explicit settings always win over host-derived ones.
type resolved struct {
	swSrc          string
	swDest         string
	injectionPoint string
	compileSrc     bool
	mode           string
	devtool        string
	minify         bool
	include        []string
	exclude        []string
	excludeFuncs   []func(string) bool
	maxFileSize    int64
	transforms     []manifest.Transform
	plugins        []api.Plugin
}

// resolveConfig validates cfg and merges it with the compilation's build
// settings. The result is never mutated afterwards.
func (p *Plugin) resolveConfig(comp *compilation.Compilation) (*resolved, error) {
	cfg := p.cfg // copy; validation defaults must not leak between builds
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Err: err}
	}

	meta := comp.Meta()

	mode := meta.Mode
	if cfg.Mode != "" {
		mode = cfg.Mode
	}
	if mode == "" {
		mode = config.DefaultMode
	}

	maxSize, err := config.ParseSize(cfg.MaxFileSize)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	// Built-in transforms run before user-supplied ones.
	var transforms []manifest.Transform
	if len(cfg.ModifyURLPrefix) > 0 {
		transforms = append(transforms, manifest.ModifyURLPrefix(cfg.ModifyURLPrefix))
	}
	if cfg.DontCacheBustURLsMatching != "" {
		re := regexp.MustCompile(cfg.DontCacheBustURLsMatching) // validated above
		transforms = append(transforms, manifest.DontCacheBustURLsMatching(re))
	}
	transforms = append(transforms, cfg.Transforms...)

	// The engine must never precache its own output, in any instance.
	excludeFuncs := append([]func(string) bool{p.registry.IsGenerated}, cfg.ExcludeFuncs...)

	return &resolved{
		swSrc:          cfg.SwSrc,
		swDest:         destName(cfg),
		injectionPoint: cfg.InjectionPoint,
		compileSrc:     cfg.Compile(),
		mode:           mode,
		devtool:        meta.Devtool,
		minify:         meta.Minify,
		include:        cfg.Include,
		exclude:        cfg.Exclude,
		excludeFuncs:   excludeFuncs,
		maxFileSize:    maxSize,
		transforms:     transforms,
		plugins:        cfg.EsbuildPlugins,
	}, nil
}

// destName resolves the output-relative destination name: the explicit
// sw_dest when given, otherwise the source basename with a .js extension.
func destName(cfg config.Config) string {
	if cfg.SwDest != "" {
		return cfg.SwDest
	}
	base := path.Base(cfg.SwSrc)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".js"
}
