package injector

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/precachekit/swinject/internal/bundler"
	"github.com/precachekit/swinject/internal/compilation"
)

// materializeSW produces the destination asset: a nested build of the source
// file in compile mode, a verbatim copy otherwise. The destination name is
// registered process-wide the moment it is final, before any entry
// computation can run, and the source file becomes a tracked build input so
// watching hosts rebuild on change.
func (p *Plugin) materializeSW(ctx context.Context, comp *compilation.Compilation, res *resolved) error {
	p.registry.Register(res.swDest)
	comp.AddFileDependency(res.swSrc)

	if !res.compileSrc {
		return p.copySW(comp, res)
	}

	out, err := p.bundler.Build(ctx, bundler.BuildOptions{
		EntryPoint: res.swSrc,
		OutName:    res.swDest,
		Mode:       res.mode,
		Devtool:    res.devtool,
		InputFS:    comp.InputFS(),
		Plugins:    res.plugins,
	})
	if err != nil {
		return fmt.Errorf("service worker build: %w", err)
	}

	// Nested diagnostics are appended, not thrown: a failing sub-build
	// surfaces through the outer build's own reporting.
	for _, d := range out.Warnings {
		comp.AddWarning(d.Err())
	}
	for _, d := range out.Errors {
		comp.AddError(d.Err())
	}

	if out.Code != nil {
		comp.EmitAsset(res.swDest, out.Code)
		if out.Map != nil {
			comp.EmitAsset(res.swDest+".map", out.Map)
		}
	}
	return nil
}

// copySW registers the raw source bytes as the destination asset.
func (p *Plugin) copySW(comp *compilation.Compilation, res *resolved) error {
	if len(res.plugins) > 0 {
		// Cannot be validated ahead of time, so it is a mismatch warning
		// rather than an error.
		comp.AddWarning(errors.New("esbuild plugins were configured but compile_src is false; they are ignored"))
	}
	data, err := afero.ReadFile(comp.InputFS(), res.swSrc)
	if err != nil {
		return fmt.Errorf("reading service worker source %q: %w", res.swSrc, err)
	}
	comp.EmitAsset(res.swDest, data)
	return nil
}
