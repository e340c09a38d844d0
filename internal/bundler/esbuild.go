package bundler

import (
	"context"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"
)

// Esbuild runs nested builds through the esbuild API. The build is
// synchronous: Build returns only once the nested build has fully completed.
type Esbuild struct{}

// NewEsbuild creates the esbuild-backed bundler.
func NewEsbuild() *Esbuild {
	return &Esbuild{}
}

// Build compiles the entry point into a single bundled service worker script.
// Output is kept in memory and handed back as a Result; nothing is written to
// disk. Nested build failures come back as Result diagnostics, not as an
// error: the error return is reserved for the toolchain itself being unusable.
func (e *Esbuild) Build(_ context.Context, opts BuildOptions) (*Result, error) {
	plugins := make([]api.Plugin, 0, len(opts.Plugins)+1)
	if needsFSPlugin(opts.InputFS) {
		plugins = append(plugins, fsPlugin(opts.InputFS))
	}
	plugins = append(plugins, opts.Plugins...)

	minify := opts.Mode == "production"

	res := api.Build(api.BuildOptions{
		EntryPoints:       []string{opts.EntryPoint},
		Bundle:            true,
		Write:             false,
		Outfile:           opts.OutName,
		Format:            api.FormatIIFE,
		Sourcemap:         sourcemapMode(opts.Devtool),
		MinifyWhitespace:  minify,
		MinifyIdentifiers: minify,
		MinifySyntax:      minify,
		LogLevel:          api.LogLevelSilent,
		Plugins:           plugins,
	})

	out := &Result{
		Errors:   convertMessages(res.Errors),
		Warnings: convertMessages(res.Warnings),
	}
	for _, f := range res.OutputFiles {
		if strings.HasSuffix(f.Path, ".map") {
			out.Map = f.Contents
		} else {
			out.Code = f.Contents
		}
	}
	return out, nil
}

// sourcemapMode maps the outer build's devtool tag onto esbuild's source map
// modes: eval/inline styles embed the map, empty disables it, everything else
// produces an external companion map.
func sourcemapMode(devtool string) api.SourceMap {
	switch {
	case devtool == "" || devtool == "false":
		return api.SourceMapNone
	case strings.Contains(devtool, "inline") || strings.HasPrefix(devtool, "eval"):
		return api.SourceMapInline
	default:
		return api.SourceMapExternal
	}
}

// needsFSPlugin reports whether the input filesystem requires the resolver
// plugin. The OS filesystem uses esbuild's native resolver.
func needsFSPlugin(fs afero.Fs) bool {
	if fs == nil {
		return false
	}
	_, isOS := fs.(*afero.OsFs)
	return !isOS
}

func convertMessages(msgs []api.Message) []Diagnostic {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]Diagnostic, 0, len(msgs))
	for _, m := range msgs {
		d := Diagnostic{Text: m.Text}
		if m.Location != nil {
			d.File = m.Location.File
			d.Line = m.Location.Line
			d.Column = m.Location.Column
		}
		out = append(out, d)
	}
	return out
}
