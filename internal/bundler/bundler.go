// Package bundler wraps the build toolchain used for nested service worker
// builds. The injection engine talks to the Bundler interface; Esbuild is the
// production implementation, and tests substitute stubs.
package bundler

import (
	"context"
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"
)

// BuildOptions configures one nested build.
type BuildOptions struct {
	// EntryPoint is the service worker source file.
	EntryPoint string

	// OutName is the output-relative destination name.
	OutName string

	// Mode enables minification when "production".
	Mode string

	// Devtool selects the source map style, mirroring the outer build.
	Devtool string

	// InputFS is the filesystem sources are read from. Non-OS filesystems
	// are honored through a resolver plugin so fully in-memory builds work.
	InputFS afero.Fs

	// Plugins are extra toolchain plugins applied only to this build.
	Plugins []api.Plugin
}

// Result is the outcome of a nested build. Errors and warnings are carried
// as data, never panics, so the caller can append them to the outer build's
// diagnostics.
type Result struct {
	Code     []byte
	Map      []byte // nil when no external map was produced
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic is one message from the nested build.
type Diagnostic struct {
	Text   string
	File   string
	Line   int
	Column int
}

// Err converts the diagnostic into an error for a diagnostics sink.
func (d Diagnostic) Err() error {
	if d.File == "" {
		return fmt.Errorf("sw build: %s", d.Text)
	}
	return fmt.Errorf("sw build: %s:%d:%d: %s", d.File, d.Line, d.Column, d.Text)
}

// Bundler produces the destination service worker from a source entry point.
type Bundler interface {
	Build(ctx context.Context, opts BuildOptions) (*Result, error)
}
