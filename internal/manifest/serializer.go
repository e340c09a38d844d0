package manifest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SerializeOptions selects the compatibility behavior of Serialize.
type SerializeOptions struct {
	// CompiledSW is true when the service worker text came from a nested
	// compile rather than a verbatim copy.
	CompiledSW bool

	// Devtool is the outer build's source map style.
	Devtool string

	// Minify is the outer build's minification setting.
	Minify bool
}

// Serialize renders entries as deterministic JSON: object keys in sorted
// order, entries in the given order, equal inputs always producing
// byte-identical output.
//
// When the service worker was compiled, double quotes are rewritten to single
// quotes. The one exception is the eval-cheap-source-map + minify
// combination, where the worker text ends up embedded inside an evaluated
// string literal and the quote rewrite would corrupt that embedding.
func Serialize(entries []Entry, opts SerializeOptions) (string, error) {
	objs := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		obj := map[string]any{"url": e.URL}
		if e.Revision != nil {
			obj["revision"] = *e.Revision
		} else {
			obj["revision"] = nil
		}
		objs = append(objs, obj)
	}

	// encoding/json emits map keys in sorted order, which is exactly the
	// canonical form required here.
	data, err := json.Marshal(objs)
	if err != nil {
		return "", fmt.Errorf("serializing manifest: %w", err)
	}
	out := string(data)

	if opts.CompiledSW && !(opts.Devtool == "eval-cheap-source-map" && opts.Minify) {
		out = strings.ReplaceAll(out, `"`, `'`)
	}
	return out, nil
}
