package manifest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSerialize_CanonicalForm tests the exact serialized shape: keys sorted,
// entries in given order, null revisions preserved
func TestSerialize_CanonicalForm(t *testing.T) {
	entries := []Entry{
		Revisioned("a.js", "123"),
		SelfVersioned("b.js"),
	}

	out, err := Serialize(entries, SerializeOptions{})
	require.NoError(t, err)
	assert.Equal(t, `[{"revision":"123","url":"a.js"},{"revision":null,"url":"b.js"}]`, out)
}

// TestSerialize_Deterministic tests byte-identical output for equal inputs
func TestSerialize_Deterministic(t *testing.T) {
	entries := []Entry{
		Revisioned("app.js", "aaa"),
		Revisioned("styles/main.css", "bbb"),
		SelfVersioned("vendor.abc123.js"),
	}
	opts := SerializeOptions{CompiledSW: true, Devtool: "source-map"}

	first, err := Serialize(entries, opts)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Serialize(entries, opts)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// TestSerialize_QuoteCompat tests the quote-rewrite carve-out
func TestSerialize_QuoteCompat(t *testing.T) {
	tests := []struct {
		name       string
		opts       SerializeOptions
		wantSingle bool
	}{
		{
			name:       "compiled, plain devtool",
			opts:       SerializeOptions{CompiledSW: true, Devtool: "source-map"},
			wantSingle: true,
		},
		{
			name:       "compiled, no devtool",
			opts:       SerializeOptions{CompiledSW: true},
			wantSingle: true,
		},
		{
			name:       "compiled, eval-cheap-source-map without minify",
			opts:       SerializeOptions{CompiledSW: true, Devtool: "eval-cheap-source-map"},
			wantSingle: true,
		},
		{
			name:       "compiled, eval-cheap-source-map with minify",
			opts:       SerializeOptions{CompiledSW: true, Devtool: "eval-cheap-source-map", Minify: true},
			wantSingle: false,
		},
		{
			name:       "copied verbatim",
			opts:       SerializeOptions{CompiledSW: false, Devtool: "source-map", Minify: true},
			wantSingle: false,
		},
	}

	entries := []Entry{Revisioned("a.js", "123")}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Serialize(entries, tt.opts)
			require.NoError(t, err)
			if tt.wantSingle {
				assert.NotContains(t, out, `"`)
				assert.Contains(t, out, `'`)
			} else {
				assert.Contains(t, out, `"`)
				assert.NotContains(t, out, `'`)
				// Double-quoted output stays valid JSON
				var decoded []map[string]any
				assert.NoError(t, json.Unmarshal([]byte(out), &decoded))
			}
		})
	}
}

// TestSerialize_Empty tests the zero-entry manifest
func TestSerialize_Empty(t *testing.T) {
	out, err := Serialize(nil, SerializeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

// TestSerialize_OrderPreserved tests that entry order is the caller's order
func TestSerialize_OrderPreserved(t *testing.T) {
	out, err := Serialize([]Entry{
		Revisioned("z.js", "1"),
		Revisioned("a.js", "2"),
	}, SerializeOptions{})
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "z.js"), strings.Index(out, "a.js"))
}
