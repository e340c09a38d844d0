package manifest

import (
	"fmt"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/precachekit/swinject/internal/compilation"
)

func newTestCompilation(assets map[string]string) *compilation.Compilation {
	comp := compilation.New(compilation.Options{})
	for name, src := range assets {
		comp.EmitAsset(name, []byte(src))
	}
	return comp
}

// TestAssetSource_ComputeEntries tests filtering, revisioning, and ordering
func TestAssetSource_ComputeEntries(t *testing.T) {
	comp := newTestCompilation(map[string]string{
		"app.js":     "console.log('app')",
		"vendor.js":  "console.log('vendor')",
		"app.js.map": `{"version":3}`,
		"index.html": "<html></html>",
	})

	src := NewAssetSource(AssetSourceOptions{})
	entries, total, err := src.ComputeEntries(comp, SourceConfig{
		Exclude: []string{"**.map"},
	})
	require.NoError(t, err)

	require.Len(t, entries, 3)
	// Sorted by URL
	assert.Equal(t, "app.js", entries[0].URL)
	assert.Equal(t, "index.html", entries[1].URL)
	assert.Equal(t, "vendor.js", entries[2].URL)

	// Revision is the content hash
	require.NotNil(t, entries[0].Revision)
	assert.Equal(t, fmt.Sprintf("%016x", xxhash.Sum64([]byte("console.log('app')"))), *entries[0].Revision)

	wantTotal := int64(len("console.log('app')") + len("console.log('vendor')") + len("<html></html>"))
	assert.Equal(t, wantTotal, total)
}

// TestAssetSource_IncludeGlobs tests that include narrows the candidate set
func TestAssetSource_IncludeGlobs(t *testing.T) {
	comp := newTestCompilation(map[string]string{
		"a.js":    "a",
		"b.css":   "b",
		"c.woff2": "c",
	})

	src := NewAssetSource(AssetSourceOptions{})
	entries, _, err := src.ComputeEntries(comp, SourceConfig{
		Include: []string{"*.js", "*.css"},
	})
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "a.js", entries[0].URL)
	assert.Equal(t, "b.css", entries[1].URL)
}

// TestAssetSource_ExcludeFuncs tests predicate exclusion (self-generated assets)
func TestAssetSource_ExcludeFuncs(t *testing.T) {
	comp := newTestCompilation(map[string]string{
		"app.js": "a",
		"sw.js":  "generated worker",
	})

	src := NewAssetSource(AssetSourceOptions{})
	entries, _, err := src.ComputeEntries(comp, SourceConfig{
		ExcludeFuncs: []func(string) bool{
			func(name string) bool { return name == "sw.js" },
		},
	})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "app.js", entries[0].URL)
}

// TestAssetSource_MaxFileSize tests the size cap warning path
func TestAssetSource_MaxFileSize(t *testing.T) {
	comp := newTestCompilation(map[string]string{
		"small.js": "tiny",
		"big.js":   "0123456789012345678901234567890123456789",
	})

	src := NewAssetSource(AssetSourceOptions{})
	entries, total, err := src.ComputeEntries(comp, SourceConfig{MaxFileSize: 10})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "small.js", entries[0].URL)
	assert.Equal(t, int64(4), total)

	warnings := comp.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "big.js")
	assert.Contains(t, warnings[0].Error(), "10 byte")
}

// TestAssetSource_Transforms tests that the transform pipeline applies
func TestAssetSource_Transforms(t *testing.T) {
	comp := newTestCompilation(map[string]string{"app.js": "a"})

	src := NewAssetSource(AssetSourceOptions{})
	entries, _, err := src.ComputeEntries(comp, SourceConfig{
		Transforms: []Transform{ModifyURLPrefix(map[string]string{"": "/"})},
	})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "/app.js", entries[0].URL)
}

// TestAssetSource_BadPatterns tests glob compilation errors
func TestAssetSource_BadPatterns(t *testing.T) {
	comp := newTestCompilation(nil)
	src := NewAssetSource(AssetSourceOptions{})

	_, _, err := src.ComputeEntries(comp, SourceConfig{Include: []string{"[!"}})
	assert.ErrorIs(t, err, ErrBadIncludePattern)

	_, _, err = src.ComputeEntries(comp, SourceConfig{Exclude: []string{"[!"}})
	assert.ErrorIs(t, err, ErrBadExcludePattern)
}

// TestAssetSource_NilCompilation tests the guard against a missing build
func TestAssetSource_NilCompilation(t *testing.T) {
	src := NewAssetSource(AssetSourceOptions{})
	_, _, err := src.ComputeEntries(nil, SourceConfig{})
	assert.ErrorIs(t, err, ErrNilCompilation)
}

type fakeRevisionCache struct {
	hits   int
	misses int
	stored map[string]string
}

func (c *fakeRevisionCache) key(name string, size int64, mod time.Time) string {
	return fmt.Sprintf("%s|%d|%d", name, size, mod.UnixNano())
}

func (c *fakeRevisionCache) Revision(name string, size int64, mod time.Time) (string, bool) {
	rev, ok := c.stored[c.key(name, size, mod)]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return rev, ok
}

func (c *fakeRevisionCache) Store(name string, size int64, mod time.Time, rev string) error {
	c.stored[c.key(name, size, mod)] = rev
	return nil
}

// TestAssetSource_RevisionCache tests cache consultation for assets with
// modification times
func TestAssetSource_RevisionCache(t *testing.T) {
	fc := &fakeRevisionCache{stored: make(map[string]string)}
	src := NewAssetSource(AssetSourceOptions{RevisionCache: fc})

	// Assets emitted in memory carry no mod time and bypass the cache
	memComp := compilation.New(compilation.Options{})
	memComp.EmitAsset("app.js", []byte("body"))
	_, _, err := src.ComputeEntries(memComp, SourceConfig{})
	require.NoError(t, err)
	assert.Zero(t, fc.hits+fc.misses)

	// Dir-loaded assets carry mod times: first pass misses and stores,
	// second pass hits
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "dist/app.js", []byte("body"), 0644))
	comp := compilation.New(compilation.Options{InputFS: fs, OutputFS: fs})
	require.NoError(t, comp.LoadDir("dist"))

	first, _, err := src.ComputeEntries(comp, SourceConfig{})
	require.NoError(t, err)
	assert.Equal(t, 1, fc.misses)
	assert.Len(t, fc.stored, 1)

	second, _, err := src.ComputeEntries(comp, SourceConfig{})
	require.NoError(t, err)
	assert.Equal(t, 1, fc.hits)
	assert.Equal(t, first, second)
}
