package config

import (
	"testing"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfig_Validate tests defaulting and rejection of bad settings
func TestConfig_Validate(t *testing.T) {
	t.Run("minimal config gets defaults", func(t *testing.T) {
		cfg := Config{SwSrc: "src/sw.js"}
		require.NoError(t, cfg.Validate())

		assert.Equal(t, DefaultInjectionPoint, cfg.InjectionPoint)
		assert.Equal(t, DefaultMaxFileSize, cfg.MaxFileSize)
		assert.Equal(t, DefaultExcludePatterns, cfg.Exclude)
	})

	t.Run("explicit values survive", func(t *testing.T) {
		cfg := Config{
			SwSrc:          "src/sw.js",
			InjectionPoint: "self.__PRECACHE",
			MaxFileSize:    "512KB",
			Exclude:        []string{"*.txt"},
		}
		require.NoError(t, cfg.Validate())

		assert.Equal(t, "self.__PRECACHE", cfg.InjectionPoint)
		assert.Equal(t, "512KB", cfg.MaxFileSize)
		assert.Equal(t, []string{"*.txt"}, cfg.Exclude)
	})

	t.Run("missing sw_src", func(t *testing.T) {
		cfg := Config{}
		assert.ErrorIs(t, cfg.Validate(), ErrMissingSwSrc)
	})

	t.Run("bad max_file_size", func(t *testing.T) {
		cfg := Config{SwSrc: "src/sw.js", MaxFileSize: "lots"}
		assert.ErrorContains(t, cfg.Validate(), "max_file_size")
	})

	t.Run("bad dont_cache_bust regexp", func(t *testing.T) {
		cfg := Config{SwSrc: "src/sw.js", DontCacheBustURLsMatching: "([0-9]"}
		assert.ErrorContains(t, cfg.Validate(), "dont_cache_bust")
	})
}

// TestDefaultExcludePatterns tests that the default excludes match build
// metadata at every depth under slash-separated glob matching, top-level
// companion maps included
func TestDefaultExcludePatterns(t *testing.T) {
	globs := make([]glob.Glob, 0, len(DefaultExcludePatterns))
	for _, p := range DefaultExcludePatterns {
		g, err := glob.Compile(p, '/')
		require.NoError(t, err, p)
		globs = append(globs, g)
	}

	excluded := func(name string) bool {
		for _, g := range globs {
			if g.Match(name) {
				return true
			}
		}
		return false
	}

	for _, name := range []string{
		"app.js.map",
		"sw.js.map",
		"static/js/app.js.map",
		"vendor.js.LICENSE.txt",
		"static/js/vendor.js.LICENSE.txt",
		"asset-manifest.json",
	} {
		assert.True(t, excluded(name), name)
	}

	for _, name := range []string{
		"app.js",
		"index.html",
		"static/js/app.js",
		"maple.js",
	} {
		assert.False(t, excluded(name), name)
	}
}

// TestConfig_Compile tests the compile-vs-copy default
func TestConfig_Compile(t *testing.T) {
	no := false
	yes := true

	assert.True(t, (&Config{}).Compile(), "compile is the default")
	assert.False(t, (&Config{CompileSrc: &no}).Compile())
	assert.True(t, (&Config{CompileSrc: &yes}).Compile())
}

// TestParseSize tests the human-readable size parser
func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"2MB", 2 * 1024 * 1024, false},
		{"512KB", 512 * 1024, false},
		{"1GB", 1024 * 1024 * 1024, false},
		{"100B", 100, false},
		{"100", 100, false},
		{"1.5MB", 1536 * 1024, false},
		{"2 MB", 2 * 1024 * 1024, false},
		{"2mb", 2 * 1024 * 1024, false},
		{"", 0, true},
		{"MB", 0, true},
		{"-1MB", 0, true},
		{"abcMB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
