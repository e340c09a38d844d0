package config

import (
	"fmt"
	"regexp"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/precachekit/swinject/internal/manifest"
)

// Config is the configuration surface of one injection target. File- and
// flag-loadable fields carry mapstructure/yaml tags; the remaining fields are
// programmatic only. Once the injection stage merges this with host-derived
// values it is never mutated again.
type Config struct {
	// SwSrc is the service worker source file. Required.
	SwSrc string `mapstructure:"sw_src" yaml:"sw_src" json:"sw_src"`

	// SwDest is the output-relative destination name. Defaults to the
	// basename of SwSrc with a .js extension.
	SwDest string `mapstructure:"sw_dest" yaml:"sw_dest,omitempty" json:"sw_dest,omitempty"`

	// CompileSrc selects a nested compile of SwSrc (true, the default)
	// versus a verbatim copy.
	CompileSrc *bool `mapstructure:"compile_src" yaml:"compile_src,omitempty" json:"compile_src,omitempty"`

	// InjectionPoint is the placeholder marker replaced by the serialized
	// manifest. It must occur in the built worker text exactly once.
	InjectionPoint string `mapstructure:"injection_point" yaml:"injection_point,omitempty" json:"injection_point,omitempty"`

	// Include and Exclude are glob specifiers selecting which assets become
	// manifest entries.
	Include []string `mapstructure:"include" yaml:"include,omitempty" json:"include,omitempty"`
	Exclude []string `mapstructure:"exclude" yaml:"exclude,omitempty" json:"exclude,omitempty"`

	// MaxFileSize caps entry size, accepting "2MB" style strings.
	MaxFileSize string `mapstructure:"max_file_size" yaml:"max_file_size,omitempty" json:"max_file_size,omitempty"`

	// Mode overrides the outer build's mode tag.
	Mode string `mapstructure:"mode" yaml:"mode,omitempty" json:"mode,omitempty"`

	// ModifyURLPrefix rewrites leading URL prefixes of manifest entries.
	ModifyURLPrefix map[string]string `mapstructure:"modify_url_prefix" yaml:"modify_url_prefix,omitempty" json:"modify_url_prefix,omitempty"`

	// DontCacheBustURLsMatching marks entries whose URL matches this regexp
	// as self-versioned.
	DontCacheBustURLsMatching string `mapstructure:"dont_cache_bust" yaml:"dont_cache_bust,omitempty" json:"dont_cache_bust,omitempty"`

	// Cache configures the optional persistent revision cache.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache,omitempty" json:"cache,omitempty"`

	// Logging configures operational logging.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging,omitempty" json:"logging,omitempty"`

	// Transforms are user-supplied manifest transforms, run after the
	// built-in ones. Programmatic only.
	Transforms []manifest.Transform `mapstructure:"-" yaml:"-" json:"-"`

	// EsbuildPlugins are extra toolchain plugins applied only to the nested
	// service worker build. Programmatic only.
	EsbuildPlugins []api.Plugin `mapstructure:"-" yaml:"-" json:"-"`

	// ExcludeFuncs are predicate-style exclusions run in addition to the
	// Exclude globs. Programmatic only.
	ExcludeFuncs []func(name string) bool `mapstructure:"-" yaml:"-" json:"-"`
}

// CacheConfig contains revision cache settings
type CacheConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Directory string `mapstructure:"directory" yaml:"directory,omitempty" json:"directory,omitempty"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// Validate checks the configuration and applies defaults for omitted values.
func (c *Config) Validate() error {
	if c.SwSrc == "" {
		return ErrMissingSwSrc
	}
	if c.InjectionPoint == "" {
		c.InjectionPoint = DefaultInjectionPoint
	}
	if c.MaxFileSize == "" {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if _, err := ParseSize(c.MaxFileSize); err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}
	if c.DontCacheBustURLsMatching != "" {
		if _, err := regexp.Compile(c.DontCacheBustURLsMatching); err != nil {
			return fmt.Errorf("invalid dont_cache_bust pattern: %w", err)
		}
	}
	if len(c.Exclude) == 0 {
		c.Exclude = append(c.Exclude, DefaultExcludePatterns...)
	}
	return nil
}

// Compile reports the effective compile-vs-copy mode.
func (c *Config) Compile() bool {
	if c.CompileSrc == nil {
		return true
	}
	return *c.CompileSrc
}
