package manifest

import (
	"fmt"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gobwas/glob"

	"github.com/precachekit/swinject/internal/compilation"
	"github.com/precachekit/swinject/internal/utils"
)

// SourceConfig carries the filter and transform settings for one entry
// computation pass.
type SourceConfig struct {
	// Include globs; empty means every asset is a candidate.
	Include []string

	// Exclude globs, applied after Include.
	Exclude []string

	// ExcludeFuncs are predicate-style exclusions, e.g. the registry's
	// IsGenerated, applied after the globs.
	ExcludeFuncs []func(name string) bool

	// MaxFileSize drops (with a warning) assets over this many bytes.
	// Zero means no cap.
	MaxFileSize int64

	// Transforms run in order over the filtered, revisioned entries.
	Transforms []Transform
}

// EntrySource computes the ordered manifest entries for a finished build and
// their total byte size.
type EntrySource interface {
	ComputeEntries(comp *compilation.Compilation, cfg SourceConfig) ([]Entry, int64, error)
}

// RevisionCache stores content revisions across rebuilds so watch-style
// builds can skip rehashing unchanged assets.
type RevisionCache interface {
	// Revision returns the cached revision for an asset identified by name,
	// size, and modification time.
	Revision(name string, size int64, modTime time.Time) (string, bool)

	// Store records a revision for later builds.
	Store(name string, size int64, modTime time.Time, revision string) error
}

// AssetSource derives manifest entries from a compilation's final assets.
type AssetSource struct {
	revisions RevisionCache
	logger    *utils.Logger
}

// AssetSourceOptions contains options for creating an AssetSource.
type AssetSourceOptions struct {
	// RevisionCache is optional; without one, every asset is hashed on
	// every pass.
	RevisionCache RevisionCache
	Logger        *utils.Logger
}

// NewAssetSource creates the default entry source.
func NewAssetSource(opts AssetSourceOptions) *AssetSource {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	return &AssetSource{
		revisions: opts.RevisionCache,
		logger:    logger.WithComponent("manifest"),
	}
}

// ComputeEntries filters the compilation's assets, computes revisions,
// applies the transform pipeline, and returns entries sorted by URL together
// with the total byte size of the underlying assets. Oversized assets are
// skipped with a warning on the compilation.
func (s *AssetSource) ComputeEntries(comp *compilation.Compilation, cfg SourceConfig) ([]Entry, int64, error) {
	if comp == nil {
		return nil, 0, ErrNilCompilation
	}

	include, err := compileGlobs(cfg.Include, ErrBadIncludePattern)
	if err != nil {
		return nil, 0, err
	}
	exclude, err := compileGlobs(cfg.Exclude, ErrBadExcludePattern)
	if err != nil {
		return nil, 0, err
	}

	var entries []Entry
	var total int64

	for _, asset := range comp.Assets() {
		if !s.selected(asset.Name, include, exclude, cfg.ExcludeFuncs) {
			continue
		}
		size := int64(len(asset.Source))
		if cfg.MaxFileSize > 0 && size > cfg.MaxFileSize {
			comp.AddWarning(fmt.Errorf("asset %s is %d bytes, over the %d byte precache limit; skipping", asset.Name, size, cfg.MaxFileSize))
			continue
		}
		entries = append(entries, Revisioned(asset.Name, s.revisionFor(asset)))
		entries[len(entries)-1].Size = size
		total += size
	}

	entries, err = ApplyTransforms(entries, cfg.Transforms)
	if err != nil {
		return nil, 0, err
	}

	// Deterministic order regardless of asset store iteration or transforms.
	sort.Slice(entries, func(i, j int) bool { return entries[i].URL < entries[j].URL })

	s.logger.Debug().Int("entries", len(entries)).Int64("bytes", total).Msg("manifest entries computed")
	return entries, total, nil
}

// selected applies include globs, exclude globs, and exclusion predicates.
func (s *AssetSource) selected(name string, include, exclude []glob.Glob, excludeFuncs []func(string) bool) bool {
	if len(include) > 0 {
		matched := false
		for _, g := range include {
			if g.Match(name) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, g := range exclude {
		if g.Match(name) {
			return false
		}
	}
	for _, fn := range excludeFuncs {
		if fn(name) {
			return false
		}
	}
	return true
}

// revisionFor returns the content revision for an asset, consulting the
// cache when the asset has a usable modification time.
func (s *AssetSource) revisionFor(asset *compilation.Asset) string {
	size := int64(len(asset.Source))
	cacheable := s.revisions != nil && !asset.ModTime.IsZero()

	if cacheable {
		if rev, ok := s.revisions.Revision(asset.Name, size, asset.ModTime); ok {
			return rev
		}
	}
	rev := fmt.Sprintf("%016x", xxhash.Sum64(asset.Source))
	if cacheable {
		if err := s.revisions.Store(asset.Name, size, asset.ModTime, rev); err != nil {
			s.logger.Debug().Err(err).Str("asset", asset.Name).Msg("revision cache store failed")
		}
	}
	return rev
}

// compileGlobs compiles patterns with '/' as the separator, so "*" does not
// cross directory boundaries but "**" does.
func compileGlobs(patterns []string, sentinel error) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", sentinel, p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
