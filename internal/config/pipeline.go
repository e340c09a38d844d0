package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Pipeline is a multi-target injection file: several service workers built
// and injected against the same compilation, with shared options.
//
//	targets:
//	  - sw_src: src/sw.js
//	    sw_dest: sw.js
//	  - sw_src: src/push-worker.js
//	    compile_src: false
//	options:
//	  dist: build
type Pipeline struct {
	Targets []Config        `yaml:"targets" json:"targets"`
	Options PipelineOptions `yaml:"options" json:"options"`
}

// PipelineOptions are the shared settings of a pipeline file.
type PipelineOptions struct {
	Dist     string `yaml:"dist,omitempty" json:"dist,omitempty"`
	Mode     string `yaml:"mode,omitempty" json:"mode,omitempty"`
	CacheDir string `yaml:"cache_dir,omitempty" json:"cache_dir,omitempty"`
}

// Validate validates the pipeline and every target in it.
func (p *Pipeline) Validate() error {
	if len(p.Targets) == 0 {
		return ErrNoTargets
	}
	for i := range p.Targets {
		if p.Targets[i].Mode == "" {
			p.Targets[i].Mode = p.Options.Mode
		}
		if err := p.Targets[i].Validate(); err != nil {
			return fmt.Errorf("target %d: %w", i, err)
		}
	}
	return nil
}

// Loader loads and validates pipeline files
type Loader struct {
	fs afero.Fs
}

// NewLoader creates a pipeline loader reading from the given filesystem.
func NewLoader(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Loader{fs: fs}
}

// Load reads and parses a pipeline file from the given path
func (l *Loader) Load(path string) (*Pipeline, error) {
	ok, err := afero.Exists(l.fs, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline file: %w", err)
	}
	return l.LoadFromBytes(data, filepath.Ext(path))
}

// LoadFromBytes parses a pipeline from raw bytes
func (l *Loader) LoadFromBytes(data []byte, ext string) (*Pipeline, error) {
	ext = strings.ToLower(ext)

	var p Pipeline
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExt, ext)
	}

	if p.Options.Dist == "" {
		p.Options.Dist = DefaultDistDir
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
