package config

import "errors"

// Sentinel errors for the config package
var (
	// ErrMissingSwSrc indicates no service worker source file was configured
	ErrMissingSwSrc = errors.New("sw_src is required")

	// ErrNoTargets indicates a pipeline file with no injection targets
	ErrNoTargets = errors.New("pipeline must contain at least one target")

	// ErrFileNotFound indicates the pipeline file does not exist
	ErrFileNotFound = errors.New("pipeline file not found")

	// ErrInvalidFormat indicates the pipeline file is not valid YAML or JSON
	ErrInvalidFormat = errors.New("pipeline must be valid YAML or JSON")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .yaml, .yml, or .json)")
)
