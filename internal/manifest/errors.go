package manifest

import "errors"

// Sentinel errors for the manifest package
var (
	// ErrNilCompilation indicates ComputeEntries was called without a build
	ErrNilCompilation = errors.New("compilation is required")

	// ErrTransformFailed indicates a manifest transform returned an error
	ErrTransformFailed = errors.New("manifest transform failed")

	// ErrBadIncludePattern indicates an include glob that does not compile
	ErrBadIncludePattern = errors.New("invalid include pattern")

	// ErrBadExcludePattern indicates an exclude glob that does not compile
	ErrBadExcludePattern = errors.New("invalid exclude pattern")
)
