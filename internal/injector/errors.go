package injector

import (
	"errors"
	"fmt"
)

// Sentinel errors for the injector package
var (
	// ErrInjectionPointNotFound indicates the marker does not occur in the
	// built service worker text
	ErrInjectionPointNotFound = errors.New("injection point not found")

	// ErrAmbiguousInjectionPoint indicates the marker occurs more than once
	ErrAmbiguousInjectionPoint = errors.New("ambiguous injection point")

	// ErrMissingAsset indicates the destination asset is absent from the
	// compilation after materialization
	ErrMissingAsset = errors.New("destination asset missing from compilation")

	// ErrUnsupportedHost indicates a host that exposes no known hook API
	ErrUnsupportedHost = errors.New("host exposes neither staged nor legacy hook API")
)

// InjectionPointError is the fatal locator failure, carrying the configured
// marker and the number of occurrences actually found.
type InjectionPointError struct {
	Marker      string
	Occurrences int
}

func (e *InjectionPointError) Error() string {
	if e.Occurrences == 0 {
		return fmt.Sprintf("unable to find a place to inject the manifest: %q does not appear in the service worker; ensure the source file references it exactly once", e.Marker)
	}
	return fmt.Sprintf("%q appears %d times in the service worker; ensure it appears exactly once", e.Marker, e.Occurrences)
}

func (e *InjectionPointError) Unwrap() error {
	if e.Occurrences == 0 {
		return ErrInjectionPointNotFound
	}
	return ErrAmbiguousInjectionPoint
}

// ConfigError wraps a configuration validation failure, surfaced before any
// build work occurs.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid injection configuration: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
