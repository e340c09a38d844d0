package injector

import "strings"

// validateInjectionPoint counts literal occurrences of marker in text and
// returns the offset of the single occurrence. The marker is plain text, not
// a pattern: characters that would carry meaning in a pattern language match
// themselves. Zero or multiple occurrences are unrecoverable configuration
// errors.
func validateInjectionPoint(text, marker string) (int, error) {
	switch n := strings.Count(text, marker); n {
	case 1:
		return strings.Index(text, marker), nil
	default:
		return 0, &InjectionPointError{Marker: marker, Occurrences: n}
	}
}
