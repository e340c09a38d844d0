package manifest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ModifyURLPrefix returns a transform that rewrites leading URL prefixes
// according to the given old→new mapping. Prefixes are tried in sorted order
// and at most one rewrite applies per entry, so output is deterministic for
// equal mappings.
func ModifyURLPrefix(prefixes map[string]string) Transform {
	keys := make([]string, 0, len(prefixes))
	for k := range prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return func(entries []Entry) ([]Entry, error) {
		out := make([]Entry, len(entries))
		for i, e := range entries {
			for _, old := range keys {
				if strings.HasPrefix(e.URL, old) {
					e.URL = prefixes[old] + strings.TrimPrefix(e.URL, old)
					break
				}
			}
			out[i] = e
		}
		return out, nil
	}
}

// DontCacheBustURLsMatching returns a transform that clears the revision of
// every entry whose URL matches re, marking it self-versioned. Use this for
// assets whose filenames already carry a content hash.
func DontCacheBustURLsMatching(re *regexp.Regexp) Transform {
	return func(entries []Entry) ([]Entry, error) {
		out := make([]Entry, len(entries))
		for i, e := range entries {
			if re.MatchString(e.URL) {
				e.Revision = nil
			}
			out[i] = e
		}
		return out, nil
	}
}

// ApplyTransforms runs the transform pipeline in order.
func ApplyTransforms(entries []Entry, transforms []Transform) ([]Entry, error) {
	var err error
	for i, t := range transforms {
		entries, err = t(entries)
		if err != nil {
			return nil, fmt.Errorf("%w: transform %d: %v", ErrTransformFailed, i, err)
		}
	}
	return entries, nil
}
