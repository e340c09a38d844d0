package manifest

import "fmt"

// Entry is one precache record: a URL and the revision token used for cache
// busting. Revision is nil when the URL is treated as self-versioned (it
// already embeds a content hash, so re-downloading on revision change is
// unnecessary). Size carries the asset's byte size for reporting; it is never
// serialized.
type Entry struct {
	URL      string
	Revision *string
	Size     int64
}

// String renders the entry for logs and error messages.
func (e Entry) String() string {
	if e.Revision == nil {
		return fmt.Sprintf("%s (self-versioned)", e.URL)
	}
	return fmt.Sprintf("%s@%s", e.URL, *e.Revision)
}

// Revisioned builds an entry with a revision token.
func Revisioned(url, revision string) Entry {
	return Entry{URL: url, Revision: &revision}
}

// SelfVersioned builds an entry whose URL is its own version.
func SelfVersioned(url string) Entry {
	return Entry{URL: url}
}

// Transform rewrites a manifest entry list. Transforms run in order; each
// receives the previous transform's output. Returning an error aborts entry
// computation.
type Transform func(entries []Entry) ([]Entry, error)
