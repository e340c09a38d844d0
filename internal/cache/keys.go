package cache

import (
	"fmt"
	"time"
)

// PrefixRevision is the key prefix for revision entries, leaving room for
// other record kinds
const PrefixRevision = "rev"

// revisionKey builds the cache key for one asset state. Name, size, and
// modification time together identify a content state: any change produces a
// fresh key, so stale revisions are never returned, only orphaned.
func revisionKey(name string, size int64, modTime time.Time) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d:%d", PrefixRevision, name, size, modTime.UnixNano()))
}
