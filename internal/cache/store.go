// Package cache is the read-through cache in front of the upstream fetches.
// Values are opaque serialized row lists keyed by dataset and view; the only
// persisted state the service owns lives here.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Store is the external key/value cache. Implementations must treat Get
// misses and backend failures alike: a miss, never an error surfaced to the
// caller's request.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
	// ClearPrefix drops every key beginning with prefix and reports how many
	// were removed.
	ClearPrefix(ctx context.Context, prefix string) (int, error)
}

// Key derives the cache key for one dataset and view, e.g.
// "project_active_data". Archived and active views cache separately because
// archived data changes far less often and carries a much longer TTL.
func Key(dataset string, archived bool) string {
	view := "active"
	if archived {
		view = "archived"
	}
	return fmt.Sprintf("%s_%s_data", dataset, view)
}
