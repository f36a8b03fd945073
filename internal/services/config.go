package services

import (
	"time"

	"github.com/sheetbridge/busybusy-export/internal/logger"
	"github.com/sheetbridge/busybusy-export/internal/timeconv"
	"github.com/sheetbridge/busybusy-export/internal/utils"
)

// Config carries the fetch and cache tuning shared by every export service.
type Config struct {
	// PageSize is the per-page record count requested from the upstream API.
	PageSize int
	// ChunkSize is how many project ids one fan-out sub-query covers.
	ChunkSize int
	// MaxConcurrent bounds simultaneously in-flight chunk fetches. It exists
	// to respect the upstream rate budget; changing it never changes results.
	MaxConcurrent int
	// ActiveTTL and ArchivedTTL are the cache lifetimes per view. Archived
	// data barely changes, so it caches much longer.
	ActiveTTL   time.Duration
	ArchivedTTL time.Duration
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		PageSize:      utils.GetEnvAsInt("EXPORT_PAGE_SIZE", 1000, log),
		ChunkSize:     utils.GetEnvAsInt("EXPORT_CHUNK_SIZE", 50, log),
		MaxConcurrent: utils.GetEnvAsInt("EXPORT_MAX_CONCURRENT", 3, log),
		ActiveTTL:     time.Duration(utils.GetEnvAsInt("CACHE_TTL_ACTIVE_SECONDS", 600, log)) * time.Second,
		ArchivedTTL:   time.Duration(utils.GetEnvAsInt("CACHE_TTL_ARCHIVED_SECONDS", 43200, log)) * time.Second,
	}
}

func (c Config) ttl(isArchived bool) time.Duration {
	if isArchived {
		return c.ArchivedTTL
	}
	return c.ActiveTTL
}

// localize renders a UTC timestamp in the caller's zone, degrading to the
// empty sentinel on format failures instead of dropping the row.
func localize(log *logger.Logger, timestamp, timezone string) string {
	formatted, err := timeconv.ToZone(timestamp, timezone)
	if err != nil {
		log.Warn("timestamp formatting failed", "timestamp", timestamp, "timezone", timezone, "error", err)
		return ""
	}
	return formatted
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
