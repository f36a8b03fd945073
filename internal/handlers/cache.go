package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sheetbridge/busybusy-export/internal/cache"
	"github.com/sheetbridge/busybusy-export/internal/logger"
)

// cacheDatasets are the dataset names accepted by the invalidation endpoint,
// matching the key prefixes the export services write.
var cacheDatasets = map[string]bool{
	"project":   true,
	"budget":    true,
	"employee":  true,
	"cost_code": true,
	"equipment": true,
}

type CacheHandler struct {
	log   *logger.Logger
	store cache.Store
}

func NewCacheHandler(log *logger.Logger, store cache.Store) *CacheHandler {
	return &CacheHandler{
		log:   log.With("handler", "CacheHandler"),
		store: store,
	}
}

// Invalidate drops cached export data. A dataset alone clears both views;
// dataset plus is_archived clears just that view's entry.
func (h *CacheHandler) Invalidate(c *gin.Context) {
	dataset := strings.TrimSpace(c.Query("dataset"))
	if !cacheDatasets[dataset] {
		RespondError(c, http.StatusBadRequest, "invalid_params",
			errors.New("dataset must be one of project, budget, employee, cost_code, equipment"))
		return
	}

	if view, ok := c.GetQuery("is_archived"); ok {
		key := cache.Key(dataset, strings.EqualFold(view, "true"))
		if err := h.store.Invalidate(c.Request.Context(), key); err != nil {
			h.log.Error("cache invalidation failed", "key", key, "error", err)
			RespondError(c, http.StatusInternalServerError, "cache_invalidation_failed", err)
			return
		}
		RespondOK(c, gin.H{"invalidated": []string{key}})
		return
	}

	removed, err := h.store.ClearPrefix(c.Request.Context(), dataset+"_")
	if err != nil {
		h.log.Error("cache invalidation failed", "dataset", dataset, "error", err)
		RespondError(c, http.StatusInternalServerError, "cache_invalidation_failed", err)
		return
	}
	RespondOK(c, gin.H{"dataset": dataset, "removed": removed})
}
