package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sheetbridge/busybusy-export/internal/logger"
	"github.com/sheetbridge/busybusy-export/internal/requestdata"
	"github.com/sheetbridge/busybusy-export/internal/services"
)

type CostCodeHandler struct {
	log             *logger.Logger
	costCodeService services.CostCodeService
}

func NewCostCodeHandler(log *logger.Logger, costCodeService services.CostCodeService) *CostCodeHandler {
	return &CostCodeHandler{
		log:             log.With("handler", "CostCodeHandler"),
		costCodeService: costCodeService,
	}
}

func (h *CostCodeHandler) Export(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.APIKey == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	params, err := parseExportParams(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_params", err)
		return
	}
	rows, err := h.costCodeService.Export(c.Request.Context(), rd.APIKey, params.IsArchived, params.Timezone)
	if err != nil {
		h.log.Error("cost code export failed", "error", err, "is_archived", params.IsArchived)
		respondExportError(c, err)
		return
	}
	RespondOK(c, gin.H{"cost_codes": rows})
}
