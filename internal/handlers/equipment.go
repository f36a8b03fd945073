package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sheetbridge/busybusy-export/internal/logger"
	"github.com/sheetbridge/busybusy-export/internal/requestdata"
	"github.com/sheetbridge/busybusy-export/internal/services"
)

type EquipmentHandler struct {
	log              *logger.Logger
	equipmentService services.EquipmentService
}

func NewEquipmentHandler(log *logger.Logger, equipmentService services.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{
		log:              log.With("handler", "EquipmentHandler"),
		equipmentService: equipmentService,
	}
}

func (h *EquipmentHandler) Export(c *gin.Context) {
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
	rows, err := h.equipmentService.Export(c.Request.Context(), rd.APIKey, params.IsArchived, params.Timezone)
	if err != nil {
		h.log.Error("equipment export failed", "error", err, "is_archived", params.IsArchived)
		respondExportError(c, err)
		return
	}
	RespondOK(c, gin.H{"equipment": rows})
}
