package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sheetbridge/busybusy-export/internal/logger"
	"github.com/sheetbridge/busybusy-export/internal/requestdata"
	"github.com/sheetbridge/busybusy-export/internal/services"
)

type EmployeeHandler struct {
	log             *logger.Logger
	employeeService services.EmployeeService
}

func NewEmployeeHandler(log *logger.Logger, employeeService services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		log:             log.With("handler", "EmployeeHandler"),
		employeeService: employeeService,
	}
}

func (h *EmployeeHandler) Export(c *gin.Context) {
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
	rows, err := h.employeeService.Export(c.Request.Context(), rd.APIKey, params.IsArchived, params.Timezone)
	if err != nil {
		h.log.Error("employee export failed", "error", err, "is_archived", params.IsArchived)
		respondExportError(c, err)
		return
	}
	RespondOK(c, gin.H{"employees": rows})
}
