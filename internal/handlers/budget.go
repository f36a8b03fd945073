package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sheetbridge/busybusy-export/internal/logger"
	"github.com/sheetbridge/busybusy-export/internal/requestdata"
	"github.com/sheetbridge/busybusy-export/internal/services"
)

type BudgetHandler struct {
	log           *logger.Logger
	budgetService services.BudgetService
}

func NewBudgetHandler(log *logger.Logger, budgetService services.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		log:           log.With("handler", "BudgetHandler"),
		budgetService: budgetService,
	}
}

func (h *BudgetHandler) Export(c *gin.Context) {
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
	export, err := h.budgetService.Export(c.Request.Context(), rd.APIKey, params.IsArchived)
	if err != nil {
		h.log.Error("budget export failed", "error", err, "is_archived", params.IsArchived)
		respondExportError(c, err)
		return
	}
	RespondOK(c, gin.H{"budgets": export.Rows, "skipped": export.Skipped})
}
