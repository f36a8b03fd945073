package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sheetbridge/busybusy-export/internal/logger"
	"github.com/sheetbridge/busybusy-export/internal/requestdata"
	"github.com/sheetbridge/busybusy-export/internal/services"
)

type ProjectHandler struct {
	log            *logger.Logger
	projectService services.ProjectService
}

func NewProjectHandler(log *logger.Logger, projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		log:            log.With("handler", "ProjectHandler"),
		projectService: projectService,
	}
}

func (h *ProjectHandler) Export(c *gin.Context) {
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
	rows, skips, err := h.projectService.Export(c.Request.Context(), rd.APIKey, params.IsArchived, params.Timezone)
	if err != nil {
		h.log.Error("project export failed", "error", err, "is_archived", params.IsArchived)
		respondExportError(c, err)
		return
	}
	RespondOK(c, gin.H{"projects": rows, "skipped": skips})
}
