package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sheetbridge/busybusy-export/internal/clients/busybusy"
)

// exportParams are the query parameters every export endpoint shares.
type exportParams struct {
	IsArchived bool
	Timezone   string
}

var errBadTimezone = errors.New("timezone must be of the form GMT+HH:MM or GMT-HH:MM")

// parseExportParams validates is_archived and timezone. The full zone syntax
// is checked downstream; rejecting non-GMT strings here keeps obviously bad
// requests from consuming an upstream fetch.
func parseExportParams(c *gin.Context) (exportParams, error) {
	params := exportParams{
		IsArchived: strings.EqualFold(c.Query("is_archived"), "true"),
		Timezone:   strings.TrimSpace(c.DefaultQuery("timezone", "GMT+00:00")),
	}
	if !strings.HasPrefix(params.Timezone, "GMT") {
		return exportParams{}, errBadTimezone
	}
	return params, nil
}

// respondExportError maps upstream failures to 502 and everything else
// to 500.
func respondExportError(c *gin.Context, err error) {
	var transportErr *busybusy.TransportError
	var remoteErr *busybusy.RemoteDataError
	if errors.As(err, &transportErr) || errors.As(err, &remoteErr) {
		RespondError(c, http.StatusBadGateway, "upstream_error", err)
		return
	}
	RespondError(c, http.StatusInternalServerError, "export_failed", err)
}
