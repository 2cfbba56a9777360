package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantmetric/plantmetric-backend/internal/report"
	"github.com/plantmetric/plantmetric-backend/internal/services"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Get returns the assembled report as JSON without an export wrapper.
func (rh *ReportHandler) Get(c *gin.Context) {
	q, err := metricsQueryFromRequest(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	r, err := rh.reportService.Build(c.Request.Context(), c.Query("title"), q)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, r)
}

// Export streams the report in the requested format; ?format= one of
// csv, json, html-excel, html-pdf.
func (rh *ReportHandler) Export(c *gin.Context) {
	q, err := metricsQueryFromRequest(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}

	format := report.Format(c.DefaultQuery("format", string(report.FormatCSV)))
	rendered, err := rh.reportService.Export(c.Request.Context(), c.Query("title"), q, format)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", rendered.ContentDisposition)
	c.Data(http.StatusOK, rendered.ContentType, rendered.Body)
}
