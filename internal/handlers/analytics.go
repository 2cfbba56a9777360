package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantmetric/plantmetric-backend/internal/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (ah *AnalyticsHandler) Metrics(c *gin.Context) {
	q, err := metricsQueryFromRequest(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	rows, err := ah.analyticsService.ComputeMetrics(c.Request.Context(), q)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"metrics": rows})
}

func (ah *AnalyticsHandler) AggregatesByLine(c *gin.Context) {
	q, err := metricsQueryFromRequest(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	groups, err := ah.analyticsService.AggregateByLine(c.Request.Context(), q)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"groups": groups})
}

func (ah *AnalyticsHandler) AggregatesByDate(c *gin.Context) {
	q, err := metricsQueryFromRequest(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	groups, err := ah.analyticsService.AggregateByDate(c.Request.Context(), q)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"groups": groups})
}

func (ah *AnalyticsHandler) Summary(c *gin.Context) {
	q, err := metricsQueryFromRequest(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	summary, err := ah.analyticsService.Summary(c.Request.Context(), q)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"summary": summary})
}

func (ah *AnalyticsHandler) Trends(c *gin.Context) {
	q, err := metricsQueryFromRequest(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	trends, err := ah.analyticsService.Trends(c.Request.Context(), q)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"trends": trends})
}

func (ah *AnalyticsHandler) QualityYield(c *gin.Context) {
	q, err := metricsQueryFromRequest(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	yields, err := ah.analyticsService.QualityYieldByCategory(c.Request.Context(), q)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"yields": yields})
}
