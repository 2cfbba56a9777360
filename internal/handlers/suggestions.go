package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/plantmetric/plantmetric-backend/internal/services"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

type SuggestionHandler struct {
	suggestionService services.SuggestionService
}

func NewSuggestionHandler(suggestionService services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

func (sh *SuggestionHandler) Create(c *gin.Context) {
	var suggestion types.OptimizationSuggestion
	if err := c.ShouldBindJSON(&suggestion); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	created, err := sh.suggestionService.Submit(c.Request.Context(), &suggestion)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_suggestion", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (sh *SuggestionHandler) List(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	suggestions, err := sh.suggestionService.List(c.Request.Context(), splitCSV(c.Query("statuses")), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"suggestions": suggestions})
}

func (sh *SuggestionHandler) Generate(c *gin.Context) {
	query, err := metricsQueryFromRequest(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	created, err := sh.suggestionService.Generate(c.Request.Context(), query)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"suggestions": created})
}

func (sh *SuggestionHandler) UpdateStatus(c *gin.Context) {
	suggestionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := sh.suggestionService.UpdateStatus(c.Request.Context(), suggestionID, req.Status); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_status", err)
		return
	}
	RespondOK(c, gin.H{"id": suggestionID, "status": req.Status})
}
