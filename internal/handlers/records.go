package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantmetric/plantmetric-backend/internal/services"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

type RecordHandler struct {
	recordService services.RecordService
}

func NewRecordHandler(recordService services.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

func (rh *RecordHandler) SubmitPerformance(c *gin.Context) {
	var records []*types.PerformanceRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	created, err := rh.recordService.SubmitPerformance(c.Request.Context(), records)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"records": created})
}

func (rh *RecordHandler) SubmitQuality(c *gin.Context) {
	var measurements []*types.QualityMeasurement
	if err := c.ShouldBindJSON(&measurements); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	created, err := rh.recordService.SubmitQuality(c.Request.Context(), measurements)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"measurements": created})
}
