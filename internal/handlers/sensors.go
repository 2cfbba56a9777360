package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plantmetric/plantmetric-backend/internal/services"
)

type SensorHandler struct {
	sensorService services.SensorService
}

func NewSensorHandler(sensorService services.SensorService) *SensorHandler {
	return &SensorHandler{sensorService: sensorService}
}

func (sh *SensorHandler) Latest(c *gin.Context) {
	reading, err := sh.sensorService.Latest(c.Request.Context(), c.Query("line"), c.Query("type"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	if reading == nil {
		RespondError(c, http.StatusNotFound, "no_readings", nil)
		return
	}
	RespondOK(c, reading)
}

func (sh *SensorHandler) Average(c *gin.Context) {
	window := time.Duration(intQuery(c, "minutes", 60)) * time.Minute
	avg, err := sh.sensorService.Average(c.Request.Context(), c.Query("line"), c.Query("type"), window)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	RespondOK(c, gin.H{"line_shift": c.Query("line"), "sensor_type": c.Query("type"), "average": avg})
}
