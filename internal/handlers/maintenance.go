package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/plantmetric/plantmetric-backend/internal/services"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

type MaintenanceHandler struct {
	maintenanceService services.MaintenanceService
}

func NewMaintenanceHandler(maintenanceService services.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

func (mh *MaintenanceHandler) Create(c *gin.Context) {
	var schedule types.MaintenanceSchedule
	if err := c.ShouldBindJSON(&schedule); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	schedule.CreatedBy = "manual"
	created, err := mh.maintenanceService.Schedule(c.Request.Context(), &schedule)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_schedule", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (mh *MaintenanceHandler) List(c *gin.Context) {
	schedules, err := mh.maintenanceService.List(c.Request.Context(), c.Query("line"), splitCSV(c.Query("statuses")))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"schedules": schedules})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (mh *MaintenanceHandler) UpdateStatus(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := mh.maintenanceService.UpdateStatus(c.Request.Context(), scheduleID, req.Status); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_status", err)
		return
	}
	RespondOK(c, gin.H{"id": scheduleID, "status": req.Status})
}
