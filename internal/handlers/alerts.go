package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/plantmetric/plantmetric-backend/internal/services"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

type AlertHandler struct {
	alertService services.AlertService
}

func NewAlertHandler(alertService services.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

func (ah *AlertHandler) Create(c *gin.Context) {
	var alert types.Alert
	if err := c.ShouldBindJSON(&alert); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	created, err := ah.alertService.Raise(c.Request.Context(), &alert)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_alert", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (ah *AlertHandler) List(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	unackedOnly := c.Query("unacknowledged") == "true"
	alerts, err := ah.alertService.List(c.Request.Context(), limit, unackedOnly)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"alerts": alerts})
}

func (ah *AlertHandler) Acknowledge(c *gin.Context) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := ah.alertService.Acknowledge(c.Request.Context(), alertID); err != nil {
		RespondError(c, http.StatusNotFound, "alert_not_found", err)
		return
	}
	RespondOK(c, gin.H{"id": alertID, "acknowledged": true})
}
