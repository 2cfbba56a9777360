package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/plantmetric/plantmetric-backend/internal/services"
	"github.com/plantmetric/plantmetric-backend/internal/types"
)

type WorkflowHandler struct {
	workflowService services.WorkflowService
}

func NewWorkflowHandler(workflowService services.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflowService: workflowService}
}

func (wh *WorkflowHandler) CreateRule(c *gin.Context) {
	var rule types.WorkflowRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	created, err := wh.workflowService.CreateRule(c.Request.Context(), &rule)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_rule", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (wh *WorkflowHandler) ListRules(c *gin.Context) {
	rules, err := wh.workflowService.ListRules(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"rules": rules})
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (wh *WorkflowHandler) SetActive(c *gin.Context) {
	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := wh.workflowService.SetActive(c.Request.Context(), ruleID, req.Active); err != nil {
		RespondError(c, http.StatusNotFound, "rule_not_found", err)
		return
	}
	RespondOK(c, gin.H{"id": ruleID, "active": req.Active})
}

// Run triggers one evaluation cycle immediately instead of waiting for the
// scheduled runner.
func (wh *WorkflowHandler) Run(c *gin.Context) {
	results, err := wh.workflowService.RunDue(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"results": results})
}

func (wh *WorkflowHandler) ExecutionLogs(c *gin.Context) {
	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	limit := intQuery(c, "limit", 50)
	logs, err := wh.workflowService.ExecutionLogs(c.Request.Context(), ruleID, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"logs": logs})
}
