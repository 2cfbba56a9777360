package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantmetric/plantmetric-backend/internal/requestdata"
	"github.com/plantmetric/plantmetric-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	result, err := ah.authService.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Email == "" || req.Password == "" {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("email and password are required"))
		return
	}
	result, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	tokenString := requestdata.GetRequestData(c.Request.Context()).TokenString
	result, err := ah.authService.Refresh(c.Request.Context(), tokenString)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
