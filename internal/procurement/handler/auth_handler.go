package handler

import (
	"errors"
	"net/http"

	"github.com/exenity/portal/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login checks the shared admin password.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	token, err := h.svc.Login(req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "Invalid password"})
			return
		}
		c.Error(err)
		InternalError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "Login successful", Token: token})
}
