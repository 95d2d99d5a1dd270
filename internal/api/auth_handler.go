package api

import (
	"net/http"

	"LunchVoter/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler 注册、登录、注销、注销账号
type AuthHandler struct {
	auth   *service.AuthService
	logger *logrus.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Register POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "register failed")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "login failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, h.logger, err, "logout failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteAccount DELETE /api/v1/auth/account
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := h.auth.DeleteAccount(c.Request.Context(), claims); err != nil {
		respondError(c, h.logger, err, "delete account failed")
		return
	}
	c.Status(http.StatusNoContent)
}
