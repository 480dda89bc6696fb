package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/leasemeter/internal/auth"
)

// Login 用共享密码换取令牌
// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, expires, err := h.gate.Login(req.Password)
	if errors.Is(err, auth.ErrInvalidPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	data := gin.H{"auth_required": h.gate.Enabled()}
	if token != "" {
		data["token"] = token
		data["expires_at"] = expires
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// GetSession 客户端启动时需要的会话信息
// GET /api/session
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"default_vehicle_id": h.cfg.DefaultVehicleID,
		"auth_required":      h.gate.Enabled(),
		"store_configured":   h.lease.StoreConfigured(),
	}})
}
