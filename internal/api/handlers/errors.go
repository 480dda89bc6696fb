package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/leasemeter/internal/repository"
	"github.com/langchou/leasemeter/internal/service"
)

// respondError 把服务层错误映射为 HTTP 状态码
func (h *Handler) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store not configured"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrNoPrice):
		c.JSON(http.StatusNotFound, gin.H{"error": "No fuel price available"})
	default:
		h.logger.Error("Failed to "+action, zap.Error(err), zap.String("request_id", c.GetString(requestIDKey)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// parseID 解析路径中的数字 ID
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}
