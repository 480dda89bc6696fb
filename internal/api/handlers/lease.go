package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/langchou/leasemeter/internal/service"
)

// GetDashboard 获取仪表盘
// GET /api/vehicles/:vehicle/dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	d := h.lease.Dashboard(c.Request.Context(), service.Session{VehicleID: c.Param("vehicle")})
	c.JSON(http.StatusOK, gin.H{"data": d})
}

// ListReadings 获取读数
func (h *Handler) ListReadings(c *gin.Context) {
	readings, err := h.lease.ListReadings(c.Request.Context(), c.Param("vehicle"))
	if err != nil {
		h.respondError(c, err, "list readings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": readings})
}

// CreateReading 新增读数
func (h *Handler) CreateReading(c *gin.Context) {
	var in service.ReadingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: miles must be a number"})
		return
	}

	reading, err := h.lease.AddReading(c.Request.Context(), c.Param("vehicle"), in)
	if err != nil {
		h.respondError(c, err, "create reading")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": reading})
}

// DeleteReading 删除读数
func (h *Handler) DeleteReading(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.lease.DeleteReading(c.Request.Context(), c.Param("vehicle"), id); err != nil {
		h.respondError(c, err, "delete reading")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTrips 获取出行
func (h *Handler) ListTrips(c *gin.Context) {
	trips, err := h.lease.ListTrips(c.Request.Context(), c.Param("vehicle"))
	if err != nil {
		h.respondError(c, err, "list trips")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trips})
}

// CreateTrip 新增出行
func (h *Handler) CreateTrip(c *gin.Context) {
	var in service.TripInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	trip, err := h.lease.AddTrip(c.Request.Context(), c.Param("vehicle"), in)
	if err != nil {
		h.respondError(c, err, "create trip")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": trip})
}

// DeleteTrip 删除出行
func (h *Handler) DeleteTrip(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.lease.DeleteTrip(c.Request.Context(), c.Param("vehicle"), id); err != nil {
		h.respondError(c, err, "delete trip")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSettings 获取车辆配置
func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.lease.Settings(c.Request.Context(), c.Param("vehicle"))})
}

// SaveSettings 保存车辆配置
func (h *Handler) SaveSettings(c *gin.Context) {
	var in service.SettingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	cfg, err := h.lease.SaveSettings(c.Request.Context(), c.Param("vehicle"), in)
	if err != nil {
		h.respondError(c, err, "save settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cfg})
}

// GetStationPrice 获取加油站当天油价
// GET /api/stations/:station/price
func (h *Handler) GetStationPrice(c *gin.Context) {
	price, err := h.fuel.CurrentPrice(c.Request.Context(), c.Param("station"), time.Now())
	if err != nil {
		h.respondError(c, err, "get fuel price")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": price})
}
