package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kindledapp/kindled-engine/internal/adapters/handler/http/middleware"
	"github.com/kindledapp/kindled-engine/internal/core/domain"
	"github.com/kindledapp/kindled-engine/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/daily", h.GetDailyWindow)
}

func (h *StatsHandler) GetDailyWindow(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}

	endDate := time.Now().UTC()
	if d := c.Query("end_date"); d != "" {
		parsed, err := domain.ParseDate(d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, expected YYYY-MM-DD"})
			return
		}
		endDate = parsed
	}

	days := services.DefaultWindowDays
	if d := c.Query("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	window, err := h.svc.DailyWindow(c.Request.Context(), userID, category, endDate, days)
	if err != nil {
		if errors.Is(err, services.ErrWindowTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window too large, max 90 days"})
			return
		}
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, window)
}
