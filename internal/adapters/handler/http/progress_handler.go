package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kindledapp/kindled-engine/internal/adapters/handler/http/middleware"
	"github.com/kindledapp/kindled-engine/internal/core/domain"
	"github.com/kindledapp/kindled-engine/internal/core/services"
)

type ProgressHandler struct {
	svc *services.ProgressService
}

func NewProgressHandler(svc *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		svc: svc,
	}
}

type logProgressRequest struct {
	HabitID string `json:"habit_id" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Value   int    `json:"value"`
}

type todayLogResponse struct {
	HabitID      string `json:"habit_id"`
	Date         string `json:"date"`
	CurrentValue int    `json:"current_value"`
	IsCompleted  bool   `json:"is_completed"`
}

func (h *ProgressHandler) RegisterRoutes(router *gin.RouterGroup) {
	progress := router.Group("/progress")
	{
		progress.POST("", h.LogProgress)
		progress.GET("/today", h.TodayLogs)
	}
	router.GET("/me/streak", h.CurrentStreak)
}

func (h *ProgressHandler) LogProgress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req logProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	input := services.LogProgressInput{
		UserID:  userID,
		HabitID: req.HabitID,
		Date:    req.Date,
		Value:   req.Value,
	}

	result, err := h.svc.LogProgress(c.Request.Context(), input)
	if err != nil {
		middleware.CheckinsTotal.WithLabelValues("error").Inc()
		handleError(c, err)
		return
	}

	middleware.CheckinsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, result)
}

func (h *ProgressHandler) TodayLogs(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date := c.Query("date")
	if date == "" {
		date = domain.FormatDate(time.Now())
	}

	logs, err := h.svc.TodayLogs(c.Request.Context(), userID, date)
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]todayLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, todayLogResponse{
			HabitID:      l.HabitID,
			Date:         l.LogDate,
			CurrentValue: l.RawValue,
			IsCompleted:  l.Completed,
		})
	}

	c.JSON(http.StatusOK, out)
}

func (h *ProgressHandler) CurrentStreak(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date := c.Query("date")
	if date == "" {
		date = domain.FormatDate(time.Now())
	}

	streak, err := h.svc.CurrentStreak(c.Request.Context(), userID, date)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"current_streak": streak})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrHabitNotFound) || errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrLogNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrInvalidDate) || errors.Is(err, domain.ErrInvalidLog) || errors.Is(err, domain.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
