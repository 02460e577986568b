package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kindledapp/kindled-engine/internal/adapters/handler/http/middleware"
	"github.com/kindledapp/kindled-engine/internal/core/domain"
	"github.com/kindledapp/kindled-engine/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type habitRequest struct {
	Title        string `json:"title" binding:"required"`
	Category     string `json:"category" binding:"required"`
	TrackingMode string `json:"tracking_mode" binding:"required"`
	TargetValue  int    `json:"target_value"`
	Recurrence   struct {
		Kind         string `json:"kind" binding:"required"`
		Weekdays     []int  `json:"weekdays"`
		TimesPerWeek int    `json:"times_per_week"`
	} `json:"recurrence" binding:"required"`
}

func (r habitRequest) recurrence() domain.Recurrence {
	return domain.Recurrence{
		Kind:         r.Recurrence.Kind,
		Weekdays:     r.Recurrence.Weekdays,
		TimesPerWeek: r.Recurrence.TimesPerWeek,
	}
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.Update)
		habits.POST("/:id/archive", h.Archive)
		habits.POST("/:id/restore", h.Restore)
		habits.DELETE("/:id", h.Delete)
	}
}

func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req habitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	input := services.CreateHabitInput{
		UserID:       userID,
		Title:        req.Title,
		Category:     req.Category,
		TrackingMode: req.TrackingMode,
		TargetValue:  req.TargetValue,
		Recurrence:   req.recurrence(),
	}

	habit, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	habits, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habits)
}

func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	habit, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req habitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	input := services.UpdateHabitInput{
		ID:           c.Param("id"),
		UserID:       userID,
		Title:        req.Title,
		Category:     req.Category,
		TrackingMode: req.TrackingMode,
		TargetValue:  req.TargetValue,
		Recurrence:   req.recurrence(),
	}

	habit, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Archive(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	habit, err := h.svc.Archive(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Restore(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	habit, err := h.svc.Restore(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func handleHabitError(c *gin.Context, err error) {
	switch err {
	case domain.ErrHabitTitleEmpty, domain.ErrHabitTitleTooLong, domain.ErrInvalidCategory,
		domain.ErrInvalidTrackingMode, domain.ErrInvalidTarget, domain.ErrHabitArchived,
		domain.ErrInvalidRecurrenceKind, domain.ErrInvalidWeekdays, domain.ErrInvalidTimesPerWeek:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		handleError(c, err)
	}
}
