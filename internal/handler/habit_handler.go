package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"habitly/internal/model"
	"habitly/internal/service"
)

// HabitLister and CompletionReader are the service surfaces the transport
// needs; tests substitute fakes.
type HabitLister interface {
	ListTodayHabits(ctx context.Context) ([]model.Habit, error)
	SetStatus(ctx context.Context, id string, status bool) (*model.Habit, error)
}

type CompletionReader interface {
	GetCompletionSeries(ctx context.Context) ([]model.CompletionEntry, error)
}

type HabitHandler struct {
	habits     HabitLister
	aggregator CompletionReader
}

func NewHabitHandler(habits HabitLister, aggregator CompletionReader) *HabitHandler {
	return &HabitHandler{
		habits:     habits,
		aggregator: aggregator,
	}
}

// ListToday handles GET /habits
func (h *HabitHandler) ListToday(c *gin.Context) {
	habits, err := h.habits.ListTodayHabits(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch habits"})
		return
	}
	if habits == nil {
		habits = []model.Habit{}
	}

	c.JSON(http.StatusOK, habits)
}

// UpdateStatus handles POST /habits/:id
func (h *HabitHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status *bool `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	habit, err := h.habits.SetStatus(c.Request.Context(), c.Param("id"), *req.Status)
	if err != nil {
		if errors.Is(err, service.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update habit"})
		return
	}

	c.JSON(http.StatusOK, habit)
}

// CompletionSeries handles GET /habits/completion-percentage
func (h *HabitHandler) CompletionSeries(c *gin.Context) {
	series, err := h.aggregator.GetCompletionSeries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute completion percentage"})
		return
	}
	if series == nil {
		series = []model.CompletionEntry{}
	}

	c.JSON(http.StatusOK, series)
}
