package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/utils"
	"gorm.io/gorm"
)

// SummaryResponse mirrors the board header widgets. The hyphenated keys are
// part of the public API.
type SummaryResponse struct {
	Todo                int64   `json:"to-do"`
	InProgress          int64   `json:"in-progress"`
	AwaitFeedback       int64   `json:"await-feedback"`
	Done                int64   `json:"done"`
	TotalTasks          int64   `json:"total-tasks"`
	Urgent              int64   `json:"urgent"`
	CompletedPercentage float64 `json:"completed-percentage"`
	UpcomingDeadline    *string `json:"upcoming-deadline"`
}

func GetSummary(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var counts []struct {
		Status string
		Total  int64
	}

	if err := db.DB.Model(&models.Task{}).
		Select("status, COUNT(*) AS total").
		Where("owner_id = ?", userID).
		Group("status").
		Scan(&counts).Error; err != nil {
		log.Printf("Failed to count tasks for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}

	var summary SummaryResponse

	for _, row := range counts {
		switch row.Status {
		case models.StatusTodo:
			summary.Todo = row.Total
		case models.StatusInProgress:
			summary.InProgress = row.Total
		case models.StatusAwaitFeedback:
			summary.AwaitFeedback = row.Total
		case models.StatusDone:
			summary.Done = row.Total
		}

		summary.TotalTasks += row.Total
	}

	if err := db.DB.Model(&models.Task{}).
		Where("owner_id = ? AND priority = ?", userID, models.PriorityUrgent).
		Count(&summary.Urgent).Error; err != nil {
		log.Printf("Failed to count urgent tasks for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}

	if summary.TotalTasks > 0 {
		percentage := float64(summary.Done) / float64(summary.TotalTasks) * 100
		summary.CompletedPercentage = math.Round(percentage*100) / 100
	}

	summary.UpcomingDeadline = nearestDeadline(userID)

	ctx.JSON(http.StatusOK, summary)
}

// nearestDeadline returns the closest due date that is today or later among
// tasks that are not done, or nil when there is none.
func nearestDeadline(userID uint) *string {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var task models.Task

	err := db.DB.Where("owner_id = ? AND status != ? AND due_date >= ?", userID, models.StatusDone, today).
		Order("due_date ASC").
		First(&task).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Failed to find nearest deadline for user %d: %v", userID, err)
		}
		return nil
	}

	deadline := task.DueDate.Format(dueDateLayout)

	return &deadline
}
