package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/utils"
	"gorm.io/gorm"
)

type CreateSubtaskRequest struct {
	TaskID    uint   `json:"task_id" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Completed bool   `json:"completed"`
}

type UpdateSubtaskRequest struct {
	Title     string `json:"title" binding:"required"`
	Completed *bool  `json:"completed" binding:"required"`
}

type PatchSubtaskRequest struct {
	Title     string `json:"title"`
	Completed *bool  `json:"completed"`
}

type SubtaskResponse struct {
	ID        uint   `json:"id"`
	TaskID    uint   `json:"task_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func buildSubtaskResponse(subtask models.Subtask) SubtaskResponse {
	return SubtaskResponse{
		ID:        subtask.ID,
		TaskID:    subtask.TaskID,
		Title:     subtask.Title,
		Completed: subtask.Completed,
	}
}

// findOwnedSubtask scopes the lookup through the parent task, so users can
// only reach subtasks hanging off their own tasks.
func findOwnedSubtask(userID uint, subtaskID uint64) (models.Subtask, error) {
	var subtask models.Subtask

	err := db.DB.Joins("JOIN tasks ON tasks.id = subtasks.task_id").
		Where("subtasks.id = ? AND tasks.owner_id = ?", subtaskID, userID).
		First(&subtask).Error

	return subtask, err
}

func CreateSubtask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateSubtaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task models.Task

	if err := db.DB.Where("id = ? AND owner_id = ?", req.TaskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	subtask := models.Subtask{
		TaskID:    task.ID,
		Title:     req.Title,
		Completed: req.Completed,
	}

	if err := db.DB.Create(&subtask).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subtask"})
		return
	}

	BroadcastBoardRefresh(userID)

	ctx.JSON(http.StatusCreated, buildSubtaskResponse(subtask))
}

func ListSubtasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := db.DB.Joins("JOIN tasks ON tasks.id = subtasks.task_id").
		Where("tasks.owner_id = ?", userID)

	if taskIDStr := ctx.Query("task_id"); taskIDStr != "" {
		taskID, err := strconv.ParseUint(taskIDStr, 10, 32)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Task ID"})
			return
		}

		query = query.Where("subtasks.task_id = ?", taskID)
	}

	var subtasks []models.Subtask

	if err := query.Find(&subtasks).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subtasks"})
		return
	}

	response := make([]SubtaskResponse, 0, len(subtasks))

	for _, subtask := range subtasks {
		response = append(response, buildSubtaskResponse(subtask))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetSubtask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subtaskID, err := utils.GetSubtaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subtask, err := findOwnedSubtask(userID, subtaskID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Subtask not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subtask"})
		}
		return
	}

	ctx.JSON(http.StatusOK, buildSubtaskResponse(subtask))
}

func UpdateSubtask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subtaskID, err := utils.GetSubtaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateSubtaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subtask, err := findOwnedSubtask(userID, subtaskID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Subtask not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subtask"})
		}
		return
	}

	subtask.Title = req.Title
	subtask.Completed = *req.Completed

	if err := db.DB.Save(&subtask).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subtask"})
		return
	}

	BroadcastBoardRefresh(userID)

	ctx.JSON(http.StatusOK, buildSubtaskResponse(subtask))
}

func PatchSubtask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subtaskID, err := utils.GetSubtaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req PatchSubtaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subtask, err := findOwnedSubtask(userID, subtaskID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Subtask not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subtask"})
		}
		return
	}

	updates := make(map[string]interface{})

	if req.Title != "" {
		updates["title"] = req.Title
	}

	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&subtask).Updates(updates).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subtask"})
		return
	}

	BroadcastBoardRefresh(userID)

	ctx.JSON(http.StatusOK, buildSubtaskResponse(subtask))
}

func DeleteSubtask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subtaskID, err := utils.GetSubtaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subtask, err := findOwnedSubtask(userID, subtaskID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Subtask not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subtask"})
		}
		return
	}

	if err := db.DB.Delete(&subtask).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subtask"})
		return
	}

	BroadcastBoardRefresh(userID)

	ctx.Status(http.StatusNoContent)
}
