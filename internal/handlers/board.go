package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/utils"
)

// GetBoard returns every task of the user with contacts and subtasks
// preloaded, the single fetch the kanban view renders from. An optional
// board_category query narrows it to one column.
func GetBoard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := db.DB.Where("owner_id = ?", userID).Preload("Contacts").Preload("Subtasks")

	if category := ctx.Query("board_category"); category != "" {
		query = query.Where("board_category = ?", category)
	}

	var tasks []models.Task

	if err := query.Find(&tasks).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}

	board := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		board = append(board, buildTaskResponse(task))
	}

	ctx.JSON(http.StatusOK, gin.H{"board": board})
}
