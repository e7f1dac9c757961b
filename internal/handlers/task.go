package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/models"
	"github.com/taskboard-dev/taskboard/internal/utils"
	"gorm.io/gorm"
)

const dueDateLayout = "2006-01-02"

// SubtaskItem is the inline subtask payload accepted on task create and
// update. Full subtask resources live under /api/subtasks/.
type SubtaskItem struct {
	Title     string `json:"title" binding:"required"`
	Completed bool   `json:"completed"`
}

type CreateTaskRequest struct {
	Title         string        `json:"title" binding:"required"`
	Description   string        `json:"description"`
	DueDate       string        `json:"due_date" binding:"required"`
	Priority      string        `json:"priority" binding:"required,oneof=low medium urgent"`
	Status        string        `json:"status" binding:"omitempty,oneof=to-do in-progress await-feedback done"`
	BoardCategory string        `json:"board_category" binding:"omitempty,oneof=to-do in-progress await-feedback done"`
	TaskCategory  string        `json:"task_category" binding:"omitempty,oneof='Technical Task' 'User Story'"`
	Icon          string        `json:"icon"`
	ContactIDs    []uint        `json:"contact_ids"`
	Subtasks      []SubtaskItem `json:"subtasks"`
}

type UpdateTaskRequest struct {
	Title         string        `json:"title" binding:"required"`
	Description   string        `json:"description"`
	DueDate       string        `json:"due_date" binding:"required"`
	Priority      string        `json:"priority" binding:"required,oneof=low medium urgent"`
	Status        string        `json:"status" binding:"omitempty,oneof=to-do in-progress await-feedback done"`
	BoardCategory string        `json:"board_category" binding:"omitempty,oneof=to-do in-progress await-feedback done"`
	TaskCategory  string        `json:"task_category" binding:"omitempty,oneof='Technical Task' 'User Story'"`
	Icon          string        `json:"icon"`
	ContactIDs    []uint        `json:"contact_ids"`
	Subtasks      []SubtaskItem `json:"subtasks"`
}

type PatchTaskRequest struct {
	Title         string        `json:"title"`
	Description   *string       `json:"description"`
	DueDate       string        `json:"due_date"`
	Priority      string        `json:"priority" binding:"omitempty,oneof=low medium urgent"`
	Status        string        `json:"status" binding:"omitempty,oneof=to-do in-progress await-feedback done"`
	BoardCategory string        `json:"board_category" binding:"omitempty,oneof=to-do in-progress await-feedback done"`
	TaskCategory  string        `json:"task_category" binding:"omitempty,oneof='Technical Task' 'User Story'"`
	Icon          string        `json:"icon"`
	ContactIDs    []uint        `json:"contact_ids"`
	Subtasks      []SubtaskItem `json:"subtasks"`
}

type TaskResponse struct {
	ID            uint              `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	DueDate       string            `json:"due_date"`
	Priority      string            `json:"priority"`
	Status        string            `json:"status"`
	BoardCategory string            `json:"board_category"`
	TaskCategory  string            `json:"task_category"`
	Icon          string            `json:"icon"`
	Contacts      []ContactResponse `json:"contacts"`
	Subtasks      []SubtaskResponse `json:"subtasks"`
}

func buildTaskResponse(task models.Task) TaskResponse {
	contacts := make([]ContactResponse, 0, len(task.Contacts))

	for _, contact := range task.Contacts {
		contacts = append(contacts, buildContactResponse(contact))
	}

	subtasks := make([]SubtaskResponse, 0, len(task.Subtasks))

	for _, subtask := range task.Subtasks {
		subtasks = append(subtasks, buildSubtaskResponse(subtask))
	}

	return TaskResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		DueDate:       task.DueDate.Format(dueDateLayout),
		Priority:      task.Priority,
		Status:        task.Status,
		BoardCategory: task.BoardCategory,
		TaskCategory:  task.TaskCategory,
		Icon:          task.Icon,
		Contacts:      contacts,
		Subtasks:      subtasks,
	}
}

func parseDueDate(value string) (time.Time, error) {
	due, err := time.Parse(dueDateLayout, value)

	if err != nil {
		return time.Time{}, errors.New("Invalid due_date, expected YYYY-MM-DD")
	}

	return due, nil
}

// resolveContacts loads the requested contacts and verifies that every one
// of them belongs to the user. ok is false when an ID is unknown or foreign.
func resolveContacts(userID uint, ids []uint) (contacts []models.Contact, ok bool, err error) {
	if len(ids) == 0 {
		return nil, true, nil
	}

	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if err := db.DB.Where("id IN ? AND owner_id = ?", unique, userID).Find(&contacts).Error; err != nil {
		return nil, false, err
	}

	if len(contacts) != len(unique) {
		return nil, false, nil
	}

	return contacts, true, nil
}

func CreateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	due, err := parseDueDate(req.DueDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contacts, ok, err := resolveContacts(userID, req.ContactIDs)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "One or more contacts not found"})
		return
	}

	if req.Status == "" {
		req.Status = models.StatusTodo
	}

	if req.BoardCategory == "" {
		req.BoardCategory = models.StatusTodo
	}

	if req.Icon == "" {
		req.Icon = models.DefaultTaskIcon
	}

	subtasks := make([]models.Subtask, 0, len(req.Subtasks))

	for _, item := range req.Subtasks {
		subtasks = append(subtasks, models.Subtask{
			Title:     item.Title,
			Completed: item.Completed,
		})
	}

	task := models.Task{
		OwnerID:       userID,
		Title:         req.Title,
		Description:   req.Description,
		DueDate:       due,
		Priority:      req.Priority,
		Status:        req.Status,
		BoardCategory: req.BoardCategory,
		TaskCategory:  req.TaskCategory,
		Icon:          req.Icon,
		Contacts:      contacts,
		Subtasks:      subtasks,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	BroadcastBoardRefresh(userID)

	ctx.JSON(http.StatusCreated, buildTaskResponse(task))
}

func ListTasks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := db.DB.Where("owner_id = ?", userID).Preload("Contacts").Preload("Subtasks")

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if category := ctx.Query("board_category"); category != "" {
		query = query.Where("board_category = ?", category)
	}

	var tasks []models.Task

	if err := query.Find(&tasks).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, buildTaskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task models.Task

	if err := db.DB.Where("id = ? AND owner_id = ?", taskID, userID).
		Preload("Contacts").
		Preload("Subtasks").
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	ctx.JSON(http.StatusOK, buildTaskResponse(task))
}

func UpdateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	due, err := parseDueDate(req.DueDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task models.Task

	if err := db.DB.Where("id = ? AND owner_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.DueDate = due
	task.Priority = req.Priority

	if req.Status != "" {
		task.Status = req.Status
	}

	if req.BoardCategory != "" {
		task.BoardCategory = req.BoardCategory
	}

	if req.TaskCategory != "" {
		task.TaskCategory = req.TaskCategory
	}

	if req.Icon != "" {
		task.Icon = req.Icon
	}

	if err := db.DB.Save(&task).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	// Replace assigned contacts when the request carries a non-empty list.
	if len(req.ContactIDs) > 0 {
		contacts, ok, err := resolveContacts(userID, req.ContactIDs)

		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
			return
		}

		if !ok {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "One or more contacts not found"})
			return
		}

		if err := db.DB.Model(&task).Association("Contacts").Replace(contacts); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
			return
		}
	}

	// Replace subtasks wholesale when the request carries a non-empty list.
	if len(req.Subtasks) > 0 {
		if err := replaceSubtasks(&task, req.Subtasks); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
			return
		}
	}

	if err := db.DB.Where("id = ?", task.ID).
		Preload("Contacts").
		Preload("Subtasks").
		First(&task).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	BroadcastBoardRefresh(userID)

	ctx.JSON(http.StatusOK, buildTaskResponse(task))
}

func PatchTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req PatchTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task models.Task

	if err := db.DB.Where("id = ? AND owner_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	updates := make(map[string]interface{})

	if req.Title != "" {
		updates["title"] = req.Title
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if req.DueDate != "" {
		due, err := parseDueDate(req.DueDate)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates["due_date"] = due
	}

	if req.Priority != "" {
		updates["priority"] = req.Priority
	}

	if req.Status != "" {
		updates["status"] = req.Status
	}

	if req.BoardCategory != "" {
		updates["board_category"] = req.BoardCategory
	}

	if req.TaskCategory != "" {
		updates["task_category"] = req.TaskCategory
	}

	if req.Icon != "" {
		updates["icon"] = req.Icon
	}

	if len(updates) == 0 && len(req.ContactIDs) == 0 && len(req.Subtasks) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&task).Updates(updates).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
			return
		}
	}

	// Replace assigned contacts when the request carries a non-empty list.
	if len(req.ContactIDs) > 0 {
		contacts, ok, err := resolveContacts(userID, req.ContactIDs)

		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
			return
		}

		if !ok {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "One or more contacts not found"})
			return
		}

		if err := db.DB.Model(&task).Association("Contacts").Replace(contacts); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
			return
		}
	}

	// Replace subtasks wholesale when the request carries a non-empty list.
	if len(req.Subtasks) > 0 {
		if err := replaceSubtasks(&task, req.Subtasks); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
			return
		}
	}

	if err := db.DB.Where("id = ?", task.ID).
		Preload("Contacts").
		Preload("Subtasks").
		First(&task).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	BroadcastBoardRefresh(userID)

	ctx.JSON(http.StatusOK, buildTaskResponse(task))
}

func DeleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task models.Task

	if err := db.DB.Where("id = ? AND owner_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	// Subtasks and contact links go with it through the foreign key cascades.
	if err := db.DB.Delete(&task).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	BroadcastBoardRefresh(userID)

	ctx.Status(http.StatusNoContent)
}

func replaceSubtasks(task *models.Task, items []SubtaskItem) error {
	if err := db.DB.Where("task_id = ?", task.ID).Delete(&models.Subtask{}).Error; err != nil {
		return err
	}

	subtasks := make([]models.Subtask, 0, len(items))

	for _, item := range items {
		subtasks = append(subtasks, models.Subtask{
			TaskID:    task.ID,
			Title:     item.Title,
			Completed: item.Completed,
		})
	}

	return db.DB.Create(&subtasks).Error
}
