package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetTaskID(ctx *gin.Context) (uint64, error) {
	return parseIDParam(ctx, "task_id", "Task")
}

func GetSubtaskID(ctx *gin.Context) (uint64, error) {
	return parseIDParam(ctx, "subtask_id", "Subtask")
}

func GetContactID(ctx *gin.Context) (uint64, error) {
	return parseIDParam(ctx, "contact_id", "Contact")
}

func parseIDParam(ctx *gin.Context, name string, label string) (uint64, error) {
	idStr := ctx.Param(name)

	if idStr == "" {
		return 0, errors.New(label + " ID not found")
	}

	id, err := strconv.ParseUint(idStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + label + " ID")
	}

	return id, nil
}
