package dto

import (
	"github.com/teamboard/teamboard-api/internal/models"
)

// BoardResponse groups tasks into their status columns, every column
// present even when empty.
type BoardResponse struct {
	Columns map[models.TaskStatus][]models.Task `json:"columns"`
}

// TaskListResponse is a flat task list with a count.
type TaskListResponse struct {
	Tasks []models.Task `json:"tasks"`
	Total int           `json:"total"`
}

// ToTaskListResponse wraps tasks for list endpoints.
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return TaskListResponse{Tasks: tasks, Total: len(tasks)}
}
