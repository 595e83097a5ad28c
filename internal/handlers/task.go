package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/teamboard-api/internal/dto"
	apierrors "github.com/teamboard/teamboard-api/internal/errors"
	"github.com/teamboard/teamboard-api/internal/middleware"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
	aiService   *services.AIService
}

func NewTaskHandler(taskService *services.TaskService, aiService *services.AIService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		aiService:   aiService,
	}
}

// ListTasks returns the tasks visible to the current user.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var tasks []models.Task
	switch c.Query("due") {
	case "overdue":
		tasks = h.taskService.Overdue(sess, time.Now())
	case "soon":
		tasks = h.taskService.DueSoon(sess, time.Now())
	default:
		tasks = h.taskService.ListVisible(sess)
	}

	if assignee := c.Query("assignee"); assignee != "" {
		filtered := make([]models.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.Assignee != nil && *t.Assignee == assignee {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// GetBoard returns the visible tasks grouped into columns.
func (h *TaskHandler) GetBoard(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	c.JSON(http.StatusOK, dto.BoardResponse{Columns: h.taskService.Board(sess)})
}

// GetTask returns a specific task by ID.
func (h *TaskHandler) GetTask(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.taskService.GetTask(sess, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask creates a new task at the top of its column.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Title          string              `json:"title"`
		Description    string              `json:"description"`
		Status         models.TaskStatus   `json:"status"`
		Priority       models.TaskPriority `json:"priority"`
		Assignee       *string             `json:"assignee"`
		Deadline       *time.Time          `json:"deadline"`
		EstimatedHours float64             `json:"estimated_hours"`
		Tags           []string            `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), sess, services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		Assignee:       req.Assignee,
		Deadline:       req.Deadline,
		EstimatedHours: req.EstimatedHours,
		Tags:           req.Tags,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask applies a partial update to a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Title          *string              `json:"title"`
		Description    *string              `json:"description"`
		Priority       *models.TaskPriority `json:"priority"`
		Deadline       *time.Time           `json:"deadline"`
		ClearDeadline  bool                 `json:"clear_deadline"`
		EstimatedHours *float64             `json:"estimated_hours"`
		ActualHours    *float64             `json:"actual_hours"`
		Tags           []string             `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), sess, c.Param("id"), services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		Deadline:       req.Deadline,
		ClearDeadline:  req.ClearDeadline,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		Tags:           req.Tags,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), sess, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// MoveTask changes a task's status column.
func (h *TaskHandler) MoveTask(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	task, err := h.taskService.MoveTask(c.Request.Context(), sess, c.Param("id"), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ReorderColumn persists an explicit task order for one column.
func (h *TaskHandler) ReorderColumn(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status" binding:"required"`
		IDs    []string          `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	if err := h.taskService.ReorderColumn(c.Request.Context(), sess, req.Status, req.IDs); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Column reordered"})
}

// AssignTask sets or clears a task's assignee.
func (h *TaskHandler) AssignTask(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Assignee *string `json:"assignee"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	task, err := h.taskService.AssignTask(c.Request.Context(), sess, c.Param("id"), req.Assignee)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// SuggestTasks extracts task drafts from freeform text via the AI
// service. Drafts are returned for review, not created directly.
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	if _, ok := middleware.GetSession(c); !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	suggested, err := h.aiService.SuggestTasks(c.Request.Context(), req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": suggested})
}
