package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teamboard/teamboard-api/internal/board"
	"github.com/teamboard/teamboard-api/internal/constants"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/permissions"
	"github.com/teamboard/teamboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrPermissionDenied = errors.New("actor role does not grant the required capability")
	ErrTaskNotFound     = errors.New("task not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrAssigneeInactive = errors.New("assignee must reference an active user")
	ErrTaskNotInColumn  = errors.New("task does not belong to the reordered column")
	ErrStorageTimeout   = errors.New("storage collaborator did not respond in time")
	ErrStorageFailure   = errors.New("storage collaborator rejected the operation")
)

// TaskService is the access-controlled command layer: the only path
// through which actors mutate the board. Every command checks the
// acting role against the permission table, applies the change to the
// local projection optimistically, and rolls it back if the storage
// collaborator rejects or times out.
type TaskService struct {
	store          *board.Store
	taskRepo       repository.TaskRepository
	userRepo       repository.UserRepository
	storageTimeout time.Duration
}

// NewTaskService creates a new TaskService.
func NewTaskService(store *board.Store, taskRepo repository.TaskRepository, userRepo repository.UserRepository, storageTimeout time.Duration) *TaskService {
	if storageTimeout <= 0 {
		storageTimeout = constants.DefaultStorageTimeout
	}
	return &TaskService{
		store:          store,
		taskRepo:       taskRepo,
		userRepo:       userRepo,
		storageTimeout: storageTimeout,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title          string
	Description    string
	Status         models.TaskStatus
	Priority       models.TaskPriority
	Assignee       *string
	Deadline       *time.Time
	EstimatedHours float64
	Tags           []string
}

// UpdateTaskInput represents a partial update; nil fields are untouched.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Priority       *models.TaskPriority
	Deadline       *time.Time
	ClearDeadline  bool
	EstimatedHours *float64
	ActualHours    *float64
	Tags           []string
}

// CreateTask validates a draft, inserts it at the top of its column,
// and persists the insert plus the column shift as one batch.
func (s *TaskService) CreateTask(ctx context.Context, sess Session, input CreateTaskInput) (*models.Task, error) {
	if !permissions.HasPermission(sess.Role, permissions.CapEditTasks) {
		return nil, ErrPermissionDenied
	}

	task, err := board.ValidateDraft(board.TaskDraft{
		Title:          input.Title,
		Description:    input.Description,
		Status:         input.Status,
		Priority:       input.Priority,
		Assignee:       input.Assignee,
		AssignedBy:     sess.UserID,
		CreatedBy:      sess.UserID,
		Deadline:       input.Deadline,
		EstimatedHours: input.EstimatedHours,
		Tags:           input.Tags,
	})
	if err != nil {
		return nil, err
	}

	if task.Assignee != nil {
		if err := s.ensureActiveUser(ctx, *task.Assignee); err != nil {
			return nil, err
		}
	}

	task.ID = uuid.NewString()
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.Order = 0

	shifts := board.PlanInsertTop(s.store.Column(task.Status))

	staged := make([]models.Task, 0, len(shifts)+1)
	staged = append(staged, task)
	for _, u := range shifts {
		shifted, ok := s.store.Get(u.ID)
		if !ok {
			continue
		}
		shifted.Order = u.Order
		staged = append(staged, shifted)
	}

	rev, err := s.store.Stage(staged, nil)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, func(ctx context.Context) error {
		return s.taskRepo.Create(ctx, &task, shifts)
	}); err != nil {
		s.store.Rollback(rev)
		return nil, err
	}

	return &task, nil
}

// UpdateTask applies a partial field update. Concurrent updates to the
// same task are last-writer-wins at field level; no version token is
// kept, matching the storage collaborator's semantics.
func (s *TaskService) UpdateTask(ctx context.Context, sess Session, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if !permissions.HasPermission(sess.Role, permissions.CapEditTasks) {
		return nil, ErrPermissionDenied
	}

	task, ok := s.store.Get(taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, board.ErrEmptyTitle
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, board.ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		task.Deadline = input.Deadline
	}
	if input.EstimatedHours != nil {
		if *input.EstimatedHours < 0 {
			return nil, board.ErrNegativeEstimate
		}
		task.EstimatedHours = *input.EstimatedHours
	}
	if input.ActualHours != nil {
		if *input.ActualHours < 0 {
			return nil, board.ErrNegativeEstimate
		}
		task.ActualHours = *input.ActualHours
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}
	task.UpdatedAt = time.Now()

	rev, err := s.store.Stage([]models.Task{task}, nil)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, func(ctx context.Context) error {
		return s.taskRepo.Save(ctx, &task)
	}); err != nil {
		s.store.Rollback(rev)
		return nil, err
	}

	return &task, nil
}

// DeleteTask removes a task. Deactivated users never cascade here; a
// task leaves the board only through this command.
func (s *TaskService) DeleteTask(ctx context.Context, sess Session, taskID string) error {
	if !permissions.HasPermission(sess.Role, permissions.CapDeleteTasks) {
		return ErrPermissionDenied
	}

	if _, ok := s.store.Get(taskID); !ok {
		return ErrTaskNotFound
	}

	rev, err := s.store.Stage(nil, []string{taskID})
	if err != nil {
		return err
	}

	if err := s.persist(ctx, func(ctx context.Context) error {
		return s.taskRepo.Delete(ctx, taskID)
	}); err != nil {
		s.store.Rollback(rev)
		return err
	}

	return nil
}

// MoveTask changes only the status. The sort key is left untouched, so
// the task may collide with an existing order in the destination column
// until the next reorder or top insert there.
func (s *TaskService) MoveTask(ctx context.Context, sess Session, taskID string, newStatus models.TaskStatus) (*models.Task, error) {
	if !permissions.HasPermission(sess.Role, permissions.CapMoveTasks) {
		return nil, ErrPermissionDenied
	}
	if !newStatus.Valid() {
		return nil, board.ErrInvalidStatus
	}

	task, ok := s.store.Get(taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}

	task.Status = newStatus
	task.UpdatedAt = time.Now()

	rev, err := s.store.Stage([]models.Task{task}, nil)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, func(ctx context.Context) error {
		return s.taskRepo.Save(ctx, &task)
	}); err != nil {
		s.store.Rollback(rev)
		return nil, err
	}

	return &task, nil
}

// ReorderColumn reassigns order = position for an explicit id sequence
// in one column, persisted as a single atomic batch. This is the only
// command that guarantees a gapless, tie-free column ordering.
func (s *TaskService) ReorderColumn(ctx context.Context, sess Session, status models.TaskStatus, orderedIDs []string) error {
	if !permissions.HasPermission(sess.Role, permissions.CapMoveTasks) {
		return ErrPermissionDenied
	}
	if !status.Valid() {
		return board.ErrInvalidStatus
	}

	updates := board.PlanReorder(orderedIDs)

	staged := make([]models.Task, 0, len(updates))
	for _, u := range updates {
		task, ok := s.store.Get(u.ID)
		if !ok {
			return ErrTaskNotFound
		}
		if task.Status != status {
			return ErrTaskNotInColumn
		}
		task.Order = u.Order
		task.UpdatedAt = time.Now()
		staged = append(staged, task)
	}

	rev, err := s.store.Stage(staged, nil)
	if err != nil {
		return err
	}

	if err := s.persist(ctx, func(ctx context.Context) error {
		return s.taskRepo.UpdateOrders(ctx, updates)
	}); err != nil {
		s.store.Rollback(rev)
		return err
	}

	return nil
}

// AssignTask sets or clears the assignee and records who assigned it.
// An assignee must be active at assignment time; staleness after a
// later deactivation is tolerated.
func (s *TaskService) AssignTask(ctx context.Context, sess Session, taskID string, assignee *string) (*models.Task, error) {
	if !permissions.HasPermission(sess.Role, permissions.CapAssignTasks) {
		return nil, ErrPermissionDenied
	}

	task, ok := s.store.Get(taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}

	if assignee != nil {
		if err := s.ensureActiveUser(ctx, *assignee); err != nil {
			return nil, err
		}
	}

	task.Assignee = assignee
	task.AssignedBy = sess.UserID
	if task.AssignedBy == "" {
		task.AssignedBy = constants.SystemActorID
	}
	task.UpdatedAt = time.Now()

	rev, err := s.store.Stage([]models.Task{task}, nil)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, func(ctx context.Context) error {
		return s.taskRepo.Save(ctx, &task)
	}); err != nil {
		s.store.Rollback(rev)
		return nil, err
	}

	return &task, nil
}

// GetTask returns a task visible to the actor.
func (s *TaskService) GetTask(sess Session, taskID string) (*models.Task, error) {
	task, ok := s.store.Get(taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}
	for _, t := range s.store.VisibleTo(sess.UserID, sess.Role) {
		if t.ID == task.ID {
			return &task, nil
		}
	}
	return nil, ErrTaskNotFound
}

// ListVisible returns the board as the actor sees it.
func (s *TaskService) ListVisible(sess Session) []models.Task {
	return s.store.VisibleTo(sess.UserID, sess.Role)
}

// Board groups the actor's visible tasks into columns.
func (s *TaskService) Board(sess Session) map[models.TaskStatus][]models.Task {
	columns := make(map[models.TaskStatus][]models.Task, len(models.BoardColumns))
	for _, status := range models.BoardColumns {
		columns[status] = []models.Task{}
	}
	for _, t := range s.ListVisible(sess) {
		columns[t.Status] = append(columns[t.Status], t)
	}
	return columns
}

// Overdue returns the actor's visible overdue tasks.
func (s *TaskService) Overdue(sess Session, now time.Time) []models.Task {
	result := []models.Task{}
	for _, t := range s.ListVisible(sess) {
		if board.IsOverdue(t, now) {
			result = append(result, t)
		}
	}
	return result
}

// DueSoon returns the actor's visible tasks due within the window.
func (s *TaskService) DueSoon(sess Session, now time.Time) []models.Task {
	result := []models.Task{}
	for _, t := range s.ListVisible(sess) {
		if board.IsDueSoon(t, now) {
			result = append(result, t)
		}
	}
	return result
}

// Store exposes the projection for read-only consumers (analytics,
// reminders). Mutation stays behind the command methods.
func (s *TaskService) Store() *board.Store {
	return s.store
}

// persist runs one storage call under the configured timeout and maps
// failures into the storage error taxonomy.
func (s *TaskService) persist(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	if err := op(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrStorageTimeout
		}
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return nil
}

func (s *TaskService) ensureActiveUser(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if !user.IsActive {
		return ErrAssigneeInactive
	}
	return nil
}
