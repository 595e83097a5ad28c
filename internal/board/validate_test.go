package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamboard/teamboard-api/internal/constants"
	"github.com/teamboard/teamboard-api/internal/models"
)

func TestValidateDraft_EmptyTitle(t *testing.T) {
	_, err := ValidateDraft(TaskDraft{Title: "   "})
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestValidateDraft_NegativeEstimate(t *testing.T) {
	_, err := ValidateDraft(TaskDraft{Title: "Draft", EstimatedHours: -1})
	assert.ErrorIs(t, err, ErrNegativeEstimate)

	_, err = ValidateDraft(TaskDraft{Title: "Draft", ActualHours: -0.5})
	assert.ErrorIs(t, err, ErrNegativeEstimate)
}

func TestValidateDraft_Defaults(t *testing.T) {
	task, err := ValidateDraft(TaskDraft{Title: "  Draft  "})
	require.NoError(t, err)

	assert.Equal(t, "Draft", task.Title)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.Equal(t, constants.SystemActorID, task.CreatedBy)
	assert.Equal(t, constants.SystemActorID, task.AssignedBy)
	assert.Nil(t, task.Assignee)
	assert.NotNil(t, task.Tags)
	assert.Empty(t, task.Tags)
	assert.GreaterOrEqual(t, task.EstimatedHours, 0.0)
	assert.GreaterOrEqual(t, task.ActualHours, 0.0)
}

func TestValidateDraft_InvalidEnums(t *testing.T) {
	_, err := ValidateDraft(TaskDraft{Title: "Draft", Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ValidateDraft(TaskDraft{Title: "Draft", Priority: "asap"})
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestValidateDraft_NormalizesAssigneeAndTags(t *testing.T) {
	blank := "  "
	task, err := ValidateDraft(TaskDraft{
		Title:    "Draft",
		Assignee: &blank,
		Tags:     []string{"api", " api ", "", "backend"},
	})
	require.NoError(t, err)

	assert.Nil(t, task.Assignee)
	assert.Equal(t, []string{"api", "backend"}, task.Tags)
}

func TestIsDueSoon_Boundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	atWindow := now.Add(constants.DueSoonWindow)
	task := models.Task{Status: models.TaskStatusTodo, Deadline: &atWindow}
	assert.True(t, IsDueSoon(task, now))

	past := atWindow.Add(time.Millisecond)
	task.Deadline = &past
	assert.False(t, IsDueSoon(task, now))

	done := models.Task{Status: models.TaskStatusDone, Deadline: &atWindow}
	assert.False(t, IsDueSoon(done, now))
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	task := models.Task{Status: models.TaskStatusReview, Deadline: &yesterday}
	assert.True(t, IsOverdue(task, now))

	task.Status = models.TaskStatusDone
	assert.False(t, IsOverdue(task, now))

	assert.False(t, IsOverdue(models.Task{Status: models.TaskStatusTodo}, now))
}
