package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamboard/teamboard-api/internal/models"
)

func taskFixture(id string, status models.TaskStatus, order int) models.Task {
	return models.Task{
		ID:         id,
		Title:      "Task " + id,
		Status:     status,
		Priority:   models.TaskPriorityMedium,
		AssignedBy: "system",
		CreatedBy:  "system",
		Order:      order,
	}
}

func TestStore_LoadingReadsAreEmpty(t *testing.T) {
	s := NewStore()

	assert.Equal(t, StateLoading, s.State())
	assert.Empty(t, s.All())
	assert.Empty(t, s.Column(models.TaskStatusTodo))
	assert.Empty(t, s.VisibleTo("u1", models.RoleDeveloper))
	assert.Zero(t, s.Count())
}

func TestStore_ApplySnapshotMakesReady(t *testing.T) {
	s := NewStore()
	s.ApplySnapshot([]models.Task{
		taskFixture("a", models.TaskStatusTodo, 0),
		taskFixture("b", models.TaskStatusDone, 0),
	})

	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, 2, s.Count())

	columns := s.ByStatus()
	assert.Len(t, columns, len(models.BoardColumns))
	assert.Len(t, columns[models.TaskStatusTodo], 1)
	assert.Len(t, columns[models.TaskStatusInProgress], 0)
}

func TestStore_StageAndRollback(t *testing.T) {
	s := NewStore()
	s.ApplySnapshot([]models.Task{taskFixture("a", models.TaskStatusTodo, 0)})

	updated := taskFixture("a", models.TaskStatusReview, 0)
	created := taskFixture("b", models.TaskStatusTodo, 0)

	rev, err := s.Stage([]models.Task{updated, created}, nil)
	require.NoError(t, err)

	got, _ := s.Get("a")
	assert.Equal(t, models.TaskStatusReview, got.Status)
	assert.Equal(t, 2, s.Count())

	s.Rollback(rev)

	got, _ = s.Get("a")
	assert.Equal(t, models.TaskStatusTodo, got.Status)
	_, ok := s.Get("b")
	assert.False(t, ok)
}

func TestStore_StageSameTaskTwiceRollsBackToOriginal(t *testing.T) {
	s := NewStore()
	original := taskFixture("a", models.TaskStatusTodo, 5)
	s.ApplySnapshot([]models.Task{original})

	first := taskFixture("a", models.TaskStatusTodo, 0)
	second := taskFixture("a", models.TaskStatusTodo, 1)

	rev, err := s.Stage([]models.Task{first, second}, nil)
	require.NoError(t, err)

	got, _ := s.Get("a")
	assert.Equal(t, 1, got.Order)

	s.Rollback(rev)

	got, _ = s.Get("a")
	assert.Equal(t, 5, got.Order)
}

func TestStore_StageUpsertThenRemoveRollsBackToOriginal(t *testing.T) {
	s := NewStore()
	original := taskFixture("a", models.TaskStatusTodo, 5)
	s.ApplySnapshot([]models.Task{original})

	rev, err := s.Stage([]models.Task{taskFixture("a", models.TaskStatusReview, 0)}, []string{"a"})
	require.NoError(t, err)
	assert.Zero(t, s.Count())

	s.Rollback(rev)

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, models.TaskStatusTodo, got.Status)
	assert.Equal(t, 5, got.Order)
}

func TestStore_StageRemovalAndRollback(t *testing.T) {
	s := NewStore()
	s.ApplySnapshot([]models.Task{taskFixture("a", models.TaskStatusTodo, 0)})

	rev, err := s.Stage(nil, []string{"a"})
	require.NoError(t, err)
	assert.Zero(t, s.Count())

	s.Rollback(rev)
	assert.Equal(t, 1, s.Count())
}

func TestStore_CorruptStagedTaskHaltsMutation(t *testing.T) {
	s := NewStore()
	s.ApplySnapshot([]models.Task{taskFixture("a", models.TaskStatusTodo, 0)})

	bad := taskFixture("b", "nonsense", 0)
	_, err := s.Stage([]models.Task{bad}, nil)
	assert.ErrorIs(t, err, ErrStoreCorrupt)

	// Further mutation is refused until a snapshot resynchronizes.
	_, err = s.Stage([]models.Task{taskFixture("c", models.TaskStatusTodo, 0)}, nil)
	assert.ErrorIs(t, err, ErrStoreCorrupt)

	s.ApplySnapshot([]models.Task{taskFixture("a", models.TaskStatusTodo, 0)})
	_, err = s.Stage([]models.Task{taskFixture("c", models.TaskStatusTodo, 0)}, nil)
	assert.NoError(t, err)
}

func TestStore_VisibleTo(t *testing.T) {
	dev := "dev-1"
	other := "dev-2"

	assigned := taskFixture("assigned", models.TaskStatusTodo, 0)
	assigned.Assignee = &dev
	createdBy := taskFixture("created", models.TaskStatusTodo, 1)
	createdBy.CreatedBy = dev
	assignedBy := taskFixture("delegated", models.TaskStatusTodo, 2)
	assignedBy.AssignedBy = dev
	foreign := taskFixture("foreign", models.TaskStatusTodo, 3)
	foreign.Assignee = &other

	s := NewStore()
	s.ApplySnapshot([]models.Task{assigned, createdBy, assignedBy, foreign})

	visible := s.VisibleTo(dev, models.RoleDeveloper)
	assert.Len(t, visible, 3)

	assert.Len(t, s.VisibleTo(dev, models.RoleAdmin), 4)
	assert.Len(t, s.VisibleTo(dev, models.RoleSuperAdmin), 4)
}

func TestStore_DeadlineViews(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	soon := now.Add(12 * time.Hour)

	overdue := taskFixture("late", models.TaskStatusInProgress, 0)
	overdue.Deadline = &past
	upcoming := taskFixture("soon", models.TaskStatusTodo, 1)
	upcoming.Deadline = &soon

	s := NewStore()
	s.ApplySnapshot([]models.Task{overdue, upcoming})

	require.Len(t, s.Overdue(now), 1)
	assert.Equal(t, "late", s.Overdue(now)[0].ID)
	require.Len(t, s.DueSoon(now), 1)
	assert.Equal(t, "soon", s.DueSoon(now)[0].ID)
}

func TestStore_ByAssignee(t *testing.T) {
	dev := "dev-1"
	mine := taskFixture("mine", models.TaskStatusTodo, 0)
	mine.Assignee = &dev

	s := NewStore()
	s.ApplySnapshot([]models.Task{mine, taskFixture("other", models.TaskStatusTodo, 1)})

	got := s.ByAssignee(dev)
	require.Len(t, got, 1)
	assert.Equal(t, "mine", got[0].ID)
}
