package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/teamboard/teamboard-api/internal/models"
)

func TestPlanInsertTop_ShiftsColumn(t *testing.T) {
	column := []models.Task{
		{ID: "a", Order: 0},
		{ID: "b", Order: 1},
		{ID: "c", Order: 2},
	}

	updates := PlanInsertTop(column)

	assert.Equal(t, []OrderUpdate{
		{ID: "a", Order: 1},
		{ID: "b", Order: 2},
		{ID: "c", Order: 3},
	}, updates)
}

func TestPlanInsertTop_EmptyColumn(t *testing.T) {
	assert.Empty(t, PlanInsertTop(nil))
}

func TestPlanReorder_AssignsPositions(t *testing.T) {
	updates := PlanReorder([]string{"c", "a", "b"})

	assert.Equal(t, []OrderUpdate{
		{ID: "c", Order: 0},
		{ID: "a", Order: 1},
		{ID: "b", Order: 2},
	}, updates)
}

func TestSortColumn_TiesBreakNewestFirst(t *testing.T) {
	older := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	tasks := []models.Task{
		{ID: "old", Order: 1, CreatedAt: older},
		{ID: "new", Order: 1, CreatedAt: newer},
		{ID: "first", Order: 0, CreatedAt: older},
	}

	SortColumn(tasks)

	assert.Equal(t, "first", tasks[0].ID)
	assert.Equal(t, "new", tasks[1].ID)
	assert.Equal(t, "old", tasks[2].ID)
}
