package board

import (
	"sort"

	"github.com/teamboard/teamboard-api/internal/models"
)

// OrderUpdate assigns a new column-local sort key to one task.
type OrderUpdate struct {
	ID    string
	Order int
}

// PlanInsertTop computes the shifts needed to place a new task at the
// top of a column: the new task takes order 0 and every existing task
// with a non-negative order moves down by one. Each insert shifts the
// whole column.
func PlanInsertTop(column []models.Task) []OrderUpdate {
	updates := make([]OrderUpdate, 0, len(column))
	for _, t := range column {
		if t.Order >= 0 {
			updates = append(updates, OrderUpdate{ID: t.ID, Order: t.Order + 1})
		}
	}
	return updates
}

// PlanReorder maps an explicit id sequence for one column onto dense
// order values, order = position. This is the only operation that
// guarantees a gapless, tie-free ordering for a column; it must be
// persisted as a single atomic batch.
func PlanReorder(orderedIDs []string) []OrderUpdate {
	updates := make([]OrderUpdate, len(orderedIDs))
	for i, id := range orderedIDs {
		updates[i] = OrderUpdate{ID: id, Order: i}
	}
	return updates
}

// SortColumn orders tasks by their sort key ascending, newest-first on
// ties, matching the storage collaborator's subscription order.
func SortColumn(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Order != tasks[j].Order {
			return tasks[i].Order < tasks[j].Order
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}
