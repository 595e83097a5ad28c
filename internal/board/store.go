package board

import (
	"errors"
	"sync"
	"time"

	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/permissions"
)

// ErrStoreCorrupt is returned when a staged mutation would violate a
// task invariant inside the projection. Mutation halts until the next
// snapshot from the storage subscription resynchronizes the store.
var ErrStoreCorrupt = errors.New("task projection is corrupt, awaiting resync")

// StoreState is the projection lifecycle.
type StoreState int

const (
	// StateLoading means the subscription has not delivered its first
	// snapshot. All reads return empty results.
	StateLoading StoreState = iota
	// StateReady means the subscription is active.
	StateReady
)

// Store is the authoritative local projection of the remote task
// collection. It is fed full snapshots by the storage subscription and
// mutated optimistically by the command layer, which rolls a revision
// back when the storage collaborator rejects the change.
type Store struct {
	mu      sync.RWMutex
	state   StoreState
	corrupt bool
	tasks   map[string]models.Task
}

// NewStore creates an empty store in the Loading state.
func NewStore() *Store {
	return &Store{
		state: StateLoading,
		tasks: make(map[string]models.Task),
	}
}

// State returns the projection lifecycle state.
func (s *Store) State() StoreState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ApplySnapshot replaces the projection with the collection delivered
// by the storage subscription and moves the store to Ready. A snapshot
// also clears the corrupt flag: the remote collection is the source of
// truth.
func (s *Store) ApplySnapshot(tasks []models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	s.state = StateReady
	s.corrupt = false
}

// Revision captures the prior state of tasks touched by one optimistic
// mutation, so a storage failure can restore exactly those records.
type Revision struct {
	prev  []models.Task
	added []string
}

// Stage applies an optimistic mutation: upserts and removals in one
// revision. It rejects staged tasks that break field invariants rather
// than letting a corrupt record into the projection.
func (s *Store) Stage(upserts []models.Task, removals []string) (Revision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.corrupt {
		return Revision{}, ErrStoreCorrupt
	}
	for _, t := range upserts {
		if !t.Status.Valid() || !t.Priority.Valid() || t.EstimatedHours < 0 || t.ActualHours < 0 {
			s.corrupt = true
			return Revision{}, ErrStoreCorrupt
		}
	}

	// A revision records each id at most once, so a task touched twice
	// in one mutation rolls back to its pre-mutation state, not to an
	// intermediate staged one.
	var rev Revision
	seen := make(map[string]struct{}, len(upserts)+len(removals))
	for _, t := range upserts {
		if _, dup := seen[t.ID]; !dup {
			seen[t.ID] = struct{}{}
			if prev, ok := s.tasks[t.ID]; ok {
				rev.prev = append(rev.prev, prev)
			} else {
				rev.added = append(rev.added, t.ID)
			}
		}
		s.tasks[t.ID] = t
	}
	for _, id := range removals {
		prev, ok := s.tasks[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			rev.prev = append(rev.prev, prev)
		}
		delete(s.tasks, id)
	}
	return rev, nil
}

// Rollback restores the records touched by a staged mutation.
func (s *Store) Rollback(rev Revision) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range rev.added {
		delete(s.tasks, id)
	}
	for _, t := range rev.prev {
		s.tasks[t.ID] = t
	}
}

// Get returns a task by id.
func (s *Store) Get(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	return t, ok
}

// Count returns the number of tasks in the projection.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// All returns every task sorted by order, newest-first on ties.
func (s *Store) All() []models.Task {
	s.mu.RLock()
	tasks := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	s.mu.RUnlock()

	SortColumn(tasks)
	return tasks
}

// Column returns the tasks in one status column, sorted.
func (s *Store) Column(status models.TaskStatus) []models.Task {
	return filterTasks(s.All(), func(t models.Task) bool {
		return t.Status == status
	})
}

// ByStatus groups the whole board into its columns. Every known column
// is present in the result even when empty.
func (s *Store) ByStatus() map[models.TaskStatus][]models.Task {
	columns := make(map[models.TaskStatus][]models.Task, len(models.BoardColumns))
	for _, status := range models.BoardColumns {
		columns[status] = []models.Task{}
	}
	for _, t := range s.All() {
		columns[t.Status] = append(columns[t.Status], t)
	}
	return columns
}

// ByAssignee returns tasks assigned to one user.
func (s *Store) ByAssignee(userID string) []models.Task {
	return filterTasks(s.All(), func(t models.Task) bool {
		return t.Assignee != nil && *t.Assignee == userID
	})
}

// Overdue returns unfinished tasks whose deadline has passed.
func (s *Store) Overdue(now time.Time) []models.Task {
	return filterTasks(s.All(), func(t models.Task) bool {
		return IsOverdue(t, now)
	})
}

// DueSoon returns unfinished tasks due within the due-soon window.
func (s *Store) DueSoon(now time.Time) []models.Task {
	return filterTasks(s.All(), func(t models.Task) bool {
		return IsDueSoon(t, now)
	})
}

// VisibleTo filters the board for an actor: privileged roles see every
// task, other roles only tasks they are assigned, created, or assigned.
func (s *Store) VisibleTo(userID string, role models.Role) []models.Task {
	all := s.All()
	if permissions.CanViewAllTasks(role) {
		return all
	}
	return filterTasks(all, func(t models.Task) bool {
		if t.Assignee != nil && *t.Assignee == userID {
			return true
		}
		return t.CreatedBy == userID || t.AssignedBy == userID
	})
}

func filterTasks(tasks []models.Task, keep func(models.Task) bool) []models.Task {
	result := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}
