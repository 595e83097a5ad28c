package repository

import (
	"context"

	"github.com/teamboard/teamboard-api/internal/board"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/utils"
)

// TaskRepository is the storage collaborator for the task collection.
// Every committed mutation triggers a snapshot push to subscribers, so
// the board store's projection tracks the remote collection the same
// way it would track a managed document store's change feed.
type TaskRepository interface {
	// Create persists a new task together with the order shifts its
	// insertion requires, in one transaction.
	Create(ctx context.Context, task *models.Task, shifts []board.OrderUpdate) error

	// Save writes the full record; concurrent writers are
	// last-writer-wins at field level.
	Save(ctx context.Context, task *models.Task) error

	// Delete removes a task by id.
	Delete(ctx context.Context, id string) error

	// UpdateOrders applies a reorder batch atomically. Partial
	// application is a correctness bug, so the whole batch is one
	// transaction.
	UpdateOrders(ctx context.Context, updates []board.OrderUpdate) error

	// FindByID finds a task by id.
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// List returns the full collection ordered by sort key ascending,
	// creation time descending as a tiebreak.
	List(ctx context.Context) ([]models.Task, error)

	// ListByStatus returns one column, in subscription order.
	ListByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error)

	// ListByAssignee returns the tasks assigned to one user.
	ListByAssignee(ctx context.Context, userID string) ([]models.Task, error)

	// Subscribe registers a snapshot consumer and returns an
	// unsubscribe function. Consumers receive the full collection
	// after every committed mutation and on every Notify call.
	Subscribe(fn func([]models.Task)) func()

	// Notify pushes the current collection to all subscribers.
	Notify(ctx context.Context) error
}

// UserRepository is the storage collaborator for user profiles.
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// Save writes the full profile record.
	Save(ctx context.Context, user *models.User) error

	// FindByID finds a user by id.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// ListPage returns one roster page, newest first, plus the total
	// number of users.
	ListPage(ctx context.Context, params utils.PaginationParams) ([]models.User, int64, error)

	// CountActiveByRole counts active users holding a role, excluding
	// the given user ids. Used to enforce the single wildcard holder.
	CountActiveByRole(ctx context.Context, role models.Role, excludeIDs ...string) (int64, error)
}
