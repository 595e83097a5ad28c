package repository

import (
	"context"
	"log"
	"sync"

	"github.com/teamboard/teamboard-api/internal/board"
	"github.com/teamboard/teamboard-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository.
type GormTaskRepository struct {
	db *gorm.DB

	mu          sync.Mutex
	nextSubID   int
	subscribers map[int]func([]models.Task)
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{
		db:          db,
		subscribers: make(map[int]func([]models.Task)),
	}
}

// Create persists a new task and its insertion shifts in one transaction.
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task, shifts []board.OrderUpdate) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return applyOrderUpdates(tx, shifts)
	})
	if err != nil {
		return err
	}
	r.publish(ctx)
	return nil
}

// Save writes the full record (last-writer-wins).
func (r *GormTaskRepository) Save(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return err
	}
	r.publish(ctx)
	return nil
}

// Delete removes a task by id.
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id).Error; err != nil {
		return err
	}
	r.publish(ctx)
	return nil
}

// UpdateOrders applies a reorder batch in a single transaction.
func (r *GormTaskRepository) UpdateOrders(ctx context.Context, updates []board.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyOrderUpdates(tx, updates)
	})
	if err != nil {
		return err
	}
	r.publish(ctx)
	return nil
}

func applyOrderUpdates(tx *gorm.DB, updates []board.OrderUpdate) error {
	for _, u := range updates {
		if err := tx.Model(&models.Task{}).
			Where("id = ?", u.ID).
			Update("sort_order", u.Order).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID finds a task by id.
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns the full collection in subscription order.
func (r *GormTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByStatus returns one column in subscription order.
func (r *GormTaskRepository) ListByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("sort_order ASC, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByAssignee returns the tasks assigned to one user.
func (r *GormTaskRepository) ListByAssignee(ctx context.Context, userID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("assignee = ?", userID).
		Order("sort_order ASC, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Subscribe registers a snapshot consumer.
func (r *GormTaskRepository) Subscribe(fn func([]models.Task)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subscribers, id)
	}
}

// Notify pushes the current collection to all subscribers.
func (r *GormTaskRepository) Notify(ctx context.Context) error {
	tasks, err := r.List(ctx)
	if err != nil {
		return err
	}
	r.fanout(tasks)
	return nil
}

// publish is the post-commit snapshot push. A failed re-read only costs
// one notification; the next committed mutation delivers a fresh one.
func (r *GormTaskRepository) publish(ctx context.Context) {
	tasks, err := r.List(ctx)
	if err != nil {
		log.Printf("task snapshot read failed: %v", err)
		return
	}
	r.fanout(tasks)
}

func (r *GormTaskRepository) fanout(tasks []models.Task) {
	r.mu.Lock()
	subs := make([]func([]models.Task), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn(tasks)
	}
}
