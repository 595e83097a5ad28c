package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

// BoardColumns lists the statuses in board display order.
var BoardColumns = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusReview,
	TaskStatusDone,
}

// Valid reports whether s is one of the known board statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID             string       `gorm:"type:varchar(36);primarykey" json:"id"`
	Title          string       `gorm:"not null" json:"title"`
	Description    string       `gorm:"type:text" json:"description"`
	Status         TaskStatus   `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority       TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Assignee       *string      `gorm:"type:varchar(36);index" json:"assignee"`
	AssignedBy     string       `gorm:"type:varchar(36);not null" json:"assigned_by"`
	CreatedBy      string       `gorm:"type:varchar(36);not null" json:"created_by"`
	Deadline       *time.Time   `json:"deadline"`
	EstimatedHours float64      `gorm:"not null;default:0" json:"estimated_hours"`
	ActualHours    float64      `gorm:"not null;default:0" json:"actual_hours"`
	Tags           []string     `gorm:"serializer:json" json:"tags"`
	// "order" is a reserved word in most SQL dialects, hence the column name.
	Order     int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
