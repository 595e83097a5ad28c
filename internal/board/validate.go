package board

import (
	"errors"
	"strings"
	"time"

	"github.com/teamboard/teamboard-api/internal/constants"
	"github.com/teamboard/teamboard-api/internal/models"
)

var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrNegativeEstimate = errors.New("estimated and actual hours cannot be negative")
	ErrInvalidStatus    = errors.New("unknown task status")
	ErrInvalidPriority  = errors.New("unknown task priority")
)

// TaskDraft is the raw input for a new task before normalization.
type TaskDraft struct {
	Title          string
	Description    string
	Status         models.TaskStatus
	Priority       models.TaskPriority
	Assignee       *string
	AssignedBy     string
	CreatedBy      string
	Deadline       *time.Time
	EstimatedHours float64
	ActualHours    float64
	Tags           []string
}

// ValidateDraft normalizes a draft into the one canonical task shape:
// optional fields become explicit nils or empty sets, actor fields fall
// back to the system sentinel, and field invariants are enforced.
// The returned task has no ID or timestamps; the command layer assigns
// those at persist time.
func ValidateDraft(d TaskDraft) (models.Task, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return models.Task{}, ErrEmptyTitle
	}
	if d.EstimatedHours < 0 || d.ActualHours < 0 {
		return models.Task{}, ErrNegativeEstimate
	}

	status := d.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !status.Valid() {
		return models.Task{}, ErrInvalidStatus
	}

	priority := d.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !priority.Valid() {
		return models.Task{}, ErrInvalidPriority
	}

	assignee := d.Assignee
	if assignee != nil && strings.TrimSpace(*assignee) == "" {
		assignee = nil
	}

	createdBy := d.CreatedBy
	if createdBy == "" {
		createdBy = constants.SystemActorID
	}
	assignedBy := d.AssignedBy
	if assignedBy == "" {
		assignedBy = createdBy
	}

	return models.Task{
		Title:          title,
		Description:    d.Description,
		Status:         status,
		Priority:       priority,
		Assignee:       assignee,
		AssignedBy:     assignedBy,
		CreatedBy:      createdBy,
		Deadline:       d.Deadline,
		EstimatedHours: d.EstimatedHours,
		ActualHours:    d.ActualHours,
		Tags:           normalizeTags(d.Tags),
	}, nil
}

// normalizeTags deduplicates while keeping first-seen order, and maps
// nil to an empty set so consumers never branch on missing-vs-empty.
func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}

// IsOverdue reports whether an unfinished task's deadline has passed.
func IsOverdue(task models.Task, now time.Time) bool {
	if task.Deadline == nil || task.Status == models.TaskStatusDone {
		return false
	}
	return task.Deadline.Before(now)
}

// IsDueSoon reports whether an unfinished task's deadline falls within
// the next DueSoonWindow, inclusive at both ends.
func IsDueSoon(task models.Task, now time.Time) bool {
	if task.Deadline == nil || task.Status == models.TaskStatusDone {
		return false
	}
	d := *task.Deadline
	return !d.Before(now) && !d.After(now.Add(constants.DueSoonWindow))
}
