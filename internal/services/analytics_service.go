package services

import (
	"time"

	"github.com/teamboard/teamboard-api/internal/board"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/permissions"
)

// BoardSummary is the lightweight analytics view of the whole board.
type BoardSummary struct {
	Total          int                         `json:"total"`
	ByStatus       map[models.TaskStatus]int   `json:"by_status"`
	ByPriority     map[models.TaskPriority]int `json:"by_priority"`
	OpenByAssignee map[string]int              `json:"open_by_assignee"`
	Overdue        int                         `json:"overdue"`
	DueSoon        int                         `json:"due_soon"`
	Unassigned     int                         `json:"unassigned"`
	CompletionRate float64                     `json:"completion_rate"`
	EstimatedHours float64                     `json:"estimated_hours"`
	ActualHours    float64                     `json:"actual_hours"`
}

// AnalyticsService computes read-only aggregates over the projection.
type AnalyticsService struct {
	store *board.Store
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(store *board.Store) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// Summarize aggregates the full board. Requires view_analytics.
func (s *AnalyticsService) Summarize(sess Session, now time.Time) (*BoardSummary, error) {
	if !permissions.HasPermission(sess.Role, permissions.CapViewAnalytics) {
		return nil, ErrPermissionDenied
	}

	summary := &BoardSummary{
		ByStatus:       make(map[models.TaskStatus]int, len(models.BoardColumns)),
		ByPriority:     make(map[models.TaskPriority]int, 4),
		OpenByAssignee: make(map[string]int),
	}
	for _, status := range models.BoardColumns {
		summary.ByStatus[status] = 0
	}

	done := 0
	for _, t := range s.store.All() {
		summary.Total++
		summary.ByStatus[t.Status]++
		summary.ByPriority[t.Priority]++
		summary.EstimatedHours += t.EstimatedHours
		summary.ActualHours += t.ActualHours

		if t.Status == models.TaskStatusDone {
			done++
			continue
		}
		if t.Assignee == nil {
			summary.Unassigned++
		} else {
			summary.OpenByAssignee[*t.Assignee]++
		}
		if board.IsOverdue(t, now) {
			summary.Overdue++
		}
		if board.IsDueSoon(t, now) {
			summary.DueSoon++
		}
	}

	if summary.Total > 0 {
		summary.CompletionRate = float64(done) / float64(summary.Total)
	}
	return summary, nil
}
