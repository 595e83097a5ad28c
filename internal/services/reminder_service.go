package services

import (
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/teamboard/teamboard-api/internal/board"
	"github.com/teamboard/teamboard-api/internal/models"
	"github.com/teamboard/teamboard-api/internal/notifier"
)

// ReminderService builds and delivers a daily digest of overdue and
// due-soon tasks through a notifier.
type ReminderService struct {
	store    *board.Store
	notifier notifier.Notifier
	cron     *cron.Cron
}

// NewReminderService creates a new ReminderService.
func NewReminderService(store *board.Store, n notifier.Notifier, loc *time.Location) *ReminderService {
	return &ReminderService{
		store:    store,
		notifier: n,
		cron:     cron.New(cron.WithLocation(loc)),
	}
}

// ScheduleDaily registers the digest job at the given HH:MM time.
func (s *ReminderService) ScheduleDaily(timeStr string) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, func() {
		if err := s.SendDigest(time.Now()); err != nil {
			log.Printf("reminder digest failed: %v", err)
		}
	})
}

// Start begins running scheduled jobs.
func (s *ReminderService) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *ReminderService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// SendDigest delivers the digest for the given time. Nothing is sent
// when no task needs attention.
func (s *ReminderService) SendDigest(now time.Time) error {
	overdue := s.store.Overdue(now)
	dueSoon := s.store.DueSoon(now)
	if len(overdue) == 0 && len(dueSoon) == 0 {
		return nil
	}
	return s.notifier.Send(Digest(overdue, dueSoon, now))
}

// Digest renders the reminder message for overdue and due-soon tasks.
func Digest(overdue, dueSoon []models.Task, now time.Time) string {
	var builder strings.Builder
	builder.WriteString("<b>Board digest</b>\n")
	builder.WriteString(fmt.Sprintf("%s\n", now.Format("02.01.2006")))

	if len(overdue) > 0 {
		builder.WriteString("\n<b>Overdue</b>\n")
		for _, t := range overdue {
			builder.WriteString(formatDigestTask(t, now))
		}
	}
	if len(dueSoon) > 0 {
		builder.WriteString("\n<b>Due soon</b>\n")
		for _, t := range dueSoon {
			builder.WriteString(formatDigestTask(t, now))
		}
	}
	return strings.TrimSpace(builder.String())
}

func formatDigestTask(t models.Task, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(html.EscapeString(strings.TrimSpace(t.Title)))
	sb.WriteString(fmt.Sprintf(" [%s]", t.Priority))
	if t.Deadline != nil {
		d := t.Deadline.In(now.Location())
		if board.IsOverdue(t, now) {
			sb.WriteString(fmt.Sprintf("\n   due %s, <b>overdue</b>", d.Format("2006-01-02 15:04")))
		} else {
			sb.WriteString(fmt.Sprintf("\n   due %s", d.Format("2006-01-02 15:04")))
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
