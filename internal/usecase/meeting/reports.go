package meeting

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	errs "github.com/trackteam/action-tracker/errors"
	"github.com/trackteam/action-tracker/internal/domain/entities"
)

// Export formats

const (
	exportFull      = "full"
	exportDecisions = "decisions"
	exportOwner     = "owner"
)

// DecisionsExport is the export payload for format=decisions
type DecisionsExport struct {
	Title     string                  `json:"title"`
	Decisions []entities.Task         `json:"decisions"`
	Summary   entities.MeetingSummary `json:"summary"`
}

// OwnerExport is the export payload for format=owner
type OwnerExport struct {
	Owner   string          `json:"owner"`
	Actions []entities.Task `json:"actions"`
	Count   int             `json:"count"`
}

// Export returns a meeting in the requested format. Meeting owner only.
// format=owner additionally requires an ownerFilter naming whose tasks to
// export; the unknown-format fallback is the full meeting.
func (s *service) Export(ctx context.Context, meetingID uuid.UUID, actor *entities.User, format, ownerFilter string) (interface{}, error) {
	m, err := s.findMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(m, nil, actor, OpExportMeeting); err != nil {
		return nil, err
	}

	switch format {
	case exportDecisions:
		decisions := []entities.Task{}
		for i := range m.Tasks {
			if m.Tasks[i].Intent == entities.IntentDecision {
				decisions = append(decisions, m.Tasks[i])
			}
		}
		return &DecisionsExport{
			Title:     m.Title,
			Decisions: decisions,
			Summary:   m.Summary.Data(),
		}, nil

	case exportOwner:
		if ownerFilter == "" {
			return nil, errs.ErrInvalidArgument("owner parameter required")
		}
		owned := []entities.Task{}
		for i := range m.Tasks {
			if m.Tasks[i].Owner == ownerFilter {
				owned = append(owned, m.Tasks[i])
			}
		}
		return &OwnerExport{
			Owner:   ownerFilter,
			Actions: owned,
			Count:   len(owned),
		}, nil

	default:
		return m, nil
	}
}

// TaskWithMeeting is a task annotated with the meeting it came from
type TaskWithMeeting struct {
	entities.Task
	MeetingID    uuid.UUID `json:"meeting_id"`
	MeetingTitle string    `json:"meeting_title"`
	MeetingDate  time.Time `json:"meeting_date"`
}

// UserTasksResult lists every task assigned to one user across meetings
type UserTasksResult struct {
	User  *entities.PublicUser `json:"user"`
	Tasks []TaskWithMeeting    `json:"tasks"`
	Count int                  `json:"count"`
}

// UserTasks collects all tasks assigned to a user across all meetings,
// newest meeting first. Accessible by the user themselves or an admin.
func (s *service) UserTasks(ctx context.Context, userID uuid.UUID, actor *entities.User) (*UserTasksResult, error) {
	if actor.ID != userID && !actor.IsAdmin() {
		return nil, errs.ErrPermissionDenied("view another user's tasks")
	}

	target, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound()
		}
		return nil, errs.ErrDBQueryFailed("users.find", err)
	}

	all, err := s.meetingRepo.List(ctx)
	if err != nil {
		return nil, errs.ErrDBQueryFailed("meetings.list", err)
	}

	tasks := []TaskWithMeeting{}
	for _, m := range all {
		for i := range m.Tasks {
			if taskBelongsTo(&m.Tasks[i], target) {
				tasks = append(tasks, TaskWithMeeting{
					Task:         m.Tasks[i],
					MeetingID:    m.ID,
					MeetingTitle: m.Title,
					MeetingDate:  m.ProcessedAt,
				})
			}
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].MeetingDate.After(tasks[j].MeetingDate)
	})

	return &UserTasksResult{
		User:  target.ToPublic(),
		Tasks: tasks,
		Count: len(tasks),
	}, nil
}

// taskBelongsTo matches a task to a user by canonical id, falling back to a
// case-insensitive name comparison for legacy records.
func taskBelongsTo(task *entities.Task, user *entities.User) bool {
	if task.OwnerID != nil && *task.OwnerID == user.ID {
		return true
	}
	return strings.EqualFold(task.Owner, user.Name)
}

// CalendarEvent is a dated entry: either a meeting or a task with a due date
type CalendarEvent struct {
	Type         string    `json:"type"`
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Date         string    `json:"date"`
	Status       string    `json:"status,omitempty"`
	Owner        string    `json:"owner,omitempty"`
	MeetingID    uuid.UUID `json:"meeting_id"`
	MeetingTitle string    `json:"meeting_title,omitempty"`
}

// CalendarResult holds the actor's calendar events
type CalendarResult struct {
	Events []CalendarEvent `json:"events"`
	Count  int             `json:"count"`
}

// Calendar returns the actor's owned meetings plus their dated action items
func (s *service) Calendar(ctx context.Context, actor *entities.User) (*CalendarResult, error) {
	all, err := s.meetingRepo.List(ctx)
	if err != nil {
		return nil, errs.ErrDBQueryFailed("meetings.list", err)
	}

	events := []CalendarEvent{}
	for _, m := range all {
		if !m.IsOwnedBy(actor.ID) {
			continue
		}

		events = append(events, CalendarEvent{
			Type:      "meeting",
			ID:        m.ID.String(),
			Title:     m.Title,
			Date:      m.ProcessedAt.Format(time.RFC3339),
			MeetingID: m.ID,
		})

		for i := range m.Tasks {
			task := &m.Tasks[i]
			if task.Intent != entities.IntentAction || task.DueDate == nil || *task.DueDate == "" {
				continue
			}
			events = append(events, CalendarEvent{
				Type:         "task",
				ID:           task.ID,
				Title:        task.Description,
				Date:         *task.DueDate,
				Status:       string(task.Status),
				Owner:        task.Owner,
				MeetingID:    m.ID,
				MeetingTitle: m.Title,
			})
		}
	}

	return &CalendarResult{Events: events, Count: len(events)}, nil
}

// OwnerStats aggregates completion counts for one owner display string
type OwnerStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"in_progress"`
	Todo           int     `json:"todo"`
	CompletionRate float64 `json:"completion_rate"`
}

// MetricsResult holds completion statistics over the actor's meetings
type MetricsResult struct {
	User             *entities.PublicUser  `json:"user"`
	TotalTasks       int                   `json:"total_tasks"`
	CompletedTasks   int                   `json:"completed_tasks"`
	InProgressTasks  int                   `json:"in_progress_tasks"`
	TodoTasks        int                   `json:"todo_tasks"`
	CompletionRate   float64               `json:"completion_rate"`
	ActionsCount     int                   `json:"actions_count"`
	DecisionsCount   int                   `json:"decisions_count"`
	BlockersCount    int                   `json:"blockers_count"`
	HighConfidence   int                   `json:"high_confidence"`
	MediumConfidence int                   `json:"medium_confidence"`
	LowConfidence    int                   `json:"low_confidence"`
	TasksByOwner     map[string]OwnerStats `json:"tasks_by_owner"`
}

// Metrics computes completion statistics over every action in the actor's
// owned meetings.
func (s *service) Metrics(ctx context.Context, actor *entities.User) (*MetricsResult, error) {
	all, err := s.meetingRepo.List(ctx)
	if err != nil {
		return nil, errs.ErrDBQueryFailed("meetings.list", err)
	}

	result := &MetricsResult{
		User:         actor.ToPublic(),
		TasksByOwner: map[string]OwnerStats{},
	}

	for _, m := range all {
		if !m.IsOwnedBy(actor.ID) {
			continue
		}
		for i := range m.Tasks {
			task := &m.Tasks[i]

			switch task.Intent {
			case entities.IntentAction:
				result.ActionsCount++
			case entities.IntentDecision:
				result.DecisionsCount++
			case entities.IntentBlocker:
				result.BlockersCount++
			}

			switch task.Confidence {
			case entities.ConfidenceHigh:
				result.HighConfidence++
			case entities.ConfidenceMedium:
				result.MediumConfidence++
			case entities.ConfidenceLow:
				result.LowConfidence++
			}

			// Completion tracking only makes sense for actions; decisions
			// and blockers have no lifecycle.
			if task.Intent != entities.IntentAction {
				continue
			}

			result.TotalTasks++
			switch task.Status {
			case entities.TaskStatusComplete:
				result.CompletedTasks++
			case entities.TaskStatusInProgress:
				result.InProgressTasks++
			default:
				result.TodoTasks++
			}

			owner := task.Owner
			if owner == "" {
				owner = entities.UnassignedOwner
			}
			stats := result.TasksByOwner[owner]
			stats.Total++
			switch task.Status {
			case entities.TaskStatusComplete:
				stats.Completed++
			case entities.TaskStatusInProgress:
				stats.InProgress++
			default:
				stats.Todo++
			}
			result.TasksByOwner[owner] = stats
		}
	}

	if result.TotalTasks > 0 {
		result.CompletionRate = float64(result.CompletedTasks) / float64(result.TotalTasks) * 100
	}
	for owner, stats := range result.TasksByOwner {
		if stats.Total > 0 {
			stats.CompletionRate = float64(stats.Completed) / float64(stats.Total) * 100
			result.TasksByOwner[owner] = stats
		}
	}

	return result, nil
}
