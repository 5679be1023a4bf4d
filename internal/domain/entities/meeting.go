package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingSummary holds the derived counts over a meeting's task list. It is
// always recomputed from the tasks, never trusted from extraction output.
type MeetingSummary struct {
	TotalActions      int `json:"total_actions"`
	TotalDecisions    int `json:"total_decisions"`
	TotalBlockers     int `json:"total_blockers"`
	UnassignedActions int `json:"unassigned_actions"`
}

// ComputeSummary derives the summary counts from a task list.
// UnassignedActions counts tasks whose owner literal is UNASSIGNED; an
// unmatched arbitrary name keeps its literal and is not counted here.
func ComputeSummary(tasks []Task) MeetingSummary {
	var s MeetingSummary
	for i := range tasks {
		switch tasks[i].Intent {
		case IntentAction:
			s.TotalActions++
		case IntentDecision:
			s.TotalDecisions++
		case IntentBlocker:
			s.TotalBlockers++
		}
		if tasks[i].Owner == UnassignedOwner {
			s.UnassignedActions++
		}
	}
	return s
}

// Meeting is a processed transcript with its extracted task list. The task
// list is created once with the meeting and only mutated in place afterwards;
// tasks are never added or removed. Ownership is set at creation and never
// reassigned.
type Meeting struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title      string    `json:"title" gorm:"type:varchar(255);not null"`
	Transcript string    `json:"transcript" gorm:"type:text"`

	OwnerID uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Owner   *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	// Denormalized for display and for records that outlive the user row
	OwnerName  string `json:"owner_name" gorm:"type:varchar(255)"`
	OwnerEmail string `json:"owner_email" gorm:"type:varchar(255)"`

	ShareToken *string `json:"share_token,omitempty" gorm:"type:varchar(64);index"`

	Tasks   datatypes.JSONSlice[Task]          `json:"tasks" gorm:"type:jsonb"`
	Summary datatypes.JSONType[MeetingSummary] `json:"summary" gorm:"type:jsonb"`

	ProcessedAt time.Time `json:"processed_at" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a meeting owned by the user who triggered extraction
func NewMeeting(title, transcript string, owner *User, tasks []Task) *Meeting {
	now := time.Now()
	return &Meeting{
		ID:          uuid.New(),
		Title:       title,
		Transcript:  transcript,
		OwnerID:     owner.ID,
		OwnerName:   owner.Name,
		OwnerEmail:  owner.Email,
		Tasks:       datatypes.NewJSONSlice(tasks),
		Summary:     datatypes.NewJSONType(ComputeSummary(tasks)),
		ProcessedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Task finds a task by its extraction id. The returned pointer aliases the
// meeting's slice so callers can mutate the task in place before rewriting
// the whole record.
func (m *Meeting) Task(id string) (*Task, bool) {
	for i := range m.Tasks {
		if m.Tasks[i].ID == id {
			return &m.Tasks[i], true
		}
	}
	return nil, false
}

// IsOwnedBy reports whether the given user created this meeting
func (m *Meeting) IsOwnedBy(userID uuid.UUID) bool {
	return m.OwnerID == userID
}
