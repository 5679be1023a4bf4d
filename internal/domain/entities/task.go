package entities

import (
	"time"

	"github.com/google/uuid"
)

// TaskIntent categorizes what kind of commitment a task represents
type TaskIntent string

const (
	IntentAction   TaskIntent = "ACTION"
	IntentDecision TaskIntent = "DECISION"
	IntentBlocker  TaskIntent = "BLOCKER"
)

// IsValid checks if the intent is one of the extraction enum values
func (i TaskIntent) IsValid() bool {
	switch i {
	case IntentAction, IntentDecision, IntentBlocker:
		return true
	}
	return false
}

// TaskConfidence is the extraction service's confidence in the task/owner pair
type TaskConfidence string

const (
	ConfidenceHigh   TaskConfidence = "HIGH"
	ConfidenceMedium TaskConfidence = "MEDIUM"
	ConfidenceLow    TaskConfidence = "LOW"
)

// IsValid checks if the confidence is one of the extraction enum values
func (c TaskConfidence) IsValid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// TaskStatus is the kanban-style progress state of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusComplete   TaskStatus = "complete"
)

// IsValid checks if the task status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusComplete:
		return true
	}
	return false
}

// ChangeRequestStatus is the lifecycle state of a change request
type ChangeRequestStatus string

const (
	ChangeRequestPending  ChangeRequestStatus = "pending"
	ChangeRequestApproved ChangeRequestStatus = "approved"
	ChangeRequestRejected ChangeRequestStatus = "rejected"
)

// IsTerminal reports whether the status is a final decision. Approved and
// rejected requests cannot transition again.
func (s ChangeRequestStatus) IsTerminal() bool {
	return s == ChangeRequestApproved || s == ChangeRequestRejected
}

// Comment is a discussion entry on a task. Comments are append-only.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewComment creates a comment authored by the given user
func NewComment(author *User, text string) Comment {
	return Comment{
		ID:         uuid.New(),
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Text:       text,
		CreatedAt:  time.Now(),
	}
}

// ChangeRequest is a proposal to alter a task, decided by the task owner or
// the meeting owner.
type ChangeRequest struct {
	ID            uuid.UUID           `json:"id"`
	RequesterID   uuid.UUID           `json:"requester_id"`
	RequesterName string              `json:"requester_name"`
	Request       string              `json:"request"`
	Status        ChangeRequestStatus `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
}

// NewChangeRequest creates a pending change request
func NewChangeRequest(requester *User, text string) ChangeRequest {
	return ChangeRequest{
		ID:            uuid.New(),
		RequesterID:   requester.ID,
		RequesterName: requester.Name,
		Request:       text,
		Status:        ChangeRequestPending,
		CreatedAt:     time.Now(),
	}
}

// UnassignedOwner is the literal the extraction service emits when no owner
// could be identified for a task.
const UnassignedOwner = "UNASSIGNED"

// Task is a single extracted action, decision, or blocker. Task ids come
// from the extraction output and are scoped to the meeting, not globally
// unique. Owner holds the display string; OwnerID is the canonical identity
// when resolution succeeded and nil otherwise.
type Task struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Owner       string         `json:"owner"`
	OwnerID     *uuid.UUID     `json:"owner_id"`
	Intent      TaskIntent     `json:"intent"`
	Confidence  TaskConfidence `json:"confidence"`
	Status      TaskStatus     `json:"status"`
	DueDate     *string        `json:"due_date,omitempty"`
	SourceLine  string         `json:"source_line"`

	Dependencies   []string        `json:"dependencies"`
	Comments       []Comment       `json:"comments"`
	ChangeRequests []ChangeRequest `json:"change_requests"`
}

// IsAssigned reports whether the task carries a canonical owner
func (t *Task) IsAssigned() bool {
	return t.OwnerID != nil
}

// ChangeRequest finds a change request by id. The returned pointer aliases
// the task's slice so callers can mutate the request in place.
func (t *Task) ChangeRequest(id uuid.UUID) (*ChangeRequest, bool) {
	for i := range t.ChangeRequests {
		if t.ChangeRequests[i].ID == id {
			return &t.ChangeRequests[i], true
		}
	}
	return nil, false
}
