package meeting

import (
	"strings"

	errs "github.com/trackteam/action-tracker/errors"
	"github.com/trackteam/action-tracker/internal/domain/entities"
)

// Operation names an action an actor can attempt on a meeting or one of its
// tasks. The name doubles as the operation string in denial responses.
type Operation string

const (
	OpReadMeeting          Operation = "read meeting"
	OpDeleteMeeting        Operation = "delete meeting"
	OpUpdateTask           Operation = "update task"
	OpAddComment           Operation = "add comment"
	OpAddChangeRequest     Operation = "add change request"
	OpResolveChangeRequest Operation = "resolve change request"
	OpExportMeeting        Operation = "export meeting"
	OpShareMeeting         Operation = "share meeting"
	OpEmailMeeting         Operation = "email meeting"
)

// Authorize applies the ownership rules for an operation. task may be nil
// for meeting-level operations. A nil return means allowed; otherwise the
// error carries the denied operation and the owner/actor mismatch.
//
// Task ownership is established by canonical id when the task carries one,
// with a legacy fallback for records written before canonical ids existed:
// the actor's display name or email equals the task's owner string,
// case-insensitively. Both paths are authoritative; the fallback also
// applies when an id is present but does not match, since older records can
// hold a stale id after a re-registration.
func Authorize(m *entities.Meeting, task *entities.Task, actor *entities.User, op Operation) error {
	switch op {
	case OpReadMeeting:
		if m.IsOwnedBy(actor.ID) || hasTaskOwnedBy(m, actor) {
			return nil
		}

	case OpDeleteMeeting:
		if m.IsOwnedBy(actor.ID) || actor.IsAdmin() {
			return nil
		}

	case OpUpdateTask:
		if task != nil && actorOwnsTask(task, actor) {
			return nil
		}

	case OpAddComment, OpAddChangeRequest:
		// Any authenticated actor may comment or request a change.
		return nil

	case OpResolveChangeRequest:
		if m.IsOwnedBy(actor.ID) {
			return nil
		}
		if task != nil && actorOwnsTask(task, actor) {
			return nil
		}

	case OpExportMeeting, OpShareMeeting:
		if m.IsOwnedBy(actor.ID) {
			return nil
		}

	case OpEmailMeeting:
		if m.IsOwnedBy(actor.ID) || actor.IsAdmin() {
			return nil
		}
	}

	recordOwner := m.OwnerName
	if task != nil {
		recordOwner = task.Owner
	}
	return errs.ErrOperationDenied(string(op), recordOwner, actor.Name)
}

// actorOwnsTask checks canonical id first, then the legacy name/email
// fallback against the task's display owner string.
func actorOwnsTask(task *entities.Task, actor *entities.User) bool {
	if task.OwnerID != nil && *task.OwnerID == actor.ID {
		return true
	}
	return strings.EqualFold(task.Owner, actor.Name) ||
		strings.EqualFold(task.Owner, actor.Email)
}

// hasTaskOwnedBy reports whether any task in the meeting belongs to the
// actor, by id or legacy fallback.
func hasTaskOwnedBy(m *entities.Meeting, actor *entities.User) bool {
	for i := range m.Tasks {
		if actorOwnsTask(&m.Tasks[i], actor) {
			return true
		}
	}
	return false
}
