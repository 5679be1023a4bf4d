package extraction

import (
	"encoding/json"
	"strings"

	errs "github.com/trackteam/action-tracker/errors"
	"github.com/trackteam/action-tracker/internal/domain/entities"
	"github.com/trackteam/action-tracker/internal/usecase/resolver"
)

// Normalize validates a raw extraction output and turns it into a task list
// ready for persistence. Shape violations fail with a payload error naming
// the offending field; everything else is coerced, backfilled, or resolved.
//
// Normalizing an already-normalized payload is a no-op: every field is
// either carried through unchanged or recomputed to the same value.
func Normalize(raw []byte, transcript string, directory []entities.User) (*NormalizedPayload, error) {
	var envelope rawEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errs.ErrInvalidPayload().WithDetail("field", "root").WithDetail("reason", "not a JSON object")
	}
	if len(envelope.Tasks) == 0 {
		return nil, errs.ErrInvalidPayload().WithDetail("field", "tasks").WithDetail("reason", "missing")
	}

	var rawTasks []RawTask
	if err := json.Unmarshal(envelope.Tasks, &rawTasks); err != nil {
		return nil, errs.ErrInvalidPayload().WithDetail("field", "tasks").WithDetail("reason", "not an array")
	}

	tasks := make([]entities.Task, 0, len(rawTasks))
	for i := range rawTasks {
		task, err := normalizeTask(&rawTasks[i], transcript, directory)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return &NormalizedPayload{
		Tasks:   tasks,
		Summary: entities.ComputeSummary(tasks),
	}, nil
}

func normalizeTask(raw *RawTask, transcript string, directory []entities.User) (entities.Task, error) {
	if raw.ID == "" {
		return entities.Task{}, errs.ErrInvalidPayload().WithDetail("field", "id").WithDetail("reason", "missing")
	}
	if raw.Description == "" {
		return entities.Task{}, errs.ErrInvalidPayload().WithDetail("field", "description").WithDetail("task_id", raw.ID)
	}
	if raw.Owner == nil {
		return entities.Task{}, errs.ErrInvalidPayload().WithDetail("field", "owner").WithDetail("task_id", raw.ID)
	}
	intent := entities.TaskIntent(raw.Intent)
	if !intent.IsValid() {
		return entities.Task{}, errs.ErrInvalidPayload().WithDetail("field", "intent").WithDetail("task_id", raw.ID)
	}
	confidence := entities.TaskConfidence(raw.Confidence)
	if !confidence.IsValid() {
		return entities.Task{}, errs.ErrInvalidPayload().WithDetail("field", "confidence").WithDetail("task_id", raw.ID)
	}

	task := entities.Task{
		ID:          raw.ID,
		Description: raw.Description,
		Owner:       *raw.Owner,
		Intent:      intent,
		Confidence:  confidence,
		DueDate:     raw.DueDate,
	}

	if raw.SourceLine != nil {
		task.SourceLine = *raw.SourceLine
	} else {
		task.SourceLine = backfillSourceLine(raw.Description, transcript)
	}

	if user, ok := resolver.Resolve(task.Owner, transcript, directory); ok {
		id := user.ID
		task.Owner = user.Name
		task.OwnerID = &id
	}

	task.Status = entities.TaskStatus(raw.Status)
	if !task.Status.IsValid() {
		task.Status = entities.TaskStatusTodo
	}

	task.Dependencies = coerceSlice[string](raw.Dependencies)
	task.Comments = coerceSlice[entities.Comment](raw.Comments)
	task.ChangeRequests = coerceSlice[entities.ChangeRequest](raw.ChangeRequests)

	return task, nil
}

// coerceSlice decodes a nested collection, falling back to an empty slice
// when the field is absent or has the wrong shape. Wrong shapes are not an
// error; the extraction service is not trusted to get them right.
func coerceSlice[T any](raw json.RawMessage) []T {
	out := []T{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return []T{}
	}
	if out == nil {
		return []T{}
	}
	return out
}

// backfillSourceLine finds a plausible transcript line for a task whose
// extraction output omitted source_line. The first line containing either
// the first 50 characters of the description or any of its first five words
// wins. Best effort only; an empty string means nothing matched.
func backfillSourceLine(description, transcript string) string {
	desc := strings.ToLower(description)
	prefix := desc
	if len(prefix) > 50 {
		prefix = prefix[:50]
	}

	words := strings.Fields(desc)
	if len(words) > 5 {
		words = words[:5]
	}

	for _, line := range strings.Split(transcript, "\n") {
		lower := strings.ToLower(line)
		if prefix != "" && strings.Contains(lower, prefix) {
			return strings.TrimSpace(line)
		}
		for _, w := range words {
			if strings.Contains(lower, w) {
				return strings.TrimSpace(line)
			}
		}
	}
	return ""
}
