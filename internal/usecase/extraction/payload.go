package extraction

import (
	"encoding/json"

	"github.com/trackteam/action-tracker/internal/domain/entities"
)

// RawTask mirrors one element of the extraction output's tasks array.
// Owner is a pointer so a missing key can be told apart from an empty
// string. The nested collections stay raw until coercion because the
// extraction service occasionally emits them with the wrong shape.
type RawTask struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Owner       *string `json:"owner"`
	Intent      string  `json:"intent"`
	Confidence  string  `json:"confidence"`
	DueDate     *string `json:"due_date"`
	Context     string  `json:"context"`
	SourceLine  *string `json:"source_line"`

	Dependencies   json.RawMessage `json:"dependencies"`
	Comments       json.RawMessage `json:"comments"`
	ChangeRequests json.RawMessage `json:"change_requests"`

	Status string `json:"status"`
}

// rawEnvelope is the top-level extraction output. Summary is parsed but
// never used; counts are always recomputed from the normalized tasks.
type rawEnvelope struct {
	Tasks   json.RawMessage `json:"tasks"`
	Summary json.RawMessage `json:"summary"`
}

// NormalizedPayload is the result of normalizing an extraction output
// against a transcript and a directory snapshot.
type NormalizedPayload struct {
	Tasks   []entities.Task
	Summary entities.MeetingSummary
}
