package extraction

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	errs "github.com/trackteam/action-tracker/errors"
	"github.com/trackteam/action-tracker/internal/domain/entities"
)

var testDirectory = []entities.User{
	{ID: uuid.New(), Name: "John Smith", Email: "john.smith@company.com", Role: entities.RoleEngineer},
	{ID: uuid.New(), Name: "Jane Lee", Email: "jane@company.com", Role: entities.RolePM},
}

const testTranscript = `Sarah: Let's review the launch plan.
John Smith: I will update the deployment scripts by Friday.
Jane Lee: I can draft the announcement email.`

func TestNormalizeResolvesOwner(t *testing.T) {
	raw := []byte(`{"tasks": [{
		"id": "t1",
		"description": "Update the deployment scripts",
		"owner": "john smith",
		"intent": "ACTION",
		"confidence": "HIGH"
	}]}`)

	got, err := Normalize(raw, testTranscript, testDirectory)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(got.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(got.Tasks))
	}

	task := got.Tasks[0]
	if task.Owner != "John Smith" {
		t.Errorf("owner = %q, want canonical name", task.Owner)
	}
	if task.OwnerID == nil || *task.OwnerID != testDirectory[0].ID {
		t.Errorf("owner_id = %v, want John Smith's id", task.OwnerID)
	}
}

func TestNormalizeKeepsUnresolvedOwnerLiteral(t *testing.T) {
	raw := []byte(`{"tasks": [{
		"id": "t1",
		"description": "Check the budget",
		"owner": "Bob",
		"intent": "ACTION",
		"confidence": "LOW"
	}]}`)

	got, err := Normalize(raw, testTranscript, testDirectory)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	task := got.Tasks[0]
	if task.Owner != "Bob" {
		t.Errorf("owner = %q, want literal kept", task.Owner)
	}
	if task.OwnerID != nil {
		t.Errorf("owner_id = %v, want nil", task.OwnerID)
	}
}

func TestNormalizeBackfillsSourceLine(t *testing.T) {
	raw := []byte(`{"tasks": [{
		"id": "t1",
		"description": "update the deployment scripts by Friday",
		"owner": "John Smith",
		"intent": "ACTION",
		"confidence": "HIGH"
	}]}`)

	got, err := Normalize(raw, testTranscript, testDirectory)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	want := "John Smith: I will update the deployment scripts by Friday."
	if got.Tasks[0].SourceLine != want {
		t.Errorf("source_line = %q, want %q", got.Tasks[0].SourceLine, want)
	}
}

func TestNormalizeKeepsProvidedSourceLine(t *testing.T) {
	raw := []byte(`{"tasks": [{
		"id": "t1",
		"description": "Update the deployment scripts",
		"owner": "John Smith",
		"intent": "ACTION",
		"confidence": "HIGH",
		"source_line": "verbatim line from upstream"
	}]}`)

	got, err := Normalize(raw, testTranscript, testDirectory)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got.Tasks[0].SourceLine != "verbatim line from upstream" {
		t.Errorf("source_line = %q, want upstream value kept", got.Tasks[0].SourceLine)
	}
}

func TestNormalizeCoercesCollections(t *testing.T) {
	raw := []byte(`{"tasks": [{
		"id": "t1",
		"description": "Update the deployment scripts",
		"owner": "John Smith",
		"intent": "ACTION",
		"confidence": "HIGH",
		"dependencies": "not-an-array",
		"comments": 42
	}]}`)

	got, err := Normalize(raw, testTranscript, testDirectory)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	task := got.Tasks[0]
	if task.Dependencies == nil || len(task.Dependencies) != 0 {
		t.Errorf("dependencies = %v, want empty slice", task.Dependencies)
	}
	if task.Comments == nil || len(task.Comments) != 0 {
		t.Errorf("comments = %v, want empty slice", task.Comments)
	}
	if task.ChangeRequests == nil || len(task.ChangeRequests) != 0 {
		t.Errorf("change_requests = %v, want empty slice", task.ChangeRequests)
	}
}

func TestNormalizeRecomputesSummary(t *testing.T) {
	// Upstream summary lies; the computed counts must win.
	raw := []byte(`{
		"summary": {"total_actions": 99, "total_decisions": 99, "total_blockers": 99, "unassigned_actions": 99},
		"tasks": [
			{"id": "t1", "description": "Ship it", "owner": "John Smith", "intent": "ACTION", "confidence": "HIGH"},
			{"id": "t2", "description": "Use Postgres", "owner": "UNASSIGNED", "intent": "DECISION", "confidence": "MEDIUM"},
			{"id": "t3", "description": "Waiting on legal", "owner": "UNASSIGNED", "intent": "BLOCKER", "confidence": "HIGH"},
			{"id": "t4", "description": "Draft the follow-up", "owner": "UNASSIGNED", "intent": "ACTION", "confidence": "LOW"}
		]
	}`)

	got, err := Normalize(raw, "", testDirectory)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	want := entities.MeetingSummary{TotalActions: 2, TotalDecisions: 1, TotalBlockers: 1, UnassignedActions: 3}
	if got.Summary != want {
		t.Errorf("summary = %+v, want %+v", got.Summary, want)
	}
}

func TestNormalizeRejectsMalformedShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `not json at all`},
		{"missing tasks", `{"summary": {}}`},
		{"tasks not array", `{"tasks": {"id": "t1"}}`},
		{"missing id", `{"tasks": [{"description": "x", "owner": "a", "intent": "ACTION", "confidence": "HIGH"}]}`},
		{"missing description", `{"tasks": [{"id": "t1", "owner": "a", "intent": "ACTION", "confidence": "HIGH"}]}`},
		{"missing owner", `{"tasks": [{"id": "t1", "description": "x", "intent": "ACTION", "confidence": "HIGH"}]}`},
		{"bad intent", `{"tasks": [{"id": "t1", "description": "x", "owner": "a", "intent": "CHORE", "confidence": "HIGH"}]}`},
		{"bad confidence", `{"tasks": [{"id": "t1", "description": "x", "owner": "a", "intent": "ACTION", "confidence": "MAYBE"}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize([]byte(tc.raw), "", testDirectory)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			appErr, ok := err.(errs.AppError)
			if !ok {
				t.Fatalf("error type %T, want AppError", err)
			}
			if appErr.Code != errs.ErrorCode_INVALID_PAYLOAD {
				t.Errorf("code = %v, want INVALID_PAYLOAD", appErr.Code)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := []byte(`{"tasks": [{
		"id": "t1",
		"description": "Update the deployment scripts",
		"owner": "John Smith",
		"intent": "ACTION",
		"confidence": "HIGH",
		"status": "in_progress",
		"source_line": "John Smith: I will update the deployment scripts by Friday.",
		"dependencies": [],
		"comments": [],
		"change_requests": []
	}]}`)

	first, err := Normalize(raw, testTranscript, testDirectory)
	if err != nil {
		t.Fatalf("first Normalize failed: %v", err)
	}

	// Re-encode the normalized tasks and feed them through again.
	encoded, err := json.Marshal(map[string]interface{}{"tasks": first.Tasks})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	second, err := Normalize(encoded, testTranscript, testDirectory)
	if err != nil {
		t.Fatalf("second Normalize failed: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("normalization not idempotent:\nfirst:  %s\nsecond: %s", a, b)
	}
}

func TestExtractJSONStripsFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"tasks\": []}\n```": `{"tasks": []}`,
		"```\n{\"tasks\": []}\n```":     `{"tasks": []}`,
		`{"tasks": []}`:                 `{"tasks": []}`,
	}
	for in, want := range cases {
		if got := extractJSON(in); got != want {
			t.Errorf("extractJSON(%q) = %q, want %q", in, got, want)
		}
	}
}
