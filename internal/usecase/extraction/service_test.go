package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trackteam/action-tracker/internal/domain/entities"
)

type fakeUserRepo struct {
	users []entities.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entities.User) error { return nil }
func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}
func (f *fakeUserRepo) FindByName(ctx context.Context, name string) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}
func (f *fakeUserRepo) Snapshot(ctx context.Context) ([]entities.User, error) {
	return f.users, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, user *entities.User) error { return nil }

type fakeMeetingRepo struct {
	created *entities.Meeting
}

func (f *fakeMeetingRepo) Create(ctx context.Context, m *entities.Meeting) error {
	f.created = m
	return nil
}
func (f *fakeMeetingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	return nil, entities.ErrMeetingNotFound
}
func (f *fakeMeetingRepo) List(ctx context.Context) ([]*entities.Meeting, error) { return nil, nil }
func (f *fakeMeetingRepo) Update(ctx context.Context, m *entities.Meeting) error { return nil }
func (f *fakeMeetingRepo) Delete(ctx context.Context, id uuid.UUID) error        { return nil }

type fakeCompleter struct {
	content string
	err     error
	calls   int
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func TestProcessTranscriptCreatesMeeting(t *testing.T) {
	owner := entities.NewUser("sarah@company.com", "Sarah Kim", entities.RolePM)
	userRepo := &fakeUserRepo{users: []entities.User{*owner}}
	meetingRepo := &fakeMeetingRepo{}
	completer := &fakeCompleter{content: "```json\n" + `{"tasks": [
		{"id": "t1", "description": "Draft the launch email", "owner": "Sarah Kim", "intent": "ACTION", "confidence": "HIGH"}
	]}` + "\n```"}

	svc := NewService(userRepo, meetingRepo, completer, nil, 1, zap.NewNop())

	meeting, err := svc.ProcessTranscript(context.Background(), "Launch Sync", "Sarah Kim: I will draft the launch email.", owner)
	if err != nil {
		t.Fatalf("ProcessTranscript failed: %v", err)
	}

	if meetingRepo.created == nil {
		t.Fatal("meeting was not persisted")
	}
	if meeting.OwnerID != owner.ID {
		t.Errorf("meeting owner = %v, want the caller", meeting.OwnerID)
	}
	if len(meeting.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(meeting.Tasks))
	}
	if meeting.Tasks[0].OwnerID == nil || *meeting.Tasks[0].OwnerID != owner.ID {
		t.Errorf("task owner not resolved against directory")
	}
	if got := meeting.Summary.Data(); got.TotalActions != 1 {
		t.Errorf("summary = %+v, want 1 action", got)
	}
}

func TestProcessTranscriptRejectsEmptyTranscript(t *testing.T) {
	owner := entities.NewUser("sarah@company.com", "Sarah Kim", entities.RolePM)
	svc := NewService(&fakeUserRepo{}, &fakeMeetingRepo{}, &fakeCompleter{}, nil, 1, zap.NewNop())

	if _, err := svc.ProcessTranscript(context.Background(), "x", "   ", owner); err == nil {
		t.Fatal("expected an error for empty transcript")
	}
}

func TestProcessTranscriptSurfacesExtractionFailure(t *testing.T) {
	owner := entities.NewUser("sarah@company.com", "Sarah Kim", entities.RolePM)
	completer := &fakeCompleter{err: errors.New("upstream down")}
	svc := NewService(&fakeUserRepo{}, &fakeMeetingRepo{}, completer, nil, 1, zap.NewNop())

	if _, err := svc.ProcessTranscript(context.Background(), "x", "some transcript", owner); err == nil {
		t.Fatal("expected an error when the extraction service fails")
	}
	if completer.calls < 2 {
		t.Errorf("calls = %d, want at least one retry", completer.calls)
	}
}

func TestProcessTranscriptRejectsMalformedOutput(t *testing.T) {
	owner := entities.NewUser("sarah@company.com", "Sarah Kim", entities.RolePM)
	completer := &fakeCompleter{content: `{"wrong": true}`}
	svc := NewService(&fakeUserRepo{}, &fakeMeetingRepo{}, completer, nil, 1, zap.NewNop())

	if _, err := svc.ProcessTranscript(context.Background(), "x", "some transcript", owner); err == nil {
		t.Fatal("expected an error for malformed extraction output")
	}
}
