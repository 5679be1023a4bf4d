package meeting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	errs "github.com/trackteam/action-tracker/errors"
	"github.com/trackteam/action-tracker/internal/domain/entities"
)

type memMeetingRepo struct {
	meetings map[uuid.UUID]*entities.Meeting
}

func newMemMeetingRepo() *memMeetingRepo {
	return &memMeetingRepo{meetings: map[uuid.UUID]*entities.Meeting{}}
}

func (r *memMeetingRepo) Create(ctx context.Context, m *entities.Meeting) error {
	copied := *m
	r.meetings[m.ID] = &copied
	return nil
}

func (r *memMeetingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	m, ok := r.meetings[id]
	if !ok {
		return nil, entities.ErrMeetingNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *memMeetingRepo) List(ctx context.Context) ([]*entities.Meeting, error) {
	out := make([]*entities.Meeting, 0, len(r.meetings))
	for _, m := range r.meetings {
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memMeetingRepo) Update(ctx context.Context, m *entities.Meeting) error {
	copied := *m
	r.meetings[m.ID] = &copied
	return nil
}

func (r *memMeetingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.meetings, id)
	return nil
}

type memUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newMemUserRepo(users ...*entities.User) *memUserRepo {
	r := &memUserRepo{users: map[uuid.UUID]*entities.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(ctx context.Context, u *entities.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}

func (r *memUserRepo) FindByName(ctx context.Context, name string) (*entities.User, error) {
	return nil, entities.ErrUserNotFound
}

func (r *memUserRepo) Snapshot(ctx context.Context) ([]entities.User, error) {
	out := make([]entities.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUserRepo) Update(ctx context.Context, u *entities.User) error {
	r.users[u.ID] = u
	return nil
}

type memShareStore struct {
	tokens map[string]uuid.UUID
}

func newMemShareStore() *memShareStore {
	return &memShareStore{tokens: map[string]uuid.UUID{}}
}

func (s *memShareStore) Save(ctx context.Context, token string, meetingID uuid.UUID, ttl time.Duration) error {
	s.tokens[token] = meetingID
	return nil
}

func (s *memShareStore) Lookup(ctx context.Context, token string) (uuid.UUID, error) {
	id, ok := s.tokens[token]
	if !ok {
		return uuid.Nil, entities.ErrMeetingNotFound
	}
	return id, nil
}

func (s *memShareStore) Revoke(ctx context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

type memMailer struct {
	configured bool
	sentTo     []string
	subject    string
}

func (m *memMailer) Send(to []string, subject, htmlBody, textBody string) error {
	m.sentTo = to
	m.subject = subject
	return nil
}

func (m *memMailer) IsConfigured() bool { return m.configured }

type fixture struct {
	svc         Service
	meetingRepo *memMeetingRepo
	shareStore  *memShareStore
	mailer      *memMailer

	owner     *entities.User
	taskOwner *entities.User
	stranger  *entities.User
	meeting   *entities.Meeting
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	owner := entities.NewUser("sarah@company.com", "Sarah Kim", entities.RolePM)
	taskOwner := entities.NewUser("john@company.com", "John Smith", entities.RoleEngineer)
	stranger := entities.NewUser("mark@company.com", "Mark Jones", entities.RoleSales)

	id := taskOwner.ID
	pending := entities.NewChangeRequest(stranger, "please extend the deadline")
	m := entities.NewMeeting("Weekly Sync", "transcript text", owner,
		[]entities.Task{
			{
				ID: "t1", Description: "Update deployment scripts", Owner: "John Smith", OwnerID: &id,
				Intent: entities.IntentAction, Confidence: entities.ConfidenceHigh, Status: entities.TaskStatusTodo,
				Dependencies: []string{}, Comments: []entities.Comment{},
				ChangeRequests: []entities.ChangeRequest{pending},
			},
			{
				ID: "t2", Description: "Use Postgres for storage", Owner: entities.UnassignedOwner,
				Intent: entities.IntentDecision, Confidence: entities.ConfidenceMedium, Status: entities.TaskStatusTodo,
				Dependencies: []string{}, Comments: []entities.Comment{}, ChangeRequests: []entities.ChangeRequest{},
			},
		})

	meetingRepo := newMemMeetingRepo()
	if err := meetingRepo.Create(context.Background(), m); err != nil {
		t.Fatal(err)
	}
	userRepo := newMemUserRepo(owner, taskOwner, stranger)
	shareStore := newMemShareStore()
	mailer := &memMailer{configured: true}

	return &fixture{
		svc:         NewService(meetingRepo, userRepo, shareStore, mailer, zap.NewNop()),
		meetingRepo: meetingRepo,
		shareStore:  shareStore,
		mailer:      mailer,
		owner:       owner,
		taskOwner:   taskOwner,
		stranger:    stranger,
		meeting:     m,
	}
}

func TestGetMeetingAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.GetMeeting(ctx, f.meeting.ID, f.owner); err != nil {
		t.Errorf("owner denied: %v", err)
	}
	if _, err := f.svc.GetMeeting(ctx, f.meeting.ID, f.taskOwner); err != nil {
		t.Errorf("task owner denied: %v", err)
	}
	if _, err := f.svc.GetMeeting(ctx, f.meeting.ID, f.stranger); err == nil {
		t.Error("stranger allowed")
	}
	if _, err := f.svc.GetMeeting(ctx, uuid.New(), f.owner); err == nil {
		t.Error("expected not found for unknown id")
	}
}

func TestListMeetingsFiltersByVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	visible, err := f.svc.ListMeetings(ctx, f.taskOwner)
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 1 {
		t.Errorf("task owner sees %d meetings, want 1", len(visible))
	}

	visible, err = f.svc.ListMeetings(ctx, f.stranger)
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 0 {
		t.Errorf("stranger sees %d meetings, want 0", len(visible))
	}
}

func TestUpdateTaskOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status := entities.TaskStatusComplete
	task, err := f.svc.UpdateTask(ctx, f.meeting.ID, "t1", f.taskOwner, TaskPatch{Status: &status})
	if err != nil {
		t.Fatalf("task owner denied update: %v", err)
	}
	if task.Status != entities.TaskStatusComplete {
		t.Errorf("status = %q, want complete", task.Status)
	}

	stored, _ := f.meetingRepo.FindByID(ctx, f.meeting.ID)
	got, _ := stored.Task("t1")
	if got.Status != entities.TaskStatusComplete {
		t.Error("update was not persisted")
	}

	// Neither the meeting owner nor a stranger may update someone
	// else's task.
	if _, err := f.svc.UpdateTask(ctx, f.meeting.ID, "t1", f.owner, TaskPatch{Status: &status}); err == nil {
		t.Error("meeting owner allowed to update task")
	}
	if _, err := f.svc.UpdateTask(ctx, f.meeting.ID, "t1", f.stranger, TaskPatch{Status: &status}); err == nil {
		t.Error("stranger allowed to update task")
	}

	bad := entities.TaskStatus("done")
	if _, err := f.svc.UpdateTask(ctx, f.meeting.ID, "t1", f.taskOwner, TaskPatch{Status: &bad}); err == nil {
		t.Error("invalid status accepted")
	}
	if _, err := f.svc.UpdateTask(ctx, f.meeting.ID, "missing", f.taskOwner, TaskPatch{Status: &status}); err == nil {
		t.Error("expected not found for unknown task")
	}
}

func TestAddCommentAppends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	comment, err := f.svc.AddComment(ctx, f.meeting.ID, "t1", f.stranger, "looks risky")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if comment.AuthorName != "Mark Jones" {
		t.Errorf("author = %q", comment.AuthorName)
	}

	stored, _ := f.meetingRepo.FindByID(ctx, f.meeting.ID)
	task, _ := stored.Task("t1")
	if len(task.Comments) != 1 || task.Comments[0].Text != "looks risky" {
		t.Errorf("comments = %+v, want the new comment persisted", task.Comments)
	}

	if _, err := f.svc.AddComment(ctx, f.meeting.ID, "t1", f.stranger, "   "); err == nil {
		t.Error("empty comment accepted")
	}
}

func TestChangeRequestLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cr, err := f.svc.AddChangeRequest(ctx, f.meeting.ID, "t2", f.stranger, "reconsider the choice")
	if err != nil {
		t.Fatalf("AddChangeRequest failed: %v", err)
	}
	if cr.Status != entities.ChangeRequestPending {
		t.Errorf("status = %q, want pending", cr.Status)
	}

	// The pre-seeded request on t1 can be approved by the meeting owner.
	pendingID := f.meeting.Tasks[0].ChangeRequests[0].ID
	decided, err := f.svc.SetChangeRequestStatus(ctx, f.meeting.ID, "t1", pendingID, f.owner, entities.ChangeRequestApproved)
	if err != nil {
		t.Fatalf("meeting owner denied approval: %v", err)
	}
	if decided.Status != entities.ChangeRequestApproved {
		t.Errorf("status = %q, want approved", decided.Status)
	}

	// Approved is terminal; a second transition is a validation error.
	if _, err := f.svc.SetChangeRequestStatus(ctx, f.meeting.ID, "t1", pendingID, f.owner, entities.ChangeRequestRejected); err == nil {
		t.Error("terminal change request transitioned again")
	}
}

func TestSetChangeRequestStatusValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pendingID := f.meeting.Tasks[0].ChangeRequests[0].ID

	if _, err := f.svc.SetChangeRequestStatus(ctx, f.meeting.ID, "t1", pendingID, f.owner, entities.ChangeRequestStatus("maybe")); err == nil {
		t.Error("invalid status accepted")
	}
	if _, err := f.svc.SetChangeRequestStatus(ctx, f.meeting.ID, "t1", pendingID, f.stranger, entities.ChangeRequestApproved); err == nil {
		t.Error("stranger allowed to decide change request")
	}
	if _, err := f.svc.SetChangeRequestStatus(ctx, f.meeting.ID, "t1", uuid.New(), f.owner, entities.ChangeRequestApproved); err == nil {
		t.Error("expected not found for unknown request id")
	}

	// Task owner may also decide.
	if _, err := f.svc.SetChangeRequestStatus(ctx, f.meeting.ID, "t1", pendingID, f.taskOwner, entities.ChangeRequestRejected); err != nil {
		t.Errorf("task owner denied decision: %v", err)
	}
}

func TestShareAndGetShared(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Share(ctx, f.meeting.ID, f.stranger); err == nil {
		t.Error("stranger allowed to share")
	}

	link, err := f.svc.Share(ctx, f.meeting.ID, f.owner)
	if err != nil {
		t.Fatalf("Share failed: %v", err)
	}
	if link.Token == "" || link.ShareURL != "/share/"+link.Token {
		t.Errorf("unexpected link %+v", link)
	}

	shared, err := f.svc.GetShared(ctx, link.Token)
	if err != nil {
		t.Fatalf("GetShared failed: %v", err)
	}
	if shared.ID != f.meeting.ID {
		t.Errorf("shared meeting = %v, want %v", shared.ID, f.meeting.ID)
	}

	if _, err := f.svc.GetShared(ctx, "bogus"); err == nil {
		t.Error("expected not found for unknown token")
	}
}

func TestDeleteMeetingRevokesShareToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	link, err := f.svc.Share(ctx, f.meeting.ID, f.owner)
	if err != nil {
		t.Fatal(err)
	}

	if err := f.svc.DeleteMeeting(ctx, f.meeting.ID, f.stranger); err == nil {
		t.Error("stranger allowed to delete")
	}
	if err := f.svc.DeleteMeeting(ctx, f.meeting.ID, f.owner); err != nil {
		t.Fatalf("DeleteMeeting failed: %v", err)
	}
	if _, ok := f.shareStore.tokens[link.Token]; ok {
		t.Error("share token not revoked on delete")
	}
	if _, err := f.svc.GetMeeting(ctx, f.meeting.ID, f.owner); err == nil {
		t.Error("meeting still readable after delete")
	}
}

func TestSendEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sent, err := f.svc.SendEmail(ctx, f.meeting.ID, f.owner, []string{"team@company.com"}, "full")
	if err != nil {
		t.Fatalf("SendEmail failed: %v", err)
	}
	if len(sent) != 1 || f.mailer.sentTo[0] != "team@company.com" {
		t.Errorf("sent to %v", f.mailer.sentTo)
	}
	if f.mailer.subject != "Meeting Summary: Weekly Sync" {
		t.Errorf("subject = %q", f.mailer.subject)
	}

	if _, err := f.svc.SendEmail(ctx, f.meeting.ID, f.stranger, []string{"team@company.com"}, "full"); err == nil {
		t.Error("stranger allowed to send email")
	}
	if _, err := f.svc.SendEmail(ctx, f.meeting.ID, f.owner, nil, "full"); err == nil {
		t.Error("empty recipients accepted")
	}
	if _, err := f.svc.SendEmail(ctx, f.meeting.ID, f.owner, []string{"x@y.com"}, "digest"); err == nil {
		t.Error("invalid email type accepted")
	}

	f.mailer.configured = false
	_, err = f.svc.SendEmail(ctx, f.meeting.ID, f.owner, []string{"x@y.com"}, "summary")
	appErr, ok := err.(errs.AppError)
	if !ok || appErr.Code != errs.ErrorCode_EMAIL_NOT_CONFIGURED {
		t.Errorf("err = %v, want email-not-configured", err)
	}
}

func TestExportFormats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.svc.Export(ctx, f.meeting.ID, f.owner, "decisions", "")
	if err != nil {
		t.Fatalf("Export decisions failed: %v", err)
	}
	dec, ok := out.(*DecisionsExport)
	if !ok || len(dec.Decisions) != 1 || dec.Decisions[0].ID != "t2" {
		t.Errorf("decisions export = %+v", out)
	}

	out, err = f.svc.Export(ctx, f.meeting.ID, f.owner, "owner", "John Smith")
	if err != nil {
		t.Fatalf("Export owner failed: %v", err)
	}
	own, ok := out.(*OwnerExport)
	if !ok || own.Count != 1 || own.Actions[0].ID != "t1" {
		t.Errorf("owner export = %+v", out)
	}

	if _, err := f.svc.Export(ctx, f.meeting.ID, f.owner, "owner", ""); err == nil {
		t.Error("owner export without filter accepted")
	}

	out, err = f.svc.Export(ctx, f.meeting.ID, f.owner, "full", "")
	if err != nil {
		t.Fatalf("Export full failed: %v", err)
	}
	if _, ok := out.(*entities.Meeting); !ok {
		t.Errorf("full export type %T", out)
	}

	if _, err := f.svc.Export(ctx, f.meeting.ID, f.taskOwner, "full", ""); err == nil {
		t.Error("non-owner allowed to export")
	}
}

func TestUserTasksAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.UserTasks(ctx, f.taskOwner.ID, f.taskOwner)
	if err != nil {
		t.Fatalf("UserTasks failed: %v", err)
	}
	if res.Count != 1 || res.Tasks[0].ID != "t1" {
		t.Errorf("tasks = %+v", res.Tasks)
	}
	if res.Tasks[0].MeetingTitle != "Weekly Sync" {
		t.Errorf("meeting title = %q", res.Tasks[0].MeetingTitle)
	}

	if _, err := f.svc.UserTasks(ctx, f.taskOwner.ID, f.stranger); err == nil {
		t.Error("non-admin allowed to view another user's tasks")
	}

	admin := entities.NewUser("tom@company.com", "Tom Harris", entities.RoleAdmin)
	if _, err := f.svc.UserTasks(ctx, f.taskOwner.ID, admin); err != nil {
		t.Errorf("admin denied: %v", err)
	}
}

func TestMetricsAndCalendar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	due := "2026-09-01"
	f.meeting.Tasks[0].DueDate = &due
	if err := f.meetingRepo.Update(ctx, f.meeting); err != nil {
		t.Fatal(err)
	}

	metrics, err := f.svc.Metrics(ctx, f.owner)
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	if metrics.TotalTasks != 1 || metrics.ActionsCount != 1 || metrics.DecisionsCount != 1 {
		t.Errorf("metrics = %+v", metrics)
	}
	if metrics.TodoTasks != 1 || metrics.CompletionRate != 0 {
		t.Errorf("completion metrics = %+v", metrics)
	}

	cal, err := f.svc.Calendar(ctx, f.owner)
	if err != nil {
		t.Fatalf("Calendar failed: %v", err)
	}
	// One meeting event plus one dated action.
	if cal.Count != 2 {
		t.Errorf("calendar events = %+v", cal.Events)
	}

	empty, err := f.svc.Calendar(ctx, f.stranger)
	if err != nil {
		t.Fatal(err)
	}
	if empty.Count != 0 {
		t.Errorf("stranger calendar = %+v", empty.Events)
	}
}
