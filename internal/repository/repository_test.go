package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/teamoff/offdays/internal/apperrors"
	"github.com/teamoff/offdays/internal/codec"
	"github.com/teamoff/offdays/internal/domain"
	"github.com/teamoff/offdays/internal/logger"
	"github.com/teamoff/offdays/internal/tracker"
)

// fakeTracker is an in-memory tracker.Client backed by a map of issues.
type fakeTracker struct {
	issues     map[int]*tracker.Issue
	nextNumber int
	files      map[string][]byte
	login      string
	listErr    error
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		issues:     make(map[int]*tracker.Issue),
		nextNumber: 1,
		files:      make(map[string][]byte),
		login:      "janedoe",
	}
}

func (f *fakeTracker) ListOpenIssues(ctx context.Context) ([]tracker.Issue, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []tracker.Issue
	for _, is := range f.issues {
		if is.State == "open" {
			out = append(out, *is)
		}
	}
	return out, nil
}

func (f *fakeTracker) GetIssue(ctx context.Context, number int) (*tracker.Issue, error) {
	is, ok := f.issues[number]
	if !ok {
		return nil, nil
	}
	cp := *is
	return &cp, nil
}

func (f *fakeTracker) CreateIssue(ctx context.Context, title, body string, labels []string) (*tracker.Issue, error) {
	is := &tracker.Issue{
		Number:  f.nextNumber,
		Title:   title,
		Body:    body,
		Labels:  labels,
		HTMLURL: fmt.Sprintf("https://example.test/issues/%d", f.nextNumber),
		State:   "open",
	}
	f.issues[is.Number] = is
	f.nextNumber++
	cp := *is
	return &cp, nil
}

func (f *fakeTracker) UpdateIssue(ctx context.Context, number int, changes tracker.Changes) (*tracker.Issue, error) {
	is, ok := f.issues[number]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "issue not found")
	}
	if changes.Title != nil {
		is.Title = *changes.Title
	}
	if changes.Body != nil {
		is.Body = *changes.Body
	}
	if changes.Labels != nil {
		is.Labels = *changes.Labels
	}
	if changes.State != nil {
		is.State = *changes.State
	}
	cp := *is
	return &cp, nil
}

func (f *fakeTracker) GetFileContent(ctx context.Context, path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "file not found")
	}
	return data, nil
}

func (f *fakeTracker) AuthenticatedLogin(ctx context.Context) (string, error) {
	return f.login, nil
}

// fakeClients hands the same fake tracker to reads and writes.
type fakeClients struct {
	t *fakeTracker
}

func (f fakeClients) ForRead(userToken string) (tracker.Client, error)  { return f.t, nil }
func (f fakeClients) ForWrite(userToken string) (tracker.Client, error) { return f.t, nil }

func newTestRepo(ft *fakeTracker) *Repository {
	return New(fakeClients{t: ft}, logger.New("error", false))
}

func seedIssue(t *testing.T, ft *fakeTracker, draft domain.Draft, label string) *tracker.Issue {
	t.Helper()
	body, err := codec.Encode(codec.Fields{
		Name:      draft.Name,
		GithubID:  draft.GithubID,
		Type:      draft.Type,
		StartDate: draft.StartDate,
		EndDate:   draft.EndDate,
		Reason:    draft.Reason,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	is, err := ft.CreateIssue(context.Background(), codec.Title(draft.Name, draft.Type), body, []string{label})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return is
}

func TestListFiltersMonth(t *testing.T) {
	ft := newFakeTracker()
	repo := newTestRepo(ft)

	seedIssue(t, ft, domain.Draft{
		Name: "Jane", GithubID: "janedoe", Type: "annual",
		StartDate: "2026-03-01", EndDate: "2026-03-03",
	}, "vacation/annual")
	seedIssue(t, ft, domain.Draft{
		Name: "Bob", GithubID: "bob", Type: "annual",
		StartDate: "2026-05-10", EndDate: "2026-05-12",
	}, "vacation/annual")

	records, err := repo.List(context.Background(), "", "2026-03")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("List() returned %d records, want 1", len(records))
	}
	if records[0].GithubID != "janedoe" {
		t.Errorf("List() returned the wrong record: %+v", records[0])
	}
}

func TestListSkipsPullRequestsAndForeignIssues(t *testing.T) {
	ft := newFakeTracker()
	repo := newTestRepo(ft)

	in := seedIssue(t, ft, domain.Draft{
		Name: "Jane", GithubID: "janedoe", Type: "annual",
		StartDate: "2026-03-01", EndDate: "2026-03-03",
	}, "vacation/annual")

	// A pull request carrying a vacation label must still be excluded.
	pr := seedIssue(t, ft, domain.Draft{
		Name: "Bot", GithubID: "bot", Type: "annual",
		StartDate: "2026-03-01", EndDate: "2026-03-03",
	}, "vacation/annual")
	ft.issues[pr.Number].PullRequest = true

	// A regular issue without the label namespace is ignored even if its
	// body happens to decode.
	seedIssue(t, ft, domain.Draft{
		Name: "Kim", GithubID: "kim-dev", Type: "annual",
		StartDate: "2026-03-01", EndDate: "2026-03-03",
	}, "bug")

	// An undecodable labeled issue is skipped without failing the query.
	ft.issues[ft.nextNumber] = &tracker.Issue{
		Number: ft.nextNumber,
		Body:   "free-form note, no document",
		Labels: []string{"vacation/annual"},
		State:  "open",
	}
	ft.nextNumber++

	records, err := repo.List(context.Background(), "", "2026-03")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 1 || records[0].ID != in.Number {
		t.Errorf("List() = %+v, want only issue #%d", records, in.Number)
	}
}

func TestGetAbsentAndUndecodable(t *testing.T) {
	ft := newFakeTracker()
	repo := newTestRepo(ft)

	rec, err := repo.Get(context.Background(), "", 404)
	if err != nil || rec != nil {
		t.Errorf("Get(absent) = %+v, %v; want nil, nil", rec, err)
	}

	ft.issues[9] = &tracker.Issue{Number: 9, Body: "not a document", State: "open"}
	rec, err = repo.Get(context.Background(), "", 9)
	if err != nil || rec != nil {
		t.Errorf("Get(undecodable) = %+v, %v; want nil, nil", rec, err)
	}
}

func TestCreateEchoesTrackerState(t *testing.T) {
	ft := newFakeTracker()
	repo := newTestRepo(ft)

	vt := &domain.VacationType{Key: "annual", Label: "연차", LabelName: "vacation/annual"}
	rec, err := repo.Create(context.Background(), "token", domain.Draft{
		Name: "Jane", GithubID: "janedoe", Type: "annual",
		StartDate: "2026-03-01", EndDate: "2026-03-03", Reason: "trip",
	}, vt)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if rec.ID == 0 {
		t.Error("Create() returned a record without a tracker id")
	}
	if rec.State != domain.StateOpen {
		t.Errorf("State = %q, want open", rec.State)
	}
	if rec.Reason != "trip" || rec.StartDate != "2026-03-01" {
		t.Errorf("Create() echo mismatch: %+v", rec)
	}

	stored := ft.issues[rec.ID]
	if !codec.HasVacationLabel(stored.Labels) {
		t.Errorf("created issue labels = %v, missing vacation namespace", stored.Labels)
	}
}

func TestUpdateMergePreservesUntouchedFields(t *testing.T) {
	ft := newFakeTracker()
	repo := newTestRepo(ft)

	is := seedIssue(t, ft, domain.Draft{
		Name: "Jane", GithubID: "janedoe", Type: "annual",
		StartDate: "2026-03-01", EndDate: "2026-03-03", Reason: "trip",
	}, "vacation/annual")

	newEnd := "2026-03-05"
	rec, err := repo.Update(context.Background(), "token", is.Number, domain.Patch{EndDate: &newEnd}, nil)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if rec == nil {
		t.Fatal("Update() returned nil for an existing record")
	}
	if rec.EndDate != "2026-03-05" {
		t.Errorf("EndDate = %q, want updated", rec.EndDate)
	}
	if rec.Name != "Jane" || rec.Reason != "trip" || rec.StartDate != "2026-03-01" {
		t.Errorf("untouched fields changed: %+v", rec)
	}
}

func TestUpdateTypeChangeRewritesTitleAndLabels(t *testing.T) {
	ft := newFakeTracker()
	repo := newTestRepo(ft)

	is := seedIssue(t, ft, domain.Draft{
		Name: "Jane", GithubID: "janedoe", Type: "annual",
		StartDate: "2026-03-01", EndDate: "2026-03-03",
	}, "vacation/annual")

	newType := "sick"
	vt := &domain.VacationType{Key: "sick", Label: "병가", LabelName: "vacation/sick"}
	rec, err := repo.Update(context.Background(), "token", is.Number, domain.Patch{Type: &newType}, vt)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if rec.Type != "sick" {
		t.Errorf("Type = %q, want sick", rec.Type)
	}

	stored := ft.issues[is.Number]
	if len(stored.Labels) != 1 || stored.Labels[0] != "vacation/sick" {
		t.Errorf("labels = %v, want [vacation/sick]", stored.Labels)
	}
	if stored.Title != codec.Title("Jane", "병가") {
		t.Errorf("title = %q, not rewritten for the new type", stored.Title)
	}
}

func TestUpdateRejectsInvertedMergedRange(t *testing.T) {
	ft := newFakeTracker()
	repo := newTestRepo(ft)

	is := seedIssue(t, ft, domain.Draft{
		Name: "Jane", GithubID: "janedoe", Type: "annual",
		StartDate: "2026-03-01", EndDate: "2026-03-03",
	}, "vacation/annual")

	// Individually valid, but merged with the existing start it inverts.
	badEnd := "2026-02-01"
	_, err := repo.Update(context.Background(), "token", is.Number, domain.Patch{EndDate: &badEnd}, nil)
	if !apperrors.Is(err, apperrors.CodeValidation) {
		t.Errorf("Update() error = %v, want a validation error", err)
	}
}

func TestUpdateAbsentReturnsNil(t *testing.T) {
	ft := newFakeTracker()
	repo := newTestRepo(ft)

	reason := "whatever"
	rec, err := repo.Update(context.Background(), "token", 404, domain.Patch{Reason: &reason}, nil)
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if rec != nil {
		t.Errorf("Update(absent) = %+v, want nil", rec)
	}
}

func TestCloseExcludesFromLists(t *testing.T) {
	ft := newFakeTracker()
	repo := newTestRepo(ft)

	is := seedIssue(t, ft, domain.Draft{
		Name: "Jane", GithubID: "janedoe", Type: "annual",
		StartDate: "2026-03-01", EndDate: "2026-03-03",
	}, "vacation/annual")

	if err := repo.Close(context.Background(), "token", is.Number); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if ft.issues[is.Number].State != "closed" {
		t.Errorf("issue state = %q, want closed", ft.issues[is.Number].State)
	}

	records, err := repo.List(context.Background(), "", "2026-03")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("List() after close returned %d records, want 0", len(records))
	}
}

func TestFetchTeamConfig(t *testing.T) {
	ft := newFakeTracker()
	repo := newTestRepo(ft)

	cfg := domain.TeamConfig{
		Members: []domain.Member{
			{GithubID: "janedoe", Name: "Jane", Role: domain.RoleMember},
		},
		VacationTypes: []domain.VacationType{
			{Key: "annual", Label: "연차", LabelName: "vacation/annual"},
		},
	}
	data, _ := json.Marshal(cfg)
	ft.files[TeamConfigPath] = data

	got, err := repo.FetchTeamConfig(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchTeamConfig() error: %v", err)
	}
	if _, ok := got.TypeByKey("annual"); !ok {
		t.Errorf("fetched config missing vacation type: %+v", got)
	}

	// An invalid document (no types) must be rejected, not served.
	data, _ = json.Marshal(domain.TeamConfig{})
	ft.files[TeamConfigPath] = data
	if _, err := repo.FetchTeamConfig(context.Background(), ""); err == nil {
		t.Error("FetchTeamConfig() accepted a config without vacation types")
	}
}
