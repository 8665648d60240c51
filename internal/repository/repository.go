// Package repository performs record operations against the issue tracker.
//
// The tracker has no query language, so every list operation fetches the
// full open-issue collection and filters client-side: pull requests out
// first, then the vacation label namespace, then document decoding, then the
// date range. One undecodable issue never fails a whole query.
package repository

import (
	"context"
	"encoding/json"

	"github.com/teamoff/offdays/internal/apperrors"
	"github.com/teamoff/offdays/internal/codec"
	"github.com/teamoff/offdays/internal/domain"
	"github.com/teamoff/offdays/internal/logger"
	"github.com/teamoff/offdays/internal/tracker"
)

// TeamConfigPath is the roster document's path in the data repository.
const TeamConfigPath = "team-config.json"

// Clients supplies tracker clients per credential. Implemented by
// auth.Router; tests substitute fakes.
type Clients interface {
	ForRead(userToken string) (tracker.Client, error)
	ForWrite(userToken string) (tracker.Client, error)
}

// Repository maps tracker issues to vacation records.
type Repository struct {
	clients Clients
	log     logger.Logger
}

// New creates a repository.
func New(clients Clients, log logger.Logger) *Repository {
	return &Repository{clients: clients, log: log}
}

// List returns all open records whose date range intersects the given month.
// Order is not guaranteed.
func (r *Repository) List(ctx context.Context, userToken string, month domain.MonthKey) ([]*domain.Record, error) {
	return r.listWindow(ctx, userToken, domain.MonthWindow(month))
}

// ListSince returns all open records ending on or after the given date,
// which captures ongoing as well as future records.
func (r *Repository) ListSince(ctx context.Context, userToken string, since domain.Date) ([]*domain.Record, error) {
	return r.listWindow(ctx, userToken, domain.UpcomingWindow("", since))
}

// ListWindow returns all open records belonging to an arbitrary window key.
func (r *Repository) ListWindow(ctx context.Context, userToken string, key domain.WindowKey) ([]*domain.Record, error) {
	return r.listWindow(ctx, userToken, key)
}

func (r *Repository) listWindow(ctx context.Context, userToken string, key domain.WindowKey) ([]*domain.Record, error) {
	client, err := r.clients.ForRead(userToken)
	if err != nil {
		return nil, err
	}

	issues, err := client.ListOpenIssues(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*domain.Record, 0, len(issues))
	for i := range issues {
		is := &issues[i]
		// The issues listing also carries pull requests.
		if is.PullRequest {
			continue
		}
		if !codec.HasVacationLabel(is.Labels) {
			continue
		}
		rec, ok := recordFromIssue(is)
		if !ok {
			// Pre-schema or hand-edited issues are silently excluded.
			r.log.Debug("skipping undecodable issue",
				logger.Int("issue", is.Number))
			continue
		}
		if domain.InWindow(rec, key) {
			records = append(records, rec)
		}
	}
	return records, nil
}

// Get returns one record by id, or nil when the tracker reports absence or
// the document does not decode. Callers treat both as not-found: a
// mis-shaped issue is functionally absent.
func (r *Repository) Get(ctx context.Context, userToken string, id int) (*domain.Record, error) {
	client, err := r.clients.ForRead(userToken)
	if err != nil {
		return nil, err
	}

	issue, err := client.GetIssue(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if issue == nil {
		return nil, nil
	}

	rec, ok := recordFromIssue(issue)
	if !ok {
		return nil, nil
	}
	return rec, nil
}

// Create encodes the draft and creates the backing issue. The tracker is
// authoritative: the returned record is decoded from what the tracker
// echoes back, never assumed equal to the draft.
func (r *Repository) Create(ctx context.Context, userToken string, draft domain.Draft, vt *domain.VacationType) (*domain.Record, error) {
	client, err := r.clients.ForWrite(userToken)
	if err != nil {
		return nil, err
	}

	body, err := codec.Encode(fieldsFromDraft(draft))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRemote, "encode document", err)
	}

	issue, err := client.CreateIssue(ctx, codec.Title(draft.Name, vt.Label), body, []string{vt.LabelName})
	if err != nil {
		return nil, err
	}

	rec, ok := recordFromIssue(issue)
	if !ok {
		// The tracker echoed back something we just wrote and it does not
		// decode: tracker-side corruption, not a user error.
		return nil, apperrors.Newf(apperrors.CodeDecodeFailed, "created issue #%d does not decode", issue.Number)
	}
	return rec, nil
}

// Update merges the patch over the existing record, regenerates the whole
// document, and replaces it on the tracker. newType is non-nil only when the
// patch changes the vacation type; it additionally rewrites title and label
// set. Returns nil when the record does not exist.
func (r *Repository) Update(ctx context.Context, userToken string, id int, patch domain.Patch, newType *domain.VacationType) (*domain.Record, error) {
	existing, err := r.Get(ctx, userToken, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	merged := patch.Merge(existing)
	if merged.EndDate.Before(merged.StartDate) {
		return nil, apperrors.New(apperrors.CodeValidation, "endDate must not be earlier than startDate")
	}

	body, err := codec.Encode(fieldsFromDraft(merged))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRemote, "encode document", err)
	}

	changes := tracker.Changes{Body: &body}
	if newType != nil {
		title := codec.Title(merged.Name, newType.Label)
		labels := []string{newType.LabelName}
		changes.Title = &title
		changes.Labels = &labels
	}

	client, err := r.clients.ForWrite(userToken)
	if err != nil {
		return nil, err
	}
	issue, err := client.UpdateIssue(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, nil
	}

	rec, ok := recordFromIssue(issue)
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeDecodeFailed, "updated issue #%d does not decode", id)
	}
	return rec, nil
}

// Close transitions the backing issue to closed. The document itself is
// never deleted.
func (r *Repository) Close(ctx context.Context, userToken string, id int) error {
	client, err := r.clients.ForWrite(userToken)
	if err != nil {
		return err
	}
	state := string(domain.StateClosed)
	_, err = client.UpdateIssue(ctx, id, tracker.Changes{State: &state})
	return err
}

// FetchTeamConfig loads and validates the roster and vacation type catalog
// from the data repository.
func (r *Repository) FetchTeamConfig(ctx context.Context, userToken string) (*domain.TeamConfig, error) {
	client, err := r.clients.ForRead(userToken)
	if err != nil {
		return nil, err
	}

	data, err := client.GetFileContent(ctx, TeamConfigPath)
	if err != nil {
		return nil, err
	}

	var cfg domain.TeamConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRemote, "parse "+TeamConfigPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRemote, "invalid "+TeamConfigPath, err)
	}
	return &cfg, nil
}

func fieldsFromDraft(d domain.Draft) codec.Fields {
	return codec.Fields{
		Name:      d.Name,
		GithubID:  d.GithubID,
		Type:      d.Type,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Reason:    d.Reason,
	}
}

func recordFromIssue(is *tracker.Issue) (*domain.Record, bool) {
	f, ok := codec.Decode(is.Body)
	if !ok {
		return nil, false
	}
	state := domain.StateClosed
	if is.State == string(domain.StateOpen) {
		state = domain.StateOpen
	}
	return &domain.Record{
		ID:        is.Number,
		Name:      f.Name,
		GithubID:  f.GithubID,
		Type:      f.Type,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Reason:    f.Reason,
		IssueURL:  is.HTMLURL,
		CreatedAt: is.CreatedAt,
		State:     state,
	}, true
}
