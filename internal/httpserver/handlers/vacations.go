package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/teamoff/offdays/internal/apperrors"
	"github.com/teamoff/offdays/internal/domain"
	"github.com/teamoff/offdays/internal/httpserver/deps"
	"github.com/teamoff/offdays/internal/httpserver/mw"
	"github.com/teamoff/offdays/internal/logger"
	"github.com/teamoff/offdays/internal/policy"
)

// ListVacations serves one month's records, cache-first.
func ListVacations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		month, err := domain.ParseMonthKey(r.URL.Query().Get("month"))
		if err != nil {
			writeError(w, d, apperrors.Wrap(apperrors.CodeValidation, "month must be YYYY-MM", err))
			return
		}

		memberID := r.URL.Query().Get("memberId")
		vacationType := r.URL.Query().Get("type")

		// The window is cached unfiltered; member and type narrowing happens
		// on the way out so every filter combination shares one fetch.
		key := domain.MonthWindow(month)
		if records, ok := d.Cache.Get(key); ok {
			writeData(w, http.StatusOK, filterRecords(records, memberID, vacationType))
			return
		}

		records, err := d.Repo.List(ctx, mw.TokenFrom(ctx), month)
		if err != nil {
			writeError(w, d, err)
			return
		}
		fillWindow(ctx, d, key, records)
		writeData(w, http.StatusOK, filterRecords(records, memberID, vacationType))
	}
}

// filterRecords applies the optional member and type query filters over a
// window's records.
func filterRecords(records []*domain.Record, memberID, vacationType string) []*domain.Record {
	if memberID == "" && vacationType == "" {
		return records
	}
	out := make([]*domain.Record, 0, len(records))
	for _, rec := range records {
		if memberID != "" && rec.GithubID != memberID {
			continue
		}
		if vacationType != "" && rec.Type != vacationType {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// ListUpcoming serves records ending on or after a date, optionally scoped
// to one member.
func ListUpcoming(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		since := domain.Today()
		if s := r.URL.Query().Get("since"); s != "" {
			parsed, err := domain.ParseDate(s)
			if err != nil {
				writeError(w, d, apperrors.Wrap(apperrors.CodeValidation, "since must be YYYY-MM-DD", err))
				return
			}
			since = parsed
		}
		member := r.URL.Query().Get("member")

		key := domain.UpcomingWindow(member, since)
		if records, ok := d.Cache.Get(key); ok {
			writeData(w, http.StatusOK, records)
			return
		}

		var records []*domain.Record
		var err error
		if member == "" {
			records, err = d.Repo.ListSince(ctx, mw.TokenFrom(ctx), since)
		} else {
			records, err = d.Repo.ListWindow(ctx, mw.TokenFrom(ctx), key)
		}
		if err != nil {
			writeError(w, d, err)
			return
		}
		fillWindow(ctx, d, key, records)
		writeData(w, http.StatusOK, records)
	}
}

// GetVacation serves one record by id.
func GetVacation(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := recordID(r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		rec, err := d.Repo.Get(ctx, mw.TokenFrom(ctx), id)
		if err != nil {
			writeError(w, d, err)
			return
		}
		if rec == nil {
			writeError(w, d, apperrors.New(apperrors.CodeNotFound, "vacation not found"))
			return
		}
		writeData(w, http.StatusOK, rec)
	}
}

// CreateVacation validates a draft and creates the backing issue.
func CreateVacation(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token := mw.TokenFrom(ctx)
		if token == "" {
			writeError(w, d, apperrors.New(apperrors.CodeCredentialRequired, "authentication required"))
			return
		}

		var draft domain.Draft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeError(w, d, apperrors.Wrap(apperrors.CodeValidation, "malformed request body", err))
			return
		}
		if v := domain.ValidateDraft(draft); !v.OK() {
			writeError(w, d, apperrors.New(apperrors.CodeValidation, v.Message()))
			return
		}

		// A vacation is filed by its subject: the draft's member id must be
		// the authenticated user, admins included.
		actor, err := d.Auth.Identify(ctx, token)
		if err != nil {
			writeError(w, d, err)
			return
		}
		if actor == "" || draft.GithubID != actor {
			writeError(w, d, apperrors.New(apperrors.CodePermissionDenied, "you can only file your own vacation"))
			return
		}

		roster, err := currentRoster(ctx, d, token)
		if err != nil {
			writeError(w, d, err)
			return
		}
		vt, ok := roster.TypeByKey(draft.Type)
		if !ok {
			writeError(w, d, apperrors.Newf(apperrors.CodeValidation, "unknown vacation type: %s", draft.Type))
			return
		}

		rec, err := d.Repo.Create(ctx, token, draft, vt)
		if err != nil {
			writeError(w, d, err)
			return
		}

		d.Cache.ApplyCreate(rec)
		syncSnapshots(ctx, d)
		d.Logger.Info("vacation created",
			logger.Int("id", rec.ID),
			logger.String("member", rec.GithubID))
		writeData(w, http.StatusCreated, rec)
	}
}

// UpdateVacation merges a partial update into an existing record.
func UpdateVacation(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := recordID(r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		var patch domain.Patch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, d, apperrors.Wrap(apperrors.CodeValidation, "malformed request body", err))
			return
		}
		if v := domain.ValidatePatch(patch); !v.OK() {
			writeError(w, d, apperrors.New(apperrors.CodeValidation, v.Message()))
			return
		}

		token, _, existing, roster, err := authorizeMutation(ctx, d, id)
		if err != nil {
			writeError(w, d, err)
			return
		}

		// The type change needs its catalog entry for the new title and label.
		var newType *domain.VacationType
		if patch.Type != nil && *patch.Type != existing.Type {
			if roster == nil {
				writeError(w, d, apperrors.New(apperrors.CodeRemote, "roster unavailable"))
				return
			}
			vt, ok := roster.TypeByKey(*patch.Type)
			if !ok {
				writeError(w, d, apperrors.Newf(apperrors.CodeValidation, "unknown vacation type: %s", *patch.Type))
				return
			}
			newType = vt
		}

		rec, err := d.Repo.Update(ctx, token, id, patch, newType)
		if err != nil {
			writeError(w, d, err)
			return
		}
		if rec == nil {
			writeError(w, d, apperrors.New(apperrors.CodeNotFound, "vacation not found"))
			return
		}

		d.Cache.ApplyUpdate(rec)
		syncSnapshots(ctx, d)
		d.Logger.Info("vacation updated", logger.Int("id", rec.ID))
		writeData(w, http.StatusOK, rec)
	}
}

// CancelVacation closes the backing issue. Closed records disappear from
// every cached window; the document itself is never deleted.
func CancelVacation(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := recordID(r)
		if err != nil {
			writeError(w, d, err)
			return
		}

		token, _, _, _, err := authorizeMutation(ctx, d, id)
		if err != nil {
			writeError(w, d, err)
			return
		}

		if err := d.Repo.Close(ctx, token, id); err != nil {
			writeError(w, d, err)
			return
		}

		d.Cache.ApplyClose(id)
		syncSnapshots(ctx, d)
		d.Logger.Info("vacation cancelled", logger.Int("id", id))
		writeData(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// authorizeMutation runs the shared mutation preamble: token present, actor
// resolved, record exists, actor allowed. The roster is returned for reuse;
// it may be nil when the lookup failed, in which case the permission check
// has already failed closed for non-owners.
func authorizeMutation(ctx context.Context, d deps.Deps, id int) (token, actor string, existing *domain.Record, roster *domain.TeamConfig, err error) {
	token = mw.TokenFrom(ctx)
	if token == "" {
		return "", "", nil, nil, apperrors.New(apperrors.CodeCredentialRequired, "authentication required")
	}

	actor, err = d.Auth.Identify(ctx, token)
	if err != nil {
		return "", "", nil, nil, err
	}

	existing, err = d.Repo.Get(ctx, token, id)
	if err != nil {
		return "", "", nil, nil, err
	}
	if existing == nil {
		return "", "", nil, nil, apperrors.New(apperrors.CodeNotFound, "vacation not found")
	}

	// Roster failure downgrades to nil: the permission check fails closed
	// rather than erroring.
	roster, rosterErr := currentRoster(ctx, d, token)
	if rosterErr != nil {
		d.Logger.Warn("roster unavailable for permission check", logger.Error(rosterErr))
		roster = nil
	}

	if !policy.CanModify(existing, actor, roster) {
		return "", "", nil, nil, apperrors.New(apperrors.CodePermissionDenied, "only the owner or an admin may modify this vacation")
	}
	return token, actor, existing, roster, nil
}

// currentRoster prefers the reloader's copy and falls back to a direct
// fetch (oauth-app mode has no background reloader credential).
func currentRoster(ctx context.Context, d deps.Deps, token string) (*domain.TeamConfig, error) {
	if d.Roster != nil {
		if cfg, ok := d.Roster.Current(); ok {
			return cfg, nil
		}
	}
	return d.Repo.FetchTeamConfig(ctx, token)
}

// fillWindow populates the in-memory window and its redis snapshot after a
// fresh fetch.
func fillWindow(ctx context.Context, d deps.Deps, key domain.WindowKey, records []*domain.Record) {
	d.Cache.Put(key, records)
	if d.Store == nil {
		return
	}
	if err := d.Store.SaveWindow(ctx, key, records, d.WindowTTL); err != nil {
		d.Logger.Warn("failed to snapshot window",
			logger.String("window", string(key)),
			logger.Error(err))
	}
}

// syncSnapshots re-snapshots every cached window after a mutation. Caches
// are only touched from successful mutation results, so this runs on the
// success path only; snapshot failures are not surfaced to the caller.
func syncSnapshots(ctx context.Context, d deps.Deps) {
	if d.Store == nil {
		return
	}
	for _, key := range d.Cache.Keys() {
		records, ok := d.Cache.Get(key)
		if !ok {
			continue
		}
		if err := d.Store.SaveWindow(ctx, key, records, d.WindowTTL); err != nil {
			d.Logger.Warn("failed to snapshot window",
				logger.String("window", string(key)),
				logger.Error(err))
		}
	}
}

func recordID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, apperrors.Newf(apperrors.CodeValidation, "invalid vacation id: %s", raw)
	}
	return id, nil
}
