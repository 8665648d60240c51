// Package policy decides whether an actor may mutate a record.
package policy

import "github.com/teamoff/offdays/internal/domain"

// CanModify reports whether the actor may mutate the record: owners may
// always modify their own records, admins may modify anyone's. roster may be
// nil when the roster lookup failed; the check then fails closed and only
// the owner path can pass. It never returns an error: a permission check
// must not crash its caller.
func CanModify(rec *domain.Record, actorID string, roster *domain.TeamConfig) bool {
	if rec == nil || actorID == "" {
		return false
	}
	if rec.GithubID == actorID {
		return true
	}
	if roster == nil {
		return false
	}
	member, ok := roster.MemberByID(actorID)
	return ok && member.Role == domain.RoleAdmin
}
