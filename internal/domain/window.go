package domain

import "strings"

// WindowKey identifies one cached view of records: either a calendar month
// ("2026-03") or the unbounded upcoming window of one member
// ("upcoming:<githubId>:<since>").
type WindowKey string

const upcomingPrefix = "upcoming:"

// MonthWindow returns the window key for a calendar month.
func MonthWindow(m MonthKey) WindowKey {
	return WindowKey(m)
}

// UpcomingWindow returns the window key for one member's records ending on or
// after since. An empty githubID means all members.
func UpcomingWindow(githubID string, since Date) WindowKey {
	return WindowKey(upcomingPrefix + githubID + ":" + string(since))
}

// InWindow is the single membership predicate shared by the fetch filters and
// the cache update paths, so the two can never disagree. A record belongs to
// a month window when its date range intersects the month, and to an upcoming
// window when it ends on or after the window's since date (and matches the
// member, if the window is member-scoped). Closed records belong to no
// window.
func InWindow(r *Record, key WindowKey) bool {
	if r == nil || r.State != StateOpen {
		return false
	}

	if rest, ok := strings.CutPrefix(string(key), upcomingPrefix); ok {
		githubID, since, ok := strings.Cut(rest, ":")
		if !ok {
			return false
		}
		if githubID != "" && r.GithubID != githubID {
			return false
		}
		return r.EndDate >= Date(since)
	}

	month := MonthKey(key)
	last := month.Last()
	if last == "" {
		return false
	}
	return r.Overlaps(month.First(), last)
}
