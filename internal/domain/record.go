package domain

import "time"

// State is the lifecycle state of a vacation record, mirroring the backing
// issue's state. Closed is terminal: cancellation never reopens a record.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// Record is one vacation request, backed one-to-one by a tracker issue.
// Instances are ephemeral: the tracker owns the durable copy and every query
// decodes a fresh one.
type Record struct {
	ID        int       `json:"id"` // tracker-assigned issue number
	Name      string    `json:"name"`
	GithubID  string    `json:"githubId"`
	Type      string    `json:"type"` // VacationType.Key
	StartDate Date      `json:"startDate"`
	EndDate   Date      `json:"endDate"`
	Reason    string    `json:"reason,omitempty"`
	IssueURL  string    `json:"issueUrl"`
	CreatedAt time.Time `json:"createdAt"`
	State     State     `json:"state"`
}

// Draft is a vacation request before the tracker has assigned it an identity.
type Draft struct {
	Name      string `json:"name"`
	GithubID  string `json:"githubId"`
	Type      string `json:"type"`
	StartDate Date   `json:"startDate"`
	EndDate   Date   `json:"endDate"`
	Reason    string `json:"reason,omitempty"`
}

// Patch carries a partial update. Fields use pointers so that "not provided"
// (nil) and "set to empty" (pointer to "") stay distinguishable: a nil field
// keeps the existing value, an explicit empty Reason clears it.
type Patch struct {
	Type      *string `json:"type,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

// Merge applies p over the existing record and returns the resulting full
// draft. The remote document has no patch semantics, so updates always
// rebuild the whole document from this merge.
func (p Patch) Merge(existing *Record) Draft {
	merged := Draft{
		Name:      existing.Name,
		GithubID:  existing.GithubID,
		Type:      existing.Type,
		StartDate: existing.StartDate,
		EndDate:   existing.EndDate,
		Reason:    existing.Reason,
	}
	if p.Type != nil {
		merged.Type = *p.Type
	}
	if p.StartDate != nil {
		merged.StartDate = Date(*p.StartDate)
	}
	if p.EndDate != nil {
		merged.EndDate = Date(*p.EndDate)
	}
	if p.Reason != nil {
		merged.Reason = *p.Reason
	}
	return merged
}

// Overlaps reports whether the record's inclusive [start,end] range
// intersects [from,to].
func (r *Record) Overlaps(from, to Date) bool {
	return r.StartDate <= to && r.EndDate >= from
}
