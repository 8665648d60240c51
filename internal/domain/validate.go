package domain

import "strings"

// ValidationResult accumulates field violations so a rejected request can
// report every problem at once instead of one per round trip.
type ValidationResult struct {
	problems []string
}

func (v *ValidationResult) add(msg string) {
	v.problems = append(v.problems, msg)
}

// OK reports whether no violations were recorded.
func (v *ValidationResult) OK() bool { return len(v.problems) == 0 }

// Message joins all violations into one message.
func (v *ValidationResult) Message() string {
	return strings.Join(v.problems, ", ")
}

// ValidateDraft checks a creation request. Date ordering is checked here,
// before any tracker call: end must never be earlier than start, even for
// single-day types (start == end is valid).
func ValidateDraft(d Draft) *ValidationResult {
	v := &ValidationResult{}
	if strings.TrimSpace(d.Name) == "" {
		v.add("name is required")
	}
	if strings.TrimSpace(d.GithubID) == "" {
		v.add("githubId is required")
	}
	if strings.TrimSpace(d.Type) == "" {
		v.add("type is required")
	}
	if !d.StartDate.Valid() {
		v.add("startDate must be YYYY-MM-DD")
	}
	if !d.EndDate.Valid() {
		v.add("endDate must be YYYY-MM-DD")
	}
	if d.StartDate.Valid() && d.EndDate.Valid() && d.EndDate.Before(d.StartDate) {
		v.add("endDate must not be earlier than startDate")
	}
	return v
}

// ValidatePatch checks an update request. Only provided fields are checked;
// the start/end ordering across a partially-provided pair is re-checked by
// the repository against the merged record.
func ValidatePatch(p Patch) *ValidationResult {
	v := &ValidationResult{}
	if p.Type != nil && strings.TrimSpace(*p.Type) == "" {
		v.add("type must not be empty")
	}
	if p.StartDate != nil && !Date(*p.StartDate).Valid() {
		v.add("startDate must be YYYY-MM-DD")
	}
	if p.EndDate != nil && !Date(*p.EndDate).Valid() {
		v.add("endDate must be YYYY-MM-DD")
	}
	if p.StartDate != nil && p.EndDate != nil &&
		Date(*p.StartDate).Valid() && Date(*p.EndDate).Valid() &&
		Date(*p.EndDate).Before(Date(*p.StartDate)) {
		v.add("endDate must not be earlier than startDate")
	}
	return v
}
