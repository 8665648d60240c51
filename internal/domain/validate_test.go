package domain

import (
	"strings"
	"testing"
)

func validDraft() Draft {
	return Draft{
		Name:      "Jane",
		GithubID:  "janedoe",
		Type:      "annual",
		StartDate: "2026-03-01",
		EndDate:   "2026-03-03",
	}
}

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantOK  bool
		wantMsg string
	}{
		{"valid", func(d *Draft) {}, true, ""},
		{"single day", func(d *Draft) { d.EndDate = d.StartDate }, true, ""},
		{"missing name", func(d *Draft) { d.Name = "  " }, false, "name is required"},
		{"missing githubId", func(d *Draft) { d.GithubID = "" }, false, "githubId is required"},
		{"missing type", func(d *Draft) { d.Type = "" }, false, "type is required"},
		{"bad startDate", func(d *Draft) { d.StartDate = "03/01/2026" }, false, "startDate must be YYYY-MM-DD"},
		{"bad endDate", func(d *Draft) { d.EndDate = "" }, false, "endDate must be YYYY-MM-DD"},
		{"end before start", func(d *Draft) { d.StartDate, d.EndDate = d.EndDate, d.StartDate }, false, "endDate must not be earlier than startDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			v := ValidateDraft(d)
			if v.OK() != tt.wantOK {
				t.Fatalf("OK() = %v, want %v (message: %q)", v.OK(), tt.wantOK, v.Message())
			}
			if tt.wantMsg != "" && !strings.Contains(v.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want it to contain %q", v.Message(), tt.wantMsg)
			}
		})
	}
}

func TestValidateDraftAccumulates(t *testing.T) {
	v := ValidateDraft(Draft{})
	if v.OK() {
		t.Fatal("empty draft must fail validation")
	}
	msg := v.Message()
	for _, want := range []string{"name", "githubId", "type", "startDate", "endDate"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Message() = %q, missing violation for %q", msg, want)
		}
	}
}

func TestValidatePatch(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name   string
		patch  Patch
		wantOK bool
	}{
		{"empty patch", Patch{}, true},
		{"reason only", Patch{Reason: str("changed my mind")}, true},
		{"clear reason", Patch{Reason: str("")}, true},
		{"valid date pair", Patch{StartDate: str("2026-03-01"), EndDate: str("2026-03-05")}, true},
		{"start only", Patch{StartDate: str("2026-03-01")}, true},
		{"empty type", Patch{Type: str(" ")}, false},
		{"bad startDate", Patch{StartDate: str("soon")}, false},
		{"end before start", Patch{StartDate: str("2026-03-05"), EndDate: str("2026-03-01")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidatePatch(tt.patch)
			if v.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v (message: %q)", v.OK(), tt.wantOK, v.Message())
			}
		})
	}
}

func TestPatchMerge(t *testing.T) {
	str := func(s string) *string { return &s }
	existing := &Record{
		ID:        7,
		Name:      "Jane",
		GithubID:  "janedoe",
		Type:      "annual",
		StartDate: "2026-03-01",
		EndDate:   "2026-03-03",
		Reason:    "trip",
	}

	t.Run("nil fields keep existing values", func(t *testing.T) {
		merged := Patch{EndDate: str("2026-03-05")}.Merge(existing)
		if merged.EndDate != "2026-03-05" {
			t.Errorf("EndDate = %q, want updated value", merged.EndDate)
		}
		if merged.Name != "Jane" || merged.Type != "annual" || merged.StartDate != "2026-03-01" || merged.Reason != "trip" {
			t.Errorf("untouched fields changed: %+v", merged)
		}
	})

	t.Run("explicit empty reason clears it", func(t *testing.T) {
		merged := Patch{Reason: str("")}.Merge(existing)
		if merged.Reason != "" {
			t.Errorf("Reason = %q, want cleared", merged.Reason)
		}
	})
}
