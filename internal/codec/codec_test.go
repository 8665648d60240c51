package codec

import (
	"strings"
	"testing"

	"github.com/teamoff/offdays/internal/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
	}{
		{
			name: "full document",
			fields: Fields{
				Name:      "홍길동",
				GithubID:  "hong-gildong",
				Type:      "annual",
				StartDate: domain.Date("2026-03-01"),
				EndDate:   domain.Date("2026-03-03"),
				Reason:    "개인 사유로 휴가 신청합니다.",
			},
		},
		{
			name: "empty reason",
			fields: Fields{
				Name:      "Jane Doe",
				GithubID:  "janedoe",
				Type:      "half-day",
				StartDate: domain.Date("2026-07-15"),
				EndDate:   domain.Date("2026-07-15"),
			},
		},
		{
			name: "multiline reason",
			fields: Fields{
				Name:      "Kim",
				GithubID:  "kim-dev",
				Type:      "sick",
				StartDate: domain.Date("2026-01-02"),
				EndDate:   domain.Date("2026-01-05"),
				Reason:    "first line\n\nsecond paragraph",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Encode(tt.fields)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			got, ok := Decode(raw)
			if !ok {
				t.Fatalf("Decode() failed on encoded document:\n%s", raw)
			}
			if *got != tt.fields {
				t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", *got, tt.fields)
			}
		})
	}
}

func TestDecodeSoftFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty body", ""},
		{"plain text", "just a regular issue body"},
		{"no closing fence", "---\nname: x\ngithubId: y\ntype: annual\n"},
		{"malformed yaml", "---\nname: [unclosed\n---\n"},
		{
			"missing githubId",
			"---\nname: Jane\ntype: annual\nstartDate: 2026-03-01\nendDate: 2026-03-02\n---\n",
		},
		{
			"empty name",
			"---\nname: \"\"\ngithubId: janedoe\ntype: annual\nstartDate: 2026-03-01\nendDate: 2026-03-02\n---\n",
		},
		{
			"invalid startDate",
			"---\nname: Jane\ngithubId: janedoe\ntype: annual\nstartDate: not-a-date\nendDate: 2026-03-02\n---\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode(tt.raw)
			if ok {
				t.Errorf("Decode() = %+v, true; want nil, false", got)
			}
			if got != nil {
				t.Errorf("Decode() returned non-nil fields on failure")
			}
		})
	}
}

func TestDecodeWindowsLineEndings(t *testing.T) {
	raw := "---\r\nname: Jane\r\ngithubId: janedoe\r\ntype: annual\r\nstartDate: 2026-03-01\r\nendDate: 2026-03-02\r\n---\r\nreason text\r\n"
	got, ok := Decode(raw)
	if !ok {
		t.Fatal("Decode() should accept CRLF documents")
	}
	if got.GithubID != "janedoe" || got.Reason != "reason text" {
		t.Errorf("Decode() = %+v", got)
	}
}

func TestDecodeExtraHeaderFieldsIgnored(t *testing.T) {
	raw := "---\nname: Jane\ngithubId: janedoe\ntype: annual\nstartDate: 2026-03-01\nendDate: 2026-03-02\nextra: surprise\n---\n"
	got, ok := Decode(raw)
	if !ok {
		t.Fatal("Decode() should tolerate unknown header fields")
	}
	if got.Name != "Jane" {
		t.Errorf("Name = %q, want %q", got.Name, "Jane")
	}
}

func TestTitle(t *testing.T) {
	got := Title("홍길동", "연차")
	if !strings.HasPrefix(got, TitlePrefix) {
		t.Errorf("Title() = %q, missing prefix %q", got, TitlePrefix)
	}
	if !strings.Contains(got, "홍길동") || !strings.Contains(got, "연차") {
		t.Errorf("Title() = %q, missing name or type label", got)
	}
}

func TestHasVacationLabel(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   bool
	}{
		{"exact namespace label", []string{"vacation/annual"}, true},
		{"among others", []string{"bug", "vacation/sick", "p1"}, true},
		{"no vacation label", []string{"bug", "enhancement"}, false},
		{"empty", nil, false},
		{"similar but outside namespace", []string{"vacations", "vacation"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasVacationLabel(tt.labels); got != tt.want {
				t.Errorf("HasVacationLabel(%v) = %v, want %v", tt.labels, got, tt.want)
			}
		})
	}
}
