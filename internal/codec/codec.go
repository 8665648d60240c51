// Package codec converts between vacation records and issue documents.
//
// A document is a YAML header block fenced by "---" lines, holding exactly
// the five required fields, followed by the free-text reason:
//
//	---
//	name: 홍길동
//	githubId: hong-gildong
//	type: annual
//	startDate: 2026-03-01
//	endDate: 2026-03-03
//	---
//	개인 사유로 휴가 신청합니다.
package codec

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teamoff/offdays/internal/domain"
)

const (
	// TitlePrefix is the fixed issue title prefix. Cosmetic only: decode
	// never looks at titles.
	TitlePrefix = "[휴가]"
	// LabelPrefix is the reserved namespace for vacation type labels.
	LabelPrefix = "vacation/"
)

// Fields are the decoded contents of a document: the five header fields plus
// the trimmed reason.
type Fields struct {
	Name      string
	GithubID  string
	Type      string
	StartDate domain.Date
	EndDate   domain.Date
	Reason    string
}

// header is the wire shape of the fenced block. Field order here is the
// order written on encode.
type header struct {
	Name      string `yaml:"name"`
	GithubID  string `yaml:"githubId"`
	Type      string `yaml:"type"`
	StartDate string `yaml:"startDate"`
	EndDate   string `yaml:"endDate"`
}

// Encode renders fields into a full issue document.
func Encode(f Fields) (string, error) {
	out, err := yaml.Marshal(header{
		Name:      f.Name,
		GithubID:  f.GithubID,
		Type:      f.Type,
		StartDate: string(f.StartDate),
		EndDate:   string(f.EndDate),
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(out)
	sb.WriteString("---\n")
	if f.Reason != "" {
		sb.WriteString(f.Reason)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// Decode parses a raw document. It fails softly: issues that predate this
// schema or were edited by hand must be excluded from query results, not
// crash the read path, so any absent body, malformed header, or
// missing/empty required field yields (nil, false).
func Decode(raw string) (*Fields, bool) {
	head, body, ok := splitDocument(raw)
	if !ok {
		return nil, false
	}

	var h header
	if err := yaml.Unmarshal([]byte(head), &h); err != nil {
		return nil, false
	}

	f := Fields{
		Name:      strings.TrimSpace(h.Name),
		GithubID:  strings.TrimSpace(h.GithubID),
		Type:      strings.TrimSpace(h.Type),
		StartDate: domain.Date(strings.TrimSpace(h.StartDate)),
		EndDate:   domain.Date(strings.TrimSpace(h.EndDate)),
		Reason:    strings.TrimSpace(body),
	}
	if f.Name == "" || f.GithubID == "" || f.Type == "" {
		return nil, false
	}
	if !f.StartDate.Valid() || !f.EndDate.Valid() {
		return nil, false
	}
	return &f, true
}

// splitDocument cuts a raw document into its fenced header and the remaining
// body text.
func splitDocument(raw string) (head, body string, ok bool) {
	if raw == "" {
		return "", "", false
	}
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	if !strings.HasPrefix(raw, "---\n") {
		return "", "", false
	}
	rest := raw[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", "", false
	}
	head = rest[:end+1]
	body = strings.TrimPrefix(rest[end+len("\n---"):], "\n")
	return head, body, true
}

// Title builds the issue title: fixed prefix + subject name + type label.
func Title(name, typeLabel string) string {
	return TitlePrefix + " " + name + " - " + typeLabel
}

// HasVacationLabel reports whether any label sits in the reserved vacation
// namespace. Deliberately a permissive prefix match: multiple type-specific
// labels share the namespace and exclusivity is not enforced here.
func HasVacationLabel(labels []string) bool {
	for _, l := range labels {
		if strings.HasPrefix(l, LabelPrefix) {
			return true
		}
	}
	return false
}
