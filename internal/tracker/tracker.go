// Package tracker abstracts the issue tracker acting as durable store.
package tracker

import (
	"context"
	"time"
)

// Issue is the tracker's view of one issue, reduced to the fields this
// system reads.
type Issue struct {
	Number      int
	Title       string
	Body        string
	Labels      []string
	HTMLURL     string
	CreatedAt   time.Time
	State       string
	PullRequest bool // the issues listing includes pull requests
}

// Changes is a partial issue update. Nil fields are left untouched by the
// tracker.
type Changes struct {
	Title  *string
	Body   *string
	Labels *[]string
	State  *string
}

// Client is the consumed tracker interface. GetIssue returns (nil, nil) when
// the tracker reports absence; every other failure is classified into the
// apperrors taxonomy by the implementation.
type Client interface {
	// ListOpenIssues fetches every open issue in the data repository,
	// following pagination to the end. Order is not guaranteed.
	ListOpenIssues(ctx context.Context) ([]Issue, error)
	GetIssue(ctx context.Context, number int) (*Issue, error)
	CreateIssue(ctx context.Context, title, body string, labels []string) (*Issue, error)
	UpdateIssue(ctx context.Context, number int, changes Changes) (*Issue, error)
	// GetFileContent fetches a file from the data repository (used for the
	// team configuration document).
	GetFileContent(ctx context.Context, path string) ([]byte, error)
	// AuthenticatedLogin resolves the login of the credential's user.
	AuthenticatedLogin(ctx context.Context) (string, error)
}
