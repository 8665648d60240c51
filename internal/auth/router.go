// Package auth routes read and write operations onto the right tracker
// credential.
//
// Two operating modes, selected once at construction:
//
//   - github-app: reads use the app's installation token (its own rate
//     limit, no user involved); writes use the user's token so the issue
//     author is that user.
//   - oauth-app: reads and writes both require the user's token.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"

	"github.com/teamoff/offdays/internal/apperrors"
	"github.com/teamoff/offdays/internal/tracker"
)

// Mode selects the credential strategy.
type Mode string

const (
	ModeGitHubApp Mode = "github-app"
	ModeOAuthApp  Mode = "oauth-app"
)

// Options configures a Router.
type Options struct {
	Mode           Mode
	Owner          string
	Repo           string
	AppID          int64  // github-app mode only
	InstallationID int64  // github-app mode only
	PrivateKey     string // PEM; "\n" escapes are restored
}

// Router supplies read- and write-capable tracker clients.
type Router struct {
	mode       Mode
	owner      string
	repo       string
	readClient tracker.Client // github-app mode: installation-token client, built once
}

// NewRouter builds the router. In github-app mode the installation transport
// is created eagerly so a bad key fails at startup, not on first read.
func NewRouter(opts Options) (*Router, error) {
	r := &Router{mode: opts.Mode, owner: opts.Owner, repo: opts.Repo}

	switch opts.Mode {
	case ModeGitHubApp:
		key := strings.ReplaceAll(opts.PrivateKey, `\n`, "\n")
		itr, err := ghinstallation.New(http.DefaultTransport, opts.AppID, opts.InstallationID, []byte(key))
		if err != nil {
			return nil, fmt.Errorf("failed to build installation transport: %w", err)
		}
		r.readClient = tracker.NewGitHubClientWithTransport(itr, opts.Owner, opts.Repo)
	case ModeOAuthApp:
		// Reads fall back to the user token per request.
	default:
		return nil, fmt.Errorf("unknown auth mode %q", opts.Mode)
	}

	return r, nil
}

// ForRead returns a read-capable client. userToken is only consulted in
// oauth-app mode; an absent token there is a credential failure the caller
// must surface as a re-authentication signal.
func (r *Router) ForRead(userToken string) (tracker.Client, error) {
	if r.mode == ModeGitHubApp {
		return r.readClient, nil
	}
	if userToken == "" {
		return nil, apperrors.New(apperrors.CodeCredentialRequired, "read requires a user token in oauth-app mode")
	}
	return tracker.NewGitHubClientWithToken(userToken, r.owner, r.repo), nil
}

// ForWrite returns a write-capable client. Writes always use the user's
// token so the tracker records the user as author.
func (r *Router) ForWrite(userToken string) (tracker.Client, error) {
	if userToken == "" {
		return nil, apperrors.New(apperrors.CodeCredentialRequired, "write requires a user token")
	}
	return tracker.NewGitHubClientWithToken(userToken, r.owner, r.repo), nil
}

// Identify resolves the token's user login via the tracker, rather than
// trusting anything the request claims about itself.
func (r *Router) Identify(ctx context.Context, userToken string) (string, error) {
	client, err := r.ForWrite(userToken)
	if err != nil {
		return "", err
	}
	return client.AuthenticatedLogin(ctx)
}
