package tracker

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v66/github"

	"github.com/teamoff/offdays/internal/apperrors"
)

// classify maps a transport error onto the failure taxonomy. Rate limits
// must stay distinguishable from generic failures (callers show a
// wait-and-retry message and never retry immediately), and expired
// credentials must stay distinguishable so callers can trigger
// re-authentication.
func classify(err error, op string) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return apperrors.Wrap(apperrors.CodeRateLimited, op, err)
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return apperrors.Wrap(apperrors.CodeRateLimited, op, err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return apperrors.Wrap(apperrors.CodeCredentialRequired, op, err)
		case http.StatusForbidden:
			// Secondary rate limits answer 403 with a remaining quota of 0.
			if respErr.Response.Header.Get("X-RateLimit-Remaining") == "0" {
				return apperrors.Wrap(apperrors.CodeRateLimited, op, err)
			}
			return apperrors.Wrap(apperrors.CodePermissionDenied, op, err)
		case http.StatusNotFound:
			return apperrors.Wrap(apperrors.CodeNotFound, op, err)
		}
	}

	return apperrors.Wrap(apperrors.CodeRemote, op, err)
}

func isNotFound(err error) bool {
	var respErr *github.ErrorResponse
	return errors.As(err, &respErr) &&
		respErr.Response != nil &&
		respErr.Response.StatusCode == http.StatusNotFound
}
