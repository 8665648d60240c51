package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/teamoff/offdays/internal/apperrors"
	"github.com/teamoff/offdays/internal/httpserver/deps"
	"github.com/teamoff/offdays/internal/logger"
)

// envelope is the response shape shared by every API endpoint.
type envelope struct {
	Data   any    `json:"data"`
	Error  string `json:"error,omitempty"`
	Reauth bool   `json:"reauth,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Data: data})
}

// writeError maps a typed failure onto its HTTP status. A credential
// failure additionally carries the re-auth prompt, but only for the first
// failing request inside a reset window: concurrent failures must not
// prompt the user more than once.
func writeError(w http.ResponseWriter, d deps.Deps, err error) {
	var (
		status  = http.StatusInternalServerError
		message = "internal error"
		reauth  = false
	)

	var ae *apperrors.Error
	if errors.As(err, &ae) {
		status = ae.HTTPStatus()
		message = ae.Message
		if ae.Code == apperrors.CodeCredentialRequired && d.Reauth != nil {
			reauth = d.Reauth.Fire()
		}
	}

	if status >= http.StatusInternalServerError {
		d.Logger.Error("request failed", logger.Error(err))
	} else {
		d.Logger.Debug("request rejected",
			logger.Int("status", status),
			logger.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Error: message, Reauth: reauth})
}
