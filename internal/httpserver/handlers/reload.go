package handlers

import (
	"net/http"

	"github.com/teamoff/offdays/internal/httpserver/deps"
	"github.com/teamoff/offdays/internal/logger"
)

// Reload triggers an immediate roster refresh outside the regular interval.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ReloadTrigger == nil {
			w.WriteHeader(http.StatusNotImplemented)
			_, _ = w.Write([]byte("roster reloader not running\n"))
			return
		}

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual roster reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("reload triggered\n"))
		default:
			d.Logger.Warn("roster reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("reload already in progress\n"))
		}
	}
}
