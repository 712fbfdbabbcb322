package server

import (
	"context"
	"net/http"
	"time"

	"github.com/mytheresa/catalog-admin/app/api"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health answers the liveness probe. A nil pinger skips the database check.
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{Status: "ok", Database: "skipped"}
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()

			status.Database = "connected"
			if err := db.PingContext(ctx); err != nil {
				status.Status = "degraded"
				status.Database = "error"
				api.WriteJSON(w, http.StatusServiceUnavailable, api.Envelope{Success: false, Data: status, Message: "database unreachable"})
				return
			}
		}
		api.OK(w, http.StatusOK, status)
	}
}
