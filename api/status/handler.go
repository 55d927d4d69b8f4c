// Package status exposes the lot aggregate over HTTP.
package status

import (
	"encoding/json"
	"net/http"

	"github.com/parkwella/parkd/core/lot"
	"github.com/parkwella/parkd/core/stats"
)

// InfoSource provides the read-only lot aggregate.
type InfoSource interface {
	DisplayInfo() lot.Snapshot
}

type response struct {
	lot.Snapshot
	Utilization float64 `json:"utilization"`
}

// NewHandler returns an HTTP handler serving the lot snapshot via
// GET /api/lot/status.
func NewHandler(src InfoSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snap := src.DisplayInfo()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response{Snapshot: snap, Utilization: stats.Utilization(snap)}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
