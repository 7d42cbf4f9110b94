package restapi

import (
	"context"
	"encoding/json"
	"net/http"

	"nightshuttle.campusgo.org/internal/logging"
)

// HealthResponse represents the JSON response from the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// pinger is implemented by stores with a reachable backing connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler reports liveness and verifies store connectivity when
// the store supports it.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if api.Application == nil || api.Store == nil || api.Ledger == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "unavailable",
			Detail: "store or ledger not initialized",
		})
		return
	}

	if p, ok := api.Store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			logging.LogError(api.Logger, "store ping failed", err)
			api.Metrics.StoreErrorsTotal.Inc()
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(HealthResponse{
				Status: "unavailable",
				Detail: "store connection failed",
			})
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}
