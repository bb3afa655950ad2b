// Package health exposes liveness and readiness endpoints.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConsumerReporter reports whether the invalidation consumer holds a
// partition assignment.
type ConsumerReporter interface {
	Readiness() (ready bool, partitions []int32)
}

// Readiness reports ready when the duty store answers a ping and, if a
// consumer is wired, it has its partitions assigned.
func Readiness(store Pinger, consumer ConsumerReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type resp struct {
			Status     string  `json:"status"`
			DutyStore  string  `json:"duty_store"`
			Partitions []int32 `json:"partitions,omitempty"`
		}

		out := resp{Status: "ready", DutyStore: "ok"}

		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				out.Status = "not_ready"
				out.DutyStore = "unreachable"
			}
		}

		if consumer != nil {
			ready, parts := consumer.Readiness()
			if !ready {
				out.Status = "not_ready"
			} else {
				out.Partitions = parts
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if out.Status != "ready" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
