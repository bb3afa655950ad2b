// Package router validates nearby queries and serves the fused results.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pharmagarde/locator/internal/core/model"
	"github.com/pharmagarde/locator/internal/core/observability"
	"github.com/pharmagarde/locator/internal/geo"
)

const (
	nearbyRoute = "/v1/pharmacies/nearby"

	minRadiusM = 500
	maxRadiusM = 50000
)

// Resolver produces the fused pharmacy list for a center coordinate.
type Resolver interface {
	Resolve(ctx context.Context, center model.Coordinate, radiusMeters int) ([]model.FusedPharmacy, error)
}

type nearbyResponse struct {
	Pharmacies []model.FusedPharmacy `json:"pharmacies"`
	Count      int                   `json:"count"`
}

// HandleNearby validates query params, resolves through the fusion cache,
// annotates distances and responds nearest-first.
func HandleNearby(logger *slog.Logger, defaultRadiusM int, res Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}

		q, err := ParseNearbyRequest(r, defaultRadiusM)
		if err != nil {
			http.Error(sw, err.Error(), http.StatusBadRequest)
			observability.ObserveHTTP(r.Method, nearbyRoute, sw.code, time.Since(start).Seconds())
			return
		}

		fused, err := res.Resolve(r.Context(), q.Center, q.RadiusMeters)
		if err != nil {
			logger.Error("nearby resolution failed", "center", q.Center.String(), "err", err)
			http.Error(sw, "pharmacy lookup unavailable", http.StatusInternalServerError)
			observability.ObserveHTTP(r.Method, nearbyRoute, sw.code, time.Since(start).Seconds())
			return
		}

		out := rank(fused, q)

		sw.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(sw).Encode(nearbyResponse{Pharmacies: out, Count: len(out)}); err != nil {
			logger.Warn("encode nearby response", "err", err)
		}
		observability.ObserveHTTP(r.Method, nearbyRoute, sw.code, time.Since(start).Seconds())
	}
}

// rank copies the shared cached slice, annotates caller-relative distance,
// filters when on-duty-only was requested and sorts ascending by distance.
func rank(fused []model.FusedPharmacy, q model.NearbyRequest) []model.FusedPharmacy {
	out := make([]model.FusedPharmacy, 0, len(fused))
	for _, f := range fused {
		if q.OnDutyOnly && f.OnDutyStatus == model.DutyNone {
			continue
		}
		d := geo.DistanceKm(q.Center, model.Coordinate{Lat: f.Lat, Lng: f.Lng})
		f.DistanceKm = &d
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].DistanceKm < *out[j].DistanceKm
	})
	return out
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func ParseNearbyRequest(r *http.Request, defaultRadiusM int) (model.NearbyRequest, error) {
	qs := r.URL.Query()

	lat, err := parseCoord(qs.Get("lat"), "lat", -90, 90)
	if err != nil {
		return model.NearbyRequest{}, err
	}
	lng, err := parseCoord(qs.Get("lng"), "lng", -180, 180)
	if err != nil {
		return model.NearbyRequest{}, err
	}

	radius := defaultRadiusM
	if raw := strings.TrimSpace(qs.Get("radius")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return model.NearbyRequest{}, fmt.Errorf("invalid radius %q", raw)
		}
		radius = clamp(n, minRadiusM, maxRadiusM)
	}

	onDuty := false
	if raw := strings.TrimSpace(qs.Get("on_duty")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return model.NearbyRequest{}, fmt.Errorf("invalid on_duty %q", raw)
		}
		onDuty = b
	}

	return model.NearbyRequest{
		Center:       model.Coordinate{Lat: lat, Lng: lng},
		RadiusMeters: radius,
		OnDutyOnly:   onDuty,
	}, nil
}

func parseCoord(raw, name string, min, max float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("missing required parameter: " + name)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	if f < min || f > max {
		return 0, fmt.Errorf("%s must be in [%g,%g]", name, min, max)
	}
	return f, nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
