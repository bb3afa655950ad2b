package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pharmagarde/locator/internal/core/model"
)

func testLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type resolverFunc func(ctx context.Context, center model.Coordinate, radiusMeters int) ([]model.FusedPharmacy, error)

func (f resolverFunc) Resolve(ctx context.Context, center model.Coordinate, radiusMeters int) ([]model.FusedPharmacy, error) {
	return f(ctx, center, radiusMeters)
}

func get(t *testing.T, h http.HandlerFunc, query string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/pharmacies/nearby?"+query, nil)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) []model.FusedPharmacy {
	t.Helper()
	var resp struct {
		Pharmacies []model.FusedPharmacy `json:"pharmacies"`
		Count      int                   `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != len(resp.Pharmacies) {
		t.Fatalf("count %d != len %d", resp.Count, len(resp.Pharmacies))
	}
	return resp.Pharmacies
}

// P1 a few hundred meters out on night duty, P2 several km away with no
// record; deliberately listed out of distance order
var fusedFixture = []model.FusedPharmacy{
	{ID: "P2", Name: "Pharmacie des Lagunes", Lat: 5.40, Lng: -4.05, OnDutyStatus: model.DutyNone},
	{ID: "P1", Name: "Pharmacie du Plateau", Lat: 5.361, Lng: -4.009, OnDutyStatus: model.DutyNight},
}

func fixtureResolver() Resolver {
	return resolverFunc(func(_ context.Context, _ model.Coordinate, _ int) ([]model.FusedPharmacy, error) {
		return fusedFixture, nil
	})
}

func TestHandleNearby_SortsByDistanceAscending(t *testing.T) {
	h := HandleNearby(testLog(), 5000, fixtureResolver())
	rec := get(t, h, "lat=5.36&lng=-4.0083")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	got := decodeBody(t, rec)
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].ID != "P1" || got[1].ID != "P2" {
		t.Fatalf("order = [%s %s], want [P1 P2]", got[0].ID, got[1].ID)
	}
	if got[0].DistanceKm == nil || got[1].DistanceKm == nil {
		t.Fatal("distances not annotated")
	}
	if *got[0].DistanceKm <= 0 || *got[0].DistanceKm >= 0.3 {
		t.Errorf("P1 distance = %v km, want ~0.14", *got[0].DistanceKm)
	}
	if *got[1].DistanceKm <= 6 || *got[1].DistanceKm >= 7 {
		t.Errorf("P2 distance = %v km, want ~6.4", *got[1].DistanceKm)
	}
	if got[0].OnDutyStatus != model.DutyNight {
		t.Errorf("P1 status = %s", got[0].OnDutyStatus)
	}
}

func TestHandleNearby_OnDutyFilter(t *testing.T) {
	h := HandleNearby(testLog(), 5000, fixtureResolver())
	rec := get(t, h, "lat=5.36&lng=-4.0083&on_duty=true")

	got := decodeBody(t, rec)
	if len(got) != 1 || got[0].ID != "P1" {
		t.Fatalf("got %+v, want only P1", got)
	}
}

func TestHandleNearby_BadInput(t *testing.T) {
	h := HandleNearby(testLog(), 5000, fixtureResolver())

	cases := []string{
		"",                          // both missing
		"lng=-4.0083",               // lat missing
		"lat=5.36",                  // lng missing
		"lat=abc&lng=-4.0083",       // malformed lat
		"lat=95&lng=-4.0083",        // lat out of range
		"lat=5.36&lng=-200",         // lng out of range
		"lat=5.36&lng=-4&radius=x",  // malformed radius
		"lat=5.36&lng=-4&on_duty=2", // malformed flag
	}
	for _, q := range cases {
		if rec := get(t, h, q); rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestHandleNearby_ResolverFailureIs500(t *testing.T) {
	h := HandleNearby(testLog(), 5000, resolverFunc(func(context.Context, model.Coordinate, int) ([]model.FusedPharmacy, error) {
		return nil, errors.New("no cache and upstream down")
	}))
	if rec := get(t, h, "lat=5.36&lng=-4.0083"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestParseNearbyRequest_RadiusClampAndDefault(t *testing.T) {
	mk := func(q string) model.NearbyRequest {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/v1/pharmacies/nearby", nil)
		req.URL.RawQuery = url.Values{}.Encode()
		req.URL.RawQuery = q
		out, err := ParseNearbyRequest(req, 5000)
		if err != nil {
			t.Fatalf("ParseNearbyRequest(%q): %v", q, err)
		}
		return out
	}

	if r := mk("lat=5.36&lng=-4.0083"); r.RadiusMeters != 5000 {
		t.Errorf("default radius = %d", r.RadiusMeters)
	}
	if r := mk("lat=5.36&lng=-4.0083&radius=100"); r.RadiusMeters != 500 {
		t.Errorf("clamped low radius = %d, want 500", r.RadiusMeters)
	}
	if r := mk("lat=5.36&lng=-4.0083&radius=900000"); r.RadiusMeters != 50000 {
		t.Errorf("clamped high radius = %d, want 50000", r.RadiusMeters)
	}
	if r := mk("lat=5.36&lng=-4.0083&radius=7500"); r.RadiusMeters != 7500 {
		t.Errorf("radius = %d, want 7500", r.RadiusMeters)
	}
}
