package geo

import (
	"math"
	"testing"

	"github.com/pharmagarde/locator/internal/core/model"
)

func TestDistanceKm_Identity(t *testing.T) {
	pts := []model.Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 5.36, Lng: -4.0083},
		{Lat: -33.87, Lng: 151.21},
		{Lat: 89.9, Lng: 179.9},
	}
	for _, p := range pts {
		if d := DistanceKm(p, p); d != 0 {
			t.Errorf("DistanceKm(%v, same) = %v, want 0", p, d)
		}
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	pairs := [][2]model.Coordinate{
		{{Lat: 5.36, Lng: -4.0083}, {Lat: 5.40, Lng: -4.05}},
		{{Lat: 48.8566, Lng: 2.3522}, {Lat: 51.5074, Lng: -0.1278}},
		{{Lat: -10, Lng: 170}, {Lat: 10, Lng: -170}},
	}
	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1])
		ba := DistanceKm(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("asymmetric: %v vs %v", ab, ba)
		}
	}
}

func TestDistanceKm_KnownValues(t *testing.T) {
	center := model.Coordinate{Lat: 5.36, Lng: -4.0083}

	near := DistanceKm(center, model.Coordinate{Lat: 5.361, Lng: -4.009})
	if near <= 0.1 || near >= 0.2 {
		t.Errorf("near distance = %v km, want ~0.14", near)
	}

	far := DistanceKm(center, model.Coordinate{Lat: 5.40, Lng: -4.05})
	if math.Abs(far-6.43) > 0.2 {
		t.Errorf("far distance = %v km, want ~6.4", far)
	}

	// Paris - London is a well known ~343 km great-circle leg.
	pl := DistanceKm(
		model.Coordinate{Lat: 48.8566, Lng: 2.3522},
		model.Coordinate{Lat: 51.5074, Lng: -0.1278},
	)
	if math.Abs(pl-343.5) > 3 {
		t.Errorf("paris-london = %v km, want ~343.5", pl)
	}
}
