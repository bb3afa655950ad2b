// Package model defines core domain types shared across the service.
package model

import (
	"fmt"
	"time"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// DutyStatus is the "garde" state of a pharmacy on a given date.
type DutyStatus string

const (
	DutyNone        DutyStatus = "none"
	DutyDay         DutyStatus = "day"
	DutyNight       DutyStatus = "night"
	DutyDayAndNight DutyStatus = "day_and_night"
)

func (s DutyStatus) Valid() bool {
	switch s {
	case DutyNone, DutyDay, DutyNight, DutyDayAndNight:
		return true
	}
	return false
}

// DateKey is a UTC calendar date in YYYY-MM-DD form. Duty records match on
// exact calendar days; there is no timezone interpolation.
type DateKey string

const dateKeyLayout = "2006-01-02"

func DateKeyFor(t time.Time) DateKey {
	return DateKey(t.UTC().Format(dateKeyLayout))
}

func ParseDateKey(s string) (DateKey, error) {
	if _, err := time.Parse(dateKeyLayout, s); err != nil {
		return "", fmt.Errorf("parse date key %q: %w", s, err)
	}
	return DateKey(s), nil
}

func (d DateKey) String() string { return string(d) }

// PharmacyCandidate is a venue returned by the places gateway. Candidates are
// regenerated on every gateway fetch and never persisted. The ID is the
// provider's opaque place id; the duty seeding process keys duty records by
// the same id, which is a hard invariant of the fusion join.
type PharmacyCandidate struct {
	ID       string
	Name     string
	Address  string
	Location Coordinate
}

// FusedPharmacy is a candidate annotated with its duty status, and with the
// caller-relative distance once the query endpoint has one to offer.
type FusedPharmacy struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Address      string     `json:"address"`
	Lat          float64    `json:"lat"`
	Lng          float64    `json:"lng"`
	DistanceKm   *float64   `json:"distanceKm,omitempty"`
	OnDutyStatus DutyStatus `json:"onDutyStatus"`
}

// NearbyRequest is a validated query for the nearby endpoint.
type NearbyRequest struct {
	Center       Coordinate
	RadiusMeters int
	OnDutyOnly   bool
}
