package kafka

import "time"

// WireEvent is a duty-schedule update published by the schedule tooling.
// Version increases per (pharmacy_id, date_key) so replays and reordered
// deliveries can be dropped.
type WireEvent struct {
	PharmacyID string    `json:"pharmacy_id"`
	DateKey    string    `json:"date_key"`
	Version    uint64    `json:"version"`
	TS         time.Time `json:"ts"`
	Op         string    `json:"op,omitempty"` // set | delete
}
