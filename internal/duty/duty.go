// Package duty resolves which pharmacies are on "garde" for a calendar day.
package duty

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pharmagarde/locator/internal/core/model"
)

// Store is the read side of the duty schedule. Implementations must return
// the whole day's records in one batch, not one lookup per pharmacy.
type Store interface {
	RecordsForDate(ctx context.Context, day model.DateKey) (map[string]model.DutyStatus, error)
}

type Resolver struct {
	log   *slog.Logger
	store Store
}

func NewResolver(log *slog.Logger, store Store) *Resolver {
	return &Resolver{log: log, store: store}
}

// OnDuty returns pharmacyID -> status for every pharmacy with an active,
// non-none record on the given date. Records with unknown status strings are
// skipped rather than failing the batch; callers treat absence as none.
func (r *Resolver) OnDuty(ctx context.Context, day model.DateKey) (map[string]model.DutyStatus, error) {
	records, err := r.store.RecordsForDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("duty records for %s: %w", day, err)
	}

	out := make(map[string]model.DutyStatus, len(records))
	for id, status := range records {
		if !status.Valid() {
			r.log.Warn("skipping duty record with unknown status",
				"pharmacy_id", id, "status", string(status), "date", day.String())
			continue
		}
		if status == model.DutyNone {
			continue
		}
		out[id] = status
	}
	return out, nil
}
