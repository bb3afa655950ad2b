// Package fusion merges gateway-sourced pharmacy candidates with duty-status
// data under a process-lifetime, TTL-bounded cache.
package fusion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pharmagarde/locator/internal/core/model"
	"github.com/pharmagarde/locator/internal/core/observability"
	"github.com/pharmagarde/locator/internal/fusion/keys"
	"github.com/pharmagarde/locator/internal/grid"
)

type Gateway interface {
	NearbyPharmacies(ctx context.Context, center model.Coordinate, radiusMeters int) ([]model.PharmacyCandidate, error)
}

type DutyResolver interface {
	OnDuty(ctx context.Context, day model.DateKey) (map[string]model.DutyStatus, error)
}

// entry is immutable once stored: data and fetchedAt are only ever replaced
// together by swapping the pointer, so no reader can observe one without the
// other.
type entry struct {
	data      []model.FusedPharmacy
	fetchedAt time.Time
}

type Cache struct {
	log   *slog.Logger
	gw    Gateway
	duty  DutyResolver
	quant *grid.Quantizer
	ttl   time.Duration
	lru   *lru.Cache[string, *entry]

	now func() time.Time
}

func New(log *slog.Logger, gw Gateway, duty DutyResolver, quant *grid.Quantizer, ttl time.Duration, size int) (*Cache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("fusion ttl must be positive, got %s", ttl)
	}
	if size <= 0 {
		size = 256
	}
	l, err := lru.New[string, *entry](size)
	if err != nil {
		return nil, fmt.Errorf("fusion lru: %w", err)
	}
	return &Cache{
		log:   log,
		gw:    gw,
		duty:  duty,
		quant: quant,
		ttl:   ttl,
		lru:   l,
		now:   time.Now,
	}, nil
}

// Resolve returns the fused pharmacy list for the grid cell containing
// center. Within the TTL the cached list is returned unchanged; the exact
// center only matters for keying. On a refresh failure a previously cached
// list of any age is served instead, and the error is surfaced only when no
// prior data exists for the key. The returned slice is shared; callers must
// not mutate it.
func (c *Cache) Resolve(ctx context.Context, center model.Coordinate, radiusMeters int) ([]model.FusedPharmacy, error) {
	cell, err := c.quant.CellFor(center)
	if err != nil {
		return nil, fmt.Errorf("quantize center: %w", err)
	}
	key := keys.Key(c.quant.Res(), cell, radiusMeters, nil)

	now := c.now()
	prev, ok := c.lru.Get(key)
	if ok && now.Sub(prev.fetchedAt) < c.ttl {
		observability.IncFusion(observability.FusionHit)
		c.log.Debug("fusion cache hit",
			"cell", cell, "age", now.Sub(prev.fetchedAt).String(), "results", len(prev.data))
		return prev.data, nil
	}
	observability.IncFusion(observability.FusionMiss)

	// No lock is held across the upstream calls: a racing refresh for the
	// same key is an idempotent overwrite and the later write wins.
	candidates, err := c.gw.NearbyPharmacies(ctx, center, radiusMeters)
	if err != nil {
		if ok {
			observability.IncFusion(observability.FusionStaleServe)
			c.log.Warn("gateway refresh failed, serving stale entry",
				"cell", cell, "age", now.Sub(prev.fetchedAt).String(),
				"results", len(prev.data), "err", err)
			return prev.data, nil
		}
		observability.IncFusion(observability.FusionError)
		return nil, fmt.Errorf("nearby refresh for cell %s: %w", cell, err)
	}

	today := model.DateKeyFor(now)
	onDuty, err := c.duty.OnDuty(ctx, today)
	if err != nil {
		// Duty status is enrichment, not the primary payload: degrade to
		// all-none rather than failing the refresh.
		observability.IncDutyDegraded()
		c.log.Warn("duty lookup failed, serving results without duty status",
			"cell", cell, "date", today.String(), "err", err)
		onDuty = nil
	}

	fused := merge(candidates, onDuty)
	c.lru.Add(key, &entry{data: fused, fetchedAt: now})
	observability.SetFusionEntries(c.lru.Len())

	c.log.Info("fusion cache refreshed",
		"cell", cell, "results", len(fused), "on_duty", len(onDuty), "date", today.String())
	return fused, nil
}

// merge attaches duty status to each candidate. The join assumes duty records
// are keyed by the gateway's place id; an id with no matching candidate is
// silently dropped.
func merge(candidates []model.PharmacyCandidate, onDuty map[string]model.DutyStatus) []model.FusedPharmacy {
	out := make([]model.FusedPharmacy, 0, len(candidates))
	for _, cand := range candidates {
		status := model.DutyNone
		if s, ok := onDuty[cand.ID]; ok {
			status = s
		}
		out = append(out, model.FusedPharmacy{
			ID:           cand.ID,
			Name:         cand.Name,
			Address:      cand.Address,
			Lat:          cand.Location.Lat,
			Lng:          cand.Location.Lng,
			OnDutyStatus: status,
		})
	}
	return out
}

// InvalidateAll drops every cached entry. Duty updates can touch any entry
// that embeds the edited pharmacy, so the invalidation consumer purges
// wholesale rather than tracking pharmacy->cell membership.
func (c *Cache) InvalidateAll() {
	c.lru.Purge()
	observability.SetFusionEntries(0)
}

func (c *Cache) Len() int { return c.lru.Len() }

// SetClock overrides the cache's clock. Test hook.
func (c *Cache) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}
