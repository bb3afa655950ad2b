// Package grid quantizes query coordinates to H3 cells for cache keying.
package grid

import (
	"fmt"

	h3 "github.com/uber/h3-go/v4"

	"github.com/pharmagarde/locator/internal/core/model"
)

// GlobalCell is the key used when quantization is disabled: every coordinate
// maps to one shared cache entry, reproducing the single-region behavior.
const GlobalCell = "global"

// ResGlobal disables quantization.
const ResGlobal = -1

type Quantizer struct {
	res int
}

// New returns a quantizer at the given H3 resolution. Resolution 8 has a
// ~0.7 km cell edge, which matches the "about 1 km grid" the cache wants.
func New(res int) (*Quantizer, error) {
	if res != ResGlobal {
		if err := validateRes(res); err != nil {
			return nil, err
		}
	}
	return &Quantizer{res: res}, nil
}

func (q *Quantizer) Res() int { return q.res }

// CellFor maps a coordinate to its H3 cell string at the configured
// resolution, or to GlobalCell when quantization is disabled.
func (q *Quantizer) CellFor(c model.Coordinate) (string, error) {
	if q.res == ResGlobal {
		return GlobalCell, nil
	}
	cell, err := h3.LatLngToCell(h3.LatLng{Lat: c.Lat, Lng: c.Lng}, q.res)
	if err != nil {
		return "", fmt.Errorf("h3 cell for %s: %w", c, err)
	}
	if !cell.IsValid() {
		return "", fmt.Errorf("invalid h3 cell for %s at res %d", c, q.res)
	}
	return cell.String(), nil
}

func validateRes(res int) error {
	if res < 0 || res > 15 {
		return fmt.Errorf("invalid H3 resolution %d (must be 0..15)", res)
	}
	return nil
}
