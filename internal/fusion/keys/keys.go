// Package keys builds fusion cache keys.
package keys

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Key identifies one fused result set: the quantized cell the query fell
// into, the search radius, and a digest of the venue types requested from
// the gateway. Two queries share an entry iff their keys match.
func Key(res int, cell string, radiusMeters int, venueTypes []string) string {
	sum := xxhash.Sum64String(normalizeTypes(venueTypes))
	return fmt.Sprintf("nearby:%d:%s:r%d:t=%016x", res, sanitizeCell(cell), radiusMeters, sum)
}

func normalizeTypes(types []string) string {
	if len(types) == 0 {
		return "pharmacy"
	}
	norm := make([]string, 0, len(types))
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			norm = append(norm, t)
		}
	}
	sort.Strings(norm)
	return strings.Join(norm, ",")
}

// cells are h3 hex strings or the "global" sentinel; anything else is
// flattened so a malformed cell cannot produce key collisions via ':'
func sanitizeCell(cell string) string {
	var b strings.Builder
	b.Grow(len(cell))
	for _, r := range cell {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
