package keys

import (
	"strings"
	"testing"
)

func TestKey_Deterministic(t *testing.T) {
	a := Key(8, "8854a93225fffff", 5000, nil)
	b := Key(8, "8854a93225fffff", 5000, nil)
	if a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
}

func TestKey_RadiusAndCellDiscriminate(t *testing.T) {
	base := Key(8, "8854a93225fffff", 5000, nil)
	if Key(8, "8854a93225fffff", 10000, nil) == base {
		t.Error("radius change did not change key")
	}
	if Key(8, "8854a93227fffff", 5000, nil) == base {
		t.Error("cell change did not change key")
	}
	if Key(7, "8854a93225fffff", 5000, nil) == base {
		t.Error("resolution change did not change key")
	}
}

func TestKey_TypeDigestIsOrderInsensitive(t *testing.T) {
	a := Key(8, "cell", 5000, []string{"pharmacy", "drugstore"})
	b := Key(8, "cell", 5000, []string{"Drugstore", " pharmacy "})
	if a != b {
		t.Fatalf("type digest order/case sensitive: %q vs %q", a, b)
	}
	if a == Key(8, "cell", 5000, []string{"pharmacy"}) {
		t.Error("different type sets share a key")
	}
}

func TestKey_SanitizesCell(t *testing.T) {
	k := Key(8, "bad:cell value", 5000, nil)
	if strings.Count(k, ":") != 4 {
		t.Fatalf("cell separator leaked into key: %q", k)
	}
}
