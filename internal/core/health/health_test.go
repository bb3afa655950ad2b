package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type reporterFunc func() (bool, []int32)

func (f reporterFunc) Readiness() (bool, []int32) { return f() }

func doGet(h http.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	return rec
}

func TestLiveness(t *testing.T) {
	rec := doGet(Liveness())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	h := Readiness(
		pingerFunc(func(context.Context) error { return nil }),
		reporterFunc(func() (bool, []int32) { return true, []int32{0, 1} }),
	)
	if rec := doGet(h); rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestReadiness_StoreDown(t *testing.T) {
	h := Readiness(pingerFunc(func(context.Context) error { return errors.New("down") }), nil)
	if rec := doGet(h); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestReadiness_ConsumerUnassigned(t *testing.T) {
	h := Readiness(
		pingerFunc(func(context.Context) error { return nil }),
		reporterFunc(func() (bool, []int32) { return false, nil }),
	)
	if rec := doGet(h); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestReadiness_NoConsumerWired(t *testing.T) {
	h := Readiness(pingerFunc(func(context.Context) error { return nil }), nil)
	if rec := doGet(h); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
