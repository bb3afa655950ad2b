package redisstore

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/pharmagarde/locator/internal/core/model"
)

// creates a store connected to miniredis for testing
func newMini(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)

	s, err := New(ctx, mr.Addr(), 48*time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestSetAndBatchRead(t *testing.T) {
	s, _ := newMini(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	day := model.DateKey("2026-08-31")
	if err := s.SetStatus(ctx, day, "P1", model.DutyNight); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if err := s.SetStatus(ctx, day, "P2", model.DutyDayAndNight); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	// record on another day must not leak into this one
	if err := s.SetStatus(ctx, model.DateKey("2026-09-01"), "P3", model.DutyDay); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	got, err := s.RecordsForDate(ctx, day)
	if err != nil {
		t.Fatalf("RecordsForDate: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2: %v", len(got), got)
	}
	if got["P1"] != model.DutyNight || got["P2"] != model.DutyDayAndNight {
		t.Fatalf("unexpected statuses: %v", got)
	}
}

func TestRecordsForDate_EmptyDay(t *testing.T) {
	s, _ := newMini(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := s.RecordsForDate(ctx, model.DateKey("2026-01-01"))
	if err != nil {
		t.Fatalf("RecordsForDate: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestSetStatus_Validation(t *testing.T) {
	s, _ := newMini(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	day := model.DateKey("2026-08-31")
	if err := s.SetStatus(ctx, day, "", model.DutyDay); err == nil {
		t.Error("want error for empty pharmacy id")
	}
	if err := s.SetStatus(ctx, day, "P1", model.DutyStatus("weekend")); err == nil {
		t.Error("want error for unknown status")
	}
}

func TestDeleteStatus(t *testing.T) {
	s, _ := newMini(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	day := model.DateKey("2026-08-31")
	if err := s.SetStatus(ctx, day, "P1", model.DutyDay); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if err := s.DeleteStatus(ctx, day, "P1"); err != nil {
		t.Fatalf("DeleteStatus: %v", err)
	}
	// deleting an absent field stays silent
	if err := s.DeleteStatus(ctx, day, "P1"); err != nil {
		t.Fatalf("DeleteStatus (absent): %v", err)
	}

	got, err := s.RecordsForDate(ctx, day)
	if err != nil {
		t.Fatalf("RecordsForDate: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestRetentionSetOnWrite(t *testing.T) {
	s, mr := newMini(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	day := model.DateKey("2026-08-31")
	if err := s.SetStatus(ctx, day, "P1", model.DutyDay); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if ttl := mr.TTL("duty:2026-08-31"); ttl <= 0 || ttl > 48*time.Hour {
		t.Fatalf("hash ttl = %v, want (0, 48h]", ttl)
	}
}
