package service

import (
	"errors"
	"testing"
	"time"

	"sensor_dashboard/internal/models"
)

func TestParseValue(t *testing.T) {
	t.Parallel()

	ok := map[string]float64{"29.5": 29.5, " 12 ": 12, "-3.25": -3.25, "1e2": 100}
	for in, want := range ok {
		got, err := parseValue(in)
		if err != nil || got != want {
			t.Errorf("parseValue(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, in := range []string{"", "abc", "NaN", "Inf", "-Inf", "12,5"} {
		if _, err := parseValue(in); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("parseValue(%q): want ErrInvalidValue, got %v", in, err)
		}
	}
}

func TestParseRecords_SkipsBadPointsOnly(t *testing.T) {
	t.Parallel()
	conv := NewTimeConverter(time.UTC, nil)

	b := parseRecords([]models.RawRecord{
		{AttrValue: "oops", RecvTime: "2024-01-01T12:00:00Z"},
		{AttrValue: "21.0", RecvTime: "not-a-time"},
		{AttrValue: "22.5", RecvTime: "2024-01-01T12:00:10.000Z"},
		{AttrValue: "23.0", RecvTime: "2024-01-01T12:00:20Z"},
	}, conv)

	if b.Dropped != 2 {
		t.Fatalf("Dropped=%d, want 2", b.Dropped)
	}
	if len(b.Errors) != 1 || !errors.Is(b.Errors[0], ErrInvalidValue) {
		t.Fatalf("Errors=%v, want one value error", b.Errors)
	}
	if len(b.Readings) != 2 || b.Readings[0].Value != 22.5 || b.Readings[1].Value != 23.0 {
		t.Fatalf("unexpected readings: %+v", b.Readings)
	}
	// the first record is not numeric, so there is no latest value
	if b.Latest != nil {
		t.Fatalf("Latest = %v, want nil", *b.Latest)
	}
}

func TestParseRecords_LatestIsFirstRecordOnly(t *testing.T) {
	t.Parallel()
	conv := NewTimeConverter(time.UTC, nil)

	t.Run("first record numeric", func(t *testing.T) {
		t.Parallel()
		b := parseRecords([]models.RawRecord{
			{AttrValue: "19.5", RecvTime: "2024-01-01T12:00:10Z"},
			{AttrValue: "35", RecvTime: "2024-01-01T12:00:00Z"},
		}, conv)
		if b.Latest == nil || *b.Latest != 19.5 {
			t.Fatalf("Latest = %v, want 19.5", b.Latest)
		}
	})

	t.Run("first record bad value, older one numeric", func(t *testing.T) {
		t.Parallel()
		b := parseRecords([]models.RawRecord{
			{AttrValue: "n/a", RecvTime: "2024-01-01T12:00:10Z"},
			{AttrValue: "35", RecvTime: "2024-01-01T12:00:00Z"},
		}, conv)
		if b.Latest != nil {
			t.Fatalf("Latest = %v, want nil", *b.Latest)
		}
		if len(b.Readings) != 1 || b.Readings[0].Value != 35 {
			t.Fatalf("older point should still reach history: %+v", b.Readings)
		}
	})

	t.Run("first record bad timestamp keeps its value as latest", func(t *testing.T) {
		t.Parallel()
		b := parseRecords([]models.RawRecord{
			{AttrValue: "31", RecvTime: "broken"},
			{AttrValue: "20", RecvTime: "2024-01-01T12:00:00Z"},
		}, conv)
		if b.Latest == nil || *b.Latest != 31 {
			t.Fatalf("Latest = %v, want 31", b.Latest)
		}
		if len(b.Readings) != 1 || b.Dropped != 1 {
			t.Fatalf("readings=%+v dropped=%d", b.Readings, b.Dropped)
		}
	})
}

func TestParseRecords_Empty(t *testing.T) {
	t.Parallel()
	b := parseRecords(nil, NewTimeConverter(time.UTC, nil))
	if b.Latest != nil || len(b.Readings) != 0 || b.Dropped != 0 {
		t.Fatalf("unexpected batch: %+v", b)
	}
}

func TestParseRecords_AllValuesBadMeansNoLatest(t *testing.T) {
	t.Parallel()
	b := parseRecords([]models.RawRecord{
		{AttrValue: "", RecvTime: "2024-01-01T12:00:00Z"},
		{AttrValue: "x", RecvTime: "2024-01-01T12:00:00Z"},
	}, NewTimeConverter(time.UTC, nil))
	if b.Latest != nil {
		t.Fatalf("Latest = %v, want nil", *b.Latest)
	}
	if b.Dropped != 2 {
		t.Fatalf("Dropped = %d", b.Dropped)
	}
}
