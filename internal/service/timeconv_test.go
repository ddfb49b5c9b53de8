package service

import (
	"errors"
	"testing"
	"time"
)

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return loc
}

func TestTimeConverter_Convert_BothFormats(t *testing.T) {
	t.Parallel()
	conv := NewTimeConverter(saoPaulo(t), nil)

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-01T12:00:00.000Z", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"2024-01-01T12:00:00.123456Z", time.Date(2024, 1, 1, 12, 0, 0, 123456000, time.UTC)},
		{"2024-01-01T12:00:00.5Z", time.Date(2024, 1, 1, 12, 0, 0, 500000000, time.UTC)},
		{"2024-01-01T12:00:00Z", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		{" 2024-07-15T03:30:00Z ", time.Date(2024, 7, 15, 3, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := conv.Convert(tc.in)
		if err != nil {
			t.Fatalf("Convert(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Errorf("Convert(%q) = %v, want instant %v", tc.in, got, tc.want)
		}
		if got.Location().String() != "America/Sao_Paulo" {
			t.Errorf("Convert(%q) location = %v", tc.in, got.Location())
		}
	}
}

func TestTimeConverter_Convert_DisplayWallClock(t *testing.T) {
	t.Parallel()
	conv := NewTimeConverter(saoPaulo(t), nil)

	// São Paulo has no DST since 2019: UTC-3.
	got, err := conv.Convert("2024-01-01T12:00:00.000Z")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got.Hour() != 9 {
		t.Fatalf("wall clock hour = %d, want 9", got.Hour())
	}
}

func TestTimeConverter_Convert_Rejects(t *testing.T) {
	t.Parallel()
	conv := NewTimeConverter(time.UTC, nil)

	for _, in := range []string{
		"",
		"yesterday",
		"2024-01-01 12:00:00",
		"2024-01-01T12:00:00",
		"2024-01-01T12:00:00+03:00",
		"2024-13-01T12:00:00Z",
		"2024-01-01T12:00:00.1234567Z",
		"2024-01-01T12:00:00.123456789Z",
	} {
		if _, err := conv.Convert(in); !errors.Is(err, ErrUnparseableTimestamp) {
			t.Errorf("Convert(%q): want ErrUnparseableTimestamp, got %v", in, err)
		}
	}
}

func TestTimeConverter_ConvertAll_DropsBadKeepsOrder(t *testing.T) {
	t.Parallel()
	conv := NewTimeConverter(time.UTC, nil)

	got, kept := conv.ConvertAll([]string{
		"2024-01-01T12:00:03Z",
		"garbage",
		"2024-01-01T12:00:01.000Z",
		"",
		"2024-01-01T12:00:02Z",
	})
	want := []time.Time{
		time.Date(2024, 1, 1, 12, 0, 3, 0, time.UTC),
		time.Date(2024, 1, 1, 12, 0, 1, 0, time.UTC),
		time.Date(2024, 1, 1, 12, 0, 2, 0, time.UTC),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	wantKept := []int{0, 2, 4}
	for i := range wantKept {
		if kept[i] != wantKept[i] {
			t.Fatalf("kept = %v, want %v", kept, wantKept)
		}
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTimeConverter_NilLocationIsUTC(t *testing.T) {
	t.Parallel()
	if loc := NewTimeConverter(nil, nil).Location(); loc != time.UTC {
		t.Fatalf("Location() = %v", loc)
	}
}

func TestFracDigits(t *testing.T) {
	t.Parallel()
	cases := map[string]int{
		"2024-01-01T12:00:00Z":         0,
		"2024-01-01T12:00:00.5Z":       1,
		"2024-01-01T12:00:00.123456Z":  6,
		"2024-01-01T12:00:00.1234567Z": 7,
	}
	for in, want := range cases {
		if got := fracDigits(in); got != want {
			t.Errorf("fracDigits(%q) = %d, want %d", in, got, want)
		}
	}
}
