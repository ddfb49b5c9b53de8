package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sensor_dashboard/internal/logger"
)

// recvTimeLayouts are the accepted STH recvTime formats, both UTC.
var recvTimeLayouts = []string{
	"2006-01-02T15:04:05.999999Z",
	"2006-01-02T15:04:05Z",
}

// maxFracDigits caps the fractional part at microseconds; time.Parse alone takes any length.
const maxFracDigits = 6

var ErrUnparseableTimestamp = errors.New("unparseable timestamp")

// TimeConverter turns STH timestamps into instants in the display time zone.
type TimeConverter struct {
	loc *time.Location
	log *logger.Logger
}

// NewTimeConverter uses UTC when loc is nil.
func NewTimeConverter(loc *time.Location, log *logger.Logger) *TimeConverter {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TimeConverter{loc: loc, log: log}
}

// Location returns the display time zone.
func (c *TimeConverter) Location() *time.Location { return c.loc }

// Convert parses s as UTC and returns it in the display time zone.
func (c *TimeConverter) Convert(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if fracDigits(s) > maxFracDigits {
		return time.Time{}, fmt.Errorf("%w: %q has more than %d fractional digits", ErrUnparseableTimestamp, s, maxFracDigits)
	}
	for _, layout := range recvTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(c.loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableTimestamp, s)
}

// ConvertAll converts every entry, dropping (and logging) the ones that do not parse.
// Relative order of the survivors is preserved; kept[j] is the input index of out[j].
func (c *TimeConverter) ConvertAll(ss []string) (out []time.Time, kept []int) {
	out = make([]time.Time, 0, len(ss))
	kept = make([]int, 0, len(ss))
	for i, s := range ss {
		t, err := c.Convert(s)
		if err != nil {
			c.log.Warnw("timestamp_parse_failed", "value", s, "err", err)
			continue
		}
		out = append(out, t)
		kept = append(kept, i)
	}
	return out, kept
}

// fracDigits counts the digits after the seconds separator, 0 when there is none.
func fracDigits(s string) int {
	dot := strings.LastIndexByte(s, '.')
	if dot < 0 {
		return 0
	}
	n := 0
	for _, r := range s[dot+1:] {
		if r < '0' || r > '9' {
			break
		}
		n++
	}
	return n
}
