package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"sensor_dashboard/internal/models"
)

var ErrInvalidValue = errors.New("invalid sensor value")

// parsedBatch is the result of turning one fetch response into readings.
type parsedBatch struct {
	Readings []models.Reading
	// Latest is the value of the first record of the response. It is nil when
	// that record is not numeric, even if older records are.
	Latest  *float64
	Dropped int
	// Errors holds value failures; timestamp failures are logged by the converter.
	Errors []error
}

// parseValue accepts finite decimal numbers only.
func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidValue, s)
	}
	return v, nil
}

// parseRecords keeps every record whose value and timestamp both parse, in
// response order. A bad record is skipped; the rest of the batch survives.
func parseRecords(records []models.RawRecord, conv *TimeConverter) parsedBatch {
	var b parsedBatch
	b.Readings = make([]models.Reading, 0, len(records))
	if len(records) == 0 {
		return b
	}

	values := make([]float64, 0, len(records))
	stamps := make([]string, 0, len(records))
	for i, rec := range records {
		v, err := parseValue(rec.AttrValue)
		if err != nil {
			b.Dropped++
			b.Errors = append(b.Errors, err)
			continue
		}
		if i == 0 {
			latest := v
			b.Latest = &latest
		}
		values = append(values, v)
		stamps = append(stamps, rec.RecvTime)
	}

	instants, kept := conv.ConvertAll(stamps)
	b.Dropped += len(stamps) - len(kept)
	for j, idx := range kept {
		b.Readings = append(b.Readings, models.Reading{Instant: instants[j], Value: values[idx]})
	}
	return b
}
