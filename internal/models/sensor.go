package models

import (
	"fmt"
	"strings"
	"time"
)

// SensorKind names one of the entity attributes polled from the historical-data service.
type SensorKind string

const (
	Luminosity  SensorKind = "luminosity"
	Humidity    SensorKind = "humidity"
	Temperature SensorKind = "temperature"
)

// SensorKinds lists every kind in poll order.
var SensorKinds = []SensorKind{Luminosity, Humidity, Temperature}

// ParseSensorKind maps a case-insensitive attribute name to its SensorKind.
func ParseSensorKind(s string) (SensorKind, error) {
	k := SensorKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case Luminosity, Humidity, Temperature:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sensor kind %q", s)
	}
}

// RawRecord is one entry of an STH "values" array, exactly as received.
type RawRecord struct {
	AttrValue string `json:"attrValue"`
	RecvTime  string `json:"recvTime"`
}

// Reading is a parsed RawRecord. Instant is already in the display time zone.
type Reading struct {
	Instant time.Time `json:"instant"`
	Value   float64   `json:"value"`
}

// Series is the chart-ready view of one rolling history.
type Series struct {
	Kind       SensorKind  `json:"kind"`
	Timestamps []time.Time `json:"timestamps"`
	Values     []float64   `json:"values"`
}

// NewSeries splits readings into parallel timestamp/value slices.
func NewSeries(kind SensorKind, readings []Reading) Series {
	s := Series{
		Kind:       kind,
		Timestamps: make([]time.Time, 0, len(readings)),
		Values:     make([]float64, 0, len(readings)),
	}
	for _, r := range readings {
		s.Timestamps = append(s.Timestamps, r.Instant)
		s.Values = append(s.Values, r.Value)
	}
	return s
}
