package models

// Reason explains why the evaluator chose a command.
type Reason string

const (
	ReasonNoData            Reason = "NO_DATA"
	ReasonThresholdExceeded Reason = "THRESHOLD_EXCEEDED"
	ReasonWithinLimits      Reason = "WITHIN_LIMITS"
)

// ThresholdConfig holds the limits that switch the LED on.
type ThresholdConfig struct {
	TempHigh float64 `json:"temp_high"` // °C, on above
	HumHigh  float64 `json:"hum_high"`  // %, on above
	LumLow   float64 `json:"lum_low"`   // on below
}

// DefaultThresholds returns the factory limits.
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{TempHigh: 28.0, HumHigh: 65.0, LumLow: 150.0}
}

// Decision is the evaluator output for one tick.
type Decision struct {
	Command  Command      `json:"command"`
	Reason   Reason       `json:"reason"`
	Triggers []SensorKind `json:"triggers,omitempty"`
}
