package service

import "sensor_dashboard/internal/models"

// Evaluator maps the latest value of each sensor to an LED command.
type Evaluator struct {
	cfg models.ThresholdConfig
}

func NewEvaluator(cfg models.ThresholdConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Thresholds returns the configured limits.
func (e *Evaluator) Thresholds() models.ThresholdConfig { return e.cfg }

// Decide returns On when any present signal crosses its limit (strictly):
// temperature above TempHigh, humidity above HumHigh, luminosity below LumLow.
// With every signal absent the result is Off with ReasonNoData.
func (e *Evaluator) Decide(temp, hum, lum *float64) models.Decision {
	if temp == nil && hum == nil && lum == nil {
		return models.Decision{Command: models.CommandOff, Reason: models.ReasonNoData}
	}

	var triggers []models.SensorKind
	if temp != nil && *temp > e.cfg.TempHigh {
		triggers = append(triggers, models.Temperature)
	}
	if hum != nil && *hum > e.cfg.HumHigh {
		triggers = append(triggers, models.Humidity)
	}
	if lum != nil && *lum < e.cfg.LumLow {
		triggers = append(triggers, models.Luminosity)
	}

	if len(triggers) > 0 {
		return models.Decision{
			Command:  models.CommandOn,
			Reason:   models.ReasonThresholdExceeded,
			Triggers: triggers,
		}
	}
	return models.Decision{Command: models.CommandOff, Reason: models.ReasonWithinLimits}
}

// limit returns the threshold that applies to kind.
func (e *Evaluator) limit(kind models.SensorKind) float64 {
	switch kind {
	case models.Temperature:
		return e.cfg.TempHigh
	case models.Humidity:
		return e.cfg.HumHigh
	default:
		return e.cfg.LumLow
	}
}
