package models

import (
	"fmt"
	"time"

	"fishfarm-bot/config"
)

// WaterQualityRow is an immutable water measurement fact.
type WaterQualityRow struct {
	TS            time.Time `validate:"required"`
	PondID        string    `validate:"required"`
	DissolvedO2   float64
	TemperatureC  float64
	Notes         string
	User          string `validate:"required"`
	limits        config.Limits
}

// NewWaterQualityRow validates DO and temperature against the configured
// bounds, inclusive at both ends.
func NewWaterQualityRow(limits config.Limits, ts time.Time, pondID string, do, temp float64, notes, user string) (*WaterQualityRow, error) {
	if do < limits.DOMin || do > limits.DOMax {
		return nil, fmt.Errorf("DO must be within [%g, %g] mg/L", limits.DOMin, limits.DOMax)
	}
	if temp < limits.TempMin || temp > limits.TempMax {
		return nil, fmt.Errorf("temperature must be within [%g, %g] C", limits.TempMin, limits.TempMax)
	}
	r := &WaterQualityRow{
		TS:           ts,
		PondID:       pondID,
		DissolvedO2:  do,
		TemperatureC: temp,
		Notes:        notes,
		User:         user,
		limits:       limits,
	}
	if err := validate.Struct(r); err != nil {
		return nil, err
	}
	return r, nil
}

// IsCritical reports whether the measurement crosses an alert threshold.
// Evaluated at commit time, after construction.
func (r *WaterQualityRow) IsCritical() bool {
	return r.DissolvedO2 < r.limits.DOMin ||
		r.TemperatureC < r.limits.TempMin ||
		r.TemperatureC > r.limits.TempMax
}

// Row serializes the fact in WaterQualitySchema field order.
func (r *WaterQualityRow) Row() []interface{} {
	return []interface{}{r.TS.Format(TimeLayout), r.PondID, r.DissolvedO2, r.TemperatureC, r.Notes, r.User}
}
