package models

import (
	"fmt"
	"time"

	"fishfarm-bot/config"
)

// WeighingRow is an immutable control-weighing fact.
type WeighingRow struct {
	TS         time.Time `validate:"required"`
	PondID     string    `validate:"required"`
	AvgWeightG float64
	User       string `validate:"required"`
}

func NewWeighingRow(limits config.Limits, ts time.Time, pondID string, avgWeightG float64, user string) (*WeighingRow, error) {
	if avgWeightG <= 0 || avgWeightG > limits.MaxAvgWeightG {
		return nil, fmt.Errorf("average weight must be within (0, %g] g", limits.MaxAvgWeightG)
	}
	r := &WeighingRow{TS: ts, PondID: pondID, AvgWeightG: avgWeightG, User: user}
	if err := validate.Struct(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Row serializes the fact in WeighingSchema field order.
func (r *WeighingRow) Row() []interface{} {
	return []interface{}{r.TS.Format(TimeLayout), r.PondID, r.AvgWeightG, r.User}
}
