package models

import (
	"fmt"
	"time"

	"fishfarm-bot/config"
)

// StockMoveType tags a feed warehouse operation.
type StockMoveType string

const (
	StockIncome  StockMoveType = "income"
	StockOutcome StockMoveType = "outcome"
)

// ParseStockMoveType maps a stored string back to a StockMoveType.
func ParseStockMoveType(s string) (StockMoveType, error) {
	switch StockMoveType(s) {
	case StockIncome, StockOutcome:
		return StockMoveType(s), nil
	}
	return "", fmt.Errorf("unknown stock move type: %q", s)
}

// StockMoveRow is an immutable feed stock movement fact.
type StockMoveRow struct {
	TS           time.Time     `validate:"required"`
	FeedTypeID   string        `validate:"required"`
	FeedTypeName string        `validate:"required"`
	MoveType     StockMoveType `validate:"required"`
	MassKg       float64
	Reason       string `validate:"required"`
	User         string `validate:"required"`
}

func NewStockMoveRow(limits config.Limits, ts time.Time, feedTypeID, feedTypeName string, moveType StockMoveType, massKg float64, reason, user string) (*StockMoveRow, error) {
	if massKg <= 0 || massKg > limits.MaxStockMassKg {
		return nil, fmt.Errorf("stock mass must be within (0, %g] kg", limits.MaxStockMassKg)
	}
	r := &StockMoveRow{
		TS:           ts,
		FeedTypeID:   feedTypeID,
		FeedTypeName: feedTypeName,
		MoveType:     moveType,
		MassKg:       massKg,
		Reason:       reason,
		User:         user,
	}
	if err := validate.Struct(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Row serializes the fact in StockMoveSchema field order.
func (r *StockMoveRow) Row() []interface{} {
	return []interface{}{
		r.TS.Format(TimeLayout), r.FeedTypeID, r.FeedTypeName, string(r.MoveType), r.MassKg, r.Reason, r.User,
	}
}
