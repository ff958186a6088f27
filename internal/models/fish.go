package models

import (
	"fmt"
	"time"
)

// FishMoveType tags the direction and nature of a fish movement.
type FishMoveType string

const (
	MoveStocking    FishMoveType = "stocking"
	MoveSale        FishMoveType = "sale"
	MoveDeath       FishMoveType = "death"
	MoveTransferIn  FishMoveType = "transfer_in"
	MoveTransferOut FishMoveType = "transfer_out"
)

// ParseFishMoveType maps a stored string back to a FishMoveType.
func ParseFishMoveType(s string) (FishMoveType, error) {
	switch FishMoveType(s) {
	case MoveStocking, MoveSale, MoveDeath, MoveTransferIn, MoveTransferOut:
		return FishMoveType(s), nil
	}
	return "", fmt.Errorf("unknown fish move type: %q", s)
}

// FishMoveRow is an immutable fish movement fact. A transfer between two
// ponds is recorded as two independent rows (transfer_out at the source,
// transfer_in at the destination) with no pairing id.
type FishMoveRow struct {
	TS         time.Time    `validate:"required"`
	PondID     string       `validate:"required"`
	MoveType   FishMoveType `validate:"required"`
	Quantity   int64        `validate:"gt=0"`
	AvgWeightG *float64
	Reason     string
	Ref        string
	User       string `validate:"required"`
}

func NewFishMoveRow(ts time.Time, pondID string, moveType FishMoveType, quantity int64, avgWeightG *float64, reason, ref, user string) (*FishMoveRow, error) {
	r := &FishMoveRow{
		TS:         ts,
		PondID:     pondID,
		MoveType:   moveType,
		Quantity:   quantity,
		AvgWeightG: avgWeightG,
		Reason:     reason,
		Ref:        ref,
		User:       user,
	}
	if err := validate.Struct(r); err != nil {
		return nil, err
	}
	if avgWeightG != nil && *avgWeightG <= 0 {
		return nil, fmt.Errorf("average weight must be positive when given")
	}
	return r, nil
}

// Row serializes the fact in FishMoveSchema field order.
func (r *FishMoveRow) Row() []interface{} {
	var weight interface{} = ""
	if r.AvgWeightG != nil {
		weight = *r.AvgWeightG
	}
	return []interface{}{
		r.TS.Format(TimeLayout), r.PondID, string(r.MoveType), r.Quantity, weight, r.Reason, r.Ref, r.User,
	}
}
