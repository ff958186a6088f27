package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fishfarm-bot/config"
)

// FeedType is a feed reference entry, deactivated rather than deleted.
type FeedType struct {
	ID       string `validate:"required"`
	Name     string `validate:"required"`
	IsActive bool
}

// NewFeedTypeID generates a reference id like FEED-7B01DE.
func NewFeedTypeID() string {
	return "FEED-" + strings.ToUpper(uuid.NewString()[:6])
}

func NewFeedType(id, name string) (*FeedType, error) {
	ft := &FeedType{ID: id, Name: name, IsActive: true}
	if err := validate.Struct(ft); err != nil {
		return nil, err
	}
	return ft, nil
}

// Row serializes the feed type in FeedTypeSchema field order.
func (ft *FeedType) Row() []interface{} {
	return []interface{}{ft.ID, ft.Name, FormatBool(ft.IsActive)}
}

// FeedTypeFromRow parses one FEED_TYPES sheet row.
func FeedTypeFromRow(row []interface{}) (*FeedType, error) {
	ft := &FeedType{
		ID:       cellString(row, 0),
		Name:     cellString(row, 1),
		IsActive: cellBool(row, 2),
	}
	if ft.ID == "" {
		return nil, fmt.Errorf("feed type row without id")
	}
	return ft, nil
}

// FeedingRow is an immutable feeding fact.
type FeedingRow struct {
	TS       time.Time `validate:"required"`
	PondID   string    `validate:"required"`
	FeedType string    `validate:"required"`
	MassKg   float64
	User     string `validate:"required"`
}

// NewFeedingRow validates the feeding mass against the configured maximum.
func NewFeedingRow(limits config.Limits, ts time.Time, pondID, feedType string, massKg float64, user string) (*FeedingRow, error) {
	if massKg <= 0 || massKg > limits.MaxFeedingMassKg {
		return nil, fmt.Errorf("feeding mass must be within (0, %g] kg", limits.MaxFeedingMassKg)
	}
	r := &FeedingRow{TS: ts, PondID: pondID, FeedType: feedType, MassKg: massKg, User: user}
	if err := validate.Struct(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Row serializes the fact in FeedingSchema field order.
func (r *FeedingRow) Row() []interface{} {
	return []interface{}{r.TS.Format(TimeLayout), r.PondID, r.FeedType, r.MassKg, r.User}
}
