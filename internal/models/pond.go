package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pond is a rearing unit: a pond, a pool, or anything else holding fish.
// Ponds are deactivated rather than deleted.
type Pond struct {
	ID           string `validate:"required"`
	Name         string `validate:"required"`
	Type         string `validate:"required"`
	Species      string
	StockingDate *time.Time
	InitialQty   *int64
	Notes        string
	IsActive     bool
}

// NewPondID generates a reference id like POND-3FA29C.
func NewPondID() string {
	return "POND-" + strings.ToUpper(uuid.NewString()[:6])
}

// NewPond validates and builds a pond created by the admin add wizard.
func NewPond(id, name, pondType, species string, stockingDate *time.Time, initialQty *int64, notes string) (*Pond, error) {
	p := &Pond{
		ID:           id,
		Name:         name,
		Type:         pondType,
		Species:      species,
		StockingDate: stockingDate,
		InitialQty:   initialQty,
		Notes:        notes,
		IsActive:     true,
	}
	if err := validate.Struct(p); err != nil {
		return nil, err
	}
	if p.InitialQty != nil && *p.InitialQty < 0 {
		return nil, fmt.Errorf("initial quantity cannot be negative")
	}
	return p, nil
}

// Row serializes the pond in PondSchema field order.
func (p *Pond) Row() []interface{} {
	var date, qty interface{} = "", ""
	if p.StockingDate != nil {
		date = p.StockingDate.Format(DateLayout)
	}
	if p.InitialQty != nil {
		qty = *p.InitialQty
	}
	return []interface{}{
		p.ID, p.Name, p.Type, p.Species, date, qty, p.Notes, FormatBool(p.IsActive),
	}
}

func (p *Pond) Label() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.ID)
}

// PondFromRow parses one PONDS sheet row.
func PondFromRow(row []interface{}) (*Pond, error) {
	p := &Pond{
		ID:       cellString(row, 0),
		Name:     cellString(row, 1),
		Type:     cellString(row, 2),
		Species:  cellString(row, 3),
		Notes:    cellString(row, 6),
		IsActive: cellBool(row, 7),
	}
	if p.ID == "" {
		return nil, fmt.Errorf("pond row without id")
	}
	if s := cellString(row, 4); s != "" {
		if t, err := time.Parse(DateLayout, s); err == nil {
			p.StockingDate = &t
		}
	}
	if s := cellString(row, 5); s != "" {
		qty, err := cellInt64(row, 5)
		if err != nil {
			return nil, fmt.Errorf("pond %s initial_qty: %w", p.ID, err)
		}
		p.InitialQty = &qty
	}
	return p, nil
}
