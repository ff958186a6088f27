package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Product is a catalog entry clients can order.
type Product struct {
	ID          string `validate:"required"`
	Name        string `validate:"required"`
	Description string
	Price       float64 `validate:"gt=0"`
	Unit        string  `validate:"required"`
	IsAvailable bool
}

// NewProductID generates a reference id like PRD-91AC02.
func NewProductID() string {
	return "PRD-" + strings.ToUpper(uuid.NewString()[:6])
}

func NewProduct(id, name, description string, price float64, unit string) (*Product, error) {
	p := &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Unit:        unit,
		IsAvailable: true,
	}
	if err := validate.Struct(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Row serializes the product in ProductSchema field order.
func (p *Product) Row() []interface{} {
	return []interface{}{p.ID, p.Name, p.Description, p.Price, p.Unit, FormatBool(p.IsAvailable)}
}

// DisplayPrice renders the price for catalog and order messages.
func (p *Product) DisplayPrice() string {
	return fmt.Sprintf("%.2f/%s", p.Price, p.Unit)
}

// ProductFromRow parses one PRODUCTS sheet row.
func ProductFromRow(row []interface{}) (*Product, error) {
	price, err := cellFloat(row, 3)
	if err != nil {
		return nil, fmt.Errorf("product price: %w", err)
	}
	p := &Product{
		ID:          cellString(row, 0),
		Name:        cellString(row, 1),
		Description: cellString(row, 2),
		Price:       price,
		Unit:        cellString(row, 4),
		IsAvailable: cellBool(row, 5),
	}
	if p.ID == "" {
		return nil, fmt.Errorf("product row without id")
	}
	return p, nil
}
