package models

import (
	"fmt"
	"time"
)

// OrderStatus tracks a sales order through its lifecycle.
type OrderStatus string

const (
	OrderNew       OrderStatus = "new"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus maps a stored string back to an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderNew, OrderConfirmed, OrderCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status: %q", s)
}

// NewOrderID builds a human-readable order id from the placement time and
// the client's Telegram id.
func NewOrderID(ts time.Time, clientID int64) string {
	return fmt.Sprintf("ORD-%d-%d", ts.Unix(), clientID)
}

// SalesOrderRow is the order header: one row per order.
type SalesOrderRow struct {
	OrderID     string `validate:"required"`
	TS          time.Time
	ClientID    int64  `validate:"required"`
	ClientName  string `validate:"required"`
	Phone       string
	Status      OrderStatus `validate:"required"`
	TotalAmount float64     `validate:"gt=0"`
}

func NewSalesOrderRow(ts time.Time, clientID int64, clientName, phone string, total float64) (*SalesOrderRow, error) {
	r := &SalesOrderRow{
		OrderID:     NewOrderID(ts, clientID),
		TS:          ts,
		ClientID:    clientID,
		ClientName:  clientName,
		Phone:       phone,
		Status:      OrderNew,
		TotalAmount: total,
	}
	if err := validate.Struct(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Row serializes the header in SalesOrderSchema field order.
func (r *SalesOrderRow) Row() []interface{} {
	return []interface{}{
		r.OrderID, r.TS.Format(TimeLayout), r.ClientID, r.ClientName, r.Phone, string(r.Status), r.TotalAmount,
	}
}

// SalesOrderRowFromRow parses a header row read back from the sheet.
func SalesOrderRowFromRow(row []interface{}) (*SalesOrderRow, error) {
	id := cellString(row, 0)
	if id == "" {
		return nil, fmt.Errorf("order row missing order_id")
	}
	clientID, err := cellInt64(row, 2)
	if err != nil {
		return nil, fmt.Errorf("order %s: client_id: %w", id, err)
	}
	status, err := ParseOrderStatus(cellString(row, 5))
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}
	total, err := cellFloat(row, 6)
	if err != nil {
		return nil, fmt.Errorf("order %s: total_amount: %w", id, err)
	}
	return &SalesOrderRow{
		OrderID:     id,
		TS:          cellTime(row, 1),
		ClientID:    clientID,
		ClientName:  cellString(row, 3),
		Phone:       cellString(row, 4),
		Status:      status,
		TotalAmount: total,
	}, nil
}

// SalesOrderItemRow is one line of an order. Quantity is fractional: bulk
// products sell by weight.
type SalesOrderItemRow struct {
	OrderID      string `validate:"required"`
	ProductID    string `validate:"required"`
	ProductName  string `validate:"required"`
	Quantity     float64 `validate:"gt=0"`
	PricePerUnit float64 `validate:"gt=0"`
}

func NewSalesOrderItemRow(orderID string, p *Product, quantity float64) (*SalesOrderItemRow, error) {
	r := &SalesOrderItemRow{
		OrderID:      orderID,
		ProductID:    p.ID,
		ProductName:  p.Name,
		Quantity:     quantity,
		PricePerUnit: p.Price,
	}
	if err := validate.Struct(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Total is the line amount.
func (r *SalesOrderItemRow) Total() float64 {
	return r.Quantity * r.PricePerUnit
}

// Row serializes the line in SalesOrderItemSchema field order.
func (r *SalesOrderItemRow) Row() []interface{} {
	return []interface{}{r.OrderID, r.ProductID, r.ProductName, r.Quantity, r.PricePerUnit}
}

// SalesOrderItemRowFromRow parses an item row read back from the sheet.
func SalesOrderItemRowFromRow(row []interface{}) (*SalesOrderItemRow, error) {
	id := cellString(row, 0)
	if id == "" {
		return nil, fmt.Errorf("order item row missing order_id")
	}
	qty, err := cellFloat(row, 3)
	if err != nil {
		return nil, fmt.Errorf("order %s item: quantity: %w", id, err)
	}
	price, err := cellFloat(row, 4)
	if err != nil {
		return nil, fmt.Errorf("order %s item: price_per_unit: %w", id, err)
	}
	return &SalesOrderItemRow{
		OrderID:      id,
		ProductID:    cellString(row, 1),
		ProductName:  cellString(row, 2),
		Quantity:     qty,
		PricePerUnit: price,
	}, nil
}
