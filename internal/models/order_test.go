package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderID(t *testing.T) {
	ts := time.Unix(1717236000, 0)
	assert.Equal(t, "ORD-1717236000-42", NewOrderID(ts, 42))
}

func TestOrderItemTotal(t *testing.T) {
	p := &Product{ID: "PRD-1", Name: "Live carp", Price: 150.0, Unit: "kg", IsAvailable: true}
	item, err := NewSalesOrderItemRow("ORD-1-42", p, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 375.0, item.Total())

	_, err = NewSalesOrderItemRow("ORD-1-42", p, 0)
	assert.Error(t, err)
}

func TestSalesOrderRowRoundTrip(t *testing.T) {
	ts := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	order, err := NewSalesOrderRow(ts, 42, "Ivan", "+79001234567", 375.0)
	require.NoError(t, err)
	assert.Equal(t, OrderNew, order.Status)

	got, err := SalesOrderRowFromRow(order.Row())
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, got.OrderID)
	assert.Equal(t, int64(42), got.ClientID)
	assert.Equal(t, 375.0, got.TotalAmount)
	assert.Equal(t, ts, got.TS)
}

func TestSalesOrderRowFromRowRejectsBadStatus(t *testing.T) {
	_, err := SalesOrderRowFromRow([]interface{}{"ORD-1-42", "2024-06-01T10:30:00", float64(42), "Ivan", "", "shipped", "375"})
	assert.Error(t, err)
}

func TestSalesOrderItemRowFromRow(t *testing.T) {
	item, err := SalesOrderItemRowFromRow([]interface{}{"ORD-1-42", "PRD-1", "Live carp", "2,5", "150"})
	require.NoError(t, err)
	assert.Equal(t, 2.5, item.Quantity)
	assert.Equal(t, 150.0, item.PricePerUnit)
}
