package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaCol(t *testing.T) {
	assert.Equal(t, 1, UserSchema.Col("user_id"))
	assert.Equal(t, 4, UserSchema.Col("role"))
	assert.Equal(t, 5, UserSchema.Col("notifications_enabled"))
	assert.Equal(t, 0, UserSchema.Col("no_such_field"))
}

// Every Row() serialization must line up with its schema's header count,
// otherwise targeted cell updates would hit the wrong column.
func TestRowWidthsMatchSchemas(t *testing.T) {
	limits := testLimits()

	u, err := NewUser(1, "n", "")
	require.NoError(t, err)
	assert.Len(t, u.Row(), len(UserSchema.Headers))

	p, err := NewPond("POND-1", "n", "earthen", "", nil, nil, "")
	require.NoError(t, err)
	assert.Len(t, p.Row(), len(PondSchema.Headers))

	ft, err := NewFeedType("FEED-1", "n")
	require.NoError(t, err)
	assert.Len(t, ft.Row(), len(FeedTypeSchema.Headers))

	pr, err := NewProduct("PRD-1", "n", "", 1, "kg")
	require.NoError(t, err)
	assert.Len(t, pr.Row(), len(ProductSchema.Headers))

	wq, err := NewWaterQualityRow(limits, testTS, "POND-1", 8.5, 16, "", "op")
	require.NoError(t, err)
	assert.Len(t, wq.Row(), len(WaterQualitySchema.Headers))

	fr, err := NewFeedingRow(limits, testTS, "POND-1", "n", 1, "op")
	require.NoError(t, err)
	assert.Len(t, fr.Row(), len(FeedingSchema.Headers))

	wr, err := NewWeighingRow(limits, testTS, "POND-1", 1, "op")
	require.NoError(t, err)
	assert.Len(t, wr.Row(), len(WeighingSchema.Headers))

	fm, err := NewFishMoveRow(testTS, "POND-1", MoveSale, 1, nil, "", "", "op")
	require.NoError(t, err)
	assert.Len(t, fm.Row(), len(FishMoveSchema.Headers))

	sm, err := NewStockMoveRow(limits, testTS, "FEED-1", "n", StockIncome, 1, "r", "op")
	require.NoError(t, err)
	assert.Len(t, sm.Row(), len(StockMoveSchema.Headers))

	so, err := NewSalesOrderRow(testTS, 1, "n", "", 1)
	require.NoError(t, err)
	assert.Len(t, so.Row(), len(SalesOrderSchema.Headers))

	si, err := NewSalesOrderItemRow("ORD-1-1", pr, 1)
	require.NoError(t, err)
	assert.Len(t, si.Row(), len(SalesOrderItemSchema.Headers))
}

func TestCellReaders(t *testing.T) {
	row := []interface{}{float64(42), " x ", "3,14", "yes"}
	assert.Equal(t, "42", cellString(row, 0))
	assert.Equal(t, "x", cellString(row, 1))

	f, err := cellFloat(row, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.14, f)

	assert.True(t, cellBool(row, 3))
	assert.False(t, cellBool(row, 10)) // out of range reads as empty

	ts := cellTime([]interface{}{"2024-06-01T10:30:00"}, 0)
	assert.Equal(t, testTS, ts)
	assert.True(t, cellTime([]interface{}{"garbage"}, 0).IsZero())
}
