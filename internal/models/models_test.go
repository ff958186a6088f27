package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishfarm-bot/config"
)

func testLimits() config.Limits {
	return config.Limits{
		DOMin:            4.0,
		DOMax:            20.0,
		TempMin:          -2.0,
		TempMax:          35.0,
		MaxFeedingMassKg: 500,
		MaxAvgWeightG:    10000,
		MaxStockMassKg:   10000,
		PageSize:         5,
	}
}

var testTS = time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

func TestWaterQualityBounds(t *testing.T) {
	limits := testLimits()

	// boundary values are accepted on both ends
	for _, do := range []float64{4.0, 8.5, 20.0} {
		_, err := NewWaterQualityRow(limits, testTS, "POND-1", do, 16.0, "", "op")
		assert.NoError(t, err, "DO=%g", do)
	}
	for _, temp := range []float64{-2.0, 16.0, 35.0} {
		_, err := NewWaterQualityRow(limits, testTS, "POND-1", 8.5, temp, "", "op")
		assert.NoError(t, err, "temp=%g", temp)
	}

	_, err := NewWaterQualityRow(limits, testTS, "POND-1", 3.9, 16.0, "", "op")
	assert.Error(t, err)
	_, err = NewWaterQualityRow(limits, testTS, "POND-1", 20.1, 16.0, "", "op")
	assert.Error(t, err)
	_, err = NewWaterQualityRow(limits, testTS, "POND-1", 8.5, -2.1, "", "op")
	assert.Error(t, err)
	_, err = NewWaterQualityRow(limits, testTS, "POND-1", 8.5, 35.1, "", "op")
	assert.Error(t, err)
}

func TestWaterQualityCritical(t *testing.T) {
	limits := testLimits()

	r, err := NewWaterQualityRow(limits, testTS, "POND-1", 8.5, 16.0, "", "op")
	require.NoError(t, err)
	assert.False(t, r.IsCritical())

	// criticality is re-evaluated at commit time, after the value was
	// mutated past the constructor
	r.DissolvedO2 = 3.0
	assert.True(t, r.IsCritical())

	r.DissolvedO2 = 8.5
	r.TemperatureC = 36.0
	assert.True(t, r.IsCritical())
}

func TestFeedingMassBounds(t *testing.T) {
	limits := testLimits()

	r, err := NewFeedingRow(limits, testTS, "POND-1", "Starter", 500, "op")
	require.NoError(t, err)
	assert.Equal(t, 500.0, r.MassKg)

	_, err = NewFeedingRow(limits, testTS, "POND-1", "Starter", 0, "op")
	assert.Error(t, err)
	_, err = NewFeedingRow(limits, testTS, "POND-1", "Starter", 500.1, "op")
	assert.Error(t, err)
}

func TestWeighingBounds(t *testing.T) {
	limits := testLimits()

	_, err := NewWeighingRow(limits, testTS, "POND-1", 250.5, "op")
	assert.NoError(t, err)
	_, err = NewWeighingRow(limits, testTS, "POND-1", 0, "op")
	assert.Error(t, err)
	_, err = NewWeighingRow(limits, testTS, "POND-1", 10001, "op")
	assert.Error(t, err)
}

func TestFishMoveRow(t *testing.T) {
	weight := 120.0
	r, err := NewFishMoveRow(testTS, "POND-1", MoveStocking, 5000, &weight, "spring stocking", "INV-7", "op")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{
		"2024-06-01T10:30:00", "POND-1", "stocking", int64(5000), 120.0, "spring stocking", "INV-7", "op",
	}, r.Row())

	// omitted weight serializes as an empty cell
	r, err = NewFishMoveRow(testTS, "POND-1", MoveDeath, 12, nil, "disease", "", "op")
	require.NoError(t, err)
	assert.Equal(t, "", r.Row()[4])

	_, err = NewFishMoveRow(testTS, "POND-1", MoveSale, 0, nil, "", "", "op")
	assert.Error(t, err)
	bad := -1.0
	_, err = NewFishMoveRow(testTS, "POND-1", MoveSale, 10, &bad, "", "", "op")
	assert.Error(t, err)
}

func TestStockMoveBounds(t *testing.T) {
	limits := testLimits()

	r, err := NewStockMoveRow(limits, testTS, "FEED-1", "Starter", StockIncome, 25.5, "delivery", "admin")
	require.NoError(t, err)
	assert.Equal(t, StockIncome, r.MoveType)

	_, err = NewStockMoveRow(limits, testTS, "FEED-1", "Starter", StockOutcome, 0, "spill", "admin")
	assert.Error(t, err)
	_, err = NewStockMoveRow(limits, testTS, "FEED-1", "Starter", StockIncome, 10001, "delivery", "admin")
	assert.Error(t, err)
}

func TestNewUserStartsPending(t *testing.T) {
	u, err := NewUser(42, "Ivan", "+79001234567")
	require.NoError(t, err)
	assert.Equal(t, RolePending, u.Role)
	assert.True(t, u.NotificationsEnabled)
	assert.Equal(t, "Ivan (42)", u.Label())
}

func TestUserFromRow(t *testing.T) {
	// numeric cells come back as float64 from the Sheets API
	u, err := UserFromRow([]interface{}{float64(42), "Ivan", "+79001234567", "operator", "TRUE"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.ID)
	assert.Equal(t, RoleOperator, u.Role)
	assert.True(t, u.NotificationsEnabled)

	_, err = UserFromRow([]interface{}{float64(42), "Ivan", "", "superuser", "TRUE"})
	assert.Error(t, err)
}

func TestPondRowRoundTrip(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	qty := int64(3000)
	p, err := NewPond("POND-AB12CD", "North pond", "earthen", "carp", &date, &qty, "")
	require.NoError(t, err)
	assert.True(t, p.IsActive)

	got, err := PondFromRow(p.Row())
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	require.NotNil(t, got.StockingDate)
	assert.Equal(t, "2024-03-15", got.StockingDate.Format(DateLayout))
	require.NotNil(t, got.InitialQty)
	assert.Equal(t, int64(3000), *got.InitialQty)

	// optional fields may be absent entirely
	got, err = PondFromRow([]interface{}{"POND-1", "Old pond", "concrete", "", "", "", "", "FALSE"})
	require.NoError(t, err)
	assert.Nil(t, got.StockingDate)
	assert.Nil(t, got.InitialQty)
	assert.False(t, got.IsActive)
}

func TestProductValidation(t *testing.T) {
	p, err := NewProduct("PRD-1", "Live carp", "", 150.0, "kg")
	require.NoError(t, err)
	assert.Equal(t, "150.00/kg", p.DisplayPrice())

	_, err = NewProduct("PRD-2", "Free fish", "", 0, "kg")
	assert.Error(t, err)
}

func TestProductFromRowCommaDecimal(t *testing.T) {
	p, err := ProductFromRow([]interface{}{"PRD-1", "Live carp", "", "150,50", "kg", "TRUE"})
	require.NoError(t, err)
	assert.Equal(t, 150.5, p.Price)
}

func TestRoleParsing(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleOperator, RoleClient, RolePending, RoleBlocked} {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseRole("root")
	assert.Error(t, err)
	assert.NotContains(t, ActiveRoles(), RoleBlocked)
}
