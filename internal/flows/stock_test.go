package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
)

func TestFeedingEndToEnd(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnFeeding))
	require.NoError(t, e.tap(operatorID, "pond_POND-1"))
	require.NoError(t, e.tap(operatorID, "feed_FEED-1"))
	require.NoError(t, e.text(operatorID, "12,5"))
	require.NoError(t, e.tap(operatorID, "confirm_save"))

	rows := e.api.data[models.SheetFeedingLog]
	require.Len(t, rows, 1)
	assert.Equal(t, "POND-1", rows[0][1])
	assert.Equal(t, "Starter", rows[0][2])
	assert.Equal(t, 12.5, rows[0][3])
	assert.Empty(t, e.engine.sessions.Peek(operatorID).Flow)
}

func TestFeedingRejectsExcessiveMass(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnFeeding))
	require.NoError(t, e.tap(operatorID, "pond_POND-1"))
	require.NoError(t, e.tap(operatorID, "feed_FEED-1"))
	require.NoError(t, e.text(operatorID, "500.1"))

	assert.Equal(t, "mass", e.engine.sessions.Peek(operatorID).State)
	assert.Empty(t, e.api.data[models.SheetFeedingLog])

	// the boundary itself is accepted
	require.NoError(t, e.text(operatorID, "500"))
	assert.Equal(t, "confirm", e.engine.sessions.Peek(operatorID).State)
}

func TestWeighingEndToEnd(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnWeighing))
	require.NoError(t, e.tap(operatorID, "pond_POND-2"))
	require.NoError(t, e.text(operatorID, "340"))
	require.NoError(t, e.tap(operatorID, "confirm_save"))

	rows := e.api.data[models.SheetWeighingLog]
	require.Len(t, rows, 1)
	assert.Equal(t, "POND-2", rows[0][1])
	assert.Equal(t, 340.0, rows[0][2])
}

func TestStockMoveEndToEnd(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnStock))
	require.NoError(t, e.tap(operatorID, "feed_FEED-1"))
	require.NoError(t, e.tap(operatorID, "type_income"))
	require.NoError(t, e.text(operatorID, "250"))
	require.NoError(t, e.text(operatorID, "delivery from supplier"))
	require.NoError(t, e.tap(operatorID, "confirm_save"))

	rows := e.api.data[models.SheetStockMovesLog]
	require.Len(t, rows, 1)
	assert.Equal(t, "FEED-1", rows[0][1])
	assert.Equal(t, "Starter", rows[0][2])
	assert.Equal(t, "income", rows[0][3])
	assert.Equal(t, 250.0, rows[0][4])
	assert.Equal(t, "delivery from supplier", rows[0][5])
	assert.Empty(t, e.engine.sessions.Peek(operatorID).Flow)
}

func TestStockMoveRequiresReason(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnStock))
	require.NoError(t, e.tap(operatorID, "feed_FEED-1"))
	require.NoError(t, e.tap(operatorID, "type_outcome"))
	require.NoError(t, e.text(operatorID, "10"))
	require.NoError(t, e.text(operatorID, "   "))

	assert.Equal(t, "reason", e.engine.sessions.Peek(operatorID).State)
	assert.Empty(t, e.api.data[models.SheetStockMovesLog])
}
