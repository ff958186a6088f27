package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
)

func TestWaterQualityEndToEnd(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnWater))
	require.NoError(t, e.tap(operatorID, "pond_POND-1"))
	require.NoError(t, e.text(operatorID, "8.5"))
	require.NoError(t, e.text(operatorID, "16.0"))
	require.NoError(t, e.tap(operatorID, "confirm_save"))

	rows := e.api.data[models.SheetWaterQualityLog]
	require.Len(t, rows, 1)
	assert.Equal(t, "POND-1", rows[0][1])
	assert.Equal(t, 8.5, rows[0][2])
	assert.Equal(t, 16.0, rows[0][3])

	assert.Empty(t, e.notify.broadcasts, "in-range reading must not alert anyone")
	assert.Contains(t, e.ui.last().Text, "Saved")
	assert.Empty(t, e.engine.sessions.Peek(operatorID).Flow)
}

func TestWaterQualityRejectsOutOfRangeInput(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnWater))
	require.NoError(t, e.tap(operatorID, "pond_POND-1"))

	// stays on the DO step until the value is in range
	require.NoError(t, e.text(operatorID, "3.9"))
	assert.Contains(t, e.ui.last().Text, "between 4 and 20")
	assert.Equal(t, "do", e.engine.sessions.Peek(operatorID).State)

	require.NoError(t, e.text(operatorID, "20,0"))
	assert.Equal(t, "temp", e.engine.sessions.Peek(operatorID).State)

	require.NoError(t, e.text(operatorID, "35.1"))
	assert.Equal(t, "temp", e.engine.sessions.Peek(operatorID).State)

	assert.Empty(t, e.api.data[models.SheetWaterQualityLog])
}

func TestWaterQualityCriticalBroadcast(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnWater))
	require.NoError(t, e.tap(operatorID, "pond_POND-1"))
	require.NoError(t, e.text(operatorID, "4.0"))
	require.NoError(t, e.text(operatorID, "16.0"))

	// criticality is evaluated against the committed values, so a value
	// pushed past the threshold after validation still raises the alarm
	s := e.engine.sessions.Peek(operatorID)
	s.Data.(*waterData).DO = 3.0

	require.NoError(t, e.tap(operatorID, "confirm_save"))

	require.Len(t, e.api.data[models.SheetWaterQualityLog], 1)
	require.Len(t, e.notify.broadcasts, 1)
	assert.Contains(t, e.notify.broadcasts[0], "Critical water quality")
	assert.Contains(t, e.notify.broadcasts[0], "North")
}

func TestWaterQualityCancelMidFlow(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnWater))
	require.NoError(t, e.tap(operatorID, "pond_POND-1"))
	require.NoError(t, e.text(operatorID, "8.5"))
	require.NoError(t, e.tap(operatorID, "cancel_op"))

	assert.Empty(t, e.api.data[models.SheetWaterQualityLog])
	assert.Empty(t, e.engine.sessions.Peek(operatorID).Flow)
}
