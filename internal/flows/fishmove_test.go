package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
)

func TestTransferWritesExactlyTwoRows(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnFishMove))
	require.NoError(t, e.tap(operatorID, "pond_POND-1"))
	require.NoError(t, e.tap(operatorID, "move_transfer"))
	require.NoError(t, e.tap(operatorID, "ponddest_POND-2"))
	require.NoError(t, e.text(operatorID, "250"))
	require.NoError(t, e.text(operatorID, "0")) // skip weight
	require.NoError(t, e.text(operatorID, "sorting by size"))
	require.NoError(t, e.text(operatorID, "none"))
	require.NoError(t, e.tap(operatorID, "confirm_save"))

	rows := e.api.data[models.SheetFishMovesLog]
	require.Len(t, rows, 2)

	assert.Equal(t, "POND-1", rows[0][1])
	assert.Equal(t, "transfer_out", rows[0][2])
	assert.Equal(t, "POND-2", rows[1][1])
	assert.Equal(t, "transfer_in", rows[1][2])

	// both halves share quantity and reason
	assert.Equal(t, int64(250), rows[0][3])
	assert.Equal(t, int64(250), rows[1][3])
	assert.Equal(t, "sorting by size", rows[0][5])
	assert.Equal(t, "sorting by size", rows[1][5])
	assert.Equal(t, "", rows[0][6], "skipped reference stays empty")
}

func TestTransferDestinationExcludesSource(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnFishMove))
	require.NoError(t, e.tap(operatorID, "pond_POND-1"))
	require.NoError(t, e.tap(operatorID, "move_transfer"))

	kb := e.ui.last().KB
	require.NotNil(t, kb)
	for _, row := range kb.Rows {
		for _, b := range row {
			assert.NotEqual(t, "ponddest_POND-1", b.Data)
		}
	}
}

func TestSingleMoveWritesOneRow(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnFishMove))
	require.NoError(t, e.tap(operatorID, "pond_POND-2"))
	require.NoError(t, e.tap(operatorID, "move_death"))
	require.NoError(t, e.text(operatorID, "12"))
	require.NoError(t, e.text(operatorID, "180"))
	require.NoError(t, e.text(operatorID, "oxygen drop overnight"))
	require.NoError(t, e.text(operatorID, "none"))
	require.NoError(t, e.tap(operatorID, "confirm_save"))

	rows := e.api.data[models.SheetFishMovesLog]
	require.Len(t, rows, 1)
	assert.Equal(t, "death", rows[0][2])
	assert.Equal(t, 180.0, rows[0][4])
}

func TestFishMoveRejectsFractionalQuantity(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnFishMove))
	require.NoError(t, e.tap(operatorID, "pond_POND-1"))
	require.NoError(t, e.tap(operatorID, "move_sale"))
	require.NoError(t, e.text(operatorID, "12.5"))

	assert.Equal(t, "qty", e.engine.sessions.Peek(operatorID).State)
	assert.Empty(t, e.api.data[models.SheetFishMovesLog])
}
