package flows

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
)

func TestClientOrderEndToEnd(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(clientID, keyboard.BtnOrder))
	require.NoError(t, e.tap(clientID, "prod_PRD-1"))
	require.NoError(t, e.text(clientID, "2,5"))
	require.NoError(t, e.tap(clientID, "checkout"))
	require.NoError(t, e.tap(clientID, "confirm_order"))

	headers := e.api.data[models.SheetSalesOrders]
	require.Len(t, headers, 1)
	orderID, ok := headers[0][0].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(orderID, "ORD-"))
	assert.True(t, strings.HasSuffix(orderID, "-3"))
	assert.Equal(t, 375.0, headers[0][6]) // 150.00 x 2.5
	assert.Equal(t, "new", headers[0][5])

	items := e.api.data[models.SheetSalesOrderItems]
	require.Len(t, items, 1)
	assert.Equal(t, orderID, items[0][0])
	assert.Equal(t, 2.5, items[0][3])
	assert.Equal(t, 150.0, items[0][4])

	require.Len(t, e.notify.broadcasts, 1)
	assert.Contains(t, e.notify.broadcasts[0], orderID)
	assert.Contains(t, e.notify.broadcasts[0], "375.00")
	assert.Empty(t, e.engine.sessions.Peek(clientID).Flow)
}

func TestClientOrderAddMore(t *testing.T) {
	e := newEnv()
	e.api.data[models.SheetProducts] = append(e.api.data[models.SheetProducts],
		[]interface{}{"PRD-2", "Smoked carp", "", "300", "kg", "TRUE"})

	require.NoError(t, e.text(clientID, keyboard.BtnOrder))
	require.NoError(t, e.tap(clientID, "prod_PRD-1"))
	require.NoError(t, e.text(clientID, "2"))
	require.NoError(t, e.tap(clientID, "add_more"))
	require.NoError(t, e.tap(clientID, "prod_PRD-2"))
	require.NoError(t, e.text(clientID, "1"))
	require.NoError(t, e.tap(clientID, "checkout"))
	require.NoError(t, e.tap(clientID, "confirm_order"))

	headers := e.api.data[models.SheetSalesOrders]
	require.Len(t, headers, 1)
	assert.Equal(t, 600.0, headers[0][6]) // 150x2 + 300x1
	assert.Len(t, e.api.data[models.SheetSalesOrderItems], 2)
}

func TestClientOrderCancelAtConfirm(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(clientID, keyboard.BtnOrder))
	require.NoError(t, e.tap(clientID, "prod_PRD-1"))
	require.NoError(t, e.text(clientID, "1"))
	require.NoError(t, e.tap(clientID, "checkout"))
	require.NoError(t, e.tap(clientID, "cancel_order"))

	assert.Empty(t, e.api.data[models.SheetSalesOrders])
	assert.Empty(t, e.api.data[models.SheetSalesOrderItems])
	assert.Empty(t, e.notify.broadcasts)
	assert.Empty(t, e.engine.sessions.Peek(clientID).Flow)
}

func TestClientOrderRejectsZeroQuantity(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(clientID, keyboard.BtnOrder))
	require.NoError(t, e.tap(clientID, "prod_PRD-1"))
	require.NoError(t, e.text(clientID, "0"))

	assert.Equal(t, "qty", e.engine.sessions.Peek(clientID).State)
	assert.Empty(t, e.api.data[models.SheetSalesOrders])
}

func TestCatalogCommandListsProducts(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(clientID, "/catalog"))

	msg := e.ui.last()
	assert.Contains(t, msg.Text, "Live carp")
	assert.Contains(t, msg.Text, "150")
	assert.Empty(t, e.engine.sessions.Peek(clientID).Flow)
	assert.Empty(t, e.api.data[models.SheetSalesOrders])
}
