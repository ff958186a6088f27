package flows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
)

func TestCancelKeepsIdentity(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnWater))
	s := e.engine.sessions.Peek(operatorID)
	require.NotNil(t, s)
	assert.Equal(t, FlowWater, s.Flow)

	require.NoError(t, e.text(operatorID, "/cancel"))
	assert.Empty(t, s.Flow)
	assert.Empty(t, s.State)
	assert.Nil(t, s.Data)
	require.NotNil(t, s.Identity)
	assert.Equal(t, operatorID, s.Identity.ID)
	assert.Contains(t, e.ui.last().Text, "Cancelled")
}

func TestStaleCallbackGetsAlert(t *testing.T) {
	e := newEnv()

	// no flow is active, so a leftover inline button must not act
	require.NoError(t, e.tap(operatorID, "pond_POND-1"))
	require.Len(t, e.ui.alerts, 1)
	assert.Contains(t, e.ui.alerts[0], "expired")
	assert.Empty(t, e.api.data[models.SheetWaterQualityLog])
}

func TestNoopCallbackOnlyAcks(t *testing.T) {
	e := newEnv()
	require.NoError(t, e.tap(operatorID, "noop"))
	assert.Equal(t, 1, e.ui.acks)
	assert.Empty(t, e.ui.sends)
	assert.Empty(t, e.ui.alerts)
}

func TestRoleGuard(t *testing.T) {
	e := newEnv()

	// clients cannot start operator flows
	require.NoError(t, e.text(clientID, keyboard.BtnWater))
	assert.Contains(t, e.ui.last().Text, "not allowed")
	s := e.engine.sessions.Peek(clientID)
	assert.Empty(t, s.Flow)

	// operators cannot open the admin panel
	require.NoError(t, e.text(operatorID, keyboard.BtnAdmin))
	assert.Contains(t, e.ui.last().Text, "not allowed")

	// admins can run operator flows
	require.NoError(t, e.text(adminID, keyboard.BtnFeeding))
	assert.Equal(t, FlowFeeding, e.engine.sessions.Peek(adminID).Flow)
}

func TestBlockedUserIsIgnored(t *testing.T) {
	e := newEnv()
	e.api.data[models.SheetUsers] = append(e.api.data[models.SheetUsers],
		[]interface{}{"7", "Bob Blocked", "", "blocked", "TRUE"})

	require.NoError(t, e.text(7, "/start"))
	require.NoError(t, e.text(7, keyboard.BtnWater))
	assert.Empty(t, e.ui.sends)
}

func TestPendingUserToldToWait(t *testing.T) {
	e := newEnv()
	e.api.data[models.SheetUsers] = append(e.api.data[models.SheetUsers],
		[]interface{}{"8", "Pat Pending", "+7908", "pending", "TRUE"})

	require.NoError(t, e.text(8, "/start"))
	assert.Contains(t, e.ui.last().Text, "awaiting approval")

	require.NoError(t, e.text(8, keyboard.BtnWater))
	assert.Contains(t, e.ui.last().Text, "awaiting approval")
}

func TestKnownUserStartDoesNotReRegister(t *testing.T) {
	e := newEnv()
	before := len(e.api.data[models.SheetUsers])

	require.NoError(t, e.text(operatorID, "/start"))
	assert.Contains(t, e.ui.last().Text, "Welcome back")
	assert.Len(t, e.api.data[models.SheetUsers], before)
	assert.Empty(t, e.engine.sessions.Peek(operatorID).Flow)
}

func TestMainMenuPushedForRole(t *testing.T) {
	e := newEnv()
	require.NoError(t, e.text(clientID, "/start"))
	kb := e.ui.last().KB
	require.NotNil(t, kb)
	assert.Equal(t, keyboard.BtnOrder, kb.Rows[0][0].Text)
}

func TestMenuButtonAbandonsActiveFlow(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(operatorID, keyboard.BtnWater))
	require.NoError(t, e.tap(operatorID, "pond_POND-1"))
	s := e.engine.sessions.Peek(operatorID)
	require.Equal(t, FlowWater, s.Flow)

	// tapping another menu button mid-dialog restarts from the top
	require.NoError(t, e.text(operatorID, keyboard.BtnFeeding))
	assert.Equal(t, FlowFeeding, s.Flow)
	assert.Equal(t, "pond", s.State)
	assert.Contains(t, e.ui.last().Text, "Feeding")
	assert.Empty(t, e.api.data[models.SheetWaterQualityLog])
}

func TestRefreshIdentitySkipsBusySession(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	require.NoError(t, e.text(operatorID, "/start"))
	s := e.engine.sessions.Peek(operatorID)
	require.NotNil(t, s)
	require.NoError(t, e.store.UpdateUserField(ctx, operatorID, "role", "admin"))

	// while the target session is locked the refresh must back off
	// instead of waiting for the lock
	s.mu.Lock()
	e.engine.RefreshIdentity(ctx, operatorID)
	s.mu.Unlock()
	assert.Equal(t, models.RoleOperator, s.Identity.Role)

	e.engine.RefreshIdentity(ctx, operatorID)
	assert.Equal(t, models.RoleAdmin, s.Identity.Role)
}

func TestNotificationsCommandToggles(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.text(clientID, "/notifications"))
	assert.Contains(t, e.ui.last().Text, "off")

	u, err := e.store.UserByID(context.Background(), clientID)
	require.NoError(t, err)
	assert.False(t, u.NotificationsEnabled)

	require.NoError(t, e.text(clientID, "/notifications"))
	assert.Contains(t, e.ui.last().Text, "on")
}
