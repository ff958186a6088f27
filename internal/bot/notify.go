package bot

import (
	"context"

	"go.uber.org/zap"

	"fishfarm-bot/internal/flows"
	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/store"
	"fishfarm-bot/internal/util"
)

// Notifier fans farm events out to Telegram users. A failed delivery to
// one admin must never stop the rest of the broadcast.
type Notifier struct {
	ui    flows.Responder
	store *store.ReferenceStore
}

func NewNotifier(ui flows.Responder, st *store.ReferenceStore) *Notifier {
	return &Notifier{ui: ui, store: st}
}

// BroadcastAdmins sends text to every admin who has notifications on.
func (n *Notifier) BroadcastAdmins(ctx context.Context, text string) {
	admins, err := n.store.Admins(ctx)
	if err != nil {
		util.GetLogger().Error("admin broadcast: listing admins failed", zap.Error(err))
		return
	}
	for _, a := range admins {
		if !a.NotificationsEnabled {
			continue
		}
		if err := n.ui.Send(ctx, a.ID, text, nil); err != nil {
			util.NotificationsFailedTotal.Inc()
			util.GetLogger().Warn("admin broadcast delivery failed",
				zap.Int64("admin_id", a.ID), zap.Error(err))
			continue
		}
		util.NotificationsSentTotal.Inc()
	}
}

// NotifyUser delivers a personal notice. These are sent regardless of
// the notification toggle: they concern the user's own account.
func (n *Notifier) NotifyUser(ctx context.Context, userID int64, text string) {
	if err := n.ui.Send(ctx, userID, text, nil); err != nil {
		util.NotificationsFailedTotal.Inc()
		util.GetLogger().Warn("user notification delivery failed",
			zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	util.NotificationsSentTotal.Inc()
}

// PushMenu sends text together with the main menu for the given role.
// Roles without a menu (blocked, pending) get the reply keyboard removed.
func (n *Notifier) PushMenu(ctx context.Context, userID int64, text string, role models.Role) {
	kb := keyboard.MainMenu(role)
	if kb == nil {
		kb = keyboard.Remove()
	}
	if err := n.ui.Send(ctx, userID, text, kb); err != nil {
		util.GetLogger().Warn("menu push failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
