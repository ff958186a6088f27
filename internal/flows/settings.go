package flows

import (
	"context"

	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/store"
)

const FlowSettings = "settings"

type settingsData struct{}

func (settingsData) flowData() {}

// SettingsFlow lets any active user manage their notification preference.
// The /notifications command toggles it directly, outside the flow.
type SettingsFlow struct {
	store *store.ReferenceStore
	ui    Responder
}

func NewSettingsFlow(st *store.ReferenceStore, ui Responder) *SettingsFlow {
	return &SettingsFlow{store: st, ui: ui}
}

func (f *SettingsFlow) Name() string         { return FlowSettings }
func (f *SettingsFlow) Roles() []models.Role { return models.ActiveRoles() }

func (f *SettingsFlow) Start(ctx context.Context, s *Session) error {
	s.State = "menu"
	s.Data = &settingsData{}
	return f.sendStatus(ctx, s)
}

func (f *SettingsFlow) sendStatus(ctx context.Context, s *Session) error {
	status := "off 🔕"
	if s.Identity.NotificationsEnabled {
		status = "on 🔔"
	}
	return f.ui.Send(ctx, s.UserID, "Notifications are "+status,
		keyboard.Inline(
			keyboard.Row(keyboard.Button{Text: "🔄 Toggle", Data: "toggle_notify"}),
			keyboard.Row(keyboard.Button{Text: "⬅️ Back", Data: "back_main"}),
		))
}

func (f *SettingsFlow) Handle(ctx context.Context, s *Session, ev Event) error {
	if ev.Kind != EventCallback {
		return f.ui.Send(ctx, s.UserID, "Use the buttons.", nil)
	}

	switch ev.Data {
	case "toggle_notify":
		if err := f.toggle(ctx, s); err != nil {
			return f.ui.Alert(ctx, ev.CallbackID, "Could not update, please try again.")
		}
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.sendStatus(ctx, s)

	case "back_main":
		role := s.Identity.Role
		s.Reset()
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID, "Main menu.", keyboard.MainMenu(role))
	}

	return f.ui.Alert(ctx, ev.CallbackID, "Use the buttons.")
}

func (f *SettingsFlow) toggle(ctx context.Context, s *Session) error {
	next := !s.Identity.NotificationsEnabled
	err := f.store.UpdateUserField(ctx, s.UserID, "notifications_enabled", models.FormatBool(next))
	if err != nil {
		return err
	}
	s.Identity.NotificationsEnabled = next
	return nil
}

// Toggle is the /notifications command: flip and report, no flow entry.
func (f *SettingsFlow) Toggle(ctx context.Context, s *Session) error {
	if s.Identity == nil {
		return f.ui.Send(ctx, s.UserID, "Send /start to register.", nil)
	}
	if err := f.toggle(ctx, s); err != nil {
		return f.ui.Send(ctx, s.UserID, "Could not update, please try again.", nil)
	}
	if s.Identity.NotificationsEnabled {
		return f.ui.Send(ctx, s.UserID, "Notifications are on 🔔", nil)
	}
	return f.ui.Send(ctx, s.UserID, "Notifications are off 🔕", nil)
}
