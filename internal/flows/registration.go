package flows

import (
	"context"
	"fmt"
	"strings"

	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/store"
	"fishfarm-bot/internal/util"
)

const FlowRegistration = "registration"

type regData struct {
	Name  string
	Phone string
}

func (regData) flowData() {}

// RegistrationFlow signs an unknown chat up as a pending user. The admin
// approves or blocks it later from the admin panel.
type RegistrationFlow struct {
	store  *store.ReferenceStore
	ui     Responder
	notify Notifier
}

func NewRegistrationFlow(st *store.ReferenceStore, ui Responder, notify Notifier) *RegistrationFlow {
	return &RegistrationFlow{store: st, ui: ui, notify: notify}
}

func (f *RegistrationFlow) Name() string { return FlowRegistration }

// Roles is empty: the engine starts this flow only for unknown chats.
func (f *RegistrationFlow) Roles() []models.Role { return nil }

func (f *RegistrationFlow) Start(ctx context.Context, s *Session) error {
	s.State = "name"
	s.Data = &regData{}
	return f.ui.Send(ctx, s.UserID,
		"Welcome to the farm bot! Let's get you registered.\nWhat is your name?", nil)
}

func (f *RegistrationFlow) Handle(ctx context.Context, s *Session, ev Event) error {
	d, ok := s.Data.(*regData)
	if !ok {
		s.Reset()
		return f.ui.Send(ctx, s.UserID, "Send /start to register.", nil)
	}

	switch s.State {
	case "name":
		if ev.Kind != EventText || strings.TrimSpace(ev.Text) == "" {
			return f.ui.Send(ctx, s.UserID, "Please send your name as text.", nil)
		}
		d.Name = strings.TrimSpace(ev.Text)
		s.State = "phone"
		return f.ui.Send(ctx, s.UserID,
			"Now share your phone number with the button below.",
			keyboard.Contact("📱 Share phone number"))

	case "phone":
		if ev.Kind != EventContact {
			return f.ui.Send(ctx, s.UserID,
				"Please use the button to share your phone number.",
				keyboard.Contact("📱 Share phone number"))
		}
		if ev.ContactOwner != s.UserID {
			return f.ui.Send(ctx, s.UserID,
				"That contact belongs to someone else. Please share your own number.",
				keyboard.Contact("📱 Share phone number"))
		}
		d.Phone = ev.Phone
		s.State = "confirm"
		return f.ui.Send(ctx, s.UserID,
			fmt.Sprintf("Name: %s\nPhone: %s\n\nSend /confirm to submit, or /cancel to start over.",
				d.Name, d.Phone),
			keyboard.Remove())

	case "confirm":
		if ev.Kind != EventText || strings.TrimSpace(ev.Text) != "/confirm" {
			return f.ui.Send(ctx, s.UserID, "Send /confirm to submit, or /cancel to start over.", nil)
		}
		return f.commit(ctx, s, d)
	}

	return nil
}

func (f *RegistrationFlow) commit(ctx context.Context, s *Session, d *regData) error {
	// the row may have appeared since the flow started
	if existing, err := f.store.UserByID(ctx, s.UserID); err != nil {
		return f.ui.Send(ctx, s.UserID, "Could not save your registration, please try again.", nil)
	} else if existing != nil {
		s.Identity = existing
		s.Reset()
		return f.ui.Send(ctx, s.UserID, "You are already registered.", keyboard.MainMenu(existing.Role))
	}

	u, err := models.NewUser(s.UserID, d.Name, d.Phone)
	if err != nil {
		return f.ui.Send(ctx, s.UserID, "That does not look right, please try again.", nil)
	}
	if err := f.store.AddUser(ctx, u); err != nil {
		s.Reset()
		return f.ui.Send(ctx, s.UserID,
			"Could not save your registration. Send /start to try again.", nil)
	}

	s.Identity = u
	s.Reset()
	util.FlowsCompletedTotal.WithLabelValues(FlowRegistration).Inc()

	f.notify.BroadcastAdmins(ctx,
		fmt.Sprintf("🆕 New registration: %s, phone %s. Approve it in the admin panel.", u.Label(), u.Phone))
	return f.ui.Send(ctx, s.UserID,
		"Registration submitted. You will be notified once an administrator approves it.", nil)
}
