package flows

import (
	"context"

	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
)

func pondButtons(ponds []*models.Pond, prefix string) []keyboard.Button {
	out := make([]keyboard.Button, 0, len(ponds))
	for _, p := range ponds {
		out = append(out, keyboard.Button{Text: p.Label(), Data: prefix + p.ID})
	}
	return out
}

func feedButtons(fts []*models.FeedType, prefix string) []keyboard.Button {
	out := make([]keyboard.Button, 0, len(fts))
	for _, ft := range fts {
		out = append(out, keyboard.Button{Text: ft.Name, Data: prefix + ft.ID})
	}
	return out
}

func productButtons(products []*models.Product, prefix string) []keyboard.Button {
	out := make([]keyboard.Button, 0, len(products))
	for _, p := range products {
		out = append(out, keyboard.Button{Text: p.Name + " — " + p.DisplayPrice(), Data: prefix + p.ID})
	}
	return out
}

// withCancel appends the shared cancel row to a set of item rows.
func withCancel(buttons []keyboard.Button) *keyboard.Keyboard {
	rows := make([][]keyboard.Button, 0, len(buttons)+1)
	for _, b := range buttons {
		rows = append(rows, keyboard.Row(b))
	}
	rows = append(rows, keyboard.Row(keyboard.Button{Text: "❌ Cancel", Data: "cancel_op"}))
	return keyboard.Inline(rows...)
}

func operatorRoles() []models.Role {
	return []models.Role{models.RoleAdmin, models.RoleOperator}
}

// abortWrite ends a flow whose commit could not be written. The collected
// data is discarded and the user gets the menu back; retrying means
// redoing the flow.
func abortWrite(ctx context.Context, ui Responder, s *Session, callbackID string) error {
	role := s.Identity.Role
	s.Reset()
	if callbackID != "" {
		if err := ui.Alert(ctx, callbackID, "Saving failed."); err != nil {
			return err
		}
	}
	return ui.Send(ctx, s.UserID, "The record was not saved, please try again.", keyboard.MainMenu(role))
}
