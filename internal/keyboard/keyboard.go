package keyboard

import (
	"fmt"

	"fishfarm-bot/internal/models"
)

// Button is one keyboard button. Data set means an inline button carrying
// a callback token; otherwise it is a plain reply button. Contact marks a
// reply button that requests the user's own phone number.
type Button struct {
	Text    string
	Data    string
	Contact bool
}

// Keyboard is a messenger-agnostic keyboard. The transport adapter
// renders it into the concrete markup.
type Keyboard struct {
	Inline bool
	Rows   [][]Button
	Remove bool
}

func Row(buttons ...Button) []Button {
	return buttons
}

func Inline(rows ...[]Button) *Keyboard {
	return &Keyboard{Inline: true, Rows: rows}
}

func Reply(rows ...[]Button) *Keyboard {
	return &Keyboard{Rows: rows}
}

// Remove tells the transport to drop the current reply keyboard.
func Remove() *Keyboard {
	return &Keyboard{Remove: true}
}

// Main menu button labels. The router matches incoming text against these
// to start flows.
const (
	BtnWater    = "💧 Water quality"
	BtnFeeding  = "🍽 Feeding"
	BtnWeighing = "⚖️ Weighing"
	BtnFishMove = "🐟 Fish moves"
	BtnStock    = "📦 Feed stock"
	BtnOrder    = "🛒 Place order"
	BtnSettings = "⚙️ Settings"
	BtnAdmin    = "🛠 Admin panel"
)

// MainMenu builds the persistent reply keyboard for a role. Pending and
// blocked users get no menu.
func MainMenu(role models.Role) *Keyboard {
	operator := [][]Button{
		Row(Button{Text: BtnWater}, Button{Text: BtnFeeding}),
		Row(Button{Text: BtnWeighing}, Button{Text: BtnFishMove}),
		Row(Button{Text: BtnStock}, Button{Text: BtnSettings}),
	}

	switch role {
	case models.RoleAdmin:
		rows := append([][]Button{}, operator...)
		rows = append(rows, Row(Button{Text: BtnAdmin}))
		return Reply(rows...)
	case models.RoleOperator:
		return Reply(operator...)
	case models.RoleClient:
		return Reply(
			Row(Button{Text: BtnOrder}),
			Row(Button{Text: BtnSettings}),
		)
	default:
		return nil
	}
}

// ConfirmSave is the standard commit keyboard shown on every summary step.
func ConfirmSave() *Keyboard {
	return Inline(Row(
		Button{Text: "✅ Save", Data: "confirm_save"},
		Button{Text: "❌ Cancel", Data: "cancel_op"},
	))
}

// Cancel is a lone cancel button for mid-flow prompts.
func Cancel() *Keyboard {
	return Inline(Row(Button{Text: "❌ Cancel", Data: "cancel_op"}))
}

// Contact asks for the user's own phone number.
func Contact(label string) *Keyboard {
	return Reply(Row(Button{Text: label, Contact: true}))
}

// Paginate renders one page of items, one per row, with a navigation row
// underneath and any extra rows after it. pagePrefix is the callback
// token prefix the page number is appended to.
func Paginate(items []Button, page, pageSize int, pagePrefix string, extra ...[]Button) *Keyboard {
	if pageSize <= 0 {
		pageSize = 5
	}

	totalPages := (len(items) + pageSize - 1) / pageSize
	if page >= totalPages && totalPages > 0 {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}

	var rows [][]Button
	start := page * pageSize
	for i := start; i < len(items) && i < start+pageSize; i++ {
		rows = append(rows, Row(items[i]))
	}

	var nav []Button
	if page > 0 {
		nav = append(nav, Button{Text: "⬅️", Data: fmt.Sprintf("%s%d", pagePrefix, page-1)})
	}
	if totalPages > 1 {
		nav = append(nav, Button{Text: fmt.Sprintf("%d/%d", page+1, totalPages), Data: "noop"})
	}
	if page < totalPages-1 {
		nav = append(nav, Button{Text: "➡️", Data: fmt.Sprintf("%s%d", pagePrefix, page+1)})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	rows = append(rows, extra...)
	return Inline(rows...)
}
