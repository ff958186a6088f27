package flows

import (
	"context"
	"fmt"
	"strings"

	"fishfarm-bot/config"
	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/util"
)

// RefItem is one entry of a reference list.
type RefItem struct {
	ID     string
	Label  string
	Active bool
}

// RefField is one editable field of a reference entity.
type RefField struct {
	Key    string
	Label  string
	Prompt string
}

// AddStep is one prompt of the add wizard. Optional steps accept the
// none sentinel.
type AddStep struct {
	Key      string
	Prompt   string
	Optional bool
}

// RefAdapter supplies the entity-specific pieces of reference
// management. RefFlow drives the shared conversation around it.
type RefAdapter interface {
	FlowName() string
	Title() string
	ItemPrefix() string
	PagePrefix() string
	List(ctx context.Context) ([]RefItem, error)
	Card(ctx context.Context, id string) (string, error)
	IsActive(ctx context.Context, id string) (bool, error)
	SetActive(ctx context.Context, id string, active bool) error
	Fields() []RefField
	UpdateField(ctx context.Context, id, key, raw string) error
	AddSteps() []AddStep
	Create(ctx context.Context, answers map[string]string) (string, error)
}

type refData struct {
	Page     int
	Selected string
	EditKey  string
	Step     int
	Answers  map[string]string
}

func (refData) flowData() {}

// RefFlow is the shared admin conversation over one reference sheet:
// paginated list, per-item card with activity toggle and field edits, and
// an add wizard ending in an explicit confirm.
type RefFlow struct {
	adapter RefAdapter
	ui      Responder
	engine  *Engine
	limits  config.Limits
}

func NewRefFlow(adapter RefAdapter, ui Responder, engine *Engine, limits config.Limits) *RefFlow {
	return &RefFlow{adapter: adapter, ui: ui, engine: engine, limits: limits}
}

func (f *RefFlow) Name() string         { return f.adapter.FlowName() }
func (f *RefFlow) Roles() []models.Role { return []models.Role{models.RoleAdmin} }

func (f *RefFlow) Start(ctx context.Context, s *Session) error {
	s.Data = &refData{}
	return f.sendList(ctx, s, s.Data.(*refData))
}

func (f *RefFlow) sendList(ctx context.Context, s *Session, d *refData) error {
	items, err := f.adapter.List(ctx)
	if err != nil {
		return f.ui.Send(ctx, s.UserID, "Could not load the list, please try again later.", nil)
	}

	s.State = "list"
	buttons := make([]keyboard.Button, 0, len(items))
	for _, it := range items {
		mark := "🚫 "
		if it.Active {
			mark = ""
		}
		buttons = append(buttons, keyboard.Button{
			Text: mark + it.Label,
			Data: f.adapter.ItemPrefix() + it.ID,
		})
	}

	extra := [][]keyboard.Button{
		keyboard.Row(keyboard.Button{Text: "➕ Add", Data: "add_new"}),
		keyboard.Row(keyboard.Button{Text: "⬅️ Back", Data: "back_to_admin_menu"}),
	}
	return f.ui.Send(ctx, s.UserID, f.adapter.Title(),
		keyboard.Paginate(buttons, d.Page, f.limits.PageSize, f.adapter.PagePrefix(), extra...))
}

func (f *RefFlow) sendCard(ctx context.Context, s *Session, d *refData) error {
	text, err := f.adapter.Card(ctx, d.Selected)
	if err != nil {
		return f.ui.Send(ctx, s.UserID, "That entry is gone.", nil)
	}
	active, err := f.adapter.IsActive(ctx, d.Selected)
	if err != nil {
		return f.ui.Send(ctx, s.UserID, "That entry is gone.", nil)
	}

	s.State = "card"
	toggle := "🚫 Deactivate"
	if !active {
		toggle = "✅ Activate"
	}
	return f.ui.Send(ctx, s.UserID, text,
		keyboard.Inline(
			keyboard.Row(keyboard.Button{Text: toggle, Data: "toggle_status"}),
			keyboard.Row(keyboard.Button{Text: "✏️ Edit", Data: "edit_data"}),
			keyboard.Row(keyboard.Button{Text: "⬅️ Back", Data: "back_to_list"}),
		))
}

func (f *RefFlow) Handle(ctx context.Context, s *Session, ev Event) error {
	d := s.Data.(*refData)

	if ev.Kind == EventCallback {
		switch {
		case ev.Data == "back_to_admin_menu":
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.engine.StartFlow(ctx, s, FlowAdmin)

		case ev.Data == "back_to_list":
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.sendList(ctx, s, d)

		case strings.HasPrefix(ev.Data, f.adapter.PagePrefix()):
			d.Page = pageFrom(ev.Data, f.adapter.PagePrefix())
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.sendList(ctx, s, d)

		case ev.Data == "add_new":
			steps := f.adapter.AddSteps()
			d.Step = 0
			d.Answers = make(map[string]string, len(steps))
			s.State = "add"
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.ui.Send(ctx, s.UserID, stepPrompt(steps[0]), keyboard.Cancel())
		}
	}

	switch s.State {
	case "list":
		if ev.Kind == EventCallback && strings.HasPrefix(ev.Data, f.adapter.ItemPrefix()) {
			d.Selected = strings.TrimPrefix(ev.Data, f.adapter.ItemPrefix())
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.sendCard(ctx, s, d)
		}

	case "card":
		if ev.Kind != EventCallback {
			break
		}
		switch ev.Data {
		case "toggle_status":
			active, err := f.adapter.IsActive(ctx, d.Selected)
			if err != nil {
				return f.ui.Alert(ctx, ev.CallbackID, "That entry is gone.")
			}
			if err := f.adapter.SetActive(ctx, d.Selected, !active); err != nil {
				return f.ui.Alert(ctx, ev.CallbackID, "Could not update, please try again.")
			}
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.sendCard(ctx, s, d)

		case "edit_data":
			s.State = "edit_pick"
			rows := make([][]keyboard.Button, 0, len(f.adapter.Fields())+1)
			for _, fd := range f.adapter.Fields() {
				rows = append(rows, keyboard.Row(keyboard.Button{Text: fd.Label, Data: "edit_" + fd.Key}))
			}
			rows = append(rows, keyboard.Row(keyboard.Button{Text: "⬅️ Back", Data: "back_to_card"}))
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.ui.Send(ctx, s.UserID, "What do you want to change?", keyboard.Inline(rows...))
		}

	case "edit_pick":
		if ev.Kind != EventCallback {
			break
		}
		if ev.Data == "back_to_card" {
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.sendCard(ctx, s, d)
		}
		if strings.HasPrefix(ev.Data, "edit_") {
			key := strings.TrimPrefix(ev.Data, "edit_")
			for _, fd := range f.adapter.Fields() {
				if fd.Key == key {
					d.EditKey = key
					s.State = "edit_value"
					if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
						return err
					}
					return f.ui.Send(ctx, s.UserID, fd.Prompt, keyboard.Cancel())
				}
			}
			return f.ui.Alert(ctx, ev.CallbackID, "Unknown field.")
		}

	case "edit_value":
		if ev.Kind != EventText {
			return f.ui.Alert(ctx, ev.CallbackID, "Please type the new value.")
		}
		if err := f.adapter.UpdateField(ctx, d.Selected, d.EditKey, strings.TrimSpace(ev.Text)); err != nil {
			return f.ui.Send(ctx, s.UserID, err.Error(), nil)
		}
		return f.sendCard(ctx, s, d)

	case "add":
		if ev.Kind != EventText {
			return f.ui.Alert(ctx, ev.CallbackID, "Please type the value.")
		}
		steps := f.adapter.AddSteps()
		step := steps[d.Step]
		text := strings.TrimSpace(ev.Text)
		if text == "" || (isNone(text) && !step.Optional) {
			return f.ui.Send(ctx, s.UserID, stepPrompt(step), nil)
		}
		if !isNone(text) {
			d.Answers[step.Key] = text
		}
		d.Step++
		if d.Step < len(steps) {
			return f.ui.Send(ctx, s.UserID, stepPrompt(steps[d.Step]), keyboard.Cancel())
		}

		s.State = "add_confirm"
		var b strings.Builder
		b.WriteString("New entry:\n")
		for _, st := range steps {
			if v, ok := d.Answers[st.Key]; ok {
				fmt.Fprintf(&b, "%s: %s\n", st.Key, v)
			}
		}
		return f.ui.Send(ctx, s.UserID, b.String(),
			keyboard.Inline(keyboard.Row(
				keyboard.Button{Text: "💾 Save", Data: "save_new"},
				keyboard.Button{Text: "❌ Cancel", Data: "cancel_add"},
			)))

	case "add_confirm":
		if ev.Kind != EventCallback {
			return f.ui.Send(ctx, s.UserID, "Use the buttons to save or cancel.", nil)
		}
		switch ev.Data {
		case "save_new":
			label, err := f.adapter.Create(ctx, d.Answers)
			if err != nil {
				return f.ui.Alert(ctx, ev.CallbackID, err.Error())
			}
			util.FlowsCompletedTotal.WithLabelValues(f.Name()).Inc()
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			if err := f.ui.Send(ctx, s.UserID, "Added "+label+" ✅", nil); err != nil {
				return err
			}
			return f.sendList(ctx, s, d)
		case "cancel_add":
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.sendList(ctx, s, d)
		}
	}

	if ev.Kind == EventCallback {
		return f.ui.Alert(ctx, ev.CallbackID, "Use the buttons.")
	}
	return f.ui.Send(ctx, s.UserID, "Use the buttons.", nil)
}

func stepPrompt(st AddStep) string {
	if st.Optional {
		return st.Prompt + "\n(or '" + noneSentinel + "' to skip)"
	}
	return st.Prompt
}
