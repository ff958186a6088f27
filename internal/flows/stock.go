package flows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fishfarm-bot/config"
	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/store"
	"fishfarm-bot/internal/util"
)

const FlowStock = "feed_stock"

type stockData struct {
	FeedID   string
	FeedName string
	MoveType models.StockMoveType
	MassKg   float64
	Reason   string
}

func (stockData) flowData() {}

// StockFlow records feed warehouse movements: deliveries in, usage and
// write-offs out.
type StockFlow struct {
	store  *store.ReferenceStore
	log    *store.LogWriter
	ui     Responder
	limits config.Limits
}

func NewStockFlow(st *store.ReferenceStore, log *store.LogWriter, ui Responder, limits config.Limits) *StockFlow {
	return &StockFlow{store: st, log: log, ui: ui, limits: limits}
}

func (f *StockFlow) Name() string         { return FlowStock }
func (f *StockFlow) Roles() []models.Role { return operatorRoles() }

func (f *StockFlow) Start(ctx context.Context, s *Session) error {
	fts, err := f.store.ActiveFeedTypes(ctx)
	if err != nil {
		s.Reset()
		return f.ui.Send(ctx, s.UserID, "Could not load feed types, please try again later.", nil)
	}
	if len(fts) == 0 {
		s.Reset()
		return f.ui.Send(ctx, s.UserID, "There are no active feed types.", nil)
	}

	s.State = "feed"
	s.Data = &stockData{}
	return f.ui.Send(ctx, s.UserID, "Feed stock: select the feed type.",
		withCancel(feedButtons(fts, "feed_")))
}

func (f *StockFlow) Handle(ctx context.Context, s *Session, ev Event) error {
	d := s.Data.(*stockData)

	switch s.State {
	case "feed":
		if ev.Kind != EventCallback || !strings.HasPrefix(ev.Data, "feed_") {
			return f.ui.Send(ctx, s.UserID, "Please pick a feed type with the buttons.", nil)
		}
		ft, err := f.store.FeedTypeByID(ctx, strings.TrimPrefix(ev.Data, "feed_"))
		if err != nil {
			return f.ui.Alert(ctx, ev.CallbackID, "That feed type is gone. Pick another one.")
		}
		d.FeedID = ft.ID
		d.FeedName = ft.Name
		s.State = "type"
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID, d.FeedName+"\nIncoming or outgoing?",
			keyboard.Inline(
				keyboard.Row(
					keyboard.Button{Text: "📥 Income", Data: "type_" + string(models.StockIncome)},
					keyboard.Button{Text: "📤 Outcome", Data: "type_" + string(models.StockOutcome)},
				),
				keyboard.Row(keyboard.Button{Text: "❌ Cancel", Data: "cancel_op"}),
			))

	case "type":
		if ev.Kind != EventCallback || !strings.HasPrefix(ev.Data, "type_") {
			return f.ui.Send(ctx, s.UserID, "Please pick the direction with the buttons.", nil)
		}
		kind, err := models.ParseStockMoveType(strings.TrimPrefix(ev.Data, "type_"))
		if err != nil {
			return f.ui.Alert(ctx, ev.CallbackID, "Unknown direction.")
		}
		d.MoveType = kind
		s.State = "mass"
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID,
			fmt.Sprintf("Enter the mass in kg (up to %g):", f.limits.MaxStockMassKg), nil)

	case "mass":
		if ev.Kind != EventText {
			return f.ui.Alert(ctx, ev.CallbackID, "Please type the value.")
		}
		v, err := parseDecimal(ev.Text)
		if err != nil || v <= 0 || v > f.limits.MaxStockMassKg {
			return f.ui.Send(ctx, s.UserID,
				fmt.Sprintf("Mass must be a number above 0 and up to %g kg.", f.limits.MaxStockMassKg), nil)
		}
		d.MassKg = v
		s.State = "reason"
		return f.ui.Send(ctx, s.UserID, "What is the reason (delivery, feeding, write-off)?", nil)

	case "reason":
		if ev.Kind != EventText || strings.TrimSpace(ev.Text) == "" {
			return f.ui.Send(ctx, s.UserID, "Please describe the reason in text.", nil)
		}
		d.Reason = strings.TrimSpace(ev.Text)
		s.State = "confirm"
		return f.ui.Send(ctx, s.UserID,
			fmt.Sprintf("Feed stock — %s\nDirection: %s\nMass: %g kg\nReason: %s",
				d.FeedName, d.MoveType, d.MassKg, d.Reason),
			keyboard.ConfirmSave())

	case "confirm":
		if ev.Kind != EventCallback || ev.Data != "confirm_save" {
			return f.ui.Send(ctx, s.UserID, "Use the buttons to save or cancel.", nil)
		}
		row, err := models.NewStockMoveRow(f.limits, time.Now(), d.FeedID, d.FeedName, d.MoveType, d.MassKg, d.Reason, s.Identity.Label())
		if err != nil {
			return abortWrite(ctx, f.ui, s, ev.CallbackID)
		}
		if err := f.log.RecordStockMove(ctx, row); err != nil {
			return abortWrite(ctx, f.ui, s, ev.CallbackID)
		}
		role := s.Identity.Role
		s.Reset()
		util.FlowsCompletedTotal.WithLabelValues(FlowStock).Inc()
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID, "Saved ✅", keyboard.MainMenu(role))
	}

	return nil
}
