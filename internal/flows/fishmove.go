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

const FlowFishMove = "fish_move"

// moveTransfer is the user-facing transfer choice; it expands into a
// transfer_out/transfer_in row pair at commit.
const moveTransfer = "transfer"

type fishMoveData struct {
	PondID     string
	PondLabel  string
	MoveType   string
	DestID     string
	DestLabel  string
	Quantity   int64
	AvgWeightG *float64
	Reason     string
	Ref        string
}

func (fishMoveData) flowData() {}

// FishMoveFlow records stocking, sales, deaths and transfers. A transfer
// writes two rows, one per pond, sharing quantity, reason and reference.
type FishMoveFlow struct {
	store  *store.ReferenceStore
	log    *store.LogWriter
	ui     Responder
	limits config.Limits
}

func NewFishMoveFlow(st *store.ReferenceStore, log *store.LogWriter, ui Responder, limits config.Limits) *FishMoveFlow {
	return &FishMoveFlow{store: st, log: log, ui: ui, limits: limits}
}

func (f *FishMoveFlow) Name() string         { return FlowFishMove }
func (f *FishMoveFlow) Roles() []models.Role { return operatorRoles() }

func (f *FishMoveFlow) Start(ctx context.Context, s *Session) error {
	ponds, err := f.store.ActivePonds(ctx)
	if err != nil {
		s.Reset()
		return f.ui.Send(ctx, s.UserID, "Could not load ponds, please try again later.", nil)
	}
	if len(ponds) == 0 {
		s.Reset()
		return f.ui.Send(ctx, s.UserID, "There are no active ponds.", nil)
	}

	s.State = "pond"
	s.Data = &fishMoveData{}
	return f.ui.Send(ctx, s.UserID, "Fish moves: select a pond.",
		withCancel(pondButtons(ponds, "pond_")))
}

func moveTypeKeyboard() *keyboard.Keyboard {
	return keyboard.Inline(
		keyboard.Row(keyboard.Button{Text: "🐟 Stocking", Data: "move_" + string(models.MoveStocking)}),
		keyboard.Row(keyboard.Button{Text: "💰 Sale", Data: "move_" + string(models.MoveSale)}),
		keyboard.Row(keyboard.Button{Text: "💀 Death", Data: "move_" + string(models.MoveDeath)}),
		keyboard.Row(keyboard.Button{Text: "🔄 Transfer", Data: "move_" + moveTransfer}),
		keyboard.Row(keyboard.Button{Text: "❌ Cancel", Data: "cancel_op"}),
	)
}

func (f *FishMoveFlow) Handle(ctx context.Context, s *Session, ev Event) error {
	d := s.Data.(*fishMoveData)

	switch s.State {
	case "pond":
		if ev.Kind != EventCallback || !strings.HasPrefix(ev.Data, "pond_") {
			return f.ui.Send(ctx, s.UserID, "Please pick a pond with the buttons.", nil)
		}
		pond, err := f.store.PondByID(ctx, strings.TrimPrefix(ev.Data, "pond_"))
		if err != nil {
			return f.ui.Alert(ctx, ev.CallbackID, "That pond is gone. Pick another one.")
		}
		d.PondID = pond.ID
		d.PondLabel = pond.Label()
		s.State = "type"
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID, d.PondLabel+"\nWhat happened?", moveTypeKeyboard())

	case "type":
		if ev.Kind != EventCallback || !strings.HasPrefix(ev.Data, "move_") {
			return f.ui.Send(ctx, s.UserID, "Please pick the move type with the buttons.", nil)
		}
		kind := strings.TrimPrefix(ev.Data, "move_")
		if kind != moveTransfer {
			if _, err := models.ParseFishMoveType(kind); err != nil {
				return f.ui.Alert(ctx, ev.CallbackID, "Unknown move type.")
			}
		}
		d.MoveType = kind
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}

		if kind == moveTransfer {
			ponds, err := f.store.ActivePonds(ctx)
			if err != nil {
				s.Reset()
				return f.ui.Send(ctx, s.UserID, "Could not load ponds, please try again later.", nil)
			}
			dests := make([]*models.Pond, 0, len(ponds))
			for _, p := range ponds {
				if p.ID != d.PondID {
					dests = append(dests, p)
				}
			}
			if len(dests) == 0 {
				s.Reset()
				return f.ui.Send(ctx, s.UserID, "There is no other pond to transfer into.", nil)
			}
			s.State = "dest"
			return f.ui.Send(ctx, s.UserID, "Select the destination pond.",
				withCancel(pondButtons(dests, "ponddest_")))
		}

		s.State = "qty"
		return f.ui.Send(ctx, s.UserID, "Enter the number of fish:", nil)

	case "dest":
		if ev.Kind != EventCallback || !strings.HasPrefix(ev.Data, "ponddest_") {
			return f.ui.Send(ctx, s.UserID, "Please pick the destination with the buttons.", nil)
		}
		dest, err := f.store.PondByID(ctx, strings.TrimPrefix(ev.Data, "ponddest_"))
		if err != nil || dest.ID == d.PondID {
			return f.ui.Alert(ctx, ev.CallbackID, "Pick a different pond.")
		}
		d.DestID = dest.ID
		d.DestLabel = dest.Label()
		s.State = "qty"
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID, "Enter the number of fish:", nil)

	case "qty":
		if ev.Kind != EventText {
			return f.ui.Alert(ctx, ev.CallbackID, "Please type the value.")
		}
		n, err := parsePositiveInt(ev.Text)
		if err != nil {
			return f.ui.Send(ctx, s.UserID, "Quantity must be a whole number above zero.", nil)
		}
		d.Quantity = n
		s.State = "weight"
		return f.ui.Send(ctx, s.UserID, "Enter the average fish weight in grams, or 0 to skip:", nil)

	case "weight":
		if ev.Kind != EventText {
			return f.ui.Alert(ctx, ev.CallbackID, "Please type the value.")
		}
		v, err := parseDecimal(ev.Text)
		if err != nil || v < 0 || v > f.limits.MaxAvgWeightG {
			return f.ui.Send(ctx, s.UserID,
				fmt.Sprintf("Weight must be 0 (skip) or a number up to %g g.", f.limits.MaxAvgWeightG), nil)
		}
		if v > 0 {
			d.AvgWeightG = &v
		}
		s.State = "reason"
		return f.ui.Send(ctx, s.UserID, "What is the reason for the move?", nil)

	case "reason":
		if ev.Kind != EventText || strings.TrimSpace(ev.Text) == "" {
			return f.ui.Send(ctx, s.UserID, "Please describe the reason in text.", nil)
		}
		d.Reason = strings.TrimSpace(ev.Text)
		s.State = "ref"
		return f.ui.Send(ctx, s.UserID,
			"Enter a reference (invoice, document), or '"+noneSentinel+"' to skip:", nil)

	case "ref":
		if ev.Kind != EventText {
			return f.ui.Alert(ctx, ev.CallbackID, "Please type the value.")
		}
		if !isNone(ev.Text) {
			d.Ref = strings.TrimSpace(ev.Text)
		}
		s.State = "confirm"
		return f.ui.Send(ctx, s.UserID, f.summary(d), keyboard.ConfirmSave())

	case "confirm":
		if ev.Kind != EventCallback || ev.Data != "confirm_save" {
			return f.ui.Send(ctx, s.UserID, "Use the buttons to save or cancel.", nil)
		}
		return f.commit(ctx, s, d, ev.CallbackID)
	}

	return nil
}

func (f *FishMoveFlow) summary(d *fishMoveData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fish move — %s\nType: %s\n", d.PondLabel, d.MoveType)
	if d.MoveType == moveTransfer {
		fmt.Fprintf(&b, "Destination: %s\n", d.DestLabel)
	}
	fmt.Fprintf(&b, "Quantity: %d\n", d.Quantity)
	if d.AvgWeightG != nil {
		fmt.Fprintf(&b, "Average weight: %g g\n", *d.AvgWeightG)
	}
	fmt.Fprintf(&b, "Reason: %s", d.Reason)
	if d.Ref != "" {
		fmt.Fprintf(&b, "\nReference: %s", d.Ref)
	}
	return b.String()
}

func (f *FishMoveFlow) commit(ctx context.Context, s *Session, d *fishMoveData, callbackID string) error {
	ts := time.Now()
	user := s.Identity.Label()

	var rows []*models.FishMoveRow
	if d.MoveType == moveTransfer {
		out, err := models.NewFishMoveRow(ts, d.PondID, models.MoveTransferOut, d.Quantity, d.AvgWeightG, d.Reason, d.Ref, user)
		if err != nil {
			return abortWrite(ctx, f.ui, s, callbackID)
		}
		in, err := models.NewFishMoveRow(ts, d.DestID, models.MoveTransferIn, d.Quantity, d.AvgWeightG, d.Reason, d.Ref, user)
		if err != nil {
			return abortWrite(ctx, f.ui, s, callbackID)
		}
		rows = []*models.FishMoveRow{out, in}
	} else {
		kind, err := models.ParseFishMoveType(d.MoveType)
		if err != nil {
			return abortWrite(ctx, f.ui, s, callbackID)
		}
		row, err := models.NewFishMoveRow(ts, d.PondID, kind, d.Quantity, d.AvgWeightG, d.Reason, d.Ref, user)
		if err != nil {
			return abortWrite(ctx, f.ui, s, callbackID)
		}
		rows = []*models.FishMoveRow{row}
	}

	if err := f.log.RecordFishMoves(ctx, rows...); err != nil {
		return abortWrite(ctx, f.ui, s, callbackID)
	}

	role := s.Identity.Role
	s.Reset()
	util.FlowsCompletedTotal.WithLabelValues(FlowFishMove).Inc()
	if err := f.ui.Ack(ctx, callbackID); err != nil {
		return err
	}
	return f.ui.Send(ctx, s.UserID, "Saved ✅", keyboard.MainMenu(role))
}
