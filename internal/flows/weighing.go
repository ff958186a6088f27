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

const FlowWeighing = "weighing"

type weighingData struct {
	PondID     string
	PondLabel  string
	AvgWeightG float64
}

func (weighingData) flowData() {}

// WeighingFlow records a control weighing: pond and average fish weight.
type WeighingFlow struct {
	store  *store.ReferenceStore
	log    *store.LogWriter
	ui     Responder
	limits config.Limits
}

func NewWeighingFlow(st *store.ReferenceStore, log *store.LogWriter, ui Responder, limits config.Limits) *WeighingFlow {
	return &WeighingFlow{store: st, log: log, ui: ui, limits: limits}
}

func (f *WeighingFlow) Name() string         { return FlowWeighing }
func (f *WeighingFlow) Roles() []models.Role { return operatorRoles() }

func (f *WeighingFlow) Start(ctx context.Context, s *Session) error {
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
	s.Data = &weighingData{}
	return f.ui.Send(ctx, s.UserID, "Control weighing: select a pond.",
		withCancel(pondButtons(ponds, "pond_")))
}

func (f *WeighingFlow) Handle(ctx context.Context, s *Session, ev Event) error {
	d := s.Data.(*weighingData)

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
		s.State = "weight"
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID,
			fmt.Sprintf("%s\nEnter the average fish weight in grams (up to %g):",
				d.PondLabel, f.limits.MaxAvgWeightG), nil)

	case "weight":
		if ev.Kind != EventText {
			return f.ui.Alert(ctx, ev.CallbackID, "Please type the value.")
		}
		v, err := parseDecimal(ev.Text)
		if err != nil || v <= 0 || v > f.limits.MaxAvgWeightG {
			return f.ui.Send(ctx, s.UserID,
				fmt.Sprintf("Weight must be a number above 0 and up to %g g.", f.limits.MaxAvgWeightG), nil)
		}
		d.AvgWeightG = v
		s.State = "confirm"
		return f.ui.Send(ctx, s.UserID,
			fmt.Sprintf("Weighing — %s\nAverage weight: %g g", d.PondLabel, d.AvgWeightG),
			keyboard.ConfirmSave())

	case "confirm":
		if ev.Kind != EventCallback || ev.Data != "confirm_save" {
			return f.ui.Send(ctx, s.UserID, "Use the buttons to save or cancel.", nil)
		}
		row, err := models.NewWeighingRow(f.limits, time.Now(), d.PondID, d.AvgWeightG, s.Identity.Label())
		if err != nil {
			return abortWrite(ctx, f.ui, s, ev.CallbackID)
		}
		if err := f.log.RecordWeighing(ctx, row); err != nil {
			return abortWrite(ctx, f.ui, s, ev.CallbackID)
		}
		role := s.Identity.Role
		s.Reset()
		util.FlowsCompletedTotal.WithLabelValues(FlowWeighing).Inc()
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID, "Saved ✅", keyboard.MainMenu(role))
	}

	return nil
}
