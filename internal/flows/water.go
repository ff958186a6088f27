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

const FlowWater = "water_quality"

type waterData struct {
	PondID    string
	PondLabel string
	DO        float64
	Temp      float64
}

func (waterData) flowData() {}

// WaterFlow records a water quality measurement for one pond. Readings
// past the critical thresholds are committed and then broadcast to the
// admins.
type WaterFlow struct {
	store  *store.ReferenceStore
	log    *store.LogWriter
	ui     Responder
	notify Notifier
	limits config.Limits
}

func NewWaterFlow(st *store.ReferenceStore, log *store.LogWriter, ui Responder, notify Notifier, limits config.Limits) *WaterFlow {
	return &WaterFlow{store: st, log: log, ui: ui, notify: notify, limits: limits}
}

func (f *WaterFlow) Name() string         { return FlowWater }
func (f *WaterFlow) Roles() []models.Role { return operatorRoles() }

func (f *WaterFlow) Start(ctx context.Context, s *Session) error {
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
	s.Data = &waterData{}
	return f.ui.Send(ctx, s.UserID, "Water quality: select a pond.",
		withCancel(pondButtons(ponds, "pond_")))
}

func (f *WaterFlow) Handle(ctx context.Context, s *Session, ev Event) error {
	d := s.Data.(*waterData)

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
		s.State = "do"
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID,
			fmt.Sprintf("%s\nEnter dissolved oxygen, mg/L (%g–%g):",
				d.PondLabel, f.limits.DOMin, f.limits.DOMax), nil)

	case "do":
		if ev.Kind != EventText {
			return f.ui.Alert(ctx, ev.CallbackID, "Please type the value.")
		}
		v, err := parseDecimal(ev.Text)
		if err != nil || v < f.limits.DOMin || v > f.limits.DOMax {
			return f.ui.Send(ctx, s.UserID,
				fmt.Sprintf("Dissolved oxygen must be a number between %g and %g.",
					f.limits.DOMin, f.limits.DOMax), nil)
		}
		d.DO = v
		s.State = "temp"
		return f.ui.Send(ctx, s.UserID,
			fmt.Sprintf("Enter water temperature, °C (%g–%g):",
				f.limits.TempMin, f.limits.TempMax), nil)

	case "temp":
		if ev.Kind != EventText {
			return f.ui.Alert(ctx, ev.CallbackID, "Please type the value.")
		}
		v, err := parseDecimal(ev.Text)
		if err != nil || v < f.limits.TempMin || v > f.limits.TempMax {
			return f.ui.Send(ctx, s.UserID,
				fmt.Sprintf("Temperature must be a number between %g and %g.",
					f.limits.TempMin, f.limits.TempMax), nil)
		}
		d.Temp = v
		s.State = "confirm"
		return f.ui.Send(ctx, s.UserID,
			fmt.Sprintf("Water quality — %s\nDO: %g mg/L\nTemperature: %g °C",
				d.PondLabel, d.DO, d.Temp),
			keyboard.ConfirmSave())

	case "confirm":
		if ev.Kind != EventCallback || ev.Data != "confirm_save" {
			return f.ui.Send(ctx, s.UserID, "Use the buttons to save or cancel.", nil)
		}
		return f.commit(ctx, s, d, ev.CallbackID)
	}

	return nil
}

func (f *WaterFlow) commit(ctx context.Context, s *Session, d *waterData, callbackID string) error {
	row, err := models.NewWaterQualityRow(f.limits, time.Now(), d.PondID, d.DO, d.Temp, "", s.Identity.Label())
	if err != nil {
		return abortWrite(ctx, f.ui, s, callbackID)
	}
	if err := f.log.RecordWaterQuality(ctx, row); err != nil {
		return abortWrite(ctx, f.ui, s, callbackID)
	}

	if row.IsCritical() {
		f.notify.BroadcastAdmins(ctx, fmt.Sprintf(
			"⚠️ Critical water quality in %s: DO %g mg/L, temperature %g °C (by %s)",
			d.PondLabel, d.DO, d.Temp, s.Identity.Label()))
	}

	role := s.Identity.Role
	s.Reset()
	util.FlowsCompletedTotal.WithLabelValues(FlowWater).Inc()
	if err := f.ui.Ack(ctx, callbackID); err != nil {
		return err
	}
	return f.ui.Send(ctx, s.UserID, "Saved ✅", keyboard.MainMenu(role))
}
