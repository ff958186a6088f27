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

const FlowFeeding = "feeding"

type feedingData struct {
	PondID    string
	PondLabel string
	FeedName  string
	MassKg    float64
}

func (feedingData) flowData() {}

// FeedingFlow records one feeding: pond, feed type, mass.
type FeedingFlow struct {
	store  *store.ReferenceStore
	log    *store.LogWriter
	ui     Responder
	limits config.Limits
}

func NewFeedingFlow(st *store.ReferenceStore, log *store.LogWriter, ui Responder, limits config.Limits) *FeedingFlow {
	return &FeedingFlow{store: st, log: log, ui: ui, limits: limits}
}

func (f *FeedingFlow) Name() string         { return FlowFeeding }
func (f *FeedingFlow) Roles() []models.Role { return operatorRoles() }

func (f *FeedingFlow) Start(ctx context.Context, s *Session) error {
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
	s.Data = &feedingData{}
	return f.ui.Send(ctx, s.UserID, "Feeding: select a pond.",
		withCancel(pondButtons(ponds, "pond_")))
}

func (f *FeedingFlow) Handle(ctx context.Context, s *Session, ev Event) error {
	d := s.Data.(*feedingData)

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

		fts, err := f.store.ActiveFeedTypes(ctx)
		if err != nil || len(fts) == 0 {
			s.Reset()
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.ui.Send(ctx, s.UserID, "There are no active feed types.", nil)
		}
		s.State = "feed"
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID, d.PondLabel+"\nSelect the feed type.",
			withCancel(feedButtons(fts, "feed_")))

	case "feed":
		if ev.Kind != EventCallback || !strings.HasPrefix(ev.Data, "feed_") {
			return f.ui.Send(ctx, s.UserID, "Please pick a feed type with the buttons.", nil)
		}
		ft, err := f.store.FeedTypeByID(ctx, strings.TrimPrefix(ev.Data, "feed_"))
		if err != nil {
			return f.ui.Alert(ctx, ev.CallbackID, "That feed type is gone. Pick another one.")
		}
		d.FeedName = ft.Name
		s.State = "mass"
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID,
			fmt.Sprintf("Enter the feed mass in kg (up to %g):", f.limits.MaxFeedingMassKg), nil)

	case "mass":
		if ev.Kind != EventText {
			return f.ui.Alert(ctx, ev.CallbackID, "Please type the value.")
		}
		v, err := parseDecimal(ev.Text)
		if err != nil || v <= 0 || v > f.limits.MaxFeedingMassKg {
			return f.ui.Send(ctx, s.UserID,
				fmt.Sprintf("Mass must be a number above 0 and up to %g kg.", f.limits.MaxFeedingMassKg), nil)
		}
		d.MassKg = v
		s.State = "confirm"
		return f.ui.Send(ctx, s.UserID,
			fmt.Sprintf("Feeding — %s\nFeed: %s\nMass: %g kg", d.PondLabel, d.FeedName, d.MassKg),
			keyboard.ConfirmSave())

	case "confirm":
		if ev.Kind != EventCallback || ev.Data != "confirm_save" {
			return f.ui.Send(ctx, s.UserID, "Use the buttons to save or cancel.", nil)
		}
		row, err := models.NewFeedingRow(f.limits, time.Now(), d.PondID, d.FeedName, d.MassKg, s.Identity.Label())
		if err != nil {
			return abortWrite(ctx, f.ui, s, ev.CallbackID)
		}
		if err := f.log.RecordFeeding(ctx, row); err != nil {
			return abortWrite(ctx, f.ui, s, ev.CallbackID)
		}
		role := s.Identity.Role
		s.Reset()
		util.FlowsCompletedTotal.WithLabelValues(FlowFeeding).Inc()
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID, "Saved ✅", keyboard.MainMenu(role))
	}

	return nil
}
