package flows

import (
	"context"
	"fmt"
	"time"

	"fishfarm-bot/config"
	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/store"
)

// fakeAPI is an in-memory spreadsheet.
type fakeAPI struct {
	data map[string][][]interface{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{data: map[string][][]interface{}{}}
}

func (f *fakeAPI) Rows(_ context.Context, sheet string) ([][]interface{}, error) {
	return f.data[sheet], nil
}

func (f *fakeAPI) Append(_ context.Context, sheet string, row []interface{}) error {
	f.data[sheet] = append(f.data[sheet], row)
	return nil
}

func (f *fakeAPI) UpdateCellByMatch(_ context.Context, sheet string, matchCol int, matchVal string, targetCol int, newVal interface{}) (bool, error) {
	for _, row := range f.data[sheet] {
		if matchCol-1 < len(row) && fmt.Sprint(row[matchCol-1]) == matchVal {
			row[targetCol-1] = newVal
			return true, nil
		}
	}
	return false, nil
}

type sentMsg struct {
	To   int64
	Text string
	KB   *keyboard.Keyboard
}

// fakeUI records everything the bot would have sent.
type fakeUI struct {
	sends  []sentMsg
	alerts []string
	acks   int
}

func (u *fakeUI) Send(_ context.Context, userID int64, text string, kb *keyboard.Keyboard) error {
	u.sends = append(u.sends, sentMsg{To: userID, Text: text, KB: kb})
	return nil
}

func (u *fakeUI) Alert(_ context.Context, _, text string) error {
	u.alerts = append(u.alerts, text)
	return nil
}

func (u *fakeUI) Ack(_ context.Context, _ string) error {
	u.acks++
	return nil
}

func (u *fakeUI) last() sentMsg {
	if len(u.sends) == 0 {
		return sentMsg{}
	}
	return u.sends[len(u.sends)-1]
}

// fakeNotify records fan-out traffic.
type fakeNotify struct {
	broadcasts []string
	direct     map[int64][]string
	menus      map[int64]models.Role
}

func newFakeNotify() *fakeNotify {
	return &fakeNotify{direct: map[int64][]string{}, menus: map[int64]models.Role{}}
}

func (n *fakeNotify) BroadcastAdmins(_ context.Context, text string) {
	n.broadcasts = append(n.broadcasts, text)
}

func (n *fakeNotify) NotifyUser(_ context.Context, userID int64, text string) {
	n.direct[userID] = append(n.direct[userID], text)
}

func (n *fakeNotify) PushMenu(_ context.Context, userID int64, text string, role models.Role) {
	n.direct[userID] = append(n.direct[userID], text)
	n.menus[userID] = role
}

const (
	adminID    = int64(1)
	operatorID = int64(2)
	clientID   = int64(3)
	strangerID = int64(99)
)

type env struct {
	api    *fakeAPI
	store  *store.ReferenceStore
	ui     *fakeUI
	notify *fakeNotify
	engine *Engine
}

func newEnv() *env {
	api := newFakeAPI()
	api.data[models.SheetUsers] = [][]interface{}{
		{"1", "Alice Admin", "+7900", "admin", "TRUE"},
		{"2", "Oscar Operator", "+7901", "operator", "TRUE"},
		{"3", "Carol Client", "+7902", "client", "TRUE"},
	}
	api.data[models.SheetPonds] = [][]interface{}{
		{"POND-1", "North", "earthen", "carp", "", "", "", "TRUE"},
		{"POND-2", "South", "earthen", "carp", "", "", "", "TRUE"},
	}
	api.data[models.SheetFeedTypes] = [][]interface{}{
		{"FEED-1", "Starter", "TRUE"},
	}
	api.data[models.SheetProducts] = [][]interface{}{
		{"PRD-1", "Live carp", "", "150", "kg", "TRUE"},
	}

	limits := config.Limits{
		DOMin: 4, DOMax: 20, TempMin: -2, TempMax: 35,
		MaxFeedingMassKg: 500, MaxAvgWeightG: 10000, MaxStockMassKg: 10000,
		PageSize: 5,
	}

	// no cache: tests want every read to observe the fake sheet directly
	st := store.NewReferenceStore(api, nil, time.Minute)
	lw := store.NewLogWriter(api, nil)
	ui := &fakeUI{}
	nf := newFakeNotify()

	e := NewEngine(st, ui, NewManager())
	e.RegisterRegistration(NewRegistrationFlow(st, ui, nf))
	e.Register(NewWaterFlow(st, lw, ui, nf, limits), keyboard.BtnWater)
	e.Register(NewFeedingFlow(st, lw, ui, limits), keyboard.BtnFeeding)
	e.Register(NewWeighingFlow(st, lw, ui, limits), keyboard.BtnWeighing)
	e.Register(NewFishMoveFlow(st, lw, ui, limits), keyboard.BtnFishMove)
	e.Register(NewStockFlow(st, lw, ui, limits), keyboard.BtnStock)
	order := NewOrderFlow(st, lw, ui, nf)
	e.Register(order, keyboard.BtnOrder)
	e.RegisterCommand("/catalog", order.Catalog)

	settings := NewSettingsFlow(st, ui)
	e.Register(settings, keyboard.BtnSettings)
	e.RegisterCommand("/notifications", settings.Toggle)

	e.Register(NewAdminFlow(st, ui, nf, e, limits), keyboard.BtnAdmin)
	e.Register(NewRefFlow(NewManagePondsAdapter(st), ui, e, limits), "")
	e.Register(NewRefFlow(NewManageProductsAdapter(st), ui, e, limits), "")
	e.Register(NewRefFlow(NewManageFeedTypesAdapter(st), ui, e, limits), "")

	return &env{api: api, store: st, ui: ui, notify: nf, engine: e}
}

func (e *env) text(userID int64, text string) error {
	return e.engine.HandleText(context.Background(), userID, text)
}

func (e *env) tap(userID int64, data string) error {
	return e.engine.HandleCallback(context.Background(), userID, "cb", data)
}

func (e *env) contact(userID int64, phone string, owner int64) error {
	return e.engine.HandleContact(context.Background(), userID, phone, owner)
}
