package flows

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/store"
	"fishfarm-bot/internal/util"
)

// EventKind discriminates incoming updates after the transport has
// unpacked them.
type EventKind int

const (
	EventText EventKind = iota
	EventContact
	EventCallback
)

// Event is one incoming update, already reduced to what flows need.
type Event struct {
	Kind         EventKind
	Text         string
	Phone        string
	ContactOwner int64
	Data         string
	CallbackID   string
}

// Responder is the outbound half of the messenger, implemented by the
// transport adapter and by fakes in tests.
type Responder interface {
	Send(ctx context.Context, userID int64, text string, kb *keyboard.Keyboard) error
	// Alert answers a callback with a popup the user must dismiss.
	Alert(ctx context.Context, callbackID, text string) error
	// Ack answers a callback silently.
	Ack(ctx context.Context, callbackID string) error
}

// Notifier fans committed facts out to interested users. Delivery is
// best-effort and must never fail the calling flow.
type Notifier interface {
	BroadcastAdmins(ctx context.Context, text string)
	NotifyUser(ctx context.Context, userID int64, text string)
	// PushMenu sends a message together with the main menu for a role,
	// used when an admin changes what a user is allowed to see.
	PushMenu(ctx context.Context, userID int64, text string, role models.Role)
}

// Flow is one multi-step conversation. The engine owns routing and role
// checks; the flow owns its states.
type Flow interface {
	Name() string
	Roles() []models.Role
	Start(ctx context.Context, s *Session) error
	Handle(ctx context.Context, s *Session, ev Event) error
}

// CommandFunc is a one-shot command handler outside any flow.
type CommandFunc func(ctx context.Context, s *Session) error

// Engine routes updates between the transport and the registered flows.
// It resolves identity, enforces role access on flow entry, and owns the
// cancel and stale-callback semantics shared by every flow.
type Engine struct {
	store    *store.ReferenceStore
	ui       Responder
	sessions *Manager

	flows    map[string]Flow
	menu     map[string]string
	commands map[string]CommandFunc

	registration Flow
}

func NewEngine(st *store.ReferenceStore, ui Responder, sessions *Manager) *Engine {
	return &Engine{
		store:    st,
		ui:       ui,
		sessions: sessions,
		flows:    make(map[string]Flow),
		menu:     make(map[string]string),
		commands: make(map[string]CommandFunc),
	}
}

// Register adds a flow. A non-empty menuLabel binds a main menu button to
// it.
func (e *Engine) Register(f Flow, menuLabel string) {
	e.flows[f.Name()] = f
	if menuLabel != "" {
		e.menu[menuLabel] = f.Name()
	}
}

// RegisterRegistration installs the flow started for unknown users.
func (e *Engine) RegisterRegistration(f Flow) {
	e.flows[f.Name()] = f
	e.registration = f
}

// RegisterCommand binds a slash command outside any flow.
func (e *Engine) RegisterCommand(cmd string, fn CommandFunc) {
	e.commands[cmd] = fn
}

// HandleText processes a plain text message.
func (e *Engine) HandleText(ctx context.Context, userID int64, text string) error {
	s := e.sessions.GetOrCreate(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := e.resolveIdentity(ctx, s); err != nil {
		return e.ui.Send(ctx, userID, "Something went wrong, please try again later.", nil)
	}
	if s.Identity != nil && s.Identity.Role == models.RoleBlocked {
		return nil
	}

	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "/") {
		return e.handleCommand(ctx, s, text)
	}

	// Menu buttons win over an active flow: tapping one abandons the
	// current dialog and starts the selected flow from the top.
	if flowName, ok := e.menu[text]; ok {
		return e.startFlow(ctx, s, flowName)
	}

	if s.Flow != "" {
		return e.dispatch(ctx, s, Event{Kind: EventText, Text: text})
	}

	return e.sendIdleHint(ctx, s)
}

// HandleContact processes a shared contact.
func (e *Engine) HandleContact(ctx context.Context, userID int64, phone string, ownerID int64) error {
	s := e.sessions.GetOrCreate(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := e.resolveIdentity(ctx, s); err != nil {
		return e.ui.Send(ctx, userID, "Something went wrong, please try again later.", nil)
	}
	if s.Identity != nil && s.Identity.Role == models.RoleBlocked {
		return nil
	}
	if s.Flow == "" {
		return e.sendIdleHint(ctx, s)
	}
	return e.dispatch(ctx, s, Event{Kind: EventContact, Phone: phone, ContactOwner: ownerID})
}

// HandleCallback processes an inline button press.
func (e *Engine) HandleCallback(ctx context.Context, userID int64, callbackID, data string) error {
	s := e.sessions.GetOrCreate(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := e.resolveIdentity(ctx, s); err != nil {
		return e.ui.Alert(ctx, callbackID, "Something went wrong, please try again later.")
	}
	if s.Identity != nil && s.Identity.Role == models.RoleBlocked {
		return e.ui.Ack(ctx, callbackID)
	}

	switch data {
	case "noop":
		return e.ui.Ack(ctx, callbackID)
	case "cancel_op":
		if err := e.ui.Ack(ctx, callbackID); err != nil {
			util.GetLogger().Warn("callback ack failed", zap.Error(err))
		}
		return e.cancel(ctx, s)
	}

	// a button from before a restart or a finished flow
	if s.Flow == "" {
		return e.ui.Alert(ctx, callbackID, "This menu has expired. Use the main menu.")
	}

	return e.dispatch(ctx, s, Event{Kind: EventCallback, Data: data, CallbackID: callbackID})
}

func (e *Engine) handleCommand(ctx context.Context, s *Session, text string) error {
	cmd := strings.Fields(text)[0]
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}

	switch cmd {
	case "/start":
		return e.handleStart(ctx, s)
	case "/cancel":
		return e.cancel(ctx, s)
	}

	if fn, ok := e.commands[cmd]; ok && s.Identity != nil {
		if s.Flow == "" {
			return fn(ctx, s)
		}
	}

	// inside a flow, unknown commands are passed through as text: the
	// registration flow reads /confirm this way
	if s.Flow != "" {
		return e.dispatch(ctx, s, Event{Kind: EventText, Text: text})
	}
	return e.sendIdleHint(ctx, s)
}

func (e *Engine) handleStart(ctx context.Context, s *Session) error {
	if s.Identity == nil {
		if e.registration == nil {
			return e.ui.Send(ctx, s.UserID, "Registration is not available.", nil)
		}
		s.Reset()
		s.Flow = e.registration.Name()
		util.FlowsStartedTotal.WithLabelValues(s.Flow).Inc()
		return e.registration.Start(ctx, s)
	}

	switch s.Identity.Role {
	case models.RolePending:
		return e.ui.Send(ctx, s.UserID, "Your registration is awaiting approval.", nil)
	default:
		s.Reset()
		return e.ui.Send(ctx, s.UserID, "Welcome back, "+s.Identity.Name+"!",
			keyboard.MainMenu(s.Identity.Role))
	}
}

func (e *Engine) startFlow(ctx context.Context, s *Session, name string) error {
	f, ok := e.flows[name]
	if !ok {
		return e.sendIdleHint(ctx, s)
	}
	if s.Identity == nil || !roleAllowed(f, s.Identity.Role) {
		return e.ui.Send(ctx, s.UserID, "You are not allowed to do that.", nil)
	}

	s.Reset()
	s.Flow = f.Name()
	util.FlowsStartedTotal.WithLabelValues(f.Name()).Inc()
	return f.Start(ctx, s)
}

// StartFlow switches the session to another registered flow. Intended
// for flows that chain into sub-flows while handling an update.
func (e *Engine) StartFlow(ctx context.Context, s *Session, name string) error {
	return e.startFlow(ctx, s, name)
}

func (e *Engine) dispatch(ctx context.Context, s *Session, ev Event) error {
	f, ok := e.flows[s.Flow]
	if !ok {
		util.GetLogger().Error("session points at unknown flow", zap.String("flow", s.Flow))
		s.Reset()
		return e.sendIdleHint(ctx, s)
	}
	return f.Handle(ctx, s, ev)
}

// cancel aborts the active flow, keeping the identity.
func (e *Engine) cancel(ctx context.Context, s *Session) error {
	hadFlow := s.Flow != ""
	if hadFlow {
		util.FlowsCancelledTotal.WithLabelValues(s.Flow).Inc()
	}
	s.Reset()

	var kb *keyboard.Keyboard
	if s.Identity != nil {
		kb = keyboard.MainMenu(s.Identity.Role)
	}
	if !hadFlow {
		return e.ui.Send(ctx, s.UserID, "Nothing to cancel.", kb)
	}
	return e.ui.Send(ctx, s.UserID, "Cancelled.", kb)
}

func (e *Engine) sendIdleHint(ctx context.Context, s *Session) error {
	if s.Identity == nil {
		return e.ui.Send(ctx, s.UserID, "Send /start to register.", nil)
	}
	if s.Identity.Role == models.RolePending {
		return e.ui.Send(ctx, s.UserID, "Your registration is awaiting approval.", nil)
	}
	return e.ui.Send(ctx, s.UserID, "Use the menu below.", keyboard.MainMenu(s.Identity.Role))
}

// resolveIdentity loads the user record for idle sessions, so role
// changes made by an admin apply on the next interaction. Mid-flow the
// identity is pinned until the flow ends.
func (e *Engine) resolveIdentity(ctx context.Context, s *Session) error {
	if s.Flow != "" && s.Identity != nil {
		return nil
	}
	u, err := e.store.UserByID(ctx, s.UserID)
	if err != nil {
		util.GetLogger().Error("identity lookup failed",
			zap.Int64("user_id", s.UserID), zap.Error(err))
		return err
	}
	s.Identity = u
	return nil
}

func roleAllowed(f Flow, role models.Role) bool {
	for _, r := range f.Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// RefreshIdentity reloads another chat's identity from the store, used
// after an admin changed that user's role. The caller holds its own
// session lock, so this must never block on the target's: if the target
// session is busy, skip the refresh. Its identity is re-resolved on the
// next idle update anyway.
func (e *Engine) RefreshIdentity(ctx context.Context, userID int64) {
	s := e.sessions.Peek(userID)
	if s == nil {
		return
	}
	if !s.mu.TryLock() {
		return
	}
	defer s.mu.Unlock()
	u, err := e.store.UserByID(ctx, userID)
	if err != nil {
		return
	}
	s.Identity = u
}
