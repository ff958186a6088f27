package bot

import (
	"context"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"fishfarm-bot/internal/flows"
	"fishfarm-bot/internal/keyboard"
)

// New builds the long-polling Telegram bot.
func New(token string) (*tele.Bot, error) {
	return tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
}

// Sender adapts the Telegram bot to the flows.Responder interface.
type Sender struct {
	bot *tele.Bot
}

func NewSender(b *tele.Bot) *Sender {
	return &Sender{bot: b}
}

func (s *Sender) Send(_ context.Context, userID int64, text string, kb *keyboard.Keyboard) error {
	if markup := renderMarkup(kb); markup != nil {
		_, err := s.bot.Send(&tele.User{ID: userID}, text, markup)
		return err
	}
	_, err := s.bot.Send(&tele.User{ID: userID}, text)
	return err
}

func (s *Sender) Alert(_ context.Context, callbackID, text string) error {
	return s.bot.Respond(&tele.Callback{ID: callbackID},
		&tele.CallbackResponse{Text: text, ShowAlert: true})
}

func (s *Sender) Ack(_ context.Context, callbackID string) error {
	return s.bot.Respond(&tele.Callback{ID: callbackID}, &tele.CallbackResponse{})
}

// renderMarkup converts the neutral keyboard into Telegram markup.
func renderMarkup(kb *keyboard.Keyboard) *tele.ReplyMarkup {
	if kb == nil {
		return nil
	}
	m := &tele.ReplyMarkup{}
	if kb.Remove {
		m.RemoveKeyboard = true
		return m
	}

	if kb.Inline {
		rows := make([][]tele.InlineButton, 0, len(kb.Rows))
		for _, row := range kb.Rows {
			btns := make([]tele.InlineButton, 0, len(row))
			for _, b := range row {
				btns = append(btns, tele.InlineButton{Text: b.Text, Data: b.Data})
			}
			rows = append(rows, btns)
		}
		m.InlineKeyboard = rows
		return m
	}

	m.ResizeKeyboard = true
	rows := make([][]tele.ReplyButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		btns := make([]tele.ReplyButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, tele.ReplyButton{Text: b.Text, Contact: b.Contact})
		}
		rows = append(rows, btns)
	}
	m.ReplyKeyboard = rows
	return m
}

// Router feeds Telegram updates into the flow engine.
type Router struct {
	bot    *tele.Bot
	engine *flows.Engine
}

func NewRouter(b *tele.Bot, engine *flows.Engine) *Router {
	return &Router{bot: b, engine: engine}
}

// Setup registers the update handlers. Commands are not registered
// individually: the engine parses them out of the text itself.
func (r *Router) Setup(guard *Guard) {
	r.bot.Use(guard.Middleware())

	r.bot.Handle(tele.OnText, r.onText)
	r.bot.Handle(tele.OnContact, r.onContact)
	r.bot.Handle(tele.OnCallback, r.onCallback)
}

func (r *Router) onText(c tele.Context) error {
	return r.engine.HandleText(context.Background(), c.Sender().ID, c.Text())
}

func (r *Router) onContact(c tele.Context) error {
	contact := c.Message().Contact
	if contact == nil {
		return nil
	}
	return r.engine.HandleContact(context.Background(), c.Sender().ID,
		contact.PhoneNumber, contact.UserID)
}

func (r *Router) onCallback(c tele.Context) error {
	cb := c.Callback()
	data := strings.TrimPrefix(strings.TrimSpace(cb.Data), "\f")
	return r.engine.HandleCallback(context.Background(), c.Sender().ID, cb.ID, data)
}
