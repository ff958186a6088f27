package bot

import (
	"context"

	tele "gopkg.in/telebot.v3"
	"go.uber.org/zap"

	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/store"
	"fishfarm-bot/internal/util"
)

// Guard drops updates from blocked users before they reach the engine.
type Guard struct {
	store *store.ReferenceStore
}

func NewGuard(st *store.ReferenceStore) *Guard {
	return &Guard{store: st}
}

func (g *Guard) Middleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}

			u, err := g.store.UserByID(context.Background(), sender.ID)
			if err != nil {
				// The engine resolves identity again; let it decide.
				util.GetLogger().Warn("guard identity lookup failed",
					zap.Int64("user_id", sender.ID), zap.Error(err))
				return next(c)
			}
			if u != nil && u.Role == models.RoleBlocked {
				if cb := c.Callback(); cb != nil {
					return c.Respond(&tele.CallbackResponse{})
				}
				return nil
			}
			return next(c)
		}
	}
}
