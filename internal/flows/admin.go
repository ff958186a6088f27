package flows

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"fishfarm-bot/config"
	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/store"
)

const FlowAdmin = "admin_panel"

const (
	listPending = "pending"
	listManage  = "manage"
)

type adminData struct {
	ListKind      string
	Page          int
	SelectedUser  int64
	SelectedOrder string
}

func (adminData) flowData() {}

// AdminFlow is the admin panel: approving registrations, managing roles
// and blocks, and working the incoming order queue. Reference management
// (ponds, products, feed types) is chained into its own flows.
type AdminFlow struct {
	store  *store.ReferenceStore
	ui     Responder
	notify Notifier
	engine *Engine
	limits config.Limits
}

func NewAdminFlow(st *store.ReferenceStore, ui Responder, notify Notifier, engine *Engine, limits config.Limits) *AdminFlow {
	return &AdminFlow{store: st, ui: ui, notify: notify, engine: engine, limits: limits}
}

func (f *AdminFlow) Name() string         { return FlowAdmin }
func (f *AdminFlow) Roles() []models.Role { return []models.Role{models.RoleAdmin} }

func (f *AdminFlow) Start(ctx context.Context, s *Session) error {
	s.State = "panel"
	s.Data = &adminData{}
	return f.sendPanel(ctx, s)
}

func (f *AdminFlow) sendPanel(ctx context.Context, s *Session) error {
	return f.ui.Send(ctx, s.UserID, "Admin panel",
		keyboard.Inline(
			keyboard.Row(keyboard.Button{Text: "👥 Users", Data: "goto_users"}),
			keyboard.Row(keyboard.Button{Text: "📋 Orders", Data: "goto_orders"}),
			keyboard.Row(keyboard.Button{Text: "🏞 Ponds", Data: "goto_ponds"}),
			keyboard.Row(keyboard.Button{Text: "🛍 Products", Data: "goto_products"}),
			keyboard.Row(keyboard.Button{Text: "🌾 Feed types", Data: "goto_feeds"}),
			keyboard.Row(keyboard.Button{Text: "❌ Close", Data: "cancel_op"}),
		))
}

func (f *AdminFlow) Handle(ctx context.Context, s *Session, ev Event) error {
	if ev.Kind != EventCallback {
		return f.ui.Send(ctx, s.UserID, "Use the panel buttons.", nil)
	}
	d := s.Data.(*adminData)

	// navigation tokens shared by several states
	switch {
	case ev.Data == "back_to_admin_menu":
		s.State = "panel"
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.sendPanel(ctx, s)

	case ev.Data == "goto_users":
		s.State = "users_menu"
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID, "User management",
			keyboard.Inline(
				keyboard.Row(keyboard.Button{Text: "🆕 Pending approvals", Data: "users_pending_page_0"}),
				keyboard.Row(keyboard.Button{Text: "👥 Manage users", Data: "users_manage_page_0"}),
				keyboard.Row(keyboard.Button{Text: "⬅️ Back", Data: "back_to_admin_menu"}),
			))

	case ev.Data == "goto_orders":
		d.Page = 0
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.sendOrderList(ctx, s, d)

	case ev.Data == "goto_ponds":
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.engine.StartFlow(ctx, s, FlowManagePonds)

	case ev.Data == "goto_products":
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.engine.StartFlow(ctx, s, FlowManageProducts)

	case ev.Data == "goto_feeds":
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.engine.StartFlow(ctx, s, FlowManageFeedTypes)

	case strings.HasPrefix(ev.Data, "users_pending_page_"):
		d.ListKind = listPending
		d.Page = pageFrom(ev.Data, "users_pending_page_")
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.sendUserList(ctx, s, d)

	case strings.HasPrefix(ev.Data, "users_manage_page_"):
		d.ListKind = listManage
		d.Page = pageFrom(ev.Data, "users_manage_page_")
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.sendUserList(ctx, s, d)

	case strings.HasPrefix(ev.Data, "orders_page_"):
		d.Page = pageFrom(ev.Data, "orders_page_")
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.sendOrderList(ctx, s, d)

	case ev.Data == "back_to_list":
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		if s.State == "order_card" {
			return f.sendOrderList(ctx, s, d)
		}
		return f.sendUserList(ctx, s, d)
	}

	switch s.State {
	case "users_list":
		if strings.HasPrefix(ev.Data, "user_") {
			id, err := strconv.ParseInt(strings.TrimPrefix(ev.Data, "user_"), 10, 64)
			if err != nil {
				return f.ui.Alert(ctx, ev.CallbackID, "Bad user reference.")
			}
			d.SelectedUser = id
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.sendUserCard(ctx, s, d)
		}

	case "user_card":
		return f.handleUserAction(ctx, s, d, ev)

	case "role_pick":
		if strings.HasPrefix(ev.Data, "role_") {
			return f.applyRole(ctx, s, d, ev, models.Role(strings.TrimPrefix(ev.Data, "role_")))
		}

	case "orders_list":
		if strings.HasPrefix(ev.Data, "order_") {
			d.SelectedOrder = strings.TrimPrefix(ev.Data, "order_")
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.sendOrderCard(ctx, s, d)
		}

	case "order_card":
		switch ev.Data {
		case "status_confirmed":
			return f.applyOrderStatus(ctx, s, d, ev, models.OrderConfirmed)
		case "status_cancelled":
			return f.applyOrderStatus(ctx, s, d, ev, models.OrderCancelled)
		}
	}

	return f.ui.Alert(ctx, ev.CallbackID, "Use the panel buttons.")
}

func pageFrom(data, prefix string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// --- users ---

func (f *AdminFlow) sendUserList(ctx context.Context, s *Session, d *adminData) error {
	var (
		users []*models.User
		err   error
		title string
	)
	if d.ListKind == listPending {
		users, err = f.store.UsersByRole(ctx, models.RolePending)
		title = "Pending approvals"
	} else {
		all, e := f.store.Users(ctx)
		err = e
		for _, u := range all {
			if u.Role != models.RolePending {
				users = append(users, u)
			}
		}
		title = "All users"
	}
	if err != nil {
		return f.ui.Send(ctx, s.UserID, "Could not load users, please try again later.", nil)
	}

	s.State = "users_list"
	if len(users) == 0 {
		return f.ui.Send(ctx, s.UserID, title+": nobody here.",
			keyboard.Inline(keyboard.Row(keyboard.Button{Text: "⬅️ Back", Data: "goto_users"})))
	}

	items := make([]keyboard.Button, 0, len(users))
	for _, u := range users {
		label := u.Label()
		if d.ListKind == listManage {
			label = fmt.Sprintf("%s — %s", u.Label(), u.Role)
		}
		items = append(items, keyboard.Button{Text: label, Data: fmt.Sprintf("user_%d", u.ID)})
	}

	pagePrefix := "users_manage_page_"
	if d.ListKind == listPending {
		pagePrefix = "users_pending_page_"
	}
	back := keyboard.Row(keyboard.Button{Text: "⬅️ Back", Data: "goto_users"})
	return f.ui.Send(ctx, s.UserID, title,
		keyboard.Paginate(items, d.Page, f.limits.PageSize, pagePrefix, back))
}

func (f *AdminFlow) sendUserCard(ctx context.Context, s *Session, d *adminData) error {
	u, err := f.store.UserByID(ctx, d.SelectedUser)
	if err != nil || u == nil {
		return f.ui.Send(ctx, s.UserID, "That user is gone.", nil)
	}

	s.State = "user_card"
	text := fmt.Sprintf("%s\nPhone: %s\nRole: %s\nNotifications: %s",
		u.Label(), u.Phone, u.Role, models.FormatBool(u.NotificationsEnabled))

	var rows [][]keyboard.Button
	if u.Role == models.RolePending {
		rows = append(rows,
			keyboard.Row(keyboard.Button{Text: "✅ Approve as operator", Data: "role_" + string(models.RoleOperator)}),
			keyboard.Row(keyboard.Button{Text: "✅ Approve as client", Data: "role_" + string(models.RoleClient)}),
			keyboard.Row(keyboard.Button{Text: "🚫 Block", Data: "action_block"}),
		)
	} else if u.Role == models.RoleBlocked {
		rows = append(rows,
			keyboard.Row(keyboard.Button{Text: "✅ Unblock", Data: "action_unblock"}),
		)
	} else {
		rows = append(rows,
			keyboard.Row(keyboard.Button{Text: "🔁 Change role", Data: "action_changerole"}),
			keyboard.Row(keyboard.Button{Text: "🚫 Block", Data: "action_block"}),
		)
	}
	rows = append(rows, keyboard.Row(keyboard.Button{Text: "⬅️ Back", Data: "back_to_list"}))
	return f.ui.Send(ctx, s.UserID, text, keyboard.Inline(rows...))
}

func (f *AdminFlow) handleUserAction(ctx context.Context, s *Session, d *adminData, ev Event) error {
	// the pending-user card offers role buttons directly
	if strings.HasPrefix(ev.Data, "role_") {
		return f.applyRole(ctx, s, d, ev, models.Role(strings.TrimPrefix(ev.Data, "role_")))
	}

	switch ev.Data {
	case "action_changerole":
		s.State = "role_pick"
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID, "Select the new role.",
			keyboard.Inline(
				keyboard.Row(keyboard.Button{Text: "Admin", Data: "role_" + string(models.RoleAdmin)}),
				keyboard.Row(keyboard.Button{Text: "Operator", Data: "role_" + string(models.RoleOperator)}),
				keyboard.Row(keyboard.Button{Text: "Client", Data: "role_" + string(models.RoleClient)}),
				keyboard.Row(keyboard.Button{Text: "⬅️ Back", Data: "back_to_list"}),
			))

	case "action_block":
		return f.applyRole(ctx, s, d, ev, models.RoleBlocked)

	case "action_unblock":
		// unblocked users come back as clients, the least privileged
		// active role
		return f.applyRole(ctx, s, d, ev, models.RoleClient)
	}

	return f.ui.Alert(ctx, ev.CallbackID, "Use the panel buttons.")
}

func (f *AdminFlow) applyRole(ctx context.Context, s *Session, d *adminData, ev Event, role models.Role) error {
	if _, err := models.ParseRole(string(role)); err != nil {
		return f.ui.Alert(ctx, ev.CallbackID, "Unknown role.")
	}
	if d.SelectedUser == s.UserID && role != models.RoleAdmin {
		return f.ui.Alert(ctx, ev.CallbackID, "You cannot demote yourself.")
	}

	if err := f.store.UpdateUserField(ctx, d.SelectedUser, "role", string(role)); err != nil {
		return f.ui.Alert(ctx, ev.CallbackID, "Could not update the user, please try again.")
	}

	switch role {
	case models.RoleBlocked:
		// PushMenu with the blocked role takes the reply keyboard away
		f.notify.PushMenu(ctx, d.SelectedUser, "Your access has been revoked.", role)
	default:
		f.notify.PushMenu(ctx, d.SelectedUser,
			fmt.Sprintf("You now have %s access.", role), role)
	}
	if d.SelectedUser != s.UserID {
		f.engine.RefreshIdentity(ctx, d.SelectedUser)
	}

	if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
		return err
	}
	return f.sendUserList(ctx, s, d)
}

// --- orders ---

func (f *AdminFlow) sendOrderList(ctx context.Context, s *Session, d *adminData) error {
	orders, err := f.store.OrdersByStatus(ctx, models.OrderNew)
	if err != nil {
		return f.ui.Send(ctx, s.UserID, "Could not load orders, please try again later.", nil)
	}

	s.State = "orders_list"
	back := keyboard.Row(keyboard.Button{Text: "⬅️ Back", Data: "back_to_admin_menu"})
	if len(orders) == 0 {
		return f.ui.Send(ctx, s.UserID, "No new orders.",
			keyboard.Inline(back))
	}

	items := make([]keyboard.Button, 0, len(orders))
	for _, o := range orders {
		items = append(items, keyboard.Button{
			Text: fmt.Sprintf("%s — %s, %.2f", o.OrderID, o.ClientName, o.TotalAmount),
			Data: "order_" + o.OrderID,
		})
	}
	return f.ui.Send(ctx, s.UserID, "New orders",
		keyboard.Paginate(items, d.Page, f.limits.PageSize, "orders_page_", back))
}

func (f *AdminFlow) sendOrderCard(ctx context.Context, s *Session, d *adminData) error {
	order, err := f.store.OrderByID(ctx, d.SelectedOrder)
	if err != nil {
		return f.ui.Send(ctx, s.UserID, "That order is gone.", nil)
	}
	items, err := f.store.OrderItems(ctx, d.SelectedOrder)
	if err != nil {
		return f.ui.Send(ctx, s.UserID, "Could not load the order, please try again later.", nil)
	}

	s.State = "order_card"
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nClient: %s (%s)\nStatus: %s\n\n",
		order.OrderID, order.ClientName, order.Phone, order.Status)
	for _, it := range items {
		fmt.Fprintf(&b, "• %s: %g × %.2f = %.2f\n",
			it.ProductName, it.Quantity, it.PricePerUnit, it.Total())
	}
	fmt.Fprintf(&b, "Total: %.2f", order.TotalAmount)

	return f.ui.Send(ctx, s.UserID, b.String(),
		keyboard.Inline(
			keyboard.Row(
				keyboard.Button{Text: "✅ Confirm", Data: "status_confirmed"},
				keyboard.Button{Text: "❌ Reject", Data: "status_cancelled"},
			),
			keyboard.Row(keyboard.Button{Text: "⬅️ Back", Data: "back_to_list"}),
		))
}

func (f *AdminFlow) applyOrderStatus(ctx context.Context, s *Session, d *adminData, ev Event, status models.OrderStatus) error {
	order, err := f.store.OrderByID(ctx, d.SelectedOrder)
	if err != nil {
		return f.ui.Alert(ctx, ev.CallbackID, "That order is gone.")
	}
	if err := f.store.UpdateOrderStatus(ctx, d.SelectedOrder, status); err != nil {
		return f.ui.Alert(ctx, ev.CallbackID, "Could not update the order, please try again.")
	}

	if status == models.OrderConfirmed {
		f.notify.NotifyUser(ctx, order.ClientID,
			fmt.Sprintf("Your order %s has been confirmed ✅", order.OrderID))
	} else {
		f.notify.NotifyUser(ctx, order.ClientID,
			fmt.Sprintf("Your order %s has been cancelled ❌", order.OrderID))
	}

	if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
		return err
	}
	return f.sendOrderList(ctx, s, d)
}
