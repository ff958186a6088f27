package flows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fishfarm-bot/internal/keyboard"
	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/store"
	"fishfarm-bot/internal/util"
)

const FlowOrder = "client_order"

type orderItem struct {
	Product  models.Product
	Quantity float64
}

type orderData struct {
	Pending *models.Product
	Items   []orderItem
}

func (orderData) flowData() {}

func (d *orderData) total() float64 {
	var sum float64
	for _, it := range d.Items {
		sum += it.Product.Price * it.Quantity
	}
	return sum
}

// OrderFlow is the client checkout: pick products into a cart, confirm,
// and the order lands as a header row plus one row per item.
type OrderFlow struct {
	store  *store.ReferenceStore
	log    *store.LogWriter
	ui     Responder
	notify Notifier
}

func NewOrderFlow(st *store.ReferenceStore, log *store.LogWriter, ui Responder, notify Notifier) *OrderFlow {
	return &OrderFlow{store: st, log: log, ui: ui, notify: notify}
}

func (f *OrderFlow) Name() string         { return FlowOrder }
func (f *OrderFlow) Roles() []models.Role { return []models.Role{models.RoleClient} }

func (f *OrderFlow) Start(ctx context.Context, s *Session) error {
	s.Data = &orderData{}
	return f.showCatalog(ctx, s)
}

func (f *OrderFlow) showCatalog(ctx context.Context, s *Session) error {
	products, err := f.store.AvailableProducts(ctx)
	if err != nil {
		s.Reset()
		return f.ui.Send(ctx, s.UserID, "Could not load the catalog, please try again later.", nil)
	}
	if len(products) == 0 {
		s.Reset()
		return f.ui.Send(ctx, s.UserID, "The catalog is empty right now.", nil)
	}
	s.State = "product"
	return f.ui.Send(ctx, s.UserID, "What would you like to order?",
		withCancel(productButtons(products, "prod_")))
}

// Catalog lists the available products without starting an order.
// Registered as the /catalog command.
func (f *OrderFlow) Catalog(ctx context.Context, s *Session) error {
	products, err := f.store.AvailableProducts(ctx)
	if err != nil {
		return f.ui.Send(ctx, s.UserID, "Could not load the catalog, please try again later.", nil)
	}
	if len(products) == 0 {
		return f.ui.Send(ctx, s.UserID, "The catalog is empty right now.", nil)
	}

	var b strings.Builder
	b.WriteString("Our products:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "• %s — %s\n", p.Name, p.DisplayPrice())
		if p.Description != "" {
			fmt.Fprintf(&b, "  %s\n", p.Description)
		}
	}
	return f.ui.Send(ctx, s.UserID, b.String(), nil)
}

func (f *OrderFlow) Handle(ctx context.Context, s *Session, ev Event) error {
	d := s.Data.(*orderData)

	switch s.State {
	case "product":
		if ev.Kind != EventCallback || !strings.HasPrefix(ev.Data, "prod_") {
			return f.ui.Send(ctx, s.UserID, "Please pick a product with the buttons.", nil)
		}
		p, err := f.store.ProductByID(ctx, strings.TrimPrefix(ev.Data, "prod_"))
		if err != nil || !p.IsAvailable {
			return f.ui.Alert(ctx, ev.CallbackID, "That product is no longer available.")
		}
		d.Pending = p
		s.State = "qty"
		if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
			return err
		}
		return f.ui.Send(ctx, s.UserID,
			fmt.Sprintf("%s — %s\nEnter the quantity (%s):", p.Name, p.DisplayPrice(), p.Unit), nil)

	case "qty":
		if ev.Kind != EventText {
			return f.ui.Alert(ctx, ev.CallbackID, "Please type the quantity.")
		}
		qty, err := parseDecimal(ev.Text)
		if err != nil || qty <= 0 {
			return f.ui.Send(ctx, s.UserID, "Quantity must be a number above zero.", nil)
		}
		d.Items = append(d.Items, orderItem{Product: *d.Pending, Quantity: qty})
		d.Pending = nil
		s.State = "more"
		return f.ui.Send(ctx, s.UserID, f.cart(d),
			keyboard.Inline(
				keyboard.Row(
					keyboard.Button{Text: "➕ Add more", Data: "add_more"},
					keyboard.Button{Text: "🛒 Checkout", Data: "checkout"},
				),
				keyboard.Row(keyboard.Button{Text: "❌ Cancel", Data: "cancel_op"}),
			))

	case "more":
		if ev.Kind != EventCallback {
			return f.ui.Send(ctx, s.UserID, "Use the buttons.", nil)
		}
		switch ev.Data {
		case "add_more":
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.showCatalog(ctx, s)
		case "checkout":
			s.State = "confirm"
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.ui.Send(ctx, s.UserID, f.cart(d),
				keyboard.Inline(keyboard.Row(
					keyboard.Button{Text: "✅ Confirm order", Data: "confirm_order"},
					keyboard.Button{Text: "❌ Cancel", Data: "cancel_order"},
				)))
		}
		return f.ui.Alert(ctx, ev.CallbackID, "Use the buttons.")

	case "confirm":
		if ev.Kind != EventCallback {
			return f.ui.Send(ctx, s.UserID, "Use the buttons.", nil)
		}
		switch ev.Data {
		case "confirm_order":
			return f.commit(ctx, s, d, ev.CallbackID)
		case "cancel_order":
			role := s.Identity.Role
			s.Reset()
			util.FlowsCancelledTotal.WithLabelValues(FlowOrder).Inc()
			if err := f.ui.Ack(ctx, ev.CallbackID); err != nil {
				return err
			}
			return f.ui.Send(ctx, s.UserID, "Order cancelled.", keyboard.MainMenu(role))
		}
		return f.ui.Alert(ctx, ev.CallbackID, "Use the buttons.")
	}

	return nil
}

func (f *OrderFlow) cart(d *orderData) string {
	var b strings.Builder
	b.WriteString("Your order:\n")
	for _, it := range d.Items {
		fmt.Fprintf(&b, "• %s: %g %s × %.2f = %.2f\n",
			it.Product.Name, it.Quantity, it.Product.Unit,
			it.Product.Price, it.Product.Price*it.Quantity)
	}
	fmt.Fprintf(&b, "Total: %.2f", d.total())
	return b.String()
}

func (f *OrderFlow) commit(ctx context.Context, s *Session, d *orderData, callbackID string) error {
	if len(d.Items) == 0 {
		return f.ui.Alert(ctx, callbackID, "The order is empty.")
	}

	header, err := models.NewSalesOrderRow(time.Now(), s.UserID, s.Identity.Name, s.Identity.Phone, d.total())
	if err != nil {
		return abortWrite(ctx, f.ui, s, callbackID)
	}

	items := make([]*models.SalesOrderItemRow, 0, len(d.Items))
	for _, it := range d.Items {
		p := it.Product
		item, err := models.NewSalesOrderItemRow(header.OrderID, &p, it.Quantity)
		if err != nil {
			return abortWrite(ctx, f.ui, s, callbackID)
		}
		items = append(items, item)
	}

	if err := f.log.RecordOrder(ctx, header, items); err != nil {
		return abortWrite(ctx, f.ui, s, callbackID)
	}

	f.notify.BroadcastAdmins(ctx, fmt.Sprintf(
		"🛒 New order %s from %s (%s), total %.2f",
		header.OrderID, s.Identity.Label(), s.Identity.Phone, header.TotalAmount))

	role := s.Identity.Role
	s.Reset()
	util.FlowsCompletedTotal.WithLabelValues(FlowOrder).Inc()
	if err := f.ui.Ack(ctx, callbackID); err != nil {
		return err
	}
	return f.ui.Send(ctx, s.UserID,
		fmt.Sprintf("Order %s placed! We will contact you shortly.", header.OrderID),
		keyboard.MainMenu(role))
}
