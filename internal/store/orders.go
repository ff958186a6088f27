package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/util"
)

// Orders are read straight from the sheet, without the TTL cache: the
// admin list must reflect an order placed a second ago.

func (s *ReferenceStore) SalesOrders(ctx context.Context) ([]*models.SalesOrderRow, error) {
	rows, err := s.api.Rows(ctx, models.SheetSalesOrders)
	if err != nil {
		return nil, err
	}
	orders := make([]*models.SalesOrderRow, 0, len(rows))
	for i, row := range rows {
		o, err := models.SalesOrderRowFromRow(row)
		if err != nil {
			util.GetLogger().Warn("skipping malformed order row",
				zap.Int("row", i+2), zap.Error(err))
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *ReferenceStore) OrdersByStatus(ctx context.Context, status models.OrderStatus) ([]*models.SalesOrderRow, error) {
	orders, err := s.SalesOrders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.SalesOrderRow, 0, len(orders))
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *ReferenceStore) OrderByID(ctx context.Context, id string) (*models.SalesOrderRow, error) {
	orders, err := s.SalesOrders(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.OrderID == id {
			return o, nil
		}
	}
	return nil, fmt.Errorf("order not found: %s", id)
}

func (s *ReferenceStore) OrderItems(ctx context.Context, orderID string) ([]*models.SalesOrderItemRow, error) {
	rows, err := s.api.Rows(ctx, models.SheetSalesOrderItems)
	if err != nil {
		return nil, err
	}
	items := make([]*models.SalesOrderItemRow, 0, 4)
	for i, row := range rows {
		item, err := models.SalesOrderItemRowFromRow(row)
		if err != nil {
			util.GetLogger().Warn("skipping malformed order item row",
				zap.Int("row", i+2), zap.Error(err))
			continue
		}
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	return items, nil
}

// UpdateOrderStatus moves an order to a new status in place.
func (s *ReferenceStore) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	ok, err := s.api.UpdateCellByMatch(ctx, models.SheetSalesOrders,
		models.SalesOrderSchema.Col("order_id"), orderID,
		models.SalesOrderSchema.Col("status"), string(status))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("order not found: %s", orderID)
	}
	return nil
}
