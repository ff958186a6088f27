package store

import (
	"context"

	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/sheets"
)

// EventSink mirrors committed facts to an external event stream. The
// spreadsheet append is the source of truth; sink delivery is best-effort
// and must never fail a commit.
type EventSink interface {
	Publish(ctx context.Context, eventType string, payload interface{})
}

// LogWriter commits immutable facts to the append-only log sheets. One
// fact, one append; a transfer is two appends. There is no update path.
type LogWriter struct {
	api    sheets.API
	events EventSink
}

func NewLogWriter(api sheets.API, events EventSink) *LogWriter {
	return &LogWriter{api: api, events: events}
}

func (w *LogWriter) publish(ctx context.Context, eventType string, payload interface{}) {
	if w.events != nil {
		w.events.Publish(ctx, eventType, payload)
	}
}

func (w *LogWriter) RecordWaterQuality(ctx context.Context, r *models.WaterQualityRow) error {
	if err := w.api.Append(ctx, models.SheetWaterQualityLog, r.Row()); err != nil {
		return err
	}
	w.publish(ctx, "water_quality.recorded", r)
	return nil
}

func (w *LogWriter) RecordFeeding(ctx context.Context, r *models.FeedingRow) error {
	if err := w.api.Append(ctx, models.SheetFeedingLog, r.Row()); err != nil {
		return err
	}
	w.publish(ctx, "feeding.recorded", r)
	return nil
}

func (w *LogWriter) RecordWeighing(ctx context.Context, r *models.WeighingRow) error {
	if err := w.api.Append(ctx, models.SheetWeighingLog, r.Row()); err != nil {
		return err
	}
	w.publish(ctx, "weighing.recorded", r)
	return nil
}

// RecordFishMoves appends each row in order. A transfer passes the
// transfer_out and transfer_in rows together; if the second append fails
// after the first succeeded the log is left with an unpaired half, which
// the error surfaces for manual correction.
func (w *LogWriter) RecordFishMoves(ctx context.Context, rows ...*models.FishMoveRow) error {
	for _, r := range rows {
		if err := w.api.Append(ctx, models.SheetFishMovesLog, r.Row()); err != nil {
			return err
		}
	}
	w.publish(ctx, "fish.moved", rows)
	return nil
}

func (w *LogWriter) RecordStockMove(ctx context.Context, r *models.StockMoveRow) error {
	if err := w.api.Append(ctx, models.SheetStockMovesLog, r.Row()); err != nil {
		return err
	}
	w.publish(ctx, "stock.moved", r)
	return nil
}

// RecordOrder writes the order header and then its item rows. A failure
// mid-way can leave a header without some items; the order id ties
// whatever landed together.
func (w *LogWriter) RecordOrder(ctx context.Context, header *models.SalesOrderRow, items []*models.SalesOrderItemRow) error {
	if err := w.api.Append(ctx, models.SheetSalesOrders, header.Row()); err != nil {
		return err
	}
	for _, item := range items {
		if err := w.api.Append(ctx, models.SheetSalesOrderItems, item.Row()); err != nil {
			return err
		}
	}
	w.publish(ctx, "order.placed", header)
	return nil
}
