package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sheet names. One tab per entity kind: reference sheets first, then the
// append-only logs.
const (
	SheetUsers     = "USERS"
	SheetPonds     = "PONDS"
	SheetFeedTypes = "FEED_TYPES"
	SheetProducts  = "PRODUCTS"

	SheetWaterQualityLog = "WATER_QUALITY_LOG"
	SheetFeedingLog      = "FEEDING_LOG"
	SheetWeighingLog     = "WEIGHING_LOG"
	SheetFishMovesLog    = "FISH_MOVES_LOG"
	SheetStockMovesLog   = "STOCK_MOVES_LOG"
	SheetSalesOrders     = "SALES_ORDERS"
	SheetSalesOrderItems = "SALES_ORDER_ITEMS"
)

// Serialization layouts for the backing sheets.
const (
	TimeLayout = "2006-01-02T15:04:05"
	DateLayout = "2006-01-02"
)

// Schema fixes a sheet's header row and, by declaration order, the column
// position of every field. Targeted cell updates derive their column index
// from here so the code and the sheet layout cannot drift apart.
type Schema struct {
	Sheet   string
	Headers []string
}

// Col returns the 1-indexed column of the named field, or 0 if the field
// is not part of the schema.
func (s Schema) Col(field string) int {
	for i, h := range s.Headers {
		if h == field {
			return i + 1
		}
	}
	return 0
}

var (
	UserSchema = Schema{SheetUsers, []string{
		"user_id", "user_name", "phone_number", "role", "notifications_enabled",
	}}
	PondSchema = Schema{SheetPonds, []string{
		"pond_id", "name", "type", "species", "stocking_date", "initial_qty", "notes", "is_active",
	}}
	FeedTypeSchema = Schema{SheetFeedTypes, []string{
		"feed_id", "name", "is_active",
	}}
	ProductSchema = Schema{SheetProducts, []string{
		"product_id", "name", "description", "price", "unit", "is_available",
	}}
	WaterQualitySchema = Schema{SheetWaterQualityLog, []string{
		"ts", "pond_id", "dissolved_O2_mgL", "temperature_C", "notes", "user",
	}}
	FeedingSchema = Schema{SheetFeedingLog, []string{
		"ts", "pond_id", "feed_type", "mass_kg", "user",
	}}
	WeighingSchema = Schema{SheetWeighingLog, []string{
		"ts", "pond_id", "avg_weight_g", "user",
	}}
	FishMoveSchema = Schema{SheetFishMovesLog, []string{
		"ts", "pond_id", "move_type", "quantity", "avg_weight_g", "reason", "ref", "user",
	}}
	StockMoveSchema = Schema{SheetStockMovesLog, []string{
		"ts", "feed_type_id", "feed_type_name", "move_type", "mass_kg", "reason", "user",
	}}
	SalesOrderSchema = Schema{SheetSalesOrders, []string{
		"order_id", "ts", "client_id", "client_name", "phone", "status", "total_amount",
	}}
	SalesOrderItemSchema = Schema{SheetSalesOrderItems, []string{
		"order_id", "product_id", "product_name", "quantity", "price_per_unit",
	}}
)

// AllSchemas lists every sheet the system owns, in provisioning order.
func AllSchemas() []Schema {
	return []Schema{
		UserSchema, PondSchema, FeedTypeSchema, ProductSchema,
		SalesOrderSchema, SalesOrderItemSchema,
		WaterQualitySchema, FeedingSchema, WeighingSchema,
		FishMoveSchema, StockMoveSchema,
	}
}

// FormatBool serializes a flag the way the sheets store it.
func FormatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// Cell readers. The Sheets API hands values back as loosely typed
// interface{} cells; empty cells may be missing entirely.

func cell(row []interface{}, i int) interface{} {
	if i < len(row) {
		return row[i]
	}
	return nil
}

func cellString(row []interface{}, i int) string {
	v := cell(row, i)
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// numbers read from a sheet come back as float64
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func cellInt64(row []interface{}, i int) (int64, error) {
	s := cellString(row, i)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return int64(f), nil
}

func cellFloat(row []interface{}, i int) (float64, error) {
	s := strings.ReplaceAll(cellString(row, i), ",", ".")
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

func cellBool(row []interface{}, i int) bool {
	switch strings.ToUpper(cellString(row, i)) {
	case "TRUE", "1", "YES":
		return true
	default:
		return false
	}
}

func cellTime(row []interface{}, i int) time.Time {
	s := cellString(row, i)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{TimeLayout, time.RFC3339, DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
