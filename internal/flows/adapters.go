package flows

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/store"
)

const (
	FlowManagePonds     = "manage_ponds"
	FlowManageProducts  = "manage_products"
	FlowManageFeedTypes = "manage_feed_types"
)

// --- ponds ---

type pondAdapter struct {
	store *store.ReferenceStore
}

func NewManagePondsAdapter(st *store.ReferenceStore) RefAdapter {
	return &pondAdapter{store: st}
}

func (a *pondAdapter) FlowName() string   { return FlowManagePonds }
func (a *pondAdapter) Title() string      { return "Ponds" }
func (a *pondAdapter) ItemPrefix() string { return "pond_" }
func (a *pondAdapter) PagePrefix() string { return "ponds_page_" }

func (a *pondAdapter) List(ctx context.Context) ([]RefItem, error) {
	ponds, err := a.store.Ponds(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]RefItem, 0, len(ponds))
	for _, p := range ponds {
		items = append(items, RefItem{ID: p.ID, Label: p.Label(), Active: p.IsActive})
	}
	return items, nil
}

func (a *pondAdapter) Card(ctx context.Context, id string) (string, error) {
	p, err := a.store.PondByID(ctx, id)
	if err != nil {
		return "", err
	}
	text := fmt.Sprintf("%s\nType: %s", p.Label(), p.Type)
	if p.Species != "" {
		text += "\nSpecies: " + p.Species
	}
	if p.StockingDate != nil {
		text += "\nStocked: " + p.StockingDate.Format(models.DateLayout)
	}
	if p.InitialQty != nil {
		text += fmt.Sprintf("\nInitial quantity: %d", *p.InitialQty)
	}
	if p.Notes != "" {
		text += "\nNotes: " + p.Notes
	}
	text += "\nActive: " + models.FormatBool(p.IsActive)
	return text, nil
}

func (a *pondAdapter) IsActive(ctx context.Context, id string) (bool, error) {
	p, err := a.store.PondByID(ctx, id)
	if err != nil {
		return false, err
	}
	return p.IsActive, nil
}

func (a *pondAdapter) SetActive(ctx context.Context, id string, active bool) error {
	return a.store.UpdatePondField(ctx, id, "is_active", models.FormatBool(active))
}

func (a *pondAdapter) Fields() []RefField {
	return []RefField{
		{Key: "name", Label: "Name", Prompt: "Enter the new name:"},
		{Key: "type", Label: "Type", Prompt: "Enter the new type (earthen, concrete, cage...):"},
		{Key: "species", Label: "Species", Prompt: "Enter the species, or '" + noneSentinel + "' to clear:"},
		{Key: "stocking_date", Label: "Stocking date", Prompt: "Enter the stocking date (YYYY-MM-DD), or '" + noneSentinel + "' to clear:"},
		{Key: "initial_qty", Label: "Initial quantity", Prompt: "Enter the initial fish quantity, or '" + noneSentinel + "' to clear:"},
		{Key: "notes", Label: "Notes", Prompt: "Enter the notes, or '" + noneSentinel + "' to clear:"},
	}
}

func (a *pondAdapter) UpdateField(ctx context.Context, id, key, raw string) error {
	switch key {
	case "name", "type":
		if raw == "" || isNone(raw) {
			return fmt.Errorf("the %s cannot be empty", key)
		}
	case "species", "notes":
		if isNone(raw) {
			raw = ""
		}
	case "stocking_date":
		if isNone(raw) {
			raw = ""
		} else if _, err := time.Parse(models.DateLayout, raw); err != nil {
			return fmt.Errorf("the stocking date must look like 2024-06-01")
		}
	case "initial_qty":
		if isNone(raw) {
			raw = ""
		} else if n, err := strconv.ParseInt(raw, 10, 64); err != nil || n < 0 {
			return fmt.Errorf("the initial quantity must be a whole number, zero or more")
		}
	default:
		return fmt.Errorf("that field cannot be edited")
	}
	return a.store.UpdatePondField(ctx, id, key, raw)
}

func (a *pondAdapter) AddSteps() []AddStep {
	return []AddStep{
		{Key: "name", Prompt: "Pond name:"},
		{Key: "type", Prompt: "Pond type (earthen, concrete, cage...):"},
		{Key: "species", Prompt: "Species:", Optional: true},
		{Key: "stocking_date", Prompt: "Stocking date (YYYY-MM-DD):", Optional: true},
		{Key: "initial_qty", Prompt: "Initial fish quantity:", Optional: true},
		{Key: "notes", Prompt: "Notes:", Optional: true},
	}
}

func (a *pondAdapter) Create(ctx context.Context, answers map[string]string) (string, error) {
	var date *time.Time
	if raw, ok := answers["stocking_date"]; ok {
		t, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return "", fmt.Errorf("the stocking date must look like 2024-06-01")
		}
		date = &t
	}
	var qty *int64
	if raw, ok := answers["initial_qty"]; ok {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return "", fmt.Errorf("the initial quantity must be a whole number, zero or more")
		}
		qty = &n
	}

	p, err := models.NewPond(models.NewPondID(), answers["name"], answers["type"],
		answers["species"], date, qty, answers["notes"])
	if err != nil {
		return "", fmt.Errorf("the pond is incomplete, name and type are required")
	}
	if err := a.store.AddPond(ctx, p); err != nil {
		return "", fmt.Errorf("could not save the pond, please try again")
	}
	return p.Label(), nil
}

// --- products ---

type productAdapter struct {
	store *store.ReferenceStore
}

func NewManageProductsAdapter(st *store.ReferenceStore) RefAdapter {
	return &productAdapter{store: st}
}

func (a *productAdapter) FlowName() string   { return FlowManageProducts }
func (a *productAdapter) Title() string      { return "Products" }
func (a *productAdapter) ItemPrefix() string { return "prod_" }
func (a *productAdapter) PagePrefix() string { return "products_page_" }

func (a *productAdapter) List(ctx context.Context) ([]RefItem, error) {
	products, err := a.store.Products(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]RefItem, 0, len(products))
	for _, p := range products {
		items = append(items, RefItem{
			ID:     p.ID,
			Label:  p.Name + " — " + p.DisplayPrice(),
			Active: p.IsAvailable,
		})
	}
	return items, nil
}

func (a *productAdapter) Card(ctx context.Context, id string) (string, error) {
	p, err := a.store.ProductByID(ctx, id)
	if err != nil {
		return "", err
	}
	text := fmt.Sprintf("%s\nPrice: %s", p.Name, p.DisplayPrice())
	if p.Description != "" {
		text += "\n" + p.Description
	}
	text += "\nAvailable: " + models.FormatBool(p.IsAvailable)
	return text, nil
}

func (a *productAdapter) IsActive(ctx context.Context, id string) (bool, error) {
	p, err := a.store.ProductByID(ctx, id)
	if err != nil {
		return false, err
	}
	return p.IsAvailable, nil
}

func (a *productAdapter) SetActive(ctx context.Context, id string, active bool) error {
	return a.store.UpdateProductField(ctx, id, "is_available", models.FormatBool(active))
}

func (a *productAdapter) Fields() []RefField {
	return []RefField{
		{Key: "name", Label: "Name", Prompt: "Enter the new name:"},
		{Key: "description", Label: "Description", Prompt: "Enter the description, or '" + noneSentinel + "' to clear:"},
		{Key: "price", Label: "Price", Prompt: "Enter the new price per unit:"},
		{Key: "unit", Label: "Unit", Prompt: "Enter the unit (kg, pcs...):"},
	}
}

func (a *productAdapter) UpdateField(ctx context.Context, id, key, raw string) error {
	switch key {
	case "name", "unit":
		if raw == "" || isNone(raw) {
			return fmt.Errorf("the %s cannot be empty", key)
		}
	case "description":
		if isNone(raw) {
			raw = ""
		}
	case "price":
		v, err := parseDecimal(raw)
		if err != nil || v <= 0 {
			return fmt.Errorf("the price must be a number above zero")
		}
	default:
		return fmt.Errorf("that field cannot be edited")
	}
	return a.store.UpdateProductField(ctx, id, key, raw)
}

func (a *productAdapter) AddSteps() []AddStep {
	return []AddStep{
		{Key: "name", Prompt: "Product name:"},
		{Key: "description", Prompt: "Description:", Optional: true},
		{Key: "price", Prompt: "Price per unit:"},
		{Key: "unit", Prompt: "Unit (kg, pcs...):"},
	}
}

func (a *productAdapter) Create(ctx context.Context, answers map[string]string) (string, error) {
	price, err := parseDecimal(answers["price"])
	if err != nil || price <= 0 {
		return "", fmt.Errorf("the price must be a number above zero")
	}
	p, err := models.NewProduct(models.NewProductID(), answers["name"],
		answers["description"], price, answers["unit"])
	if err != nil {
		return "", fmt.Errorf("the product is incomplete, name and unit are required")
	}
	if err := a.store.AddProduct(ctx, p); err != nil {
		return "", fmt.Errorf("could not save the product, please try again")
	}
	return p.Name, nil
}

// --- feed types ---

type feedAdapter struct {
	store *store.ReferenceStore
}

func NewManageFeedTypesAdapter(st *store.ReferenceStore) RefAdapter {
	return &feedAdapter{store: st}
}

func (a *feedAdapter) FlowName() string   { return FlowManageFeedTypes }
func (a *feedAdapter) Title() string      { return "Feed types" }
func (a *feedAdapter) ItemPrefix() string { return "feed_" }
func (a *feedAdapter) PagePrefix() string { return "feeds_page_" }

func (a *feedAdapter) List(ctx context.Context) ([]RefItem, error) {
	fts, err := a.store.FeedTypes(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]RefItem, 0, len(fts))
	for _, ft := range fts {
		items = append(items, RefItem{ID: ft.ID, Label: ft.Name, Active: ft.IsActive})
	}
	return items, nil
}

func (a *feedAdapter) Card(ctx context.Context, id string) (string, error) {
	ft, err := a.store.FeedTypeByID(ctx, id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%s)\nActive: %s", ft.Name, ft.ID, models.FormatBool(ft.IsActive)), nil
}

func (a *feedAdapter) IsActive(ctx context.Context, id string) (bool, error) {
	ft, err := a.store.FeedTypeByID(ctx, id)
	if err != nil {
		return false, err
	}
	return ft.IsActive, nil
}

func (a *feedAdapter) SetActive(ctx context.Context, id string, active bool) error {
	return a.store.UpdateFeedTypeField(ctx, id, "is_active", models.FormatBool(active))
}

func (a *feedAdapter) Fields() []RefField {
	return []RefField{
		{Key: "name", Label: "Name", Prompt: "Enter the new name:"},
	}
}

func (a *feedAdapter) UpdateField(ctx context.Context, id, key, raw string) error {
	if key != "name" {
		return fmt.Errorf("that field cannot be edited")
	}
	if raw == "" || isNone(raw) {
		return fmt.Errorf("the name cannot be empty")
	}
	return a.store.UpdateFeedTypeField(ctx, id, key, raw)
}

func (a *feedAdapter) AddSteps() []AddStep {
	return []AddStep{
		{Key: "name", Prompt: "Feed type name:"},
	}
}

func (a *feedAdapter) Create(ctx context.Context, answers map[string]string) (string, error) {
	ft, err := models.NewFeedType(models.NewFeedTypeID(), answers["name"])
	if err != nil {
		return "", fmt.Errorf("the name cannot be empty")
	}
	if err := a.store.AddFeedType(ctx, ft); err != nil {
		return "", fmt.Errorf("could not save the feed type, please try again")
	}
	return ft.Name, nil
}
