package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/sheets"
	"fishfarm-bot/internal/util"
)

// Cache is the read-through cache the reference store uses. A miss is any
// non-nil error; the store falls back to the spreadsheet either way.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// ReferenceStore serves the slowly-changing reference sheets (users, ponds,
// feed types, products, orders) with a TTL cache in front of the
// spreadsheet. Mutations go straight to the sheet and invalidate the
// cached copy, so the next read observes them immediately.
type ReferenceStore struct {
	api   sheets.API
	cache Cache
	ttl   time.Duration
}

func NewReferenceStore(api sheets.API, cache Cache, ttl time.Duration) *ReferenceStore {
	return &ReferenceStore{api: api, cache: cache, ttl: ttl}
}

func cacheKey(sheet string) string {
	return "ref:" + sheet
}

// rows reads a sheet through the cache. Cache failures degrade to a
// direct read rather than an error.
func (s *ReferenceStore) rows(ctx context.Context, sheet string) ([][]interface{}, error) {
	key := cacheKey(sheet)

	if s.cache != nil {
		var cached [][]interface{}
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			util.CacheHitsTotal.WithLabelValues(sheet).Inc()
			return cached, nil
		}
		util.CacheMissesTotal.WithLabelValues(sheet).Inc()
	}

	rows, err := s.api.Rows(ctx, sheet)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, rows, s.ttl); err != nil {
			util.GetLogger().Warn("failed to cache sheet rows",
				zap.String("sheet", sheet), zap.Error(err))
		}
	}
	return rows, nil
}

func (s *ReferenceStore) invalidate(ctx context.Context, sheet string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cacheKey(sheet)); err != nil {
		util.GetLogger().Warn("cache invalidation failed",
			zap.String("sheet", sheet), zap.Error(err))
	}
}

// --- users ---

func (s *ReferenceStore) Users(ctx context.Context) ([]*models.User, error) {
	rows, err := s.rows(ctx, models.SheetUsers)
	if err != nil {
		return nil, err
	}
	users := make([]*models.User, 0, len(rows))
	for i, row := range rows {
		u, err := models.UserFromRow(row)
		if err != nil {
			util.GetLogger().Warn("skipping malformed user row",
				zap.Int("row", i+2), zap.Error(err))
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *ReferenceStore) UserByID(ctx context.Context, id int64) (*models.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (s *ReferenceStore) UsersByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// Admins returns the admin users regardless of their notification setting.
// The notification fan-out applies the setting itself.
func (s *ReferenceStore) Admins(ctx context.Context) ([]*models.User, error) {
	return s.UsersByRole(ctx, models.RoleAdmin)
}

func (s *ReferenceStore) AddUser(ctx context.Context, u *models.User) error {
	if err := s.api.Append(ctx, models.SheetUsers, u.Row()); err != nil {
		return err
	}
	s.invalidate(ctx, models.SheetUsers)
	return nil
}

// UpdateUserField writes one field of an existing user and drops the
// cached user list.
func (s *ReferenceStore) UpdateUserField(ctx context.Context, id int64, field string, value interface{}) error {
	col := models.UserSchema.Col(field)
	if col == 0 {
		return fmt.Errorf("unknown user field: %s", field)
	}
	ok, err := s.api.UpdateCellByMatch(ctx, models.SheetUsers,
		models.UserSchema.Col("user_id"), fmt.Sprint(id), col, value)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user not found: %d", id)
	}
	s.invalidate(ctx, models.SheetUsers)
	return nil
}

// --- ponds ---

func (s *ReferenceStore) Ponds(ctx context.Context) ([]*models.Pond, error) {
	rows, err := s.rows(ctx, models.SheetPonds)
	if err != nil {
		return nil, err
	}
	ponds := make([]*models.Pond, 0, len(rows))
	for i, row := range rows {
		p, err := models.PondFromRow(row)
		if err != nil {
			util.GetLogger().Warn("skipping malformed pond row",
				zap.Int("row", i+2), zap.Error(err))
			continue
		}
		ponds = append(ponds, p)
	}
	return ponds, nil
}

func (s *ReferenceStore) ActivePonds(ctx context.Context) ([]*models.Pond, error) {
	ponds, err := s.Ponds(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Pond, 0, len(ponds))
	for _, p := range ponds {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *ReferenceStore) PondByID(ctx context.Context, id string) (*models.Pond, error) {
	ponds, err := s.Ponds(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range ponds {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("pond not found: %s", id)
}

func (s *ReferenceStore) AddPond(ctx context.Context, p *models.Pond) error {
	if err := s.api.Append(ctx, models.SheetPonds, p.Row()); err != nil {
		return err
	}
	s.invalidate(ctx, models.SheetPonds)
	return nil
}

func (s *ReferenceStore) UpdatePondField(ctx context.Context, id, field string, value interface{}) error {
	col := models.PondSchema.Col(field)
	if col == 0 {
		return fmt.Errorf("unknown pond field: %s", field)
	}
	ok, err := s.api.UpdateCellByMatch(ctx, models.SheetPonds,
		models.PondSchema.Col("pond_id"), id, col, value)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("pond not found: %s", id)
	}
	s.invalidate(ctx, models.SheetPonds)
	return nil
}

// --- feed types ---

func (s *ReferenceStore) FeedTypes(ctx context.Context) ([]*models.FeedType, error) {
	rows, err := s.rows(ctx, models.SheetFeedTypes)
	if err != nil {
		return nil, err
	}
	fts := make([]*models.FeedType, 0, len(rows))
	for i, row := range rows {
		ft, err := models.FeedTypeFromRow(row)
		if err != nil {
			util.GetLogger().Warn("skipping malformed feed type row",
				zap.Int("row", i+2), zap.Error(err))
			continue
		}
		fts = append(fts, ft)
	}
	return fts, nil
}

func (s *ReferenceStore) ActiveFeedTypes(ctx context.Context) ([]*models.FeedType, error) {
	fts, err := s.FeedTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.FeedType, 0, len(fts))
	for _, ft := range fts {
		if ft.IsActive {
			out = append(out, ft)
		}
	}
	return out, nil
}

func (s *ReferenceStore) FeedTypeByID(ctx context.Context, id string) (*models.FeedType, error) {
	fts, err := s.FeedTypes(ctx)
	if err != nil {
		return nil, err
	}
	for _, ft := range fts {
		if ft.ID == id {
			return ft, nil
		}
	}
	return nil, fmt.Errorf("feed type not found: %s", id)
}

func (s *ReferenceStore) AddFeedType(ctx context.Context, ft *models.FeedType) error {
	if err := s.api.Append(ctx, models.SheetFeedTypes, ft.Row()); err != nil {
		return err
	}
	s.invalidate(ctx, models.SheetFeedTypes)
	return nil
}

func (s *ReferenceStore) UpdateFeedTypeField(ctx context.Context, id, field string, value interface{}) error {
	col := models.FeedTypeSchema.Col(field)
	if col == 0 {
		return fmt.Errorf("unknown feed type field: %s", field)
	}
	ok, err := s.api.UpdateCellByMatch(ctx, models.SheetFeedTypes,
		models.FeedTypeSchema.Col("feed_id"), id, col, value)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("feed type not found: %s", id)
	}
	s.invalidate(ctx, models.SheetFeedTypes)
	return nil
}

// --- products ---

func (s *ReferenceStore) Products(ctx context.Context) ([]*models.Product, error) {
	rows, err := s.rows(ctx, models.SheetProducts)
	if err != nil {
		return nil, err
	}
	products := make([]*models.Product, 0, len(rows))
	for i, row := range rows {
		p, err := models.ProductFromRow(row)
		if err != nil {
			util.GetLogger().Warn("skipping malformed product row",
				zap.Int("row", i+2), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *ReferenceStore) AvailableProducts(ctx context.Context) ([]*models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if p.IsAvailable {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *ReferenceStore) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("product not found: %s", id)
}

func (s *ReferenceStore) AddProduct(ctx context.Context, p *models.Product) error {
	if err := s.api.Append(ctx, models.SheetProducts, p.Row()); err != nil {
		return err
	}
	s.invalidate(ctx, models.SheetProducts)
	return nil
}

func (s *ReferenceStore) UpdateProductField(ctx context.Context, id, field string, value interface{}) error {
	col := models.ProductSchema.Col(field)
	if col == 0 {
		return fmt.Errorf("unknown product field: %s", field)
	}
	ok, err := s.api.UpdateCellByMatch(ctx, models.SheetProducts,
		models.ProductSchema.Col("product_id"), id, col, value)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("product not found: %s", id)
	}
	s.invalidate(ctx, models.SheetProducts)
	return nil
}
