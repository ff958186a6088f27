package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fishfarm-bot/internal/models"
)

// fakeSheets keeps sheet data in memory and counts reads per sheet.
type fakeSheets struct {
	data  map[string][][]interface{}
	reads map[string]int
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{
		data:  map[string][][]interface{}{},
		reads: map[string]int{},
	}
}

func (f *fakeSheets) Rows(_ context.Context, sheet string) ([][]interface{}, error) {
	f.reads[sheet]++
	return f.data[sheet], nil
}

func (f *fakeSheets) Append(_ context.Context, sheet string, row []interface{}) error {
	f.data[sheet] = append(f.data[sheet], row)
	return nil
}

func (f *fakeSheets) UpdateCellByMatch(_ context.Context, sheet string, matchCol int, matchVal string, targetCol int, newVal interface{}) (bool, error) {
	for _, row := range f.data[sheet] {
		if matchCol-1 < len(row) && fmt.Sprint(row[matchCol-1]) == matchVal {
			row[targetCol-1] = newVal
			return true, nil
		}
	}
	return false, nil
}

// fakeCache is an in-memory Cache without expiry.
type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return fmt.Errorf("cache miss: %s", key)
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func seedUsers(f *fakeSheets) {
	f.data[models.SheetUsers] = [][]interface{}{
		{"1", "Admin One", "+7900", "admin", "TRUE"},
		{"2", "Op Two", "+7901", "operator", "TRUE"},
		{"3", "Client Three", "", "client", "FALSE"},
		{"4", "New Four", "+7903", "pending", "TRUE"},
	}
}

func TestUsersCachedAcrossReads(t *testing.T) {
	ctx := context.Background()
	api := newFakeSheets()
	seedUsers(api)
	s := NewReferenceStore(api, newFakeCache(), time.Minute)

	users, err := s.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)

	_, err = s.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, api.reads[models.SheetUsers], "second read must be served from cache")
}

func TestToggleTwiceRefetchesTwice(t *testing.T) {
	ctx := context.Background()
	api := newFakeSheets()
	seedUsers(api)
	s := NewReferenceStore(api, newFakeCache(), time.Minute)

	u, err := s.UserByID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.False(t, u.NotificationsEnabled)

	// each toggle invalidates the cache, so each read-back hits the sheet
	require.NoError(t, s.UpdateUserField(ctx, 3, "notifications_enabled", "TRUE"))
	u, err = s.UserByID(ctx, 3)
	require.NoError(t, err)
	assert.True(t, u.NotificationsEnabled)

	require.NoError(t, s.UpdateUserField(ctx, 3, "notifications_enabled", "FALSE"))
	u, err = s.UserByID(ctx, 3)
	require.NoError(t, err)
	assert.False(t, u.NotificationsEnabled)

	assert.Equal(t, 3, api.reads[models.SheetUsers])
}

func TestUpdateUnknownFieldRejected(t *testing.T) {
	api := newFakeSheets()
	seedUsers(api)
	s := NewReferenceStore(api, newFakeCache(), time.Minute)

	err := s.UpdateUserField(context.Background(), 3, "password", "x")
	assert.Error(t, err)
	assert.Equal(t, 0, api.reads[models.SheetUsers], "unknown field must not touch the sheet")
}

func TestUserByIDUnknownReturnsNil(t *testing.T) {
	api := newFakeSheets()
	seedUsers(api)
	s := NewReferenceStore(api, newFakeCache(), time.Minute)

	u, err := s.UserByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestActivePondsFilters(t *testing.T) {
	ctx := context.Background()
	api := newFakeSheets()
	api.data[models.SheetPonds] = [][]interface{}{
		{"POND-1", "North", "earthen", "carp", "", "", "", "TRUE"},
		{"POND-2", "Old", "concrete", "", "", "", "", "FALSE"},
	}
	s := NewReferenceStore(api, newFakeCache(), time.Minute)

	ponds, err := s.ActivePonds(ctx)
	require.NoError(t, err)
	require.Len(t, ponds, 1)
	assert.Equal(t, "POND-1", ponds[0].ID)

	// deactivation is visible on the very next read
	require.NoError(t, s.UpdatePondField(ctx, "POND-1", "is_active", "FALSE"))
	ponds, err = s.ActivePonds(ctx)
	require.NoError(t, err)
	assert.Empty(t, ponds)
}

func TestMalformedRowsSkipped(t *testing.T) {
	api := newFakeSheets()
	api.data[models.SheetUsers] = [][]interface{}{
		{"1", "Admin One", "", "admin", "TRUE"},
		{"2", "Bad Role", "", "superuser", "TRUE"},
	}
	s := NewReferenceStore(api, newFakeCache(), time.Minute)

	users, err := s.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(1), users[0].ID)
}

func TestNilCacheReadsDirect(t *testing.T) {
	api := newFakeSheets()
	seedUsers(api)
	s := NewReferenceStore(api, nil, time.Minute)

	users, err := s.Users(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 4)
}
