package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhoralek/pointmarket/internal/models"
)

// fakeCache is an in-memory stand-in for the Redis wrapper.
type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, result any) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, result)
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestGetEmptyCart(t *testing.T) {
	svc := NewService(newFakeCache(), testLogger())

	c, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.UserID)
	assert.Empty(t, c.Lines)
	assert.Equal(t, 0.0, c.Total())
}

func TestAddItemMergesLines(t *testing.T) {
	svc := NewService(newFakeCache(), testLogger())
	ctx := context.Background()
	product := &models.Product{ID: 10, Name: "Vrtačka", Price: 100}

	_, err := svc.AddItem(ctx, 1, product, 1)
	require.NoError(t, err)
	c, err := svc.AddItem(ctx, 1, product, 2)
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)
	assert.Equal(t, 300.0, c.Total())
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	svc := NewService(newFakeCache(), testLogger())

	_, err := svc.AddItem(context.Background(), 1, &models.Product{ID: 10, Price: 100}, 0)
	assert.Error(t, err)
}

func TestRemoveItem(t *testing.T) {
	svc := NewService(newFakeCache(), testLogger())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, &models.Product{ID: 10, Name: "Vrtačka", Price: 100}, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 1, &models.Product{ID: 11, Name: "Bruska", Price: 50}, 2)
	require.NoError(t, err)

	c, err := svc.RemoveItem(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, int64(11), c.Lines[0].ProductID)
	assert.Equal(t, 100.0, c.Total())

	// removing an absent product is a no-op
	c, err = svc.RemoveItem(ctx, 1, 999)
	require.NoError(t, err)
	assert.Len(t, c.Lines, 1)
}

func TestClear(t *testing.T) {
	svc := NewService(newFakeCache(), testLogger())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, &models.Product{ID: 10, Price: 100}, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, 1))

	c, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}
