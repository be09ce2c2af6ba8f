package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhoralek/pointmarket/internal/ledger"
)

type stubLeaderboard struct {
	rows     []ledger.LeaderRow
	rowsErr  error
	calls    int
	position *ledger.PositionResponse
	posErr   error
}

func (s *stubLeaderboard) AnnualLeaders(_ context.Context, _, _, _ int) ([]ledger.LeaderRow, error) {
	s.calls++
	return s.rows, s.rowsErr
}

func (s *stubLeaderboard) AnnualPosition(_ context.Context, _ int64, _ int) (*ledger.PositionResponse, error) {
	return s.position, s.posErr
}

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string, result any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, result)
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func TestZebricekListRanksAndCaches(t *testing.T) {
	source := &stubLeaderboard{rows: []ledger.LeaderRow{
		{UserID: 1, Username: "novak", Points: 900},
		{UserID: 2, Username: "svoboda", Points: 450},
	}}
	svc := NewZebricekService(source, newMemoryCache(), testLogger())
	ctx := context.Background()

	entries, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "novak", entries[0].Username)
	assert.Equal(t, 2, entries[1].Rank)

	// second read is served from cache
	_, err = svc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
}

func TestZebricekListOffsetRanks(t *testing.T) {
	source := &stubLeaderboard{rows: []ledger.LeaderRow{
		{UserID: 3, Username: "dvorak", Points: 100},
	}}
	svc := NewZebricekService(source, newMemoryCache(), testLogger())

	entries, err := svc.List(context.Background(), 10, 20)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 21, entries[0].Rank)
}

func TestZebricekListSourceError(t *testing.T) {
	svc := NewZebricekService(&stubLeaderboard{rowsErr: errors.New("ledger down")}, newMemoryCache(), testLogger())

	_, err := svc.List(context.Background(), 10, 0)
	assert.Error(t, err)
}

func TestZebricekPosition(t *testing.T) {
	source := &stubLeaderboard{position: &ledger.PositionResponse{
		Rank:        4,
		Points:      120,
		NextPoints:  180,
		TotalRanked: 50,
	}}
	svc := NewZebricekService(source, nil, testLogger())

	pos, err := svc.Position(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 4, pos.Rank)
	assert.Equal(t, 60.0, pos.PointsToNext)
	assert.Equal(t, 50, pos.TotalRanked)
}

func TestZebricekPositionLeaderHasNoNext(t *testing.T) {
	source := &stubLeaderboard{position: &ledger.PositionResponse{
		Rank:   1,
		Points: 900,
	}}
	svc := NewZebricekService(source, nil, testLogger())

	pos, err := svc.Position(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pos.PointsToNext)
}
