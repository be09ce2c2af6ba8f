package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mhoralek/pointmarket/internal/ledger"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/models"
)

// zebricekTTL is how long a cached leaderboard page stays fresh. Rankings
// move only when submissions are approved, so a short TTL is enough.
const zebricekTTL = time.Minute

// DefaultZebricekLimit caps one leaderboard page.
const DefaultZebricekLimit = 25

// LeaderboardSource reads the annual aggregation from the ledger.
type LeaderboardSource interface {
	AnnualLeaders(ctx context.Context, year, limit, offset int) ([]ledger.LeaderRow, error)
	AnnualPosition(ctx context.Context, userID int64, year int) (*ledger.PositionResponse, error)
}

// Cache is the subset of the Redis wrapper the leaderboard uses.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// ZebricekService serves the annual leaderboard and user positions.
type ZebricekService struct {
	source LeaderboardSource
	cache  Cache
	log    *slog.Logger
	now    func() time.Time
}

// NewZebricekService creates a ZebricekService.
func NewZebricekService(source LeaderboardSource, cache Cache, log *slog.Logger) *ZebricekService {
	return &ZebricekService{
		source: source,
		cache:  cache,
		log:    log,
		now:    time.Now,
	}
}

// List returns one page of the current year's leaderboard. Pages are
// cached; a cache failure falls through to the ledger.
func (s *ZebricekService) List(ctx context.Context, limit, offset int) ([]models.ZebricekEntry, error) {
	const op = "services.ZebricekService.List"

	if limit <= 0 || limit > DefaultZebricekLimit {
		limit = DefaultZebricekLimit
	}
	if offset < 0 {
		offset = 0
	}
	year := s.now().Year()

	cacheKey := fmt.Sprintf("zebricek:%d:%d:%d", year, limit, offset)
	var cached []models.ZebricekEntry
	if s.cache != nil {
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			s.log.Warn("leaderboard cache read failed", sl.Err(err))
		} else if found {
			return cached, nil
		}
	}

	rows, err := s.source.AnnualLeaders(ctx, year, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entries := make([]models.ZebricekEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, models.ZebricekEntry{
			Rank:     offset + i + 1,
			UserID:   row.UserID,
			Username: row.Username,
			Points:   row.Points,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, entries, zebricekTTL); err != nil {
			s.log.Warn("leaderboard cache write failed", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return entries, nil
}

// Position returns the user's own standing in the current year.
func (s *ZebricekService) Position(ctx context.Context, userID int64) (*models.ZebricekPosition, error) {
	const op = "services.ZebricekService.Position"

	resp, err := s.source.AnnualPosition(ctx, userID, s.now().Year())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pointsToNext := resp.NextPoints - resp.Points
	if pointsToNext < 0 || resp.Rank == 1 {
		pointsToNext = 0
	}
	return &models.ZebricekPosition{
		Rank:         resp.Rank,
		Points:       resp.Points,
		PointsToNext: pointsToNext,
		TotalRanked:  resp.TotalRanked,
	}, nil
}
