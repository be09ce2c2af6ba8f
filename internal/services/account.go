package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mhoralek/pointmarket/internal/ledger"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/models"
	"github.com/mhoralek/pointmarket/internal/points"
)

// recentLimit caps the dashboard's recent-activity and recent-order lists.
const recentLimit = 5

// LedgerActivity reads the user's latest ledger transactions.
type LedgerActivity interface {
	RecentActivity(ctx context.Context, userID int64, limit int) ([]ledger.Transaction, error)
}

// StatusReader reads a user's registration status.
type StatusReader interface {
	GetRegistrationStatus(ctx context.Context, userID int64) (string, error)
}

// AccountService aggregates the dashboard and progress payloads.
type AccountService struct {
	calc        *points.Calculator
	submissions *SubmissionService
	orders      *OrderService
	zebricek    *ZebricekService
	activity    LedgerActivity
	statuses    StatusReader
	log         *slog.Logger
}

// NewAccountService creates an AccountService.
func NewAccountService(calc *points.Calculator, submissions *SubmissionService, orders *OrderService,
	zebricek *ZebricekService, activity LedgerActivity, statuses StatusReader, log *slog.Logger) *AccountService {
	return &AccountService{
		calc:        calc,
		submissions: submissions,
		orders:      orders,
		zebricek:    zebricek,
		activity:    activity,
		statuses:    statuses,
		log:         log,
	}
}

// Dashboard builds the account-page payload. Secondary blocks (activity,
// orders) degrade to empty lists on failure; the balance numbers always
// follow the calculator's own failure policy.
func (s *AccountService) Dashboard(ctx context.Context, userID int64) (*models.Dashboard, error) {
	balance := s.calc.UserBalance(ctx, userID)
	available := s.calc.AvailablePoints(ctx, userID)
	cartTotal := s.calc.CartTotal(ctx, userID, 0)

	pending, err := s.submissions.PendingPoints(ctx, userID)
	if err != nil {
		s.log.Warn("pending points aggregation failed", sl.Err(err))
	}

	dashboard := &models.Dashboard{
		Balance:       balance,
		Available:     available,
		CartTotal:     cartTotal,
		PendingPoints: pending,
	}

	if transactions, err := s.activity.RecentActivity(ctx, userID, recentLimit); err != nil {
		s.log.Warn("recent activity read failed", sl.Err(err))
	} else {
		for _, tx := range transactions {
			dashboard.RecentActivity = append(dashboard.RecentActivity, models.ActivityEntry{
				Amount:    tx.Amount,
				Reference: tx.Reference,
				Note:      tx.Note,
				CreatedAt: tx.CreatedAt,
			})
		}
	}

	if orders, err := s.orders.ListByUser(ctx, userID, recentLimit); err != nil {
		s.log.Warn("recent orders read failed", sl.Err(err))
	} else {
		dashboard.RecentOrders = orders
	}

	return dashboard, nil
}

// Progress builds the guide-widget payload: registration status, pending
// submission points and the leaderboard standing.
func (s *AccountService) Progress(ctx context.Context, userID int64) (*models.Progress, error) {
	const op = "services.AccountService.Progress"

	status, err := s.statuses.GetRegistrationStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	progress := &models.Progress{RegistrationStatus: status}

	if pending, err := s.submissions.PendingPoints(ctx, userID); err != nil {
		s.log.Warn("pending points aggregation failed", sl.Err(err))
	} else {
		progress.PendingPoints = pending
	}

	if position, err := s.zebricek.Position(ctx, userID); err != nil {
		s.log.Warn("leaderboard position read failed", sl.Err(err))
	} else {
		progress.AnnualPoints = position.Points
		progress.Rank = position.Rank
		progress.PointsToNext = position.PointsToNext
	}

	return progress, nil
}
