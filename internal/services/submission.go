package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mhoralek/pointmarket/internal/ledger"
	"github.com/mhoralek/pointmarket/internal/lib/rabbitmq"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/metrics"
	"github.com/mhoralek/pointmarket/internal/models"
)

// SubmissionRepository is the contract of the submission store.
type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, sub models.Submission) (int64, error)
	GetSubmissionByUID(ctx context.Context, uid string) (*models.Submission, error)
	ListSubmissionsByUser(ctx context.Context, userID int64) ([]models.Submission, error)
	SumPendingPoints(ctx context.Context, userID int64) (float64, error)
	ResolveSubmission(ctx context.Context, uid, status string, points float64, reason string) error
}

// LedgerWriter posts credit entries to the points ledger.
type LedgerWriter interface {
	PointType(ctx context.Context) (string, error)
	Credit(ctx context.Context, entry ledger.EntryRequest) error
}

// EventPublisher publishes submission events for the notification workers.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// SubmissionEvent is the payload published on approval or rejection.
type SubmissionEvent struct {
	UID       string    `json:"uid"`
	UserID    int64     `json:"user_id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Points    float64   `json:"points,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SubmissionService runs the realizace/faktura approval workflow.
type SubmissionService struct {
	repo      SubmissionRepository
	ledger    LedgerWriter
	publisher EventPublisher
	log       *slog.Logger
}

// NewSubmissionService creates a SubmissionService.
func NewSubmissionService(repo SubmissionRepository, ledgerWriter LedgerWriter, publisher EventPublisher, log *slog.Logger) *SubmissionService {
	return &SubmissionService{
		repo:      repo,
		ledger:    ledgerWriter,
		publisher: publisher,
		log:       log,
	}
}

// Create stores a new pending submission and returns its public UID.
func (s *SubmissionService) Create(ctx context.Context, userID int64, req models.SubmissionRequest) (string, error) {
	const op = "services.SubmissionService.Create"

	sub := models.Submission{
		UID:         uuid.NewString(),
		UserID:      userID,
		Type:        req.Type,
		Status:      models.SubmissionPending,
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
	}
	id, err := s.repo.CreateSubmission(ctx, sub)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("submission created",
		slog.Int64("id", id), slog.String("uid", sub.UID), slog.String("type", sub.Type))
	return sub.UID, nil
}

// ListByUser returns the user's submissions, newest first.
func (s *SubmissionService) ListByUser(ctx context.Context, userID int64) ([]models.Submission, error) {
	return s.repo.ListSubmissionsByUser(ctx, userID)
}

// PendingPoints aggregates the point value waiting in the user's pending
// submissions.
func (s *SubmissionService) PendingPoints(ctx context.Context, userID int64) (float64, error) {
	return s.repo.SumPendingPoints(ctx, userID)
}

// Approve resolves a pending submission, credits the assigned points to the
// author and publishes an approval event. The ledger credit runs after the
// status change; a failed credit is returned to the caller for retry.
func (s *SubmissionService) Approve(ctx context.Context, uid string, points float64) error {
	const op = "services.SubmissionService.Approve"

	sub, err := s.repo.GetSubmissionByUID(ctx, uid)
	if err != nil {
		return err
	}
	if err := s.repo.ResolveSubmission(ctx, uid, models.SubmissionApproved, points, ""); err != nil {
		return err
	}

	pointType, err := s.ledger.PointType(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	err = s.ledger.Credit(ctx, ledger.EntryRequest{
		UserID:    sub.UserID,
		PointType: pointType,
		Amount:    points,
		Reference: sub.Type + ":" + uid,
		Note:      sub.Title,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.SubmissionsResolved.WithLabelValues(sub.Type, models.SubmissionApproved).Inc()
	s.publish(SubmissionEvent{
		UID:       uid,
		UserID:    sub.UserID,
		Type:      sub.Type,
		Status:    models.SubmissionApproved,
		Points:    points,
		Timestamp: time.Now(),
	}, rabbitmq.RoutingKeyApproved)
	return nil
}

// Reject resolves a pending submission with a reason; no points move.
func (s *SubmissionService) Reject(ctx context.Context, uid, reason string) error {
	sub, err := s.repo.GetSubmissionByUID(ctx, uid)
	if err != nil {
		return err
	}
	if err := s.repo.ResolveSubmission(ctx, uid, models.SubmissionRejected, 0, reason); err != nil {
		return err
	}

	metrics.SubmissionsResolved.WithLabelValues(sub.Type, models.SubmissionRejected).Inc()
	s.publish(SubmissionEvent{
		UID:       uid,
		UserID:    sub.UserID,
		Type:      sub.Type,
		Status:    models.SubmissionRejected,
		Reason:    reason,
		Timestamp: time.Now(),
	}, rabbitmq.RoutingKeyRejected)
	return nil
}

// publish sends the event; a broker failure only logs, the workflow result
// is already committed.
func (s *SubmissionService) publish(event SubmissionEvent, routingKey string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, event); err != nil {
		s.log.Warn("failed to publish submission event",
			slog.String("uid", event.UID), sl.Err(err))
	}
}
