package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mhoralek/pointmarket/internal/models"
)

// CreateSubmission inserts a new submission and returns its id.
func (s *Storage) CreateSubmission(ctx context.Context, sub models.Submission) (int64, error) {
	const op = "storage.CreateSubmission"

	query := `INSERT INTO submissions (uid, user_id, type, status, title, description, points)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		sub.UID, sub.UserID, sub.Type, sub.Status, sub.Title, sub.Description, sub.Points).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetSubmissionByUID returns one submission by its public UID.
func (s *Storage) GetSubmissionByUID(ctx context.Context, uid string) (*models.Submission, error) {
	const op = "storage.GetSubmissionByUID"

	query := `SELECT id, uid, user_id, type, status, title, description, points,
			      reject_reason, created_at, resolved_at
			  FROM submissions WHERE uid = $1`
	var sub models.Submission
	err := s.DB.QueryRowContext(ctx, query, uid).Scan(
		&sub.ID, &sub.UID, &sub.UserID, &sub.Type, &sub.Status, &sub.Title,
		&sub.Description, &sub.Points, &sub.RejectReason, &sub.CreatedAt, &sub.ResolvedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// ListSubmissionsByUser returns all submissions of a user, newest first.
func (s *Storage) ListSubmissionsByUser(ctx context.Context, userID int64) ([]models.Submission, error) {
	const op = "storage.ListSubmissionsByUser"

	query := `SELECT id, uid, user_id, type, status, title, description, points,
			      reject_reason, created_at, resolved_at
			  FROM submissions WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.ID, &sub.UID, &sub.UserID, &sub.Type, &sub.Status,
			&sub.Title, &sub.Description, &sub.Points, &sub.RejectReason,
			&sub.CreatedAt, &sub.ResolvedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

// SumPendingPoints aggregates the estimated point value of a user's pending
// submissions for the progress displays.
func (s *Storage) SumPendingPoints(ctx context.Context, userID int64) (float64, error) {
	const op = "storage.SumPendingPoints"

	var sum float64
	err := s.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM submissions WHERE user_id = $1 AND status = $2`,
		userID, models.SubmissionPending).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return sum, nil
}

// ResolveSubmission moves a pending submission to approved or rejected.
// Only pending submissions can be resolved; anything else maps to
// ErrAlreadyDone.
func (s *Storage) ResolveSubmission(ctx context.Context, uid, status string, points float64, reason string) error {
	const op = "storage.ResolveSubmission"

	result, err := s.DB.ExecContext(ctx,
		`UPDATE submissions
		 SET status = $1, points = $2, reject_reason = $3, resolved_at = now()
		 WHERE uid = $4 AND status = $5`,
		status, points, reason, uid, models.SubmissionPending)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		if _, err := s.GetSubmissionByUID(ctx, uid); err != nil {
			return err
		}
		return ErrAlreadyDone
	}
	return nil
}
