package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mhoralek/pointmarket/internal/models"
)

// CreateUser inserts a new user and returns its id. A duplicate username
// maps to ErrUserExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"

	query := `INSERT INTO users (uid, username, email, password_hash, role, registration_status,
			      ico, company_name, company_address)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		user.UID, user.Username, user.Email, user.PasswordHash, user.Role,
		user.RegistrationStatus, user.ICO, user.CompanyName, user.CompanyAddress).Scan(&newID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, ErrUserExists
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername returns the user with the given login name.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"

	query := `SELECT id, uid, username, email, password_hash, role, registration_status,
			      ico, company_name, company_address, created_at, approved_at
			  FROM users WHERE username = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetUserByID returns the user with the given id.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"

	query := `SELECT id, uid, username, email, password_hash, role, registration_status,
			      ico, company_name, company_address, created_at, approved_at
			  FROM users WHERE id = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, id), op)
}

// GetRegistrationStatus returns only the registration status of a user.
// The purchasability gate calls this on every purchase action.
func (s *Storage) GetRegistrationStatus(ctx context.Context, userID int64) (string, error) {
	const op = "storage.GetRegistrationStatus"

	var status string
	err := s.DB.QueryRowContext(ctx,
		`SELECT registration_status FROM users WHERE id = $1`, userID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return status, nil
}

// ApproveUser promotes an awaiting_review account to full membership.
func (s *Storage) ApproveUser(ctx context.Context, userID int64) error {
	const op = "storage.ApproveUser"

	result, err := s.DB.ExecContext(ctx,
		`UPDATE users SET registration_status = $1, approved_at = now()
		 WHERE id = $2 AND registration_status = $3`,
		models.StatusFullMember, userID, models.StatusAwaitingReview)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.UID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.RegistrationStatus, &u.ICO, &u.CompanyName, &u.CompanyAddress,
		&u.CreatedAt, &u.ApprovedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}
