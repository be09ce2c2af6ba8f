// Package services holds the business logic of the service: registration
// and login, the submission approval workflow, checkout, the leaderboard
// and the account dashboard.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mhoralek/pointmarket/internal/ares"
	"github.com/mhoralek/pointmarket/internal/lib/ico"
	"github.com/mhoralek/pointmarket/internal/lib/jwt"
	"github.com/mhoralek/pointmarket/internal/lib/password"
	"github.com/mhoralek/pointmarket/internal/lib/sl"
	"github.com/mhoralek/pointmarket/internal/metrics"
	"github.com/mhoralek/pointmarket/internal/models"
)

// ErrInvalidICO is returned when the IČO fails the checksum validation.
var ErrInvalidICO = errors.New("invalid ico")

// ErrInvalidCredentials is returned for a wrong username or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository is the contract of the user store used by AuthService.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ApproveUser(ctx context.Context, userID int64) error
}

// CompanyRegistry looks up company data by IČO.
type CompanyRegistry interface {
	Lookup(ctx context.Context, icoNumber string) (*models.Company, error)
}

// AuthService implements registration, login and account approval.
type AuthService struct {
	users    UserRepository
	registry CompanyRegistry
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users UserRepository, registry CompanyRegistry, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		registry: registry,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register creates a new account in awaiting_review status. Company data
// is prefilled from ARES; when the registry is unavailable and the request
// carries manually entered company fields, those are used instead. An
// unavailable registry with no manual data propagates the lookup error so
// the client can unlock the fields.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (int64, error) {
	const op = "services.AuthService.Register"

	if !ico.IsValid(req.ICO) {
		return 0, ErrInvalidICO
	}

	companyName := req.CompanyName
	companyAddress := req.CompanyAddress

	company, err := s.registry.Lookup(ctx, req.ICO)
	switch {
	case err == nil:
		companyName = company.Name
		companyAddress = company.Address
		metrics.AresLookups.WithLabelValues("ok").Inc()
	default:
		metrics.AresLookups.WithLabelValues("error").Inc()
		var lookupErr *ares.LookupError
		if errors.As(err, &lookupErr) && lookupErr.ManualEntry && companyName != "" {
			s.log.Info("ares unavailable, using manually entered company data", sl.Err(err))
		} else {
			return 0, err
		}
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		UID:                uuid.NewString(),
		Username:           req.Username,
		Email:              req.Email,
		PasswordHash:       hashed,
		Role:               "user",
		RegistrationStatus: models.StatusAwaitingReview,
		ICO:                req.ICO,
		CompanyName:        companyName,
		CompanyAddress:     companyAddress,
	}
	return s.users.CreateUser(ctx, user)
}

// Login verifies the credentials and returns a signed JWT with the user.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ApproveUser promotes an awaiting_review account to full membership.
func (s *AuthService) ApproveUser(ctx context.Context, userID int64) error {
	return s.users.ApproveUser(ctx, userID)
}
