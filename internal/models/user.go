// Package models contains the domain structures shared between the business
// logic, the storage layer and the HTTP handlers: users, products, carts,
// submissions and leaderboard entries.
package models

import "time"

// Registration status values. Most of the service is gated on the status:
// a user stays awaiting_review from registration until an administrator
// approves the account.
const (
	StatusNeedsForm      = "needs_form"
	StatusAwaitingReview = "awaiting_review"
	StatusFullMember     = "full_member"
	StatusOther          = "other"
)

// User represents a registered account of the loyalty programme.
type User struct {
	ID                 int64      // Internal numeric identifier
	UID                string     // Stable UUID used in external references
	Username           string     // Unique login name
	Email              string     // Contact e-mail
	PasswordHash       string     // bcrypt hash of the password
	Role               string     // "admin" or "user"
	RegistrationStatus string     // One of the Status* constants
	ICO                string     // Czech company registration number (IČO)
	CompanyName        string     // Company name, prefilled from ARES
	CompanyAddress     string     // Registered address, prefilled from ARES
	CreatedAt          time.Time  // Account creation time
	ApprovedAt         *time.Time // Set when an administrator approves the account
}
