package models

import "time"

// RegisterRequest is the JSON payload of the registration endpoint.
// Company fields are optional: they are filled from ARES by IČO and only
// used directly when the registry is unavailable (manual entry).
type RegisterRequest struct {
	Username       string `json:"username" validate:"required,alphanum"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	ICO            string `json:"ico" validate:"required,len=8,numeric"`
	CompanyName    string `json:"company_name" validate:"omitempty"`
	CompanyAddress string `json:"company_address" validate:"omitempty"`
}

// LoginRequest is the JSON payload of the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ActivityEntry is one recent ledger movement shown on the dashboard.
type ActivityEntry struct {
	Amount    float64   `json:"amount"`
	Reference string    `json:"reference"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Dashboard aggregates everything the account page shows.
type Dashboard struct {
	Balance        float64         `json:"balance"`
	Available      float64         `json:"available"`
	CartTotal      float64         `json:"cart_total"`
	PendingPoints  float64         `json:"pending_points"`
	RecentActivity []ActivityEntry `json:"recent_activity"`
	RecentOrders   []Order         `json:"recent_orders"`
}

// Progress feeds the acceptance-progress guide widget: where the user
// stands between registration and full membership, and how many points are
// waiting in pending submissions.
type Progress struct {
	RegistrationStatus string  `json:"registration_status"`
	PendingPoints      float64 `json:"pending_points"`
	AnnualPoints       float64 `json:"annual_points"`
	Rank               int     `json:"rank,omitempty"`
	PointsToNext       float64 `json:"points_to_next,omitempty"`
}
