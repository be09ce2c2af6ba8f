package ledger

import "time"

// BalanceResponse is the ledger payload for a balance read.
type BalanceResponse struct {
	UserID    int64   `json:"user_id"`
	PointType string  `json:"point_type"`
	Balance   float64 `json:"balance"`
}

// PointTypeResponse carries the administrative point-type setting: the key
// of the ledger every balance read and credit goes against.
type PointTypeResponse struct {
	PointType string `json:"point_type"`
}

// EntryRequest is the payload for crediting or debiting points.
type EntryRequest struct {
	UserID    int64   `json:"user_id"`
	PointType string  `json:"point_type"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference"`
	Note      string  `json:"note,omitempty"`
}

// Transaction is one row of the ledger's transaction log.
type Transaction struct {
	UserID    int64     `json:"user_id"`
	Amount    float64   `json:"amount"`
	Reference string    `json:"reference"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LeaderRow is one row of the annual points aggregation.
type LeaderRow struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	Points   float64 `json:"points"`
}

// PositionResponse is the ledger payload for a user's annual standing.
type PositionResponse struct {
	Rank        int     `json:"rank"`
	Points      float64 `json:"points"`
	NextPoints  float64 `json:"next_points"`
	TotalRanked int     `json:"total_ranked"`
}
