package models

// ZebricekEntry is one row of the annual leaderboard, ordered by points
// earned in the current year.
type ZebricekEntry struct {
	Rank     int     `json:"rank"`
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	Points   float64 `json:"points"`
}

// ZebricekPosition describes the requesting user's own standing.
// PointsToNext is zero for the leader.
type ZebricekPosition struct {
	Rank         int     `json:"rank"`
	Points       float64 `json:"points"`
	PointsToNext float64 `json:"points_to_next"`
	TotalRanked  int     `json:"total_ranked"`
}
