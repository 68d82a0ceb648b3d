package domain

import (
	"time"
)

type Candidate struct {
	FullName string `json:"full_name"`
}

// PlayerStatRecord is one player's per-game series as served by the stats API.
// FullName is nil when the upstream row has no name.
type PlayerStatRecord struct {
	FullName       *string   `json:"full_name"`
	Position       string    `json:"position,omitempty"`
	PassingYards   []float64 `json:"passing_yards"`
	RushingYards   []float64 `json:"rushing_yards"`
	ReceivingYards []float64 `json:"receiving_yards"`
}

type DerivedRow struct {
	FullName       string `json:"full_name"`
	PassingYdAvg   int    `json:"passing_yd_avg"`
	RushingYdAvg   int    `json:"rushing_yd_avg"`
	ReceivingYdAvg int    `json:"receiving_yd_avg"`
}

// PlayerResult is the raw object returned for a player query. Only a handful
// of keys are ever inspected, so it stays undecoded.
type PlayerResult map[string]any

type PositionSnapshot struct {
	Position    string
	Records     []PlayerStatRecord
	LastFetchAt time.Time
	UpdatedAt   time.Time
}

type SearchLogEntry struct {
	ID        string    `json:"id"` // nanoid
	Query     string    `json:"query"`
	RequestID string    `json:"request_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
