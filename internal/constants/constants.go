package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// 0 means the suggest endpoint returns every match.
	DefaultSuggestionLimit = 0
	MaxSuggestionLimit     = 500
	RecentSearchLimit      = 20
)

const (
	PlayerQueryPrefix   = "player"
	PositionQueryPrefix = "position"
)
