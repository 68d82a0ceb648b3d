package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"pyball/internal/domain"
	"time"

	"github.com/rs/zerolog"
)

type PositionRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPositionRepository(sqlDB *sql.DB, logger zerolog.Logger) *PositionRepository {
	return &PositionRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Get returns sql.ErrNoRows when the position has never been fetched.
func (r *PositionRepository) Get(ctx context.Context, position string) (*domain.PositionSnapshot, error) {
	var (
		raw      string
		snapshot = domain.PositionSnapshot{Position: position}
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT records, last_fetch_at, updated_at FROM position_snapshots WHERE position = ?`,
		position,
	).Scan(&raw, &snapshot.LastFetchAt, &snapshot.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(raw), &snapshot.Records); err != nil {
		return nil, fmt.Errorf("failed to decode records for %s: %w", position, err)
	}
	return &snapshot, nil
}

func (r *PositionRepository) Upsert(ctx context.Context, position string, records []domain.PlayerStatRecord, fetchedAt time.Time) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode records for %s: %w", position, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO position_snapshots (position, records, last_fetch_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (position) DO UPDATE SET
			records = excluded.records,
			last_fetch_at = excluded.last_fetch_at,
			updated_at = excluded.updated_at`,
		position, string(raw), fetchedAt.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position %s: %w", position, err)
	}
	return nil
}

func (r *PositionRepository) ShouldRefresh(ctx context.Context, position string, ttl time.Duration) (bool, error) {
	var lastFetchAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT last_fetch_at FROM position_snapshots WHERE position = ?`, position,
	).Scan(&lastFetchAt)
	if err == sql.ErrNoRows {
		r.logger.Debug().Str("position", position).Msg("position not cached, should refresh")
		return true, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("position", position).Msg("failed to get position")
		return false, err
	}

	timeSince := time.Since(lastFetchAt)
	shouldRefresh := timeSince > ttl
	r.logger.Debug().
		Str("position", position).
		Time("last_fetch_at", lastFetchAt).
		Dur("time_since", timeSince).
		Dur("ttl", ttl).
		Bool("should_refresh", shouldRefresh).
		Msg("checking if position should refresh")

	return shouldRefresh, nil
}
