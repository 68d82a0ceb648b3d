package repository

import (
	"context"
	"database/sql"
	"fmt"
	"pyball/internal/constants"
	"pyball/internal/domain"
	"time"

	"github.com/rs/zerolog"
)

type CandidateRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewCandidateRepository(sqlDB *sql.DB, logger zerolog.Logger) *CandidateRepository {
	return &CandidateRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *CandidateRepository) List(ctx context.Context) ([]domain.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT full_name FROM candidates ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]domain.Candidate, 0)
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(&c.FullName); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (r *CandidateRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&n)
	return n, err
}

// SeedHash returns the hash of the player list the table was last seeded
// from, or "" when it has never been seeded.
func (r *CandidateRepository) SeedHash(ctx context.Context) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx, `SELECT source_hash FROM candidate_seed WHERE id = 1`).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

// ReplaceAll swaps the whole list for candidates, in order, and records
// sourceHash. Repeated names are kept: different players share names.
func (r *CandidateRepository) ReplaceAll(ctx context.Context, candidates []domain.Candidate, sourceHash string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM candidates`); err != nil {
		return fmt.Errorf("failed to clear candidates: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO candidates (full_name, created_at) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare candidate insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := 0; i < len(candidates); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		for _, c := range candidates[i:end] {
			if _, err := stmt.ExecContext(ctx, c.FullName, now); err != nil {
				return fmt.Errorf("failed to insert candidate %s: %w", c.FullName, err)
			}
		}
		r.logger.Debug().Int("from", i).Int("to", end).Msg("candidate batch written")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO candidate_seed (id, source_hash, seeded_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			source_hash = excluded.source_hash,
			seeded_at = excluded.seeded_at`,
		sourceHash, now,
	)
	if err != nil {
		return fmt.Errorf("failed to record seed hash: %w", err)
	}

	return tx.Commit()
}
