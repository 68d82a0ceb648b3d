package repository

import (
	"context"
	"database/sql"
	"fmt"
	"pyball/internal/domain"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type SearchLogRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSearchLogRepository(sqlDB *sql.DB, logger zerolog.Logger) *SearchLogRepository {
	return &SearchLogRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *SearchLogRepository) Append(ctx context.Context, query, requestID string) (*domain.SearchLogEntry, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	entry := &domain.SearchLogEntry{
		ID:        id,
		Query:     query,
		RequestID: requestID,
		CreatedAt: time.Now().UTC(),
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO search_log (id, query, request_id, created_at) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.Query, entry.RequestID, entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append search log: %w", err)
	}
	return entry, nil
}

func (r *SearchLogRepository) Recent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, query, request_id, created_at FROM search_log ORDER BY rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.SearchLogEntry, 0, limit)
	for rows.Next() {
		var e domain.SearchLogEntry
		if err := rows.Scan(&e.ID, &e.Query, &e.RequestID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
