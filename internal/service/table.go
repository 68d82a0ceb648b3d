package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pyball/internal/config"
	"pyball/internal/constants"
	"pyball/internal/domain"
	"pyball/internal/repository"
	"pyball/internal/table"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidFilter   = errors.New("invalid filter")
)

type TableService struct {
	fetcher PositionFetcher
	repo    *repository.PositionRepository
	rows    *table.RowCache
	ttl     time.Duration
	logger  zerolog.Logger
}

type PositionTable struct {
	Position  string         `json:"position"`
	Columns   []table.Column `json:"columns"`
	Rows      []table.Row    `json:"rows"`
	Total     int            `json:"total"`
	FetchedAt time.Time      `json:"fetched_at"`
	Cached    bool           `json:"cached"`
}

func NewTableService(fetcher PositionFetcher, repo *repository.PositionRepository, rows *table.RowCache, cfg *config.Config, logger zerolog.Logger) *TableService {
	return &TableService{fetcher: fetcher, repo: repo, rows: rows, ttl: cfg.PositionCacheTTL, logger: logger}
}

// GetTable returns the derived rows for a position, narrowed by per-column
// filters keyed by column accessor.
func (s *TableService) GetTable(ctx context.Context, position string, refresh bool, filters map[string]string) (*PositionTable, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	position = strings.ToUpper(strings.TrimSpace(position))
	if position == "" || strings.ContainsAny(position, "/?#") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPosition, position)
	}

	snapshot, cached, err := s.snapshot(ctx, position, refresh)
	if err != nil {
		return nil, err
	}

	derived, hit := s.rows.Rows(position, snapshot.LastFetchAt, snapshot.Records)
	s.logger.Debug().Str("position", position).Bool("memo_hit", hit).Int("rows", len(derived)).Msg("rows derived")

	rows, err := table.ApplyFilters(table.NewRows(derived), filters)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	return &PositionTable{
		Position:  position,
		Columns:   table.Columns,
		Rows:      rows,
		Total:     len(derived),
		FetchedAt: snapshot.LastFetchAt,
		Cached:    cached,
	}, nil
}

func (s *TableService) snapshot(ctx context.Context, position string, refresh bool) (*domain.PositionSnapshot, bool, error) {
	shouldRefresh, err := s.repo.ShouldRefresh(ctx, position, s.ttl)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check if position should be refreshed: %w", err)
	}
	if refresh {
		s.logger.Debug().Str("position", position).Msg("manual refresh requested")
		shouldRefresh = true
	}

	if !shouldRefresh {
		snapshot, err := s.repo.Get(ctx, position)
		if err == nil {
			s.logger.Info().Str("position", position).Msg("returning cached position")
			return snapshot, true, nil
		}
		s.logger.Warn().Err(err).Str("position", position).Msg("cached position unreadable, refetching")
	}

	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer apiCancel()

	records, err := s.fetcher.GetPosition(apiCtx, position)
	if err != nil {
		s.logger.Error().Err(err).Str("position", position).Msg("failed to fetch position")

		stale, getErr := s.repo.Get(ctx, position)
		if getErr == nil {
			s.logger.Warn().Str("position", position).Time("last_fetch_at", stale.LastFetchAt).Msg("serving stale position")
			return stale, true, nil
		}
		if !errors.Is(getErr, sql.ErrNoRows) {
			s.logger.Error().Err(getErr).Str("position", position).Msg("failed to read stale position")
		}
		return nil, false, fmt.Errorf("%w: failed to fetch position: %w", ErrUpstream, err)
	}

	fetchedAt := time.Now().UTC()
	if err := s.repo.Upsert(ctx, position, records, fetchedAt); err != nil {
		s.logger.Warn().Err(err).Str("position", position).Msg("failed to store position")
	}
	s.rows.Invalidate(position)

	s.logger.Info().Str("position", position).Int("records", len(records)).Msg("position fetched successfully")
	return &domain.PositionSnapshot{
		Position:    position,
		Records:     records,
		LastFetchAt: fetchedAt,
		UpdatedAt:   fetchedAt,
	}, false, nil
}
