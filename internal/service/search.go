package service

import (
	"context"
	"fmt"
	"pyball/internal/compare"
	"pyball/internal/constants"
	"pyball/internal/domain"
	"pyball/internal/middleware"
	"pyball/internal/repository"
	"pyball/internal/search"

	"github.com/rs/zerolog"
)

type SearchService struct {
	filter    *search.CandidateFilter
	fetcher   PlayerFetcher
	searchLog *repository.SearchLogRepository
	logger    zerolog.Logger
}

type SearchResult struct {
	Query   string              `json:"query"`
	Valid   bool                `json:"valid"`
	Results domain.PlayerResult `json:"results"`
}

func NewSearchService(filter *search.CandidateFilter, fetcher PlayerFetcher, searchLog *repository.SearchLogRepository, logger zerolog.Logger) *SearchService {
	return &SearchService{filter: filter, fetcher: fetcher, searchLog: searchLog, logger: logger}
}

// Suggest returns the autocomplete matches for partial. limit <= 0 returns
// all of them.
func (s *SearchService) Suggest(ctx context.Context, partial string, limit int) []domain.Candidate {
	matches := s.filter.Filter(partial)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]domain.Candidate, len(matches))
	copy(out, matches)

	s.logger.Debug().Str("partial", partial).Int("limit", limit).Int("count", len(out)).Msg("suggestions computed")
	return out
}

// Submit validates query and, when it is a first and last name, asks the
// stats API for the player. Validation failures come back as
// *search.ValidationError.
func (s *SearchService) Submit(ctx context.Context, query string) (*SearchResult, error) {
	accepted, err := search.Validate(query)
	if err != nil {
		s.logger.Debug().Str("query", query).Err(err).Msg("query rejected")
		return nil, err
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	results, err := s.fetcher.GetPlayer(apiCtx, accepted.String())
	if err != nil {
		s.logger.Error().Err(err).Str("query", accepted.String()).Msg("failed to fetch player")
		return nil, fmt.Errorf("%w: failed to fetch player: %w", ErrUpstream, err)
	}

	if _, err := s.searchLog.Append(ctx, accepted.String(), middleware.GetRequestID(ctx)); err != nil {
		s.logger.Warn().Err(err).Str("query", accepted.String()).Msg("failed to record search")
	}

	valid := compare.IsValidResult(results)
	s.logger.Info().Str("query", accepted.String()).Bool("valid", valid).Int("keys", len(results)).Msg("search completed")

	return &SearchResult{Query: accepted.String(), Valid: valid, Results: results}, nil
}

func (s *SearchService) Recent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 || limit > constants.RecentSearchLimit {
		limit = constants.RecentSearchLimit
	}
	entries, err := s.searchLog.Recent(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list recent searches")
		return nil, err
	}
	return entries, nil
}
