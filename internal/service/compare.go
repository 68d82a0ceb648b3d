package service

import (
	"context"
	"fmt"
	"pyball/internal/compare"
	"pyball/internal/constants"
	"pyball/internal/domain"
	"pyball/internal/search"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type CompareService struct {
	fetcher PlayerFetcher
	logger  zerolog.Logger
}

// PlayerError says which of the two compared players a failure belongs to.
type PlayerError struct {
	Player string
	Err    error
}

func (e *PlayerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Player, e.Err)
}

func (e *PlayerError) Unwrap() error {
	return e.Err
}

type Comparison struct {
	Player1 domain.PlayerResult `json:"player1"`
	Player2 domain.PlayerResult `json:"player2"`
	Valid1  bool                `json:"valid1"`
	Valid2  bool                `json:"valid2"`
	Table   *compare.Table      `json:"table,omitempty"`
}

func NewCompareService(fetcher PlayerFetcher, logger zerolog.Logger) *CompareService {
	return &CompareService{fetcher: fetcher, logger: logger}
}

// Compare fetches both players concurrently. A player without a valid result
// is replaced by the placeholder, and the table is only built when both are
// valid.
func (s *CompareService) Compare(ctx context.Context, query1, query2 string) (*Comparison, error) {
	accepted1, err := search.Validate(query1)
	if err != nil {
		return nil, &PlayerError{Player: "player1", Err: err}
	}
	accepted2, err := search.Validate(query2)
	if err != nil {
		return nil, &PlayerError{Player: "player2", Err: err}
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(apiCtx)
	var result1, result2 domain.PlayerResult

	g.Go(func() error {
		var err error
		result1, err = s.fetcher.GetPlayer(gCtx, accepted1.String())
		if err != nil {
			return &PlayerError{Player: "player1", Err: fmt.Errorf("%w: %w", ErrUpstream, err)}
		}
		return nil
	})

	g.Go(func() error {
		var err error
		result2, err = s.fetcher.GetPlayer(gCtx, accepted2.String())
		if err != nil {
			return &PlayerError{Player: "player2", Err: fmt.Errorf("%w: %w", ErrUpstream, err)}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("player1", query1).Str("player2", query2).Msg("failed to fetch players")
		return nil, err
	}

	c := &Comparison{
		Player1: result1,
		Player2: result2,
		Valid1:  compare.IsValidResult(result1),
		Valid2:  compare.IsValidResult(result2),
	}
	if !c.Valid1 {
		c.Player1 = compare.EmptyPlayer()
	}
	if !c.Valid2 {
		c.Player2 = compare.EmptyPlayer()
	}
	if c.Valid1 && c.Valid2 {
		t := compare.BuildTable(result1, result2)
		c.Table = &t
	}

	s.logger.Info().
		Str("player1", query1).
		Str("player2", query2).
		Bool("valid1", c.Valid1).
		Bool("valid2", c.Valid2).
		Msg("comparison built")
	return c, nil
}
