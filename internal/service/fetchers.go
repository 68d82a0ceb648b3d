package service

import (
	"context"
	"errors"
	"pyball/internal/domain"
)

// ErrUpstream marks failures of the stats API rather than of this service.
var ErrUpstream = errors.New("stats API unavailable")

type PlayerFetcher interface {
	GetPlayer(ctx context.Context, query string) (domain.PlayerResult, error)
}

type PositionFetcher interface {
	GetPosition(ctx context.Context, position string) ([]domain.PlayerStatRecord, error)
}
