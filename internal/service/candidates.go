package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"pyball/internal/config"
	"pyball/internal/constants"
	"pyball/internal/domain"
	"pyball/internal/repository"
	"pyball/internal/search"

	"github.com/rs/zerolog"
)

// NewCandidateFilter builds the autocomplete list once at startup. The
// database is reseeded from the list file whenever the file's contents
// changed since the last seed.
func NewCandidateFilter(cfg *config.Config, repo *repository.CandidateRepository, logger zerolog.Logger) (*search.CandidateFilter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	if err := SeedCandidates(ctx, cfg.PlayerListPath, repo, logger); err != nil {
		return nil, err
	}

	candidates, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	logger.Info().Int("count", len(candidates)).Msg("candidate list loaded")
	return search.NewCandidateFilter(candidates), nil
}

// SeedCandidates replaces the stored list with the file at path when the
// file's hash differs from the one recorded at the last seed. A missing file
// leaves the stored list alone.
func SeedCandidates(ctx context.Context, path string, repo *repository.CandidateRepository, logger zerolog.Logger) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Str("path", path).Msg("player list not found, keeping stored candidates")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read player list %s: %w", path, err)
	}

	sum := sha256.Sum256(raw)
	hash := hex.EncodeToString(sum[:])

	stored, err := repo.SeedHash(ctx)
	if err != nil {
		return fmt.Errorf("failed to read seed hash: %w", err)
	}
	if stored == hash {
		logger.Info().Str("path", path).Msg("player list unchanged, keeping stored candidates")
		return nil
	}

	candidates, err := parseCandidates(raw, path)
	if err != nil {
		return err
	}

	if err := repo.ReplaceAll(ctx, candidates, hash); err != nil {
		return fmt.Errorf("failed to seed candidates: %w", err)
	}
	logger.Info().Str("path", path).Int("count", len(candidates)).Bool("reseed", stored != "").Msg("candidates seeded")
	return nil
}

// ReadCandidateFile reads a JSON array of {"full_name": ...} records. Entries
// without a name are dropped.
func ReadCandidateFile(path string) ([]domain.Candidate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseCandidates(raw, path)
}

func parseCandidates(raw []byte, path string) ([]domain.Candidate, error) {
	var entries []struct {
		FullName *string `json:"full_name"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode player list %s: %w", path, err)
	}

	candidates := make([]domain.Candidate, 0, len(entries))
	for _, e := range entries {
		if e.FullName == nil || *e.FullName == "" {
			continue
		}
		candidates = append(candidates, domain.Candidate{FullName: *e.FullName})
	}
	return candidates, nil
}
