package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"pyball/internal/config"
	"pyball/internal/database"
	"pyball/internal/domain"
	"pyball/internal/repository"
	"pyball/internal/search"
	"pyball/internal/table"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeFetcher struct {
	mu        sync.Mutex
	players   map[string]domain.PlayerResult
	positions map[string][]domain.PlayerStatRecord
	err       error
	calls     int
}

func (f *fakeFetcher) GetPlayer(ctx context.Context, query string) (domain.PlayerResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.players[query]; ok {
		return r, nil
	}
	return domain.PlayerResult{}, nil
}

func (f *fakeFetcher) GetPosition(ctx context.Context, position string) ([]domain.PlayerStatRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.positions[position], nil
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string {
	return &s
}

func bradyResult() domain.PlayerResult {
	return domain.PlayerResult{
		"full_name":     []any{"Tom Brady"},
		"position":      []any{"QB"},
		"passing_yards": []any{300.0, 250.0},
	}
}

func TestNewCandidateFilterSeedsOnChange(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewCandidateRepository(db, zerolog.Nop())

	path := filepath.Join(t.TempDir(), "PlayerList.json")
	if err := os.WriteFile(path, []byte(`[{"full_name":"Tom Brady","team":"TB"},{"full_name":null},{"full_name":"Aaron Rodgers"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{PlayerListPath: path}

	filter, err := NewCandidateFilter(cfg, repo, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCandidateFilter: %v", err)
	}
	if filter.Len() != 2 {
		t.Fatalf("Len = %d, want 2", filter.Len())
	}

	// Unchanged file: no second copy of the list.
	filter, err = NewCandidateFilter(cfg, repo, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCandidateFilter unchanged: %v", err)
	}
	if filter.Len() != 2 {
		t.Fatalf("Len after unchanged restart = %d, want 2", filter.Len())
	}

	// Changed file replaces the list. Same-name players are both kept.
	if err := os.WriteFile(path, []byte(`[{"full_name":"Mike Williams"},{"full_name":"Josh Allen"},{"full_name":"Mike Williams"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	filter, err = NewCandidateFilter(cfg, repo, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCandidateFilter changed: %v", err)
	}
	if filter.Len() != 3 {
		t.Errorf("Len after change = %d, want 3", filter.Len())
	}
	if got := filter.Filter("mike"); len(got) != 2 {
		t.Errorf("Filter(mike) = %v, want both Mike Williams entries", got)
	}
	if got := filter.Filter("brady"); len(got) != 0 {
		t.Errorf("old list survived reseed: %v", got)
	}
}

func TestSeedCandidatesMissingFileKeepsStored(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewCandidateRepository(openTestDB(t), zerolog.Nop())
	if err := repo.ReplaceAll(ctx, []domain.Candidate{{FullName: "Tom Brady"}}, "abc"); err != nil {
		t.Fatal(err)
	}

	if err := SeedCandidates(ctx, filepath.Join(t.TempDir(), "missing.json"), repo, zerolog.Nop()); err != nil {
		t.Fatalf("SeedCandidates: %v", err)
	}
	if n, err := repo.Count(ctx); err != nil || n != 1 {
		t.Errorf("Count = %d, %v; want 1", n, err)
	}
}

func TestNewCandidateFilterMissingFile(t *testing.T) {
	repo := repository.NewCandidateRepository(openTestDB(t), zerolog.Nop())
	filter, err := NewCandidateFilter(&config.Config{PlayerListPath: filepath.Join(t.TempDir(), "missing.json")}, repo, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCandidateFilter: %v", err)
	}
	if filter.Len() != 0 {
		t.Errorf("Len = %d, want 0", filter.Len())
	}
}

func TestSearchServiceSuggest(t *testing.T) {
	filter := search.NewCandidateFilter([]domain.Candidate{{FullName: "Tom Brady"}, {FullName: "Brady Quinn"}, {FullName: "Aaron Rodgers"}})
	svc := NewSearchService(filter, &fakeFetcher{}, repository.NewSearchLogRepository(openTestDB(t), zerolog.Nop()), zerolog.Nop())

	if got := svc.Suggest(context.Background(), "brady", 0); len(got) != 2 {
		t.Errorf("unlimited suggest returned %d, want 2", len(got))
	}
	if got := svc.Suggest(context.Background(), "brady", 1); len(got) != 1 || got[0].FullName != "Tom Brady" {
		t.Errorf("limited suggest = %v", got)
	}
	if got := svc.Suggest(context.Background(), "", 0); len(got) != 3 {
		t.Errorf("empty partial returned %d, want 3", len(got))
	}
}

func TestSearchServiceSubmit(t *testing.T) {
	fetcher := &fakeFetcher{players: map[string]domain.PlayerResult{"Tom Brady": bradyResult()}}
	searchLog := repository.NewSearchLogRepository(openTestDB(t), zerolog.Nop())
	svc := NewSearchService(search.NewCandidateFilter(nil), fetcher, searchLog, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "Brady"); !errors.Is(err, search.ErrTooFewTokens) {
		t.Fatalf("Submit(Brady) error = %v, want too few tokens", err)
	}
	if fetcher.calls != 0 {
		t.Fatalf("rejected query reached the fetcher")
	}

	res, err := svc.Submit(ctx, "Tom Brady")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.Valid || res.Query != "Tom Brady" {
		t.Errorf("result = %+v, want valid Tom Brady", res)
	}

	res, err = svc.Submit(ctx, "Nobody Here")
	if err != nil {
		t.Fatalf("Submit unknown: %v", err)
	}
	if res.Valid {
		t.Error("empty result should not be valid")
	}

	recent, err := svc.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Query != "Nobody Here" {
		t.Errorf("recent = %+v", recent)
	}

	fetcher.err = errors.New("connection refused")
	if _, err := svc.Submit(ctx, "Tom Brady"); !errors.Is(err, ErrUpstream) {
		t.Errorf("fetch failure error = %v, want ErrUpstream", err)
	}
}

func newTableService(t *testing.T, fetcher *fakeFetcher, ttl time.Duration) *TableService {
	t.Helper()
	repo := repository.NewPositionRepository(openTestDB(t), zerolog.Nop())
	return NewTableService(fetcher, repo, table.NewRowCache(), &config.Config{PositionCacheTTL: ttl}, zerolog.Nop())
}

func TestTableServiceCachesAndFilters(t *testing.T) {
	fetcher := &fakeFetcher{positions: map[string][]domain.PlayerStatRecord{
		"QB": {
			{FullName: strPtr("Tom Brady"), PassingYards: []float64{300, 250}},
			{FullName: nil, PassingYards: []float64{1}},
			{FullName: strPtr("Aaron Rodgers"), PassingYards: []float64{199, 100}},
		},
	}}
	svc := newTableService(t, fetcher, time.Hour)
	ctx := context.Background()

	tbl, err := svc.GetTable(ctx, "qb", false, nil)
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if tbl.Position != "QB" || tbl.Cached || tbl.Total != 2 || len(tbl.Rows) != 2 {
		t.Fatalf("first table = %+v", tbl)
	}
	if tbl.Rows[0]["passing_yd_avg"] != "275" || tbl.Rows[1]["passing_yd_avg"] != "149" {
		t.Errorf("averages = %s, %s", tbl.Rows[0]["passing_yd_avg"], tbl.Rows[1]["passing_yd_avg"])
	}

	tbl, err = svc.GetTable(ctx, "QB", false, map[string]string{"full_name": "rod"})
	if err != nil {
		t.Fatalf("GetTable filtered: %v", err)
	}
	if !tbl.Cached || len(tbl.Rows) != 1 || tbl.Rows[0]["full_name"] != "Aaron Rodgers" {
		t.Errorf("filtered table = %+v", tbl)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}

	if _, err := svc.GetTable(ctx, "QB", true, nil); err != nil {
		t.Fatalf("GetTable refresh: %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("refresh did not refetch, calls = %d", fetcher.calls)
	}
}

func TestTableServiceServesStaleOnUpstreamFailure(t *testing.T) {
	fetcher := &fakeFetcher{positions: map[string][]domain.PlayerStatRecord{
		"RB": {{FullName: strPtr("Derrick Henry"), RushingYards: []float64{120, 101}}},
	}}
	svc := newTableService(t, fetcher, time.Nanosecond)
	ctx := context.Background()

	if _, err := svc.GetTable(ctx, "RB", false, nil); err != nil {
		t.Fatalf("GetTable: %v", err)
	}

	fetcher.err = errors.New("timeout")
	tbl, err := svc.GetTable(ctx, "RB", false, nil)
	if err != nil {
		t.Fatalf("stale GetTable: %v", err)
	}
	if !tbl.Cached || len(tbl.Rows) != 1 || tbl.Rows[0]["rushing_yd_avg"] != "110" {
		t.Errorf("stale table = %+v", tbl)
	}

	if _, err := svc.GetTable(ctx, "WR", false, nil); !errors.Is(err, ErrUpstream) {
		t.Errorf("uncached failure error = %v, want ErrUpstream", err)
	}
}

func TestTableServiceRejectsBadInput(t *testing.T) {
	svc := newTableService(t, &fakeFetcher{}, time.Hour)
	ctx := context.Background()

	if _, err := svc.GetTable(ctx, "  ", false, nil); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("blank position error = %v", err)
	}
	if _, err := svc.GetTable(ctx, "QB", false, map[string]string{"team": "TB"}); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("unknown column error = %v", err)
	}
}

func TestCompareService(t *testing.T) {
	fetcher := &fakeFetcher{players: map[string]domain.PlayerResult{
		"Tom Brady": bradyResult(),
		"Aaron Rodgers": {
			"full_name":     []any{"Aaron Rodgers"},
			"position":      []any{"QB"},
			"passing_yards": []any{199.0, 100.0},
		},
	}}
	svc := NewCompareService(fetcher, zerolog.Nop())
	ctx := context.Background()

	c, err := svc.Compare(ctx, "Tom Brady", "Aaron Rodgers")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !c.Valid1 || !c.Valid2 || c.Table == nil {
		t.Fatalf("comparison = %+v", c)
	}
	if len(c.Table.Rows) != 4 || c.Table.Rows[0].Player2.Average != 149 {
		t.Errorf("table = %+v", c.Table)
	}

	c, err = svc.Compare(ctx, "Tom Brady", "Nobody Here")
	if err != nil {
		t.Fatalf("Compare with unknown: %v", err)
	}
	if c.Valid2 || c.Table != nil || len(c.Player2) != 2 {
		t.Errorf("comparison with unknown = %+v", c)
	}

	_, err = svc.Compare(ctx, "Tom Brady", "Aaron")
	var playerErr *PlayerError
	if !errors.As(err, &playerErr) || playerErr.Player != "player2" || !errors.Is(err, search.ErrTooFewTokens) {
		t.Errorf("invalid player2 error = %v", err)
	}

	fetcher.err = errors.New("boom")
	if _, err := svc.Compare(ctx, "Tom Brady", "Aaron Rodgers"); !errors.Is(err, ErrUpstream) {
		t.Errorf("fetch failure error = %v, want ErrUpstream", err)
	}
}
