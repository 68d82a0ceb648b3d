package table

import (
	"pyball/internal/domain"
	"sync"
	"time"
)

type cachedRows struct {
	version time.Time
	rows    []domain.DerivedRow
}

// RowCache memoizes DeriveRows per key. Rows are rebuilt only when the
// caller presents a different source version for that key.
type RowCache struct {
	mu      sync.RWMutex
	entries map[string]cachedRows
}

func NewRowCache() *RowCache {
	return &RowCache{entries: make(map[string]cachedRows)}
}

// Rows returns the derived rows for key, calling DeriveRows on records only
// when version differs from the cached one. The second result reports a hit.
func (c *RowCache) Rows(key string, version time.Time, records []domain.PlayerStatRecord) ([]domain.DerivedRow, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && entry.version.Equal(version) {
		return entry.rows, true
	}

	rows := DeriveRows(records)

	c.mu.Lock()
	c.entries[key] = cachedRows{version: version, rows: rows}
	c.mu.Unlock()

	return rows, false
}

func (c *RowCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
