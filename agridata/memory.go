package agridata

import (
	"context"
	"sync"
)

// MemoryProvider keeps the production and climate tables in memory and joins
// them on every Query. It is the default Provider and the test double for
// the database-backed ones.
type MemoryProvider struct {
	mu          sync.RWMutex
	productions []Production
	climates    []Climate
}

// NewMemoryProvider returns a provider over the given tables. The slices are
// copied, so callers may keep mutating their own.
func NewMemoryProvider(productions []Production, climates []Climate) *MemoryProvider {
	p := &MemoryProvider{
		productions: make([]Production, len(productions)),
		climates:    make([]Climate, len(climates)),
	}
	copy(p.productions, productions)
	copy(p.climates, climates)
	return p
}

// AddProduction appends rows to the production table.
func (p *MemoryProvider) AddProduction(rows ...Production) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.productions = append(p.productions, rows...)
}

// AddClimate appends rows to the climate table.
func (p *MemoryProvider) AddClimate(rows ...Climate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.climates = append(p.climates, rows...)
}

// Query joins the two tables and returns the records matching f, in
// production table order.
func (p *MemoryProvider) Query(_ context.Context, f Filter) ([]Record, error) {
	p.mu.RLock()
	joined := Join(p.productions, p.climates)
	p.mu.RUnlock()

	out := make([]Record, 0, len(joined))
	for _, r := range joined {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

var _ Provider = (*MemoryProvider)(nil)
