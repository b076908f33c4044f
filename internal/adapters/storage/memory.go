package storage

import (
	"context"
	"sync"
	"time"

	"github.com/alejandrodnm/turfflux/internal/domain"
)

type memEntry struct {
	amount    float64
	updatedAt time.Time
}

// MemoryStakeStore implementa ports.StakeStore con un map protegido por un mutex.
// Es el backend por defecto; cada test puede crear el suyo.
type MemoryStakeStore struct {
	retention Retention
	now       func() time.Time

	mu        sync.Mutex
	entries   map[domain.EntrantKey]memEntry
	lastPrune time.Time
}

// NewMemoryStakeStore crea un store vacío.
func NewMemoryStakeStore(retention Retention) *MemoryStakeStore {
	return &MemoryStakeStore{
		retention: retention.withDefaults(),
		now:       time.Now,
		entries:   make(map[domain.EntrantKey]memEntry),
	}
}

// Observe aplica el batch completo bajo un solo lock. Todos los priors salen
// del estado anterior al batch; si una clave se repite, gana el último amount.
func (m *MemoryStakeStore) Observe(_ context.Context, obs []domain.StakeObservation) ([]domain.PriorStake, error) {
	priors := make([]domain.PriorStake, len(obs))

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastPrune) >= m.retention.PruneEvery {
		m.pruneLocked(now)
	}

	for i, o := range obs {
		if prev, ok := m.entries[o.Key]; ok {
			priors[i] = domain.PriorStake{Amount: prev.amount, Found: true}
		}
	}
	for _, o := range obs {
		m.entries[o.Key] = memEntry{amount: o.Amount, updatedAt: now}
	}
	return priors, nil
}

// Len devuelve el número de entrants en memoria.
func (m *MemoryStakeStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Close no hace nada; existe para cumplir ports.StakeStore.
func (m *MemoryStakeStore) Close() error { return nil }

func (m *MemoryStakeStore) pruneLocked(now time.Time) {
	m.lastPrune = now
	cutoff := now.Add(-m.retention.TTL)
	for k, e := range m.entries {
		if e.updatedAt.Before(cutoff) {
			delete(m.entries, k)
		}
	}
}
