package storage

import "time"

// SetClock reemplaza el reloj del store; solo para tests.
func (m *MemoryStakeStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	m.lastPrune = time.Time{}
}

// SetClock reemplaza el reloj del store; solo para tests.
func (s *SQLiteStakeStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	s.lastPrune = time.Time{}
}
