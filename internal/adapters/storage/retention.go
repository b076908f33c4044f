package storage

import "time"

const (
	defaultTTL        = 72 * time.Hour // una course no dura más de un día; margen para reuniones nocturnas
	defaultPruneEvery = time.Hour
)

// Retention define cuándo se olvida un entrant.
type Retention struct {
	TTL        time.Duration // claves sin observar durante TTL se eliminan
	PruneEvery time.Duration // frecuencia máxima del prune
}

func (r Retention) withDefaults() Retention {
	if r.TTL <= 0 {
		r.TTL = defaultTTL
	}
	if r.PruneEvery <= 0 {
		r.PruneEvery = defaultPruneEvery
	}
	return r
}
