package ports

import (
	"context"

	"github.com/alejandrodnm/turfflux/internal/domain"
)

// StakeStore guarda el último enjeu observado por entrant.
type StakeStore interface {
	// Observe lee el valor previo y escribe el nuevo para cada observación,
	// en orden, como una única sección crítica. Devuelve un PriorStake por
	// observación, en el mismo orden.
	Observe(ctx context.Context, obs []domain.StakeObservation) ([]domain.PriorStake, error)

	// Len devuelve el número de claves en la cache.
	Len() int

	// Close libera los recursos del store.
	Close() error
}
