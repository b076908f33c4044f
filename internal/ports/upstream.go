package ports

import (
	"context"
	"encoding/json"

	"github.com/alejandrodnm/turfflux/internal/domain"
)

// SourceResolver devuelve la base URL de la API que está respondiendo.
type SourceResolver interface {
	// Resolve nunca falla: si ningún candidato responde devuelve el primero.
	Resolve(ctx context.Context) string
}

// PoolProvider lee el pool de un tipo de apuesta para una course.
type PoolProvider interface {
	FetchPool(ctx context.Context, base, date string, race, contest int, kind domain.PoolKind) (domain.PoolSnapshot, error)
}

// ProgrammeProvider devuelve el programa y los partants tal cual los da la API.
type ProgrammeProvider interface {
	FetchProgramme(ctx context.Context, base, date string) (json.RawMessage, error)
	FetchParticipants(ctx context.Context, base, date string, race, contest int) (json.RawMessage, error)
}
