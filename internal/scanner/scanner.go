package scanner

import (
	"context"
	"log/slog"
	"time"

	"github.com/alejandrodnm/turfflux/internal/domain"
	"github.com/alejandrodnm/turfflux/internal/ports"
)

// Outcome es el resultado de probar un tipo de pool.
type Outcome int

const (
	OutcomeFailed   Outcome = iota // error de red o status no-2xx
	OutcomeEmpty                   // 2xx pero total 0 o sin combinaciones
	OutcomeAccepted                // pool usable
)

// String devuelve el nombre del outcome para logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// Attempt registra una prueba de un tipo de pool.
type Attempt struct {
	Kind     domain.PoolKind
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Result es lo que devuelve un Scan. Si Found es false, Snapshot es el
// snapshot vacío: el pool todavía no está abierto, no es un fallo.
type Result struct {
	Snapshot domain.PoolSnapshot
	Found    bool
	Attempts []Attempt
}

// Failures devuelve cuántos intentos acabaron en error.
func (r Result) Failures() int {
	n := 0
	for _, a := range r.Attempts {
		if a.Outcome == OutcomeFailed {
			n++
		}
	}
	return n
}

// Scanner prueba tipos de pool en orden de prioridad hasta encontrar uno usable.
type Scanner struct {
	pools ports.PoolProvider
}

// New crea un Scanner sobre pools.
func New(pools ports.PoolProvider) *Scanner {
	return &Scanner{pools: pools}
}

// Scan devuelve el primer pool de kinds con total > 0 y combinaciones.
// Los errores de un kind se registran en Attempts y se pasa al siguiente;
// nunca se devuelven al caller.
func (s *Scanner) Scan(ctx context.Context, base, date string, race, contest int, kinds []domain.PoolKind) Result {
	res := Result{
		Snapshot: domain.EmptySnapshot(race, contest),
		Attempts: make([]Attempt, 0, len(kinds)),
	}

	for _, kind := range kinds {
		start := time.Now()
		snap, err := s.pools.FetchPool(ctx, base, date, race, contest, kind)
		att := Attempt{Kind: kind, Duration: time.Since(start)}

		switch {
		case err != nil:
			att.Outcome = OutcomeFailed
			att.Err = err
			slog.Warn("pool fetch failed, trying next kind",
				"race", race,
				"contest", contest,
				"kind", kind,
				"err", err,
			)
		case !snap.Usable():
			att.Outcome = OutcomeEmpty
			slog.Debug("pool not open yet",
				"race", race,
				"contest", contest,
				"kind", kind,
				"total", snap.Total,
				"entries", len(snap.Entries),
			)
		default:
			att.Outcome = OutcomeAccepted
		}
		res.Attempts = append(res.Attempts, att)

		if att.Outcome == OutcomeAccepted {
			snap.Kind = kind
			res.Snapshot = snap
			res.Found = true
			return res
		}
	}

	slog.Debug("no usable pool",
		"race", race,
		"contest", contest,
		"kinds", len(kinds),
		"failures", res.Failures(),
	)
	return res
}
