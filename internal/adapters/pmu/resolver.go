package pmu

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Prober verifica si una base URL está respondiendo.
type Prober interface {
	Probe(ctx context.Context, base, date string) error
}

// Resolver descubre qué base URL candidata responde y la recuerda
// durante toda la vida del proceso.
//
// El probe se hace fuera del lock: dos primeras llamadas concurrentes
// pueden probar a la vez, pero solo la primera en terminar con éxito
// fija el valor.
type Resolver struct {
	prober     Prober
	candidates []string
	today      func() string

	mu       sync.Mutex
	resolved string
}

// NewResolver crea un Resolver sobre candidates, en orden de preferencia.
// today devuelve la fecha ddmmyyyy usada en la ruta de probe.
func NewResolver(prober Prober, candidates []string, today func() string) *Resolver {
	return &Resolver{
		prober:     prober,
		candidates: append([]string(nil), candidates...),
		today:      today,
	}
}

// Resolve devuelve la base memorizada o, si no hay, prueba los candidatos.
// Si ninguno responde devuelve el primero sin memorizarlo.
func (r *Resolver) Resolve(ctx context.Context) string {
	if base, ok := r.cached(); ok {
		return base
	}
	if len(r.candidates) == 0 {
		return ""
	}

	date := r.today()
	for _, base := range r.candidates {
		start := time.Now()
		if err := r.prober.Probe(ctx, base, date); err != nil {
			slog.Debug("source probe failed", "base", base, "err", err)
			continue
		}
		winner := r.memoize(base)
		slog.Info("source resolved",
			"base", winner,
			"probe_duration", time.Since(start).Round(time.Millisecond),
		)
		return winner
	}

	slog.Warn("no source candidate responded, using degraded default",
		"base", r.candidates[0],
		"candidates", len(r.candidates),
	)
	return r.candidates[0]
}

// Resolved devuelve la base memorizada, si la hay.
func (r *Resolver) Resolved() (string, bool) {
	return r.cached()
}

func (r *Resolver) cached() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolved, r.resolved != ""
}

// memoize fija base si todavía no hay valor y devuelve el valor vigente.
func (r *Resolver) memoize(base string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved == "" {
		r.resolved = base
	}
	return r.resolved
}
