// Package watch hace poll periódico de flux de una course y lo notifica.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/turfflux/internal/domain"
	"github.com/alejandrodnm/turfflux/internal/ports"
)

// FluxSource es la interfaz mínima que el watcher necesita del servicio de flux.
type FluxSource interface {
	Flux(ctx context.Context, race, contest int) (domain.FluxResult, error)
}

// Config contiene la configuración del watcher.
type Config struct {
	Race     int
	Contest  int
	Interval time.Duration
	Once     bool // un solo poll y salir
}

// Watcher es el loop de poll de una course.
type Watcher struct {
	cfg      Config
	source   FluxSource
	notifier ports.Notifier
}

// New crea un Watcher con sus dependencias inyectadas.
func New(cfg Config, source FluxSource, notifier ports.Notifier) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	return &Watcher{cfg: cfg, source: source, notifier: notifier}
}

// Run hace poll hasta que el contexto se cancele.
// Si cfg.Once está activo, solo hace un poll y devuelve su error.
func (w *Watcher) Run(ctx context.Context) error {
	slog.Info("watcher starting",
		"race", w.cfg.Race,
		"contest", w.cfg.Contest,
		"interval", w.cfg.Interval,
		"once", w.cfg.Once,
	)

	if err := w.poll(ctx); err != nil {
		slog.Error("flux poll failed", "err", err)
		if w.cfg.Once {
			return err
		}
	}
	if w.cfg.Once {
		return nil
	}

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("watcher stopped")
			return nil
		case <-ticker.C:
			if err := w.poll(ctx); err != nil {
				slog.Error("flux poll failed", "err", err)
			}
		}
	}
}

// poll hace un Flux y lo notifica.
func (w *Watcher) poll(ctx context.Context) error {
	start := time.Now()
	pollID := uuid.NewString()

	res, err := w.source.Flux(ctx, w.cfg.Race, w.cfg.Contest)
	if err != nil {
		return fmt.Errorf("watch.poll %s: %w", pollID, err)
	}

	if err := w.notifier.Notify(ctx, w.cfg.Race, w.cfg.Contest, res); err != nil {
		slog.Warn("notifier error", "poll_id", pollID, "err", err)
	}

	slog.Debug("flux poll complete",
		"poll_id", pollID,
		"kind", res.Kind,
		"entries", len(res.Entries),
		"has_data", res.HasData(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
