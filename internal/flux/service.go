// Package flux orquesta resolver, scanner y calculator para cada consulta
// del dashboard.
package flux

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/turfflux/internal/domain"
	"github.com/alejandrodnm/turfflux/internal/ports"
	"github.com/alejandrodnm/turfflux/internal/scanner"
	"github.com/alejandrodnm/turfflux/internal/signal"
)

// DateLayout es el formato de fecha de la API (ddmmyyyy).
const DateLayout = "02012006"

// ErrInvalidInput se devuelve cuando la fecha o los números de course no son válidos.
var ErrInvalidInput = errors.New("invalid input")

// Config contiene la configuración del servicio.
type Config struct {
	PoolKinds []domain.PoolKind // orden de prioridad
	Location  *time.Location    // zona para calcular la fecha de hoy
}

// Service implementa las tres consultas del dashboard.
type Service struct {
	cfg        Config
	resolver   ports.SourceResolver
	programmes ports.ProgrammeProvider
	scanner    *scanner.Scanner
	calc       *signal.Calculator
	now        func() time.Time
}

// New crea un Service con todas las dependencias inyectadas.
func New(
	cfg Config,
	resolver ports.SourceResolver,
	programmes ports.ProgrammeProvider,
	pools ports.PoolProvider,
	store ports.StakeStore,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Service{
		cfg:        cfg,
		resolver:   resolver,
		programmes: programmes,
		scanner:    scanner.New(pools),
		calc:       signal.NewCalculator(store),
		now:        time.Now,
	}
}

// Today devuelve la fecha de hoy en formato ddmmyyyy.
func (s *Service) Today() string {
	return s.now().In(s.cfg.Location).Format(DateLayout)
}

// Programme devuelve el programa del día. Los fallos de la API se propagan.
func (s *Service) Programme(ctx context.Context, date string) (json.RawMessage, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	base := s.resolver.Resolve(ctx)
	raw, err := s.programmes.FetchProgramme(ctx, base, date)
	if err != nil {
		return nil, fmt.Errorf("flux.Programme %s: %w", date, err)
	}
	return raw, nil
}

// Participants devuelve los partants de una course. Los fallos de la API se propagan.
func (s *Service) Participants(ctx context.Context, date string, race, contest int) (json.RawMessage, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if err := validateCourse(race, contest); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	base := s.resolver.Resolve(ctx)
	raw, err := s.programmes.FetchParticipants(ctx, base, date, race, contest)
	if err != nil {
		return nil, fmt.Errorf("flux.Participants %s R%dC%d: %w", date, race, contest, err)
	}
	return raw, nil
}

// Flux devuelve velocity y market share de la course de hoy.
// Si ningún pool tiene datos devuelve NoDataResult sin error: para el
// dashboard significa "todavía no abierto".
// El contexto de entrada no cancela las llamadas a la API en curso.
func (s *Service) Flux(ctx context.Context, race, contest int) (domain.FluxResult, error) {
	if err := validateCourse(race, contest); err != nil {
		return domain.FluxResult{}, err
	}
	ctx = context.WithoutCancel(ctx)

	base := s.resolver.Resolve(ctx)
	res := s.scanner.Scan(ctx, base, s.Today(), race, contest, s.cfg.PoolKinds)
	if !res.Found {
		slog.Info("flux: no pool data yet",
			"race", race,
			"contest", contest,
			"attempts", len(res.Attempts),
			"failures", res.Failures(),
		)
		return domain.NoDataResult(), nil
	}

	entries, err := s.calc.Enrich(ctx, res.Snapshot)
	if err != nil {
		return domain.FluxResult{}, fmt.Errorf("flux.Flux R%dC%d: %w", race, contest, err)
	}

	return domain.NewFluxResult(res.Snapshot, entries, s.now()), nil
}

func validateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil || len(date) != len(DateLayout) {
		return fmt.Errorf("%w: date %q must be ddmmyyyy", ErrInvalidInput, date)
	}
	return nil
}

func validateCourse(race, contest int) error {
	if race <= 0 || contest <= 0 {
		return fmt.Errorf("%w: race and contest must be positive (R%d C%d)", ErrInvalidInput, race, contest)
	}
	return nil
}
