package storage

// sqlite.go: StakeStore sobre SQLite.
//
// Estrategia:
//   - `stakes`: UNA fila por entrant (UPSERT). amount = último enjeu observado.
//   - Un batch de observaciones es una transacción bajo s.mu: ningún otro
//     Observe puede intercalar su lectura/escritura de la misma clave.
//   - El DSN por defecto es ":memory:", nada sobrevive a un reinicio.
//   - Prune al abrir y luego como mucho cada pruneEvery: claves sin tocar en ttl.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/turfflux/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS stakes (
    race        INTEGER  NOT NULL,
    contest     INTEGER  NOT NULL,
    combination TEXT     NOT NULL,
    amount      REAL     NOT NULL DEFAULT 0,
    first_seen  INTEGER  NOT NULL, -- unix seconds
    updated_at  INTEGER  NOT NULL,
    PRIMARY KEY (race, contest, combination)
);

CREATE INDEX IF NOT EXISTS idx_stakes_updated ON stakes(updated_at);
`

// SQLiteStakeStore implementa ports.StakeStore usando SQLite (pure Go, sin CGo).
type SQLiteStakeStore struct {
	db        *sql.DB
	retention Retention
	now       func() time.Time

	mu        sync.Mutex
	lastPrune time.Time
	count     int
}

// NewSQLiteStakeStore abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStakeStore(dsn string, retention Retention) (*SQLiteStakeStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStakeStore: open %q: %w", dsn, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer; con :memory: además es la misma DB
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStakeStore: apply schema: %w", err)
	}

	s := &SQLiteStakeStore{
		db:        db,
		retention: retention.withDefaults(),
		now:       time.Now,
	}
	s.mu.Lock()
	s.pruneLocked(context.Background(), s.now())
	s.count = s.countLocked(context.Background())
	s.mu.Unlock()
	return s, nil
}

// Observe lee los amounts previos y hace upsert de los nuevos, todo en una
// transacción. Con claves repetidas en el batch, gana el último amount.
func (s *SQLiteStakeStore) Observe(ctx context.Context, obs []domain.StakeObservation) ([]domain.PriorStake, error) {
	priors := make([]domain.PriorStake, len(obs))
	if len(obs) == 0 {
		return priors, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if now.Sub(s.lastPrune) >= s.retention.PruneEvery {
		s.pruneLocked(ctx, now)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("storage.Observe: begin tx: %w", err)
	}
	defer tx.Rollback()

	sel, err := tx.PrepareContext(ctx,
		`SELECT amount FROM stakes WHERE race = ? AND contest = ? AND combination = ?`)
	if err != nil {
		return nil, fmt.Errorf("storage.Observe: prepare select: %w", err)
	}
	defer sel.Close()

	ups, err := tx.PrepareContext(ctx, `
		INSERT INTO stakes (race, contest, combination, amount, first_seen, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(race, contest, combination) DO UPDATE SET
			amount     = excluded.amount,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.Observe: prepare upsert: %w", err)
	}
	defer ups.Close()

	// primero todas las lecturas: los priors son el estado anterior al batch
	fresh := make(map[domain.EntrantKey]struct{})
	for i, o := range obs {
		var prev float64
		err := sel.QueryRowContext(ctx, o.Key.Race, o.Key.Contest, string(o.Key.Combination)).Scan(&prev)
		switch {
		case err == nil:
			priors[i] = domain.PriorStake{Amount: prev, Found: true}
		case errors.Is(err, sql.ErrNoRows):
			fresh[o.Key] = struct{}{}
		default:
			return nil, fmt.Errorf("storage.Observe: read %s: %w", o.Key, err)
		}
	}

	for _, o := range obs {
		if _, err := ups.ExecContext(ctx,
			o.Key.Race, o.Key.Contest, string(o.Key.Combination), o.Amount, now.Unix(), now.Unix(),
		); err != nil {
			return nil, fmt.Errorf("storage.Observe: upsert %s: %w", o.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("storage.Observe: commit: %w", err)
	}
	s.count += len(fresh)
	return priors, nil
}

// Len devuelve el número de entrants en la tabla.
func (s *SQLiteStakeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStakeStore) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

// pruneLocked elimina entrants sin observar en retention.TTL. Requiere s.mu.
func (s *SQLiteStakeStore) pruneLocked(ctx context.Context, now time.Time) {
	s.lastPrune = now
	cutoff := now.UTC().Add(-s.retention.TTL)
	res, err := s.db.ExecContext(ctx, `DELETE FROM stakes WHERE updated_at < ?`, cutoff.Unix())
	if err != nil {
		slog.Warn("stake prune failed", "err", err)
		return
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.count -= int(n)
		if s.count < 0 {
			s.count = s.countLocked(ctx)
		}
		slog.Debug("stakes pruned", "removed", n)
	}
}

func (s *SQLiteStakeStore) countLocked(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stakes`).Scan(&n); err != nil {
		return 0
	}
	return n
}
