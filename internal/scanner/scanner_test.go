package scanner_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/alejandrodnm/turfflux/internal/domain"
	"github.com/alejandrodnm/turfflux/internal/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePools devuelve snapshots o errores por kind y registra el orden de llamadas.
type fakePools struct {
	mu    sync.Mutex
	snaps map[domain.PoolKind]domain.PoolSnapshot
	errs  map[domain.PoolKind]error
	calls []domain.PoolKind
}

func (f *fakePools) FetchPool(_ context.Context, _, _ string, race, contest int, kind domain.PoolKind) (domain.PoolSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, kind)
	if err := f.errs[kind]; err != nil {
		return domain.PoolSnapshot{}, err
	}
	snap := f.snaps[kind]
	snap.Race, snap.Contest = race, contest
	return snap, nil
}

func pool(total float64, stakes ...float64) domain.PoolSnapshot {
	entries := make([]domain.PoolEntry, len(stakes))
	for i, s := range stakes {
		entries[i] = domain.PoolEntry{Combination: domain.Combination{domain.Identifier(strconv.Itoa(i + 1))}, Stake: s}
	}
	return domain.PoolSnapshot{Total: total, Entries: entries}
}

func TestScan_SkipsZeroTotalKind(t *testing.T) {
	f := &fakePools{snaps: map[domain.PoolKind]domain.PoolSnapshot{
		"A": pool(0, 0, 0),
		"B": pool(500, 300, 200),
	}}

	res := scanner.New(f).Scan(context.Background(), "http://base", "18102026", 1, 2, []domain.PoolKind{"A", "B"})

	require.True(t, res.Found)
	assert.Equal(t, domain.PoolKind("B"), res.Snapshot.Kind)
	assert.InDelta(t, 500.0, res.Snapshot.Total, 1e-9)
	assert.Equal(t, 1, res.Snapshot.Race)
	assert.Equal(t, 2, res.Snapshot.Contest)
	require.Len(t, res.Attempts, 2)
	assert.Equal(t, scanner.OutcomeEmpty, res.Attempts[0].Outcome)
	assert.Equal(t, scanner.OutcomeAccepted, res.Attempts[1].Outcome)
}

func TestScan_FirstAcceptedShortCircuits(t *testing.T) {
	f := &fakePools{snaps: map[domain.PoolKind]domain.PoolSnapshot{
		"A": pool(10, 10),
		"B": pool(5000, 5000),
	}}

	res := scanner.New(f).Scan(context.Background(), "b", "d", 1, 1, []domain.PoolKind{"A", "B"})

	require.True(t, res.Found)
	assert.Equal(t, domain.PoolKind("A"), res.Snapshot.Kind)
	assert.Equal(t, []domain.PoolKind{"A"}, f.calls)
}

func TestScan_ErrorIsSwallowedAndNextKindTried(t *testing.T) {
	boom := errors.New("connection refused")
	f := &fakePools{
		errs:  map[domain.PoolKind]error{"A": boom},
		snaps: map[domain.PoolKind]domain.PoolSnapshot{"B": pool(100, 100)},
	}

	res := scanner.New(f).Scan(context.Background(), "b", "d", 1, 1, []domain.PoolKind{"A", "B"})

	require.True(t, res.Found)
	assert.Equal(t, domain.PoolKind("B"), res.Snapshot.Kind)
	assert.Equal(t, scanner.OutcomeFailed, res.Attempts[0].Outcome)
	assert.ErrorIs(t, res.Attempts[0].Err, boom)
	assert.Equal(t, 1, res.Failures())
}

func TestScan_NonEmptyTotalButNoEntriesRejected(t *testing.T) {
	f := &fakePools{snaps: map[domain.PoolKind]domain.PoolSnapshot{
		"A": {Total: 900},
	}}

	res := scanner.New(f).Scan(context.Background(), "b", "d", 3, 4, []domain.PoolKind{"A"})
	assert.False(t, res.Found)
	assert.Equal(t, scanner.OutcomeEmpty, res.Attempts[0].Outcome)
}

func TestScan_AllKindsUnusableReturnsEmpty(t *testing.T) {
	f := &fakePools{
		errs:  map[domain.PoolKind]error{"B": errors.New("503")},
		snaps: map[domain.PoolKind]domain.PoolSnapshot{"A": pool(0)},
	}

	res := scanner.New(f).Scan(context.Background(), "b", "d", 3, 4, []domain.PoolKind{"A", "B", "C"})

	assert.False(t, res.Found)
	assert.Equal(t, 0.0, res.Snapshot.Total)
	assert.NotNil(t, res.Snapshot.Entries)
	assert.Empty(t, res.Snapshot.Entries)
	assert.Equal(t, 3, res.Snapshot.Race)
	assert.Len(t, res.Attempts, 3)
	assert.Equal(t, []domain.PoolKind{"A", "B", "C"}, f.calls)
}

func TestScan_NoKinds(t *testing.T) {
	res := scanner.New(&fakePools{}).Scan(context.Background(), "b", "d", 1, 1, nil)
	assert.False(t, res.Found)
	assert.Empty(t, res.Attempts)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "accepted", scanner.OutcomeAccepted.String())
	assert.Equal(t, "empty", scanner.OutcomeEmpty.String())
	assert.Equal(t, "failed", scanner.OutcomeFailed.String())
}
