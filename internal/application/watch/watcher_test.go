package watch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alejandrodnm/turfflux/internal/application/watch"
	"github.com/alejandrodnm/turfflux/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSource) Flux(_ context.Context, race, contest int) (domain.FluxResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return domain.FluxResult{}, f.err
	}
	return domain.FluxResult{
		Total:   float64(100 * f.calls),
		Kind:    "E_SIMPLE_GAGNANT",
		Entries: []domain.DerivedEntry{{Combination: domain.Combination{"1"}, Stake: 100}},
	}, nil
}

func (f *fakeSource) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingNotifier struct {
	mu      sync.Mutex
	results []domain.FluxResult
}

func (n *recordingNotifier) Notify(_ context.Context, race, contest int, r domain.FluxResult) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.results = append(n.results, r)
	return nil
}

func TestWatcher_Once(t *testing.T) {
	src := &fakeSource{}
	n := &recordingNotifier{}

	w := watch.New(watch.Config{Race: 1, Contest: 2, Once: true}, src, n)
	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, 1, src.count())
	require.Len(t, n.results, 1)
	assert.Equal(t, domain.PoolKind("E_SIMPLE_GAGNANT"), n.results[0].Kind)
}

func TestWatcher_OnceReturnsError(t *testing.T) {
	src := &fakeSource{err: errors.New("store closed")}
	w := watch.New(watch.Config{Race: 1, Contest: 2, Once: true}, src, &recordingNotifier{})

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store closed")
}

func TestWatcher_PollsUntilCancelled(t *testing.T) {
	src := &fakeSource{}
	n := &recordingNotifier{}
	w := watch.New(watch.Config{Race: 1, Contest: 2, Interval: 10 * time.Millisecond}, src, n)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Eventually(t, func() bool { return src.count() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
