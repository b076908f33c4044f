package pmu

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/turfflux/internal/domain"
)

// FetchPool lee el pool kind de una course. Un pool vacío o con total 0
// no es un error: decidir si es usable le toca al scanner.
func (c *Client) FetchPool(ctx context.Context, base, date string, race, contest int, kind domain.PoolKind) (domain.PoolSnapshot, error) {
	url := combinaisonsURL(base, date, race, contest, kind)

	var resp combinaisonsResponse
	if err := c.get(ctx, c.opts.RequestTimeout, url, &resp); err != nil {
		return domain.PoolSnapshot{}, fmt.Errorf("pmu.FetchPool %s: %w", kind, err)
	}

	snap := mapPool(race, contest, kind, resp)
	slog.Debug("pool fetched",
		"race", race,
		"contest", contest,
		"kind", kind,
		"total", snap.Total,
		"entries", len(snap.Entries),
	)
	return snap, nil
}
