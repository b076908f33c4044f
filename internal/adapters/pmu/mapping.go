package pmu

import "github.com/alejandrodnm/turfflux/internal/domain"

// mapPool convierte la respuesta de combinaisons en un PoolSnapshot.
// Conserva el orden de la API; los enjeux negativos se tratan como 0.
func mapPool(race, contest int, kind domain.PoolKind, resp combinaisonsResponse) domain.PoolSnapshot {
	entries := make([]domain.PoolEntry, 0, len(resp.ListeCombinaisons))
	for _, item := range resp.ListeCombinaisons {
		stake := item.TotalEnjeu
		if stake < 0 {
			stake = 0
		}
		entries = append(entries, domain.PoolEntry{
			Combination: item.Combinaison,
			Stake:       stake,
		})
	}
	total := resp.TotalEnjeu
	if total < 0 {
		total = 0
	}
	return domain.PoolSnapshot{
		Race:    race,
		Contest: contest,
		Kind:    kind,
		Total:   total,
		Entries: entries,
	}
}
