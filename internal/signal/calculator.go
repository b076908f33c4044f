// Package signal deriva velocity y market share de un snapshot de pool.
//
// Redondeo: 2 decimales con decimal.Round, que redondea la mitad alejándose
// de cero (0.125 → 0.13, -0.125 → -0.13). Las restas y divisiones se hacen
// en decimal para que el mismo input dé siempre el mismo output.
package signal

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alejandrodnm/turfflux/internal/domain"
	"github.com/alejandrodnm/turfflux/internal/ports"
)

const places = 2

var hundred = decimal.NewFromInt(100)

// Calculator enriquece snapshots usando la cache de enjeux como estado previo.
type Calculator struct {
	store ports.StakeStore
}

// NewCalculator crea un Calculator sobre store.
func NewCalculator(store ports.StakeStore) *Calculator {
	return &Calculator{store: store}
}

// Enrich devuelve una DerivedEntry por entrada del snapshot, en el mismo orden,
// y deja en la cache el enjeu actual de cada entrant.
//
// Varias entradas pueden compartir lead (trio, couplé...): el enjeu del entrant
// es la suma de todas ellas, y todas reciben la velocity de esa suma frente al
// valor cacheado antes de este snapshot.
// Las entradas sin combinación no tienen clave: velocity 0 y no se cachean.
func (c *Calculator) Enrich(ctx context.Context, snap domain.PoolSnapshot) ([]domain.DerivedEntry, error) {
	out := make([]domain.DerivedEntry, len(snap.Entries))
	if len(snap.Entries) == 0 {
		return out, nil
	}

	obs := make([]domain.StakeObservation, 0, len(snap.Entries))
	sums := make([]decimal.Decimal, 0, len(snap.Entries))
	byLead := make(map[domain.Identifier]int, len(snap.Entries))
	idx := make([]int, len(snap.Entries)) // observación de cada entrada, -1 si no tiene
	for i, e := range snap.Entries {
		lead := e.Combination.Lead()
		if lead == "" {
			idx[i] = -1
			continue
		}
		j, ok := byLead[lead]
		if !ok {
			j = len(obs)
			byLead[lead] = j
			obs = append(obs, domain.StakeObservation{
				Key: domain.EntrantKey{Race: snap.Race, Contest: snap.Contest, Combination: lead},
			})
			sums = append(sums, decimal.Zero)
		}
		sums[j] = sums[j].Add(decimal.NewFromFloat(e.Stake))
		idx[i] = j
	}
	for j := range obs {
		obs[j].Amount = sums[j].InexactFloat64()
	}

	priors, err := c.store.Observe(ctx, obs)
	if err != nil {
		return nil, fmt.Errorf("signal.Enrich: %w", err)
	}

	vel := make([]float64, len(snap.Entries))
	for i, j := range idx {
		if j < 0 || !priors[j].Found {
			continue
		}
		vel[i] = Velocity(obs[j].Amount, priors[j].Amount)
	}

	for i, e := range snap.Entries {
		out[i] = domain.DerivedEntry{
			Combination: e.Combination,
			Stake:       e.Stake,
			Velocity:    vel[i],
			MarketShare: MarketShare(e.Stake, snap.Total),
		}
	}
	return out, nil
}

// Velocity es current − previous redondeado a 2 decimales.
func Velocity(current, previous float64) float64 {
	v, _ := decimal.NewFromFloat(current).Sub(decimal.NewFromFloat(previous)).Round(places).Float64()
	return v
}

// MarketShare es stake / total × 100 redondeado a 2 decimales; 0 si total <= 0.
func MarketShare(stake, total float64) float64 {
	if total <= 0 {
		return 0
	}
	s, _ := decimal.NewFromFloat(stake).
		Mul(hundred).
		Div(decimal.NewFromFloat(total)).
		Round(places).
		Float64()
	return s
}
