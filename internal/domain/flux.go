package domain

import "time"

// StatusNoData es el status devuelto cuando ningún pool tiene enjeux todavía.
const StatusNoData = "no_data"

// DerivedEntry es una entrada del pool enriquecida con velocity y market share.
type DerivedEntry struct {
	Combination Combination `json:"combinaison"`
	Stake       float64     `json:"totalEnjeu"`
	Velocity    float64     `json:"velocity"`
	MarketShare float64     `json:"market_share"`
}

// FluxResult es la respuesta de flux que consume el dashboard.
// Si no hay datos, Status = StatusNoData y Entries está vacío (nunca nil).
type FluxResult struct {
	Total     float64        `json:"totalEnjeu"`
	Entries   []DerivedEntry `json:"listeCombinaisons"`
	Kind      PoolKind       `json:"pariType,omitempty"`
	Timestamp int64          `json:"timestamp,omitempty"`
	Status    string         `json:"status,omitempty"`
}

// HasData indica si el resultado viene de un pool aceptado.
func (r FluxResult) HasData() bool {
	return r.Status != StatusNoData && len(r.Entries) > 0
}

// NoDataResult construye el resultado vacío de flux.
func NoDataResult() FluxResult {
	return FluxResult{Entries: []DerivedEntry{}, Status: StatusNoData}
}

// NewFluxResult construye el resultado de un pool aceptado, sellado con at.
func NewFluxResult(snap PoolSnapshot, entries []DerivedEntry, at time.Time) FluxResult {
	if entries == nil {
		entries = []DerivedEntry{}
	}
	return FluxResult{
		Total:     snap.Total,
		Entries:   entries,
		Kind:      snap.Kind,
		Timestamp: at.UnixMilli(),
	}
}
