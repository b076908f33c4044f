package pmu

import "github.com/alejandrodnm/turfflux/internal/domain"

// DTOs raw de la API turfinfo. Solo se usan dentro de este paquete.

// combinaisonsResponse es la respuesta de GET .../combinaisons/{kind}.
type combinaisonsResponse struct {
	TotalEnjeu        float64           `json:"totalEnjeu"`
	ListeCombinaisons []combinaisonItem `json:"listeCombinaisons"`
}

// combinaisonItem es una combinación con su enjeu.
type combinaisonItem struct {
	Combinaison domain.Combination `json:"combinaison"`
	TotalEnjeu  float64            `json:"totalEnjeu"`
}
