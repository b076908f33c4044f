package domain

import "fmt"

// EntrantKey identifica la serie de enjeux de una combinación dentro de una course.
type EntrantKey struct {
	Race        int
	Contest     int
	Combination Identifier // participante líder de la combinación
}

// String devuelve la forma R1C3#7, útil para logs y como clave de almacenamiento.
func (k EntrantKey) String() string {
	return fmt.Sprintf("R%dC%d#%s", k.Race, k.Contest, k.Combination)
}

// StakeObservation es el enjeu observado de un entrant en un poll.
type StakeObservation struct {
	Key    EntrantKey
	Amount float64
}

// PriorStake es lo que había en la cache para una clave justo antes de observarla.
type PriorStake struct {
	Amount float64
	Found  bool
}
