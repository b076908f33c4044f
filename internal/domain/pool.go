package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PoolKind es el tipo de apuesta tal como lo nombra la API (E_SIMPLE_GAGNANT, E_TRIO...).
type PoolKind string

// Identifier es un número de participante. La API lo devuelve a veces como
// número JSON y a veces como string, así que aceptamos ambos.
type Identifier string

// UnmarshalJSON acepta 7, "7" y 7.0 indistintamente.
func (id *Identifier) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("domain.Identifier: %w", err)
		}
		*id = Identifier(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("domain.Identifier: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = Identifier(strconv.FormatInt(i, 10))
		return nil
	}
	// fuera del rango de int64 la conversión no está definida: se queda el texto tal cual
	if f, err := n.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<63 {
		*id = Identifier(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*id = Identifier(n.String())
	return nil
}

// MarshalJSON devuelve los identificadores numéricos como número JSON,
// igual que los manda la API.
func (id Identifier) MarshalJSON() ([]byte, error) {
	leadingZero := len(id) > 1 && id[0] == '0'
	if _, err := strconv.ParseUint(string(id), 10, 64); err == nil && !leadingZero {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Combination es la lista de participantes de una entrada del pool.
// En apuestas simples tiene un solo elemento; en trio, couplé... varios.
type Combination []Identifier

// Lead devuelve el primer participante de la combinación, o "" si está vacía.
func (c Combination) Lead() Identifier {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// PoolEntry es una combinación y su enjeu acumulado.
type PoolEntry struct {
	Combination Combination
	Stake       float64
}

// PoolSnapshot es una lectura puntual de un pool para una course.
type PoolSnapshot struct {
	Race    int
	Contest int
	Kind    PoolKind
	Total   float64
	Entries []PoolEntry
}

// Usable indica si el snapshot tiene datos con los que calcular señales.
func (p PoolSnapshot) Usable() bool {
	return p.Total > 0 && len(p.Entries) > 0
}

// EmptySnapshot devuelve el resultado "pool todavía no abierto" para una course.
func EmptySnapshot(race, contest int) PoolSnapshot {
	return PoolSnapshot{Race: race, Contest: contest, Entries: []PoolEntry{}}
}
