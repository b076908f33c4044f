package flux

import "time"

// SetClock reemplaza el reloj del servicio; solo para tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }
