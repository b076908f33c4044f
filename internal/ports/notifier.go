package ports

import (
	"context"

	"github.com/alejandrodnm/turfflux/internal/domain"
)

// Notifier presenta el resultado de un poll de flux al usuario.
type Notifier interface {
	// Notify muestra las combinaciones con su velocity y market share.
	// En la implementación de consola, imprime una tabla formateada.
	Notify(ctx context.Context, race, contest int, result domain.FluxResult) error
}
