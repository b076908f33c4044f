package pmu

import (
	"errors"
	"fmt"
)

// ErrTransport agrupa timeouts, conexiones rechazadas, DNS y bodies ilegibles.
var ErrTransport = errors.New("upstream transport failure")

// ErrRejected es un status no-2xx de la API.
var ErrRejected = errors.New("upstream rejected request")

// TransportError es un fallo de red al llamar a la API.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// StatusError es una respuesta con status no-2xx.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: status %d", e.URL, e.Code)
	}
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrRejected }
