package pmu

import (
	"context"
	"encoding/json"
	"fmt"
)

// FetchProgramme devuelve el programa completo del día tal cual lo da la API.
func (c *Client) FetchProgramme(ctx context.Context, base, date string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, c.opts.RequestTimeout, programmeURL(base, date), &raw); err != nil {
		return nil, fmt.Errorf("pmu.FetchProgramme: %w", err)
	}
	return raw, nil
}

// FetchParticipants devuelve los partants de una course.
func (c *Client) FetchParticipants(ctx context.Context, base, date string, race, contest int) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, c.opts.RequestTimeout, participantsURL(base, date, race, contest), &raw); err != nil {
		return nil, fmt.Errorf("pmu.FetchParticipants: %w", err)
	}
	return raw, nil
}

// Probe comprueba que base responde 2xx en una ruta conocida.
func (c *Client) Probe(ctx context.Context, base, date string) error {
	if err := c.get(ctx, c.opts.ProbeTimeout, programmeURL(base, date), nil); err != nil {
		return fmt.Errorf("pmu.Probe: %w", err)
	}
	return nil
}
