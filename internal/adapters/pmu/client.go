package pmu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultProbeTimeout   = 3 * time.Second
	defaultRatePerSec     = 10
	defaultBurst          = 5
	defaultUserAgent      = "Mozilla/5.0"

	// máximo de body que guardamos en un StatusError
	maxErrorBody = 512
)

// Options es la identidad y los límites de las llamadas salientes.
// Se pasa explícitamente al Client; no hay estado global de headers.
type Options struct {
	UserAgent      string
	Referer        string
	Specialisation string // query ?specialisation=, vacío = no enviar
	RequestTimeout time.Duration
	ProbeTimeout   time.Duration
	RatePerSec     float64
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = defaultRequestTimeout
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = defaultProbeTimeout
	}
	if o.RatePerSec <= 0 {
		o.RatePerSec = defaultRatePerSec
	}
	return o
}

// Client es el HTTP client de la API turfinfo con rate limiting.
// No reintenta: los fallbacks son responsabilidad del resolver y del scanner.
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
}

// NewClient crea un Client con las opciones dadas (los ceros toman defaults).
func NewClient(opts Options) *Client {
	opts = opts.withDefaults()
	return &Client{
		// el timeout real lo pone el contexto de cada llamada
		http:    &http.Client{},
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), defaultBurst),
	}
}

// Options devuelve las opciones efectivas del client.
func (c *Client) Options() Options {
	return c.opts
}

// get hace un GET con timeout propio y decodifica el JSON en out.
// Si out es *json.RawMessage, el body se devuelve tal cual.
func (c *Client) get(ctx context.Context, timeout time.Duration, rawURL string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{URL: rawURL, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.withQuery(rawURL), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)
	if c.opts.Referer != "" {
		req.Header.Set("Referer", c.opts.Referer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{URL: rawURL, Code: resp.StatusCode, Body: string(body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{URL: rawURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// withQuery añade ?specialisation= si está configurado.
func (c *Client) withQuery(rawURL string) string {
	if c.opts.Specialisation == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("specialisation", c.opts.Specialisation)
	u.RawQuery = q.Encode()
	return u.String()
}
