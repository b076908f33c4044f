package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alejandrodnm/turfflux/internal/domain"
	"github.com/alejandrodnm/turfflux/internal/flux"
)

// Querier son las tres consultas que expone el servicio de flux.
type Querier interface {
	Programme(ctx context.Context, date string) (json.RawMessage, error)
	Participants(ctx context.Context, date string, race, contest int) (json.RawMessage, error)
	Flux(ctx context.Context, race, contest int) (domain.FluxResult, error)
}

// Handler adapta Querier a rutas HTTP para el dashboard.
type Handler struct {
	svc Querier
}

// NewHandler crea un Handler sobre svc.
func NewHandler(svc Querier) *Handler {
	return &Handler{svc: svc}
}

// GetProgramme devuelve el programa del día.
// GET /programme/:date
func (h *Handler) GetProgramme(c *gin.Context) {
	raw, err := h.svc.Programme(c.Request.Context(), c.Param("date"))
	if err != nil {
		h.fail(c, "GetProgramme", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// GetParticipants devuelve los partants de una course.
// GET /participants/:date/:race/:contest
func (h *Handler) GetParticipants(c *gin.Context) {
	race, contest, ok := courseParams(c)
	if !ok {
		return
	}
	raw, err := h.svc.Participants(c.Request.Context(), c.Param("date"), race, contest)
	if err != nil {
		h.fail(c, "GetParticipants", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// GetFlux devuelve velocity y market share de la course de hoy.
// "Sin datos" es un 200 con status no_data.
// GET /flux/:race/:contest
func (h *Handler) GetFlux(c *gin.Context) {
	race, contest, ok := courseParams(c)
	if !ok {
		return
	}
	res, err := h.svc.Flux(c.Request.Context(), race, contest)
	if err != nil {
		h.fail(c, "GetFlux", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// fail traduce un error del servicio a status HTTP.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, flux.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status != http.StatusBadRequest {
		slog.Error(op+" failed", "request_id", requestID(c), "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// courseParams lee :race y :contest; acepta "1" y también "R1"/"C3".
func courseParams(c *gin.Context) (race, contest int, ok bool) {
	race, errR := parseNum(c.Param("race"), 'R')
	contest, errC := parseNum(c.Param("contest"), 'C')
	if errR != nil || errC != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "race and contest must be numbers"})
		return 0, 0, false
	}
	return race, contest, true
}

func parseNum(s string, prefix byte) (int, error) {
	if len(s) > 0 && (s[0] == prefix || s[0] == prefix+('a'-'A')) {
		s = s[1:]
	}
	return strconv.Atoi(s)
}
