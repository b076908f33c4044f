package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/turfflux/internal/api"
	"github.com/alejandrodnm/turfflux/internal/domain"
	"github.com/alejandrodnm/turfflux/internal/flux"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeQuerier struct {
	fluxRes   domain.FluxResult
	fluxErr   error
	progErr   error
	gotRace   int
	gotCourse int
}

func (f *fakeQuerier) Programme(_ context.Context, date string) (json.RawMessage, error) {
	if f.progErr != nil {
		return nil, f.progErr
	}
	return json.RawMessage(fmt.Sprintf(`{"date":%q}`, date)), nil
}

func (f *fakeQuerier) Participants(_ context.Context, date string, race, contest int) (json.RawMessage, error) {
	f.gotRace, f.gotCourse = race, contest
	return json.RawMessage(`{"participants":[]}`), nil
}

func (f *fakeQuerier) Flux(_ context.Context, race, contest int) (domain.FluxResult, error) {
	f.gotRace, f.gotCourse = race, contest
	return f.fluxRes, f.fluxErr
}

func serve(t *testing.T, q api.Querier, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	api.NewRouter(api.NewHandler(q)).ServeHTTP(rec, req)
	return rec
}

func TestGetFlux_NoDataIs200(t *testing.T) {
	q := &fakeQuerier{fluxRes: domain.NoDataResult()}
	rec := serve(t, q, "/flux/1/3")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalEnjeu":0,"listeCombinaisons":[],"status":"no_data"}`, rec.Body.String())
	assert.Equal(t, 1, q.gotRace)
	assert.Equal(t, 3, q.gotCourse)
}

func TestGetFlux_WithData(t *testing.T) {
	q := &fakeQuerier{fluxRes: domain.FluxResult{
		Total: 500,
		Kind:  "E_TRIO",
		Entries: []domain.DerivedEntry{
			{Combination: domain.Combination{"4", "1", "2"}, Stake: 300, Velocity: 25.5, MarketShare: 60},
		},
		Timestamp: 1792334400000,
	}}
	rec := serve(t, q, "/flux/R2/C5")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"totalEnjeu": 500,
		"pariType": "E_TRIO",
		"timestamp": 1792334400000,
		"listeCombinaisons": [
			{"combinaison":[4,1,2],"totalEnjeu":300,"velocity":25.5,"market_share":60}
		]
	}`, rec.Body.String())
	assert.Equal(t, 2, q.gotRace)
	assert.Equal(t, 5, q.gotCourse)
}

func TestGetFlux_BadParams(t *testing.T) {
	rec := serve(t, &fakeQuerier{}, "/flux/x/3")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetFlux_InvalidInputFromService(t *testing.T) {
	q := &fakeQuerier{fluxErr: fmt.Errorf("%w: race", flux.ErrInvalidInput)}
	rec := serve(t, q, "/flux/0/3")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProgramme_FailureIs502(t *testing.T) {
	q := &fakeQuerier{progErr: errors.New("GET http://x/programme/18102026: status 503")}
	rec := serve(t, q, "/programme/18102026")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "status 503")
}

func TestGetProgramme_Passthrough(t *testing.T) {
	rec := serve(t, &fakeQuerier{}, "/programme/18102026")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"date":"18102026"}`, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestGetParticipants(t *testing.T) {
	q := &fakeQuerier{}
	rec := serve(t, q, "/participants/18102026/1/4")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, q.gotCourse)
}

func TestRequestID(t *testing.T) {
	rec := serve(t, &fakeQuerier{fluxRes: domain.NoDataResult()}, "/flux/1/1")
	_, err := uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}
