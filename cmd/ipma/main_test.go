package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/ipma-weather/internal/domain"
	"github.com/couchcryptid/ipma-weather/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtures = map[string]string{
	"/distrits-islands.json": `{"data":[
	  {"idRegiao":1,"idAreaAviso":"LSB","idConcelho":6,"globalIdLocal":1110600,"latitude":"38.7660","idDistrito":11,"local":"Lisboa","longitude":"-9.1286","idTipoLocal":"D"},
	  {"idRegiao":2,"idAreaAviso":"AOR","globalIdLocal":2310300,"latitude":"37.7415","idDistrito":23,"local":"Ponta Delgada","longitude":"-25.6677","idTipoLocal":"I"}
	]}`,
	"/weather-type-classe.json":     `{"data":[{"idWeatherType":2,"descIdWeatherTypeEN":"Partly cloudy","descIdWeatherTypePT":"Céu pouco nublado"}]}`,
	"/wind-speed-daily-classe.json": `{"data":[{"classWindSpeed":2,"descClassWindSpeedDailyEN":"Moderate","descClassWindSpeedDailyPT":"Moderado"}]}`,
	"/forecast/meteorology/cities/daily/1110600.json": `{"data":[
	  {"precipitaProb":"12.0","tMin":"13","tMax":"21","predWindDir":"N","idWeatherType":2,"classWindSpeed":2,"longitude":"-9.1286","forecastDate":"2023-11-15","latitude":"38.7660","globIdLocal":1110600}
	]}`,
}

func startFakeIPMA(t *testing.T, failing bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body, ok := fixtures[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, upstream string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("IPMA_BASE_URL", upstream)
	t.Setenv("IPMA_TIMEOUT", "2s")
	t.Setenv("LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, env{
		stdout:  &stdout,
		stderr:  &stderr,
		metrics: observability.NewMetricsForTesting(),
		clock:   clockwork.NewFakeClockAt(time.Date(2023, 11, 15, 9, 0, 0, 0, time.UTC)),
	})
	return code, stdout.String(), stderr.String()
}

func TestRun_NoArgs(t *testing.T) {
	code, _, stderr := runCLI(t, "http://127.0.0.1:1")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "usage: ipma")
}

func TestRun_UnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "http://127.0.0.1:1", "radar")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, `unknown command "radar"`)
}

func TestRun_Init(t *testing.T) {
	srv := startFakeIPMA(t, false)
	code, stdout, _ := runCLI(t, srv.URL, "init")
	require.Equal(t, exitOK, code)

	var summary domain.InitSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.Equal(t, domain.InitSummary{WeatherTypes: 1, WindSpeedClasses: 1, Districts: 1, Islands: 1}, summary)
}

func TestRun_Locations(t *testing.T) {
	srv := startFakeIPMA(t, false)
	code, stdout, _ := runCLI(t, srv.URL, "locations")
	require.Equal(t, exitOK, code)

	var locations []domain.LocationResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &locations))
	require.Len(t, locations, 2)
	assert.Equal(t, "Lisboa", locations[0].Name)
	assert.Equal(t, domain.LocationIsland, locations[1].Type)
}

func TestRun_ForecastDistrict(t *testing.T) {
	srv := startFakeIPMA(t, false)
	code, stdout, _ := runCLI(t, srv.URL, "forecast", "-district", "11")
	require.Equal(t, exitOK, code)

	var days []domain.ForecastResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &days))
	require.Len(t, days, 1)
	assert.Equal(t, "Lisboa", days[0].Location)
	assert.Equal(t, "Partly cloudy", days[0].WeatherType)
	assert.Equal(t, "Moderate", days[0].WindSpeed)
	require.NotNil(t, days[0].PrecipitationProbability)
	assert.Equal(t, "12.0", *days[0].PrecipitationProbability)
}

func TestRun_ForecastUnknownIsland(t *testing.T) {
	srv := startFakeIPMA(t, false)
	code, stdout, stderr := runCLI(t, srv.URL, "forecast", "-island", "99")
	assert.Equal(t, exitError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "error: NOT_FOUND: location not found")
	assert.NotContains(t, stderr, "NOT_FOUND: NOT_FOUND")
}

func TestRun_ForecastBadFlag(t *testing.T) {
	code, _, _ := runCLI(t, "http://127.0.0.1:1", "forecast", "-district", "lisbon")
	assert.Equal(t, exitUsage, code)
}

func TestRun_UpstreamFailure(t *testing.T) {
	srv := startFakeIPMA(t, true)
	code, _, stderr := runCLI(t, srv.URL, "weather-types")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "INVALID_RESPONSE")
}

func TestRun_ExportRequiresWhat(t *testing.T) {
	code, _, stderr := runCLI(t, "http://127.0.0.1:1", "export", "-what", "radar")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "-what must be observations or forecast")
}

func TestRun_InvalidConfig(t *testing.T) {
	code, _, stderr := runCLI(t, "not a url", "locations")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "invalid IPMA_BASE_URL")
}
