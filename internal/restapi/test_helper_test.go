package restapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"nightshuttle.campusgo.org/internal/app"
	"nightshuttle.campusgo.org/internal/appconf"
	"nightshuttle.campusgo.org/internal/clock"
	"nightshuttle.campusgo.org/internal/fleet"
	"nightshuttle.campusgo.org/internal/ledger"
	"nightshuttle.campusgo.org/internal/metrics"
	"nightshuttle.campusgo.org/internal/models"
	"nightshuttle.campusgo.org/internal/store"
)

// testEvening is 23:00 inside the default 22:00-06:00 window.
var testEvening = time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)

func createTestApi(t *testing.T, c clock.Clock) *RestAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := store.NewMemoryStore()

	application := &app.Application{
		Config: appconf.Config{
			Env:     appconf.Development,
			APIKeys: []string{"TEST"},
		},
		Logger:   logger,
		Clock:    c,
		Metrics:  metrics.New(),
		Store:    s,
		Registry: fleet.DefaultRegistry(),
		Ledger:   ledger.New(s, c, logger),
	}
	return New(application)
}

func serveEndpoint(t *testing.T, api *RestAPI, method, path string, body any) (*http.Response, models.ResponseModel) {
	t.Helper()

	server := httptest.NewServer(api.Routes())
	defer server.Close()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	var model models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&model))
	return resp, model
}

// entryOf extracts data.entry from a decoded envelope.
func entryOf(t *testing.T, model models.ResponseModel) map[string]any {
	t.Helper()
	data, ok := model.Data.(map[string]any)
	require.True(t, ok, "response data is not an object")
	entry, ok := data["entry"].(map[string]any)
	require.True(t, ok, "response data has no entry object")
	return entry
}

// listOf extracts data.list from a decoded envelope.
func listOf(t *testing.T, model models.ResponseModel) []any {
	t.Helper()
	data, ok := model.Data.(map[string]any)
	require.True(t, ok, "response data is not an object")
	list, ok := data["list"].([]any)
	require.True(t, ok, "response data has no list array")
	return list
}

// serveEndpointRaw fetches a non-envelope endpoint and returns the
// status code and health status field.
func serveEndpointRaw(t *testing.T, api *RestAPI, path string) (int, string) {
	t.Helper()

	server := httptest.NewServer(api.Routes())
	defer server.Close()

	resp, err := http.Get(server.URL + path)
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	return resp.StatusCode, health.Status
}

func onboardRider(t *testing.T, api *RestAPI, stop string, bus fleet.BusID) {
	t.Helper()
	resp, _ := serveEndpoint(t, api, http.MethodPost, "/api/shuttle/transport.json?key=TEST",
		onboardRequest{HomeStop: stop, Bus: bus})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
