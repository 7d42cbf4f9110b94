package restapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nightshuttle.campusgo.org/internal/clock"
	"nightshuttle.campusgo.org/internal/schedule"
)

func TestStatusHandlerRequiresValidApiKey(t *testing.T) {
	api := createTestApi(t, clock.NewMockClock(testEvening))

	resp, model := serveEndpoint(t, api, http.MethodGet, "/api/shuttle/status.json?key=invalid", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, model.Code)
	assert.Equal(t, "permission denied", model.Text)
}

func TestStatusHandlerRunning(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC))
	api := createTestApi(t, mockClock)

	resp, model := serveEndpoint(t, api, http.MethodGet, "/api/shuttle/status.json?key=TEST", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, mockClock.NowUnixMilli(), model.CurrentTime)

	entry := entryOf(t, model)
	assert.Equal(t, "running", entry["state"])
	assert.Equal(t, "12:00 AM", entry["nextDeparture"])
}

func TestStatusHandlerBreak(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2026, 3, 15, 2, 15, 0, 0, time.UTC))
	api := createTestApi(t, mockClock)

	resp, model := serveEndpoint(t, api, http.MethodGet, "/api/shuttle/status.json?key=TEST", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entry := entryOf(t, model)
	assert.Equal(t, "break", entry["state"])
	assert.Equal(t, "3:00 AM", entry["resumesAt"])
}

func TestStatusHandlerEnded(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	api := createTestApi(t, mockClock)

	_, model := serveEndpoint(t, api, http.MethodGet, "/api/shuttle/status.json?key=TEST", nil)

	entry := entryOf(t, model)
	assert.Equal(t, "ended", entry["state"])
	assert.Equal(t, "10:00 PM", entry["resumesAt"])
}

func TestSlotsHandler(t *testing.T) {
	api := createTestApi(t, clock.NewMockClock(testEvening))

	resp, model := serveEndpoint(t, api, http.MethodGet, "/api/shuttle/slots.json?key=TEST", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := listOf(t, model)
	// Default config: hourly 22:00 through 06:00
	require.Len(t, list, 9)

	first := list[0].(map[string]any)
	assert.Equal(t, "22:00", first["time"])
	assert.Equal(t, "10:00 PM", first["label"])
	assert.Equal(t, "active", first["status"])

	// The default 02:00-03:00 maintenance break marks its slot stopped
	var stoppedTimes []string
	for _, item := range list {
		slot := item.(map[string]any)
		if slot["status"] == "stopped" {
			stoppedTimes = append(stoppedTimes, slot["time"].(string))
			assert.Equal(t, "Maintenance break", slot["reason"])
		}
	}
	assert.Equal(t, []string{"02:00"}, stoppedTimes)
}

func TestScheduleHandlerReturnsDefault(t *testing.T) {
	api := createTestApi(t, clock.NewMockClock(testEvening))

	resp, model := serveEndpoint(t, api, http.MethodGet, "/api/shuttle/schedule.json?key=TEST", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entry := entryOf(t, model)
	hours := entry["operatingHours"].(map[string]any)
	assert.Equal(t, "22:00", hours["startTime"])
	assert.Equal(t, "06:00", hours["endTime"])
	assert.Equal(t, true, hours["overnight"])
}

func TestUpdateScheduleRecomputesOvernight(t *testing.T) {
	api := createTestApi(t, clock.NewMockClock(testEvening))

	cfg := schedule.Default()
	cfg.Hours.StartTime = "18:00"
	cfg.Hours.EndTime = "23:00"
	cfg.Hours.Overnight = true // stale derived value from the client

	resp, model := serveEndpoint(t, api, http.MethodPut, "/api/shuttle/schedule.json?key=TEST", cfg)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entry := entryOf(t, model)
	hours := entry["operatingHours"].(map[string]any)
	assert.Equal(t, false, hours["overnight"])

	// The mutation persisted
	_, model = serveEndpoint(t, api, http.MethodGet, "/api/shuttle/schedule.json?key=TEST", nil)
	hours = entryOf(t, model)["operatingHours"].(map[string]any)
	assert.Equal(t, "18:00", hours["startTime"])
	assert.Equal(t, false, hours["overnight"])
}

func TestUpdateScheduleRejectsInvalidConfig(t *testing.T) {
	api := createTestApi(t, clock.NewMockClock(testEvening))

	cfg := schedule.Default()
	cfg.FrequencyMinutes = 7

	resp, _ := serveEndpoint(t, api, http.MethodPut, "/api/shuttle/schedule.json?key=TEST", cfg)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestStopsHandler(t *testing.T) {
	api := createTestApi(t, clock.NewMockClock(testEvening))

	resp, model := serveEndpoint(t, api, http.MethodGet, "/api/shuttle/stops.json?key=TEST", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := listOf(t, model)
	require.Len(t, list, 8)

	for _, item := range list {
		stop := item.(map[string]any)
		if stop["name"] == "Library" {
			assert.Equal(t, true, stop["shared"])
			assert.Len(t, stop["buses"], 2)
		}
	}
}

func TestHealthHandler(t *testing.T) {
	api := createTestApi(t, clock.NewMockClock(testEvening))

	code, status := serveEndpointRaw(t, api, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", status)
}
