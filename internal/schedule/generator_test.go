package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overnightConfig() Config {
	cfg := Config{
		OrgID:   "test-org",
		OrgName: "Test Org",
		Hours: OperatingHours{
			StartTime:  "22:00",
			EndTime:    "06:00",
			ActiveDays: [7]bool{true, true, true, true, true, true, true},
		},
		FrequencyMinutes: 60,
		Buses: []Bus{
			{Name: "Shuttle A", Capacity: 50},
			{Name: "Shuttle B", Capacity: 50},
		},
	}
	if err := cfg.Normalize(); err != nil {
		panic(err)
	}
	return cfg
}

func slotTimes(slots []Slot) []string {
	times := make([]string, len(slots))
	for i, s := range slots {
		times[i] = s.Time
	}
	return times
}

func TestGenerateOvernightHourly(t *testing.T) {
	slots, err := Generate(overnightConfig(), NoOccupancy)
	require.NoError(t, err)

	expected := []string{"22:00", "23:00", "00:00", "01:00", "02:00", "03:00", "04:00", "05:00", "06:00"}
	assert.Equal(t, expected, slotTimes(slots))

	for _, s := range slots {
		assert.Equal(t, SlotActive, s.Status)
		assert.Equal(t, 100, s.TotalSeats)
		assert.Equal(t, 100, s.AvailableSeats)
	}

	assert.Equal(t, "10:00 PM", slots[0].Label)
	assert.Equal(t, "12:00 AM", slots[2].Label)
	assert.Equal(t, "6:00 AM", slots[8].Label)
}

func TestGenerateRejectsNonPositiveFrequency(t *testing.T) {
	cfg := overnightConfig()

	cfg.FrequencyMinutes = 0
	_, err := Generate(cfg, NoOccupancy)
	assert.Error(t, err)

	cfg.FrequencyMinutes = -30
	_, err = Generate(cfg, NoOccupancy)
	assert.Error(t, err)
}

func TestGenerateMarksStoppedPeriods(t *testing.T) {
	cfg := overnightConfig()
	cfg.StoppedPeriods = []StoppedPeriod{
		{ID: "sp-1", StartTime: "02:00", EndTime: "03:00", Reason: "Maintenance break"},
	}

	slots, err := Generate(cfg, NoOccupancy)
	require.NoError(t, err)
	require.Len(t, slots, 9)

	for _, s := range slots {
		if s.Time == "02:00" {
			assert.Equal(t, SlotStopped, s.Status)
			assert.Equal(t, "Maintenance break", s.Reason)
			assert.Equal(t, 0, s.AvailableSeats)
		} else {
			assert.Equal(t, SlotActive, s.Status, "slot %s", s.Time)
			assert.Empty(t, s.Reason)
		}
	}
}

func TestGenerateStoppedPeriodDefaultReason(t *testing.T) {
	cfg := overnightConfig()
	cfg.StoppedPeriods = []StoppedPeriod{
		{ID: "sp-1", StartTime: "02:00", EndTime: "03:00"},
	}

	slots, err := Generate(cfg, NoOccupancy)
	require.NoError(t, err)

	for _, s := range slots {
		if s.Time == "02:00" {
			assert.Equal(t, "Break time", s.Reason)
		}
	}
}

func TestGenerateFirstMatchingPeriodWins(t *testing.T) {
	cfg := overnightConfig()
	cfg.StoppedPeriods = []StoppedPeriod{
		{ID: "sp-1", StartTime: "01:00", EndTime: "04:00", Reason: "Deep clean"},
		{ID: "sp-2", StartTime: "02:00", EndTime: "03:00", Reason: "Driver swap"},
	}

	slots, err := Generate(cfg, NoOccupancy)
	require.NoError(t, err)

	for _, s := range slots {
		if s.Time == "02:00" {
			assert.Equal(t, "Deep clean", s.Reason)
		}
	}
}

func TestGenerateOvernightStoppedPeriod(t *testing.T) {
	cfg := overnightConfig()
	cfg.StoppedPeriods = []StoppedPeriod{
		{ID: "sp-1", StartTime: "23:30", EndTime: "00:30", Reason: "Refuel"},
	}
	cfg.FrequencyMinutes = 30
	require.NoError(t, cfg.Normalize())

	slots, err := Generate(cfg, NoOccupancy)
	require.NoError(t, err)

	stopped := map[string]bool{}
	for _, s := range slots {
		if s.Status == SlotStopped {
			stopped[s.Time] = true
		}
	}
	// Membership is start <= t < end, wrapped across midnight
	assert.Equal(t, map[string]bool{"23:30": true, "00:00": true}, stopped)
}

func TestGenerateIncludesEndBoundaryWithUnevenFrequency(t *testing.T) {
	cfg := overnightConfig()
	cfg.FrequencyMinutes = 90
	require.NoError(t, cfg.Normalize())

	slots, err := Generate(cfg, NoOccupancy)
	require.NoError(t, err)

	// Span is 480 minutes; 90 does not divide it, so one extra slot
	// lands exactly on the end time.
	expected := []string{"22:00", "23:30", "01:00", "02:30", "04:00", "05:30", "06:00"}
	assert.Equal(t, expected, slotTimes(slots))
}

func TestGenerateSameDayWindow(t *testing.T) {
	cfg := overnightConfig()
	cfg.Hours.StartTime = "18:00"
	cfg.Hours.EndTime = "23:00"
	require.NoError(t, cfg.Normalize())
	assert.False(t, cfg.Hours.Overnight)

	slots, err := Generate(cfg, NoOccupancy)
	require.NoError(t, err)

	assert.Equal(t, []string{"18:00", "19:00", "20:00", "21:00", "22:00", "23:00"}, slotTimes(slots))
}

func TestGenerateFirstAndLastSlotsMatchWindow(t *testing.T) {
	for _, freq := range Frequencies {
		cfg := overnightConfig()
		cfg.FrequencyMinutes = freq
		require.NoError(t, cfg.Normalize())

		slots, err := Generate(cfg, NoOccupancy)
		require.NoError(t, err)
		require.NotEmpty(t, slots)

		assert.Equal(t, cfg.Hours.StartTime, slots[0].Time, "freq %d", freq)
		assert.Equal(t, cfg.Hours.EndTime, slots[len(slots)-1].Time, "freq %d", freq)
	}
}

func TestHashOccupancyIsDeterministicAndBounded(t *testing.T) {
	cfg := overnightConfig()

	first := HashOccupancy(cfg, "23:00")
	second := HashOccupancy(cfg, "23:00")
	assert.Equal(t, first, second)

	for _, slotTime := range []string{"22:00", "23:00", "00:00", "03:00"} {
		taken := HashOccupancy(cfg, slotTime)
		assert.GreaterOrEqual(t, taken, 0)
		assert.LessOrEqual(t, taken, cfg.TotalSeats())
	}
}

func TestGenerateClampsOccupancy(t *testing.T) {
	cfg := overnightConfig()

	slots, err := Generate(cfg, func(Config, string) int { return 1000 })
	require.NoError(t, err)
	for _, s := range slots {
		assert.Equal(t, 0, s.AvailableSeats)
	}

	slots, err = Generate(cfg, func(Config, string) int { return -5 })
	require.NoError(t, err)
	for _, s := range slots {
		assert.Equal(t, s.TotalSeats, s.AvailableSeats)
	}
}
