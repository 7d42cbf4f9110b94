// Package schedule holds the operator-defined service configuration and
// derives departure slots and live service status from it. Everything
// here is a pure function of (config, now); freshness comes from the
// caller re-invoking these on demand rather than from any background
// scheduler.
package schedule

import (
	"fmt"

	"nightshuttle.campusgo.org/internal/timeutil"
)

// Frequencies is the set of allowed slot step sizes, in minutes.
var Frequencies = []int{15, 20, 30, 45, 60, 90, 120}

// OperatingHours is the nightly service window. Overnight is derived
// from the parsed times on every mutation, never taken from input.
type OperatingHours struct {
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Overnight  bool    `json:"overnight"`
	ActiveDays [7]bool `json:"activeDays"`
}

// StoppedPeriod is a recurring break inside the operating window during
// which no slots are bookable. It may itself span midnight.
type StoppedPeriod struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
}

// DefaultStoppedReason is used when a stopped period has no reason set.
const DefaultStoppedReason = "Break time"

// Bus is one vehicle in the fleet, as the operator configures it.
type Bus struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Config is the operator-controlled schedule configuration. It is
// persisted whole on every mutation.
type Config struct {
	OrgID            string          `json:"orgId"`
	OrgName          string          `json:"orgName"`
	Hours            OperatingHours  `json:"operatingHours"`
	StoppedPeriods   []StoppedPeriod `json:"stoppedPeriods"`
	FrequencyMinutes int             `json:"frequencyMinutes"`
	Buses            []Bus           `json:"buses"`
}

// Default returns the organization preset used when no configuration
// has been persisted yet: a 22:00-06:00 overnight window with a single
// 02:00-03:00 maintenance break, 60-minute frequency, and two 50-seat
// buses.
func Default() Config {
	cfg := Config{
		OrgID:   "campus-night-shuttle",
		OrgName: "Campus Night Shuttle",
		Hours: OperatingHours{
			StartTime:  "22:00",
			EndTime:    "06:00",
			ActiveDays: [7]bool{true, true, true, true, true, true, true},
		},
		StoppedPeriods: []StoppedPeriod{
			{ID: "sp-1", StartTime: "02:00", EndTime: "03:00", Reason: "Maintenance break"},
		},
		FrequencyMinutes: 60,
		Buses: []Bus{
			{Name: "Shuttle A", Capacity: 50},
			{Name: "Shuttle B", Capacity: 50},
		},
	}
	// Default is static and well-formed; Normalize only derives Overnight.
	_ = cfg.Normalize()
	return cfg
}

// Normalize validates the configuration and recomputes derived fields.
// Overnight is always overwritten with endMinutes <= startMinutes; it is
// never accepted as independent input.
func (c *Config) Normalize() error {
	start, err := timeutil.TimeToMinutes(c.Hours.StartTime)
	if err != nil {
		return fmt.Errorf("operating hours start: %w", err)
	}
	end, err := timeutil.TimeToMinutes(c.Hours.EndTime)
	if err != nil {
		return fmt.Errorf("operating hours end: %w", err)
	}
	c.Hours.Overnight = end <= start

	if !validFrequency(c.FrequencyMinutes) {
		return fmt.Errorf("frequency %d minutes is not one of %v", c.FrequencyMinutes, Frequencies)
	}

	for i, p := range c.StoppedPeriods {
		if _, err := timeutil.TimeToMinutes(p.StartTime); err != nil {
			return fmt.Errorf("stopped period %d start: %w", i, err)
		}
		if _, err := timeutil.TimeToMinutes(p.EndTime); err != nil {
			return fmt.Errorf("stopped period %d end: %w", i, err)
		}
	}

	for i, b := range c.Buses {
		if b.Capacity < 0 {
			return fmt.Errorf("bus %d (%s): negative capacity", i, b.Name)
		}
	}

	return nil
}

// TotalSeats is the sum of all bus capacities.
func (c *Config) TotalSeats() int {
	total := 0
	for _, b := range c.Buses {
		total += b.Capacity
	}
	return total
}

func validFrequency(f int) bool {
	for _, allowed := range Frequencies {
		if f == allowed {
			return true
		}
	}
	return false
}

// stoppedReason reports whether the minute t falls inside any stopped
// period, returning the first matching period's reason in config order.
// A period is same-day when start < end (membership start <= t < end)
// and overnight when start >= end (membership t >= start OR t < end).
func (c *Config) stoppedReason(t int) (string, string, bool) {
	for _, p := range c.StoppedPeriods {
		start, err := timeutil.TimeToMinutes(p.StartTime)
		if err != nil {
			continue
		}
		end, err := timeutil.TimeToMinutes(p.EndTime)
		if err != nil {
			continue
		}

		var inside bool
		if start < end {
			inside = t >= start && t < end
		} else {
			inside = t >= start || t < end
		}
		if inside {
			reason := p.Reason
			if reason == "" {
				reason = DefaultStoppedReason
			}
			return reason, p.EndTime, true
		}
	}
	return "", "", false
}
