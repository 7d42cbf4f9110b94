package schedule

import (
	"fmt"
	"hash/fnv"

	"nightshuttle.campusgo.org/internal/timeutil"
)

// SlotStatus marks a generated slot as bookable or inside a break.
type SlotStatus string

const (
	SlotActive  SlotStatus = "active"
	SlotStopped SlotStatus = "stopped"
)

// Slot is one scheduled departure opportunity for the current service
// night. Slots are derived on demand and never persisted.
type Slot struct {
	Time           string     `json:"time"`
	Label          string     `json:"label"`
	Status         SlotStatus `json:"status"`
	Reason         string     `json:"reason,omitempty"`
	AvailableSeats int        `json:"availableSeats"`
	TotalSeats     int        `json:"totalSeats"`
}

// OccupancyFunc reports how many seats are already taken for the slot
// at the given "HH:MM" time. It must be deterministic for a given
// (config, slotTime) pair so that generation stays reproducible.
type OccupancyFunc func(cfg Config, slotTime string) int

// NoOccupancy reports every slot as empty. Used where seat counts are
// irrelevant, such as status resolution.
func NoOccupancy(Config, string) int { return 0 }

// HashOccupancy derives a stable pseudo-occupancy from the organization
// and slot time. It stands in for a live occupancy feed while remaining
// fully deterministic under test.
func HashOccupancy(cfg Config, slotTime string) int {
	total := cfg.TotalSeats()
	if total == 0 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(cfg.OrgID))
	_, _ = h.Write([]byte(slotTime))
	return int(h.Sum32() % uint32(total+1))
}

// Generate produces the ordered departure slots for one service night.
// The sequence runs from StartTime through EndTime inclusive of both
// endpoints, stepping by FrequencyMinutes; a frequency that does not
// evenly divide the window still yields a final slot exactly at
// EndTime. Ordering follows the operating window, so an overnight
// config lists pre-midnight slots before post-midnight ones.
func Generate(cfg Config, occ OccupancyFunc) ([]Slot, error) {
	if cfg.FrequencyMinutes <= 0 {
		return nil, fmt.Errorf("frequency must be positive, got %d", cfg.FrequencyMinutes)
	}

	start, err := timeutil.TimeToMinutes(cfg.Hours.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := timeutil.TimeToMinutes(cfg.Hours.EndTime)
	if err != nil {
		return nil, err
	}

	span := end - start
	if end <= start {
		span = (timeutil.MinutesPerDay - start) + end
	}

	if occ == nil {
		occ = NoOccupancy
	}
	totalSeats := cfg.TotalSeats()

	var slots []Slot
	for offset := 0; offset <= span; offset += cfg.FrequencyMinutes {
		slots = append(slots, buildSlot(cfg, (start+offset)%timeutil.MinutesPerDay, totalSeats, occ))
	}
	// The end boundary is always included, even when the frequency does
	// not divide the span evenly. Downstream consumers rely on the last
	// slot landing exactly on EndTime.
	if span%cfg.FrequencyMinutes != 0 {
		slots = append(slots, buildSlot(cfg, end, totalSeats, occ))
	}

	return slots, nil
}

func buildSlot(cfg Config, minute int, totalSeats int, occ OccupancyFunc) Slot {
	slot := Slot{
		Time:       timeutil.MinutesToTime(minute),
		Label:      timeutil.Label(minute),
		TotalSeats: totalSeats,
	}

	if reason, _, stopped := cfg.stoppedReason(minute); stopped {
		slot.Status = SlotStopped
		slot.Reason = reason
		return slot
	}

	slot.Status = SlotActive
	taken := occ(cfg, slot.Time)
	if taken < 0 {
		taken = 0
	}
	if taken > totalSeats {
		taken = totalSeats
	}
	slot.AvailableSeats = totalSeats - taken
	return slot
}
