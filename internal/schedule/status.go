package schedule

import (
	"time"

	"nightshuttle.campusgo.org/internal/timeutil"
)

// State classifies the service at a single instant.
type State string

const (
	StateRunning State = "running"
	StateBreak   State = "break"
	StateEnded   State = "ended"
)

// Status is the authoritative "can a rider book right now" signal.
// Exactly one state holds for any instant. NextDeparture is set when
// running; ResumesAt when on break or ended. Both are 12-hour labels.
type Status struct {
	State         State  `json:"state"`
	NextDeparture string `json:"nextDeparture,omitempty"`
	ResumesAt     string `json:"resumesAt,omitempty"`
}

// Resolve classifies the service at the given instant. Operating-hours
// membership uses the same overnight-aware rule as slot generation, but
// as a closed interval: for an overnight window the service is live
// when now >= start or now <= end; otherwise when start <= now <= end.
func Resolve(cfg Config, now time.Time) (Status, error) {
	start, err := timeutil.TimeToMinutes(cfg.Hours.StartTime)
	if err != nil {
		return Status{}, err
	}
	end, err := timeutil.TimeToMinutes(cfg.Hours.EndTime)
	if err != nil {
		return Status{}, err
	}
	nowMin := now.Hour()*60 + now.Minute()

	var operating bool
	if end <= start {
		operating = nowMin >= start || nowMin <= end
	} else {
		operating = nowMin >= start && nowMin <= end
	}
	if !operating {
		return Status{State: StateEnded, ResumesAt: timeutil.Label(start)}, nil
	}

	if _, resumeTime, stopped := cfg.stoppedReason(nowMin); stopped {
		resume, err := timeutil.To12Hour(resumeTime)
		if err != nil {
			return Status{}, err
		}
		return Status{State: StateBreak, ResumesAt: resume}, nil
	}

	slots, err := Generate(cfg, NoOccupancy)
	if err != nil {
		return Status{}, err
	}

	next := nextActiveSlot(slots, nowMin, start, end <= start)
	if next == nil {
		// Last resort: point at the window start itself.
		return Status{State: StateRunning, NextDeparture: timeutil.Label(start)}, nil
	}
	return Status{State: StateRunning, NextDeparture: next.Label}, nil
}

// nextActiveSlot finds the first active slot strictly after now. The
// comparison runs in window-relative offsets: in an overnight window
// every minute value below the start belongs to the post-midnight half
// and shifts by +24h, so a 22:00 slot never reads as "after" a 00:15
// now, and a 23:30 now still wraps forward to the 00:00 departure.
func nextActiveSlot(slots []Slot, nowMin, start int, overnight bool) *Slot {
	shift := func(m int) int {
		if overnight && m < start {
			return m + timeutil.MinutesPerDay
		}
		return m
	}

	now := shift(nowMin)
	for i := range slots {
		if slots[i].Status != SlotActive {
			continue
		}
		m, err := timeutil.TimeToMinutes(slots[i].Time)
		if err != nil {
			continue
		}
		if shift(m) > now {
			return &slots[i]
		}
	}

	return nil
}
