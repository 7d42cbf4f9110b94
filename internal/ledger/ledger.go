// Package ledger tracks a rider's reservations for the current service
// night. The night is keyed by the calendar date of the evening it
// begins on, so departures after midnight still count against the same
// night's quota.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"nightshuttle.campusgo.org/internal/clock"
	"nightshuttle.campusgo.org/internal/fleet"
	"nightshuttle.campusgo.org/internal/store"
	"nightshuttle.campusgo.org/internal/timeutil"
)

// Quota is the maximum number of confirmed reservations a rider may
// hold within one service night.
const Quota = 3

// BookingWindowMinutes bounds the symmetric eligibility window around a
// slot's departure time.
const BookingWindowMinutes = 30

// serviceDayCutoverHour is the local hour before which an instant still
// belongs to the previous evening's service night.
const serviceDayCutoverHour = 6

// ReservationStatus is the lifecycle state of one reservation record.
type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "Confirmed"
	StatusCancelled ReservationStatus = "Cancelled"
)

// Reservation is one booking for the current service night. Cancelled
// records are kept with a flipped status, never removed.
type Reservation struct {
	ID            string            `json:"id"`
	SlotTime      string            `json:"slotTime"`
	SlotLabel     string            `json:"slotLabel"`
	HomeStop      string            `json:"homeStop"`
	BusAssignment fleet.BusID       `json:"busAssignment"`
	Status        ReservationStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
}

var (
	// ErrNoProfile is returned when a reservation is attempted before
	// onboarding has produced a transport profile.
	ErrNoProfile = errors.New("transport profile not set up")
	// ErrQuotaExceeded is returned when the confirmed count already
	// equals the per-night quota. The ledger is left unchanged.
	ErrQuotaExceeded = errors.New("reservation quota exhausted for tonight")
	// ErrBookingWindowClosed is returned when the slot is outside its
	// eligibility window. The ledger is left unchanged.
	ErrBookingWindowClosed = errors.New("booking window is closed for this slot")
	// ErrReservationNotFound is returned by Cancel for an unknown ID.
	ErrReservationNotFound = errors.New("reservation not found")
)

// Ledger performs synchronous read-modify-write cycles against the
// store. All state lives in the store; the ledger itself is stateless
// between calls.
type Ledger struct {
	store  store.Store
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a Ledger on top of the given store and clock.
func New(s store.Store, c clock.Clock, logger *slog.Logger) *Ledger {
	return &Ledger{store: s, clock: c, logger: logger}
}

// ServiceDayKey computes the key of the service night containing the
// instant: before the 06:00 cutover the night still belongs to
// yesterday's calendar date.
func ServiceDayKey(now time.Time) string {
	if now.Hour() < serviceDayCutoverHour {
		now = now.AddDate(0, 0, -1)
	}
	return now.Format("2006-01-02")
}

// load reads tonight's reservations, resetting the list to empty when
// the stored service-day key no longer matches the current one. The
// prior list is simply dropped; archival is not this component's job.
func (l *Ledger) load(ctx context.Context) ([]Reservation, error) {
	currentKey := ServiceDayKey(l.clock.Now())

	raw, found, err := l.store.Get(ctx, store.KeyServiceDay)
	if err != nil {
		return nil, err
	}
	storedKey := ""
	if found {
		if err := json.Unmarshal(raw, &storedKey); err != nil {
			storedKey = ""
		}
	}

	if storedKey != currentKey {
		l.logger.Info("new service night, resetting reservations",
			"previous", storedKey, "current", currentKey)
		if err := l.save(ctx, currentKey, []Reservation{}); err != nil {
			return nil, err
		}
		return []Reservation{}, nil
	}

	raw, found, err = l.store.Get(ctx, store.KeyReservations)
	if err != nil {
		return nil, err
	}
	if !found {
		return []Reservation{}, nil
	}

	var reservations []Reservation
	if err := json.Unmarshal(raw, &reservations); err != nil {
		l.logger.Warn("corrupt reservation list, starting empty", "error", err)
		return []Reservation{}, nil
	}
	return reservations, nil
}

func (l *Ledger) save(ctx context.Context, key string, reservations []Reservation) error {
	rawKey, err := json.Marshal(key)
	if err != nil {
		return err
	}
	if err := l.store.Set(ctx, store.KeyServiceDay, rawKey); err != nil {
		return err
	}
	raw, err := json.Marshal(reservations)
	if err != nil {
		return err
	}
	return l.store.Set(ctx, store.KeyReservations, raw)
}

// Reservations returns tonight's full list, cancelled records included.
func (l *Ledger) Reservations(ctx context.Context) ([]Reservation, error) {
	return l.load(ctx)
}

func confirmedCount(reservations []Reservation) int {
	count := 0
	for _, r := range reservations {
		if r.Status == StatusConfirmed {
			count++
		}
	}
	return count
}

// CanReserve reports whether the rider still has quota tonight.
func (l *Ledger) CanReserve(ctx context.Context) (bool, error) {
	reservations, err := l.load(ctx)
	if err != nil {
		return false, err
	}
	return confirmedCount(reservations) < Quota, nil
}

// IsSlotReserved reports whether a confirmed reservation already exists
// for the slot.
func (l *Ledger) IsSlotReserved(ctx context.Context, slotTime string) (bool, error) {
	reservations, err := l.load(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range reservations {
		if r.Status == StatusConfirmed && r.SlotTime == slotTime {
			return true, nil
		}
	}
	return false, nil
}

// windowDelta returns the signed minutes from now to the slot's
// departure on the circular 24-hour clock, normalized into [-720, 720).
// One rule covers every pairing: an evening now against a post-midnight
// slot, a pre-dawn now against the 06:00 end slot, and the plain
// same-evening case all reduce to the shortest signed distance.
func windowDelta(slotMin, nowMin int) int {
	d := (slotMin - nowMin + timeutil.MinutesPerDay) % timeutil.MinutesPerDay
	if d >= timeutil.MinutesPerDay/2 {
		d -= timeutil.MinutesPerDay
	}
	return d
}

// IsSlotOpen reports whether the booking window for the slot is open at
// the given instant. The window is symmetric: it opens 30 minutes
// before the scheduled departure and closes 30 minutes after it, both
// boundaries inclusive.
func IsSlotOpen(slotTime string, now time.Time) bool {
	slotMin, err := timeutil.TimeToMinutes(slotTime)
	if err != nil {
		return false
	}
	delta := windowDelta(slotMin, now.Hour()*60+now.Minute())
	return delta >= -BookingWindowMinutes && delta <= BookingWindowMinutes
}

// TimeUntilOpen returns the seconds remaining until the slot's booking
// window opens, or 0 when it is already open or has passed.
func TimeUntilOpen(slotTime string, now time.Time) int {
	slotMin, err := timeutil.TimeToMinutes(slotTime)
	if err != nil {
		return 0
	}
	delta := windowDelta(slotMin, now.Hour()*60+now.Minute())
	remaining := delta*60 - now.Second() - BookingWindowMinutes*60
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reserve appends a confirmed reservation for the slot, stamped with
// the rider's current home stop and bus assignment. The assignment is
// captured at call time; changing the home stop later never rewrites
// past records. The ledger is left untouched when the profile is
// missing, the quota is exhausted, or the booking window is closed.
func (l *Ledger) Reserve(ctx context.Context, slotTime, slotLabel string) (*Reservation, error) {
	profile, err := l.Transport(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil || !profile.SetupComplete {
		return nil, ErrNoProfile
	}

	now := l.clock.Now()
	if !IsSlotOpen(slotTime, now) {
		return nil, ErrBookingWindowClosed
	}

	reservations, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	if confirmedCount(reservations) >= Quota {
		return nil, ErrQuotaExceeded
	}

	key := ServiceDayKey(now)
	reservation := Reservation{
		ID:            fmt.Sprintf("%s_%s_%d", key, slotTime, now.UnixMilli()),
		SlotTime:      slotTime,
		SlotLabel:     slotLabel,
		HomeStop:      profile.HomeStop,
		BusAssignment: profile.BusAssignment,
		Status:        StatusConfirmed,
		CreatedAt:     now,
	}
	reservations = append(reservations, reservation)

	if err := l.save(ctx, key, reservations); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Cancel flips the matching record's status to Cancelled in place. The
// record stays in the list; only its status changes.
func (l *Ledger) Cancel(ctx context.Context, id string) (*Reservation, error) {
	reservations, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range reservations {
		if reservations[i].ID != id {
			continue
		}
		reservations[i].Status = StatusCancelled
		if err := l.save(ctx, ServiceDayKey(l.clock.Now()), reservations); err != nil {
			return nil, err
		}
		return &reservations[i], nil
	}
	return nil, ErrReservationNotFound
}
