package restapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"nightshuttle.campusgo.org/internal/events"
	"nightshuttle.campusgo.org/internal/ledger"
	"nightshuttle.campusgo.org/internal/logging"
	"nightshuttle.campusgo.org/internal/models"
)

// reservationListEntry decorates tonight's list with the rider's
// remaining quota.
type reservationListEntry struct {
	Reservations []ledger.Reservation `json:"reservations"`
	CanReserve   bool                 `json:"canReserve"`
}

func (api *RestAPI) listReservationsHandler(w http.ResponseWriter, r *http.Request) {
	reservations, err := api.Ledger.Reservations(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	canReserve, err := api.Ledger.CanReserve(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(reservationListEntry{
		Reservations: reservations,
		CanReserve:   canReserve,
	}, api.Clock))
}

type createReservationRequest struct {
	SlotTime  string `json:"slotTime"`
	SlotLabel string `json:"slotLabel"`
}

func (api *RestAPI) createReservationHandler(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "invalid reservation payload")
		return
	}

	reservation, err := api.Ledger.Reserve(r.Context(), req.SlotTime, req.SlotLabel)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNoProfile):
			api.Metrics.ReservationOutcome("rejected_no_profile")
			api.sendError(w, r, http.StatusConflict, err.Error())
		case errors.Is(err, ledger.ErrQuotaExceeded):
			api.Metrics.ReservationOutcome("rejected_quota")
			api.sendError(w, r, http.StatusConflict, err.Error())
		case errors.Is(err, ledger.ErrBookingWindowClosed):
			api.Metrics.ReservationOutcome("rejected_window")
			api.sendError(w, r, http.StatusConflict, err.Error())
		default:
			api.serverErrorResponse(w, r, err)
		}
		return
	}

	api.Metrics.ReservationOutcome("confirmed")
	api.publishReservationEvent(reservation)
	api.sendResponse(w, r, models.NewEntryResponse(reservation, api.Clock))
}

func (api *RestAPI) cancelReservationHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	reservation, err := api.Ledger.Cancel(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrReservationNotFound) {
			api.sendNotFound(w, r, err.Error())
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	api.Metrics.ReservationOutcome("cancelled")
	api.publishReservationEvent(reservation)
	api.sendResponse(w, r, models.NewEntryResponse(reservation, api.Clock))
}

// publishReservationEvent emits the reservation over NATS when events
// are enabled. Publish failures are logged, never surfaced to riders.
func (api *RestAPI) publishReservationEvent(res *ledger.Reservation) {
	if api.Publisher == nil {
		return
	}
	err := api.Publisher.PublishReservation(events.ReservationEvent{
		ID:            res.ID,
		SlotTime:      res.SlotTime,
		SlotLabel:     res.SlotLabel,
		HomeStop:      res.HomeStop,
		BusAssignment: string(res.BusAssignment),
		Status:        string(res.Status),
		ServiceDay:    ledger.ServiceDayKey(api.Clock.Now()),
		Timestamp:     api.Clock.Now(),
	})
	if err != nil {
		logging.LogError(api.Logger, "reservation event publish failed", err)
	}
}
