package restapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"nightshuttle.campusgo.org/internal/fleet"
	"nightshuttle.campusgo.org/internal/ledger"
	"nightshuttle.campusgo.org/internal/models"
)

// transportHandler returns the rider's transport profile, or 404 when
// onboarding has not happened yet.
func (api *RestAPI) transportHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := api.Ledger.Transport(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	if profile == nil {
		api.sendNotFound(w, r, "transport profile not set up")
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(profile, api.Clock))
}

type onboardRequest struct {
	HomeStop string      `json:"homeStop"`
	Bus      fleet.BusID `json:"bus,omitempty"`
}

// onboardResponse carries the bus options back to the rider when a
// shared stop needs an explicit choice.
type onboardResponse struct {
	Stop    string        `json:"stop"`
	Options []fleet.BusID `json:"options"`
}

// onboardTransportHandler creates or updates the rider's transport
// profile. Shared stops require an explicit bus choice; the server
// never guesses.
func (api *RestAPI) onboardTransportHandler(w http.ResponseWriter, r *http.Request) {
	var req onboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "invalid transport payload")
		return
	}

	assigned, err := api.Registry.Assign(req.HomeStop, req.Bus)
	if err != nil {
		var notServed *fleet.NotServedError
		if errors.As(err, &notServed) {
			api.sendError(w, r, http.StatusUnprocessableEntity, notServed.Error())
			return
		}
		var ambiguous *fleet.AmbiguousStopError
		if errors.As(err, &ambiguous) {
			setJSONResponseType(w)
			w.WriteHeader(http.StatusConflict)
			response := models.ResponseModel{
				Code:        http.StatusConflict,
				CurrentTime: models.ResponseCurrentTime(api.Clock),
				Data: map[string]any{"entry": onboardResponse{
					Stop:    ambiguous.Stop,
					Options: ambiguous.Options,
				}},
				Text:    ambiguous.Error(),
				Version: 2,
			}
			if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
				api.serverErrorResponse(w, r, encodeErr)
			}
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	profile := ledger.StudentTransport{
		HomeStop:      req.HomeStop,
		BusAssignment: assigned,
		SetupComplete: true,
	}
	if err := api.Ledger.SaveTransport(r.Context(), profile); err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.Logger.Info("transport profile saved", "stop", req.HomeStop, "bus", assigned)
	api.sendResponse(w, r, models.NewEntryResponse(profile, api.Clock))
}
