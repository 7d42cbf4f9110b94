package restapi

import (
	"encoding/json"
	"net/http"

	"nightshuttle.campusgo.org/internal/models"
	"nightshuttle.campusgo.org/internal/schedule"
)

// statusHandler classifies the service at the current instant.
func (api *RestAPI) statusHandler(w http.ResponseWriter, r *http.Request) {
	cfg := schedule.LoadConfig(r.Context(), api.Store, api.Logger)

	status, err := schedule.Resolve(cfg, api.Clock.Now())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.Metrics.SetServiceState(string(status.State))

	api.sendResponse(w, r, models.NewEntryResponse(status, api.Clock))
}

// slotsHandler lists tonight's generated departure slots.
func (api *RestAPI) slotsHandler(w http.ResponseWriter, r *http.Request) {
	cfg := schedule.LoadConfig(r.Context(), api.Store, api.Logger)

	slots, err := schedule.Generate(cfg, schedule.HashOccupancy)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewListResponse(slots, api.Clock))
}

// scheduleHandler returns the operator configuration.
func (api *RestAPI) scheduleHandler(w http.ResponseWriter, r *http.Request) {
	cfg := schedule.LoadConfig(r.Context(), api.Store, api.Logger)
	api.sendResponse(w, r, models.NewEntryResponse(cfg, api.Clock))
}

// updateScheduleHandler replaces the operator configuration. The
// overnight flag is always recomputed from the submitted hours.
func (api *RestAPI) updateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	var cfg schedule.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "invalid schedule payload")
		return
	}

	if err := schedule.SaveConfig(r.Context(), api.Store, &cfg); err != nil {
		api.sendError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	api.Logger.Info("schedule config updated",
		"start", cfg.Hours.StartTime,
		"end", cfg.Hours.EndTime,
		"overnight", cfg.Hours.Overnight,
		"frequency", cfg.FrequencyMinutes)

	api.sendResponse(w, r, models.NewEntryResponse(cfg, api.Clock))
}

// stopsHandler lists all served stops with their serving buses.
func (api *RestAPI) stopsHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewListResponse(api.Registry.Stops(), api.Clock))
}
