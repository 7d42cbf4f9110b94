package restapi

import (
	"encoding/json"
	"net/http"

	"nightshuttle.campusgo.org/internal/logging"
	"nightshuttle.campusgo.org/internal/models"
)

func setJSONResponseType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
}

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	setJSONResponseType(w)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Headers are already out; all we can do is record it.
		logging.LogError(api.Logger, "failed to encode response", err)
	}
}

func (api *RestAPI) sendError(w http.ResponseWriter, r *http.Request, code int, message string) {
	setJSONResponseType(w)
	w.WriteHeader(code)

	response := models.ResponseModel{
		Code:        code,
		CurrentTime: models.ResponseCurrentTime(api.Clock),
		Text:        message,
		Version:     2,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(api.Logger, "failed to encode error response", err)
	}
}

func (api *RestAPI) sendUnauthorized(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, r, http.StatusUnauthorized, "permission denied")
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request, message string) {
	api.sendError(w, r, http.StatusNotFound, message)
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.Logger, "internal server error", err)
	api.sendError(w, r, http.StatusInternalServerError, "internal server error")
}
