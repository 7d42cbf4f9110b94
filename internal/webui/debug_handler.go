// Package webui serves a developer-only debug view of the live service
// state. It is disabled entirely in production.
package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"nightshuttle.campusgo.org/internal/app"
	"nightshuttle.campusgo.org/internal/appconf"
	"nightshuttle.campusgo.org/internal/logging"
	"nightshuttle.campusgo.org/internal/schedule"
)

//go:embed debug_index.html
var templateFS embed.FS

// WebUI serves the debug pages.
type WebUI struct {
	*app.Application
}

// New creates a WebUI around the application dependencies.
func New(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}

// SetRoutes mounts the debug routes on the mux.
func (ui *WebUI) SetRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug", ui.debugIndexHandler)
}

type debugData struct {
	Title string
	Pre   string
}

func (ui *WebUI) writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html")
	tmpl, err := template.ParseFS(templateFS, "debug_index.html")
	if err != nil {
		logging.LogError(ui.Logger, "failed to parse debug template", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := tmpl.Execute(w, debugData{Title: title, Pre: spew.Sdump(data)}); err != nil {
		logging.LogError(ui.Logger, "failed to execute debug template", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (ui *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if ui.Config.Env == appconf.Production {
		http.NotFound(w, r)
		return
	}

	switch r.URL.Query().Get("dataType") {
	case "reservations":
		reservations, err := ui.Ledger.Reservations(r.Context())
		if err != nil {
			logging.LogError(ui.Logger, "failed to load reservations for debug view", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		ui.writeDebugData(w, "Tonight's Reservations", reservations)
	case "stops":
		ui.writeDebugData(w, "Stop Registry", ui.Registry.Stops())
	default:
		cfg := schedule.LoadConfig(r.Context(), ui.Store, ui.Logger)
		ui.writeDebugData(w, "Schedule Configuration", cfg)
	}
}
