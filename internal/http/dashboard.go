package http

import "net/http"

func (api *AdminAPI) registerDashboardRoutes(mux *http.ServeMux, base string) {
	mux.HandleFunc("GET "+joinPath(base, "dashboard"), api.handleDashboard)
}

func (api *AdminAPI) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if api.dashboard == nil {
		writeUnavailable(w, "dashboard")
		return
	}
	summary, err := api.dashboard.Summary(r.Context(), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, summary)
}
