package http

import (
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/notifications"
)

type idsRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type countResponse struct {
	Count int `json:"count"`
}

func (api *AdminAPI) registerNotificationRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, ResourceNotifications)
	mux.HandleFunc("GET "+root, api.handleNotificationList)
	mux.HandleFunc("POST "+root, api.handleNotificationCreate)
	mux.HandleFunc("GET "+joinPath(root, "unread-count"), api.handleNotificationUnread)
	mux.HandleFunc("PUT "+joinPath(root, "read"), api.handleNotificationMarkRead)
	mux.HandleFunc("PUT "+joinPath(root, "read-all"), api.handleNotificationMarkAllRead)

	settings := joinPath(root, "settings")
	mux.HandleFunc("GET "+settings, api.handleNotificationSettings)
	mux.HandleFunc("PUT "+settings, api.handleNotificationSettingsSave)
	mux.HandleFunc("DELETE "+settings, api.handleNotificationSettingsReset)
}

func (api *AdminAPI) handleNotificationList(w http.ResponseWriter, r *http.Request) {
	if api.notifications == nil {
		writeUnavailable(w, "notification")
		return
	}
	q, err := listQuery(r, notifications.ListSpec())
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := api.notifications.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, result)
}

func (api *AdminAPI) handleNotificationCreate(w http.ResponseWriter, r *http.Request) {
	if api.notifications == nil {
		writeUnavailable(w, "notification")
		return
	}
	var req notifications.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	notification, err := api.notifications.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, notification)
}

// handleNotificationUnread counts unread notifications addressed to the
// calling user, broadcasts included.
func (api *AdminAPI) handleNotificationUnread(w http.ResponseWriter, r *http.Request) {
	if api.notifications == nil {
		writeUnavailable(w, "notification")
		return
	}
	count, err := api.notifications.UnreadCount(r.Context(), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, countResponse{Count: count})
}

func (api *AdminAPI) handleNotificationMarkRead(w http.ResponseWriter, r *http.Request) {
	if api.notifications == nil {
		writeUnavailable(w, "notification")
		return
	}
	var req idsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	modified, err := api.notifications.MarkRead(r.Context(), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, bulkResponse{Modified: modified})
}

func (api *AdminAPI) handleNotificationMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if api.notifications == nil {
		writeUnavailable(w, "notification")
		return
	}
	modified, err := api.notifications.MarkAllRead(r.Context(), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, bulkResponse{Modified: modified})
}

func (api *AdminAPI) handleNotificationSettings(w http.ResponseWriter, r *http.Request) {
	if api.notifications == nil {
		writeUnavailable(w, "notification")
		return
	}
	settings, err := api.notifications.Settings(r.Context(), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, settings)
}

// handleNotificationSettingsSave merges the submitted document over the
// defaults, so partial payloads keep the remaining toggles at their default.
func (api *AdminAPI) handleNotificationSettingsSave(w http.ResponseWriter, r *http.Request) {
	if api.notifications == nil {
		writeUnavailable(w, "notification")
		return
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, invalidJSON(err))
		return
	}
	settings, err := notifications.DecodeSettings(raw)
	if err != nil {
		writeError(w, invalidJSON(err))
		return
	}
	saved, err := api.notifications.SaveSettings(r.Context(), actorID(r), settings)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, saved)
}

func (api *AdminAPI) handleNotificationSettingsReset(w http.ResponseWriter, r *http.Request) {
	if api.notifications == nil {
		writeUnavailable(w, "notification")
		return
	}
	user := actorID(r)
	if err := api.notifications.ResetSettings(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, notifications.DefaultSettings())
}
