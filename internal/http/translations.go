package http

import (
	"net/http"

	"github.com/goliatone/go-sitecms/internal/translations"
)

type translationBulkRequest struct {
	Translations []translations.ItemInput `json:"translations"`
}

type upsertResponse struct {
	Upserted int `json:"upserted"`
}

func (api *AdminAPI) registerTranslationRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, ResourceTranslations)
	mux.HandleFunc("GET "+root, api.handleTranslationList)
	mux.HandleFunc("PUT "+root, api.handleTranslationUpsert)
	mux.HandleFunc("POST "+joinPath(root, "bulk"), api.handleTranslationBulk)
	mux.HandleFunc("POST "+joinPath(root, "bulk-delete"), api.handleTranslationBulkDelete)
	mux.HandleFunc("GET "+joinPath(root, "missing"), api.handleTranslationMissing)
	mux.HandleFunc("GET "+root+"/{namespace}/{key}", api.handleTranslationGet)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handleTranslationDelete)
}

func (api *AdminAPI) handleTranslationList(w http.ResponseWriter, r *http.Request) {
	if api.translations == nil {
		writeUnavailable(w, "translation")
		return
	}
	q, err := listQuery(r, translations.ListSpec())
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := api.translations.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, result)
}

func (api *AdminAPI) handleTranslationUpsert(w http.ResponseWriter, r *http.Request) {
	if api.translations == nil {
		writeUnavailable(w, "translation")
		return
	}
	var input translations.ItemInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	input.ActorID = actorID(r)
	item, err := api.translations.Upsert(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, item)
}

func (api *AdminAPI) handleTranslationBulk(w http.ResponseWriter, r *http.Request) {
	if api.translations == nil {
		writeUnavailable(w, "translation")
		return
	}
	var req translationBulkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	actor := actorID(r)
	for i := range req.Translations {
		req.Translations[i].ActorID = actor
	}
	written, err := api.translations.BulkUpsert(r.Context(), req.Translations)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, upsertResponse{Upserted: written})
}

func (api *AdminAPI) handleTranslationBulkDelete(w http.ResponseWriter, r *http.Request) {
	if api.translations == nil {
		writeUnavailable(w, "translation")
		return
	}
	var req idsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	deleted, err := api.translations.DeleteMany(r.Context(), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, bulkResponse{Modified: deleted})
}

func (api *AdminAPI) handleTranslationMissing(w http.ResponseWriter, r *http.Request) {
	if api.translations == nil {
		writeUnavailable(w, "translation")
		return
	}
	report, err := api.translations.Missing(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, report)
}

func (api *AdminAPI) handleTranslationGet(w http.ResponseWriter, r *http.Request) {
	if api.translations == nil {
		writeUnavailable(w, "translation")
		return
	}
	item, err := api.translations.Get(r.Context(), r.PathValue("namespace"), r.PathValue("key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, item)
}

func (api *AdminAPI) handleTranslationDelete(w http.ResponseWriter, r *http.Request) {
	if api.translations == nil {
		writeUnavailable(w, "translation")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := api.translations.Delete(r.Context(), id, actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, "translation deleted")
}
