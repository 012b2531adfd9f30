package http

import (
	"net/http"

	"github.com/goliatone/go-sitecms/internal/portfolio"
)

func (api *AdminAPI) registerPortfolioRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, ResourcePortfolio)
	mux.HandleFunc("GET "+root, api.handlePortfolioList)
	mux.HandleFunc("POST "+root, api.handlePortfolioCreate)
	mux.HandleFunc("GET "+root+"/{id}", api.handlePortfolioGet)
	mux.HandleFunc("PUT "+root+"/{id}", api.handlePortfolioUpdate)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handlePortfolioDelete)
}

func (api *AdminAPI) handlePortfolioList(w http.ResponseWriter, r *http.Request) {
	if api.portfolio == nil {
		writeUnavailable(w, "portfolio")
		return
	}
	q, err := listQuery(r, portfolio.ListSpec())
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := api.portfolio.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, result)
}

func (api *AdminAPI) handlePortfolioCreate(w http.ResponseWriter, r *http.Request) {
	if api.portfolio == nil {
		writeUnavailable(w, "portfolio")
		return
	}
	var input portfolio.ItemInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	input.ActorID = actorID(r)
	item, err := api.portfolio.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusCreated, item)
}

func (api *AdminAPI) handlePortfolioGet(w http.ResponseWriter, r *http.Request) {
	if api.portfolio == nil {
		writeUnavailable(w, "portfolio")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := api.portfolio.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, item)
}

func (api *AdminAPI) handlePortfolioUpdate(w http.ResponseWriter, r *http.Request) {
	if api.portfolio == nil {
		writeUnavailable(w, "portfolio")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var input portfolio.ItemInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	input.ActorID = actorID(r)
	item, err := api.portfolio.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, item)
}

func (api *AdminAPI) handlePortfolioDelete(w http.ResponseWriter, r *http.Request) {
	if api.portfolio == nil {
		writeUnavailable(w, "portfolio")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := api.portfolio.Delete(r.Context(), id, actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, "portfolio item deleted")
}
