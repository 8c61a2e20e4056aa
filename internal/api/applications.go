package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/applyscore/applyscore/internal/store"
)

func (h *Handler) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	app, err := h.applications.Create(r.Context(), r.PathValue("id"), body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *Handler) handleListApplications(w http.ResponseWriter, r *http.Request) {
	sums, err := h.applications.ListForJob(r.Context(), r.PathValue("id"), parseListOptions(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sums)
}

func (h *Handler) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := h.applications.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// parseListOptions reads sort, limit and offset. Unparseable values fall
// back to the defaults rather than failing the request.
func parseListOptions(q url.Values) store.ListOptions {
	opts := store.ListOptions{Sort: store.SortOrder(q.Get("sort"))}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil {
		opts.Limit = n
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil {
		opts.Offset = n
	}
	return opts.Normalize()
}
