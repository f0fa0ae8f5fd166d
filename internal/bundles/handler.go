package bundles

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{
		Session: r.URL.Query().Get("session"),
		Status:  r.URL.Query().Get("status"),
	}
	if v := r.URL.Query().Get("school_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.SchoolID = &id
		}
	}
	if v := r.URL.Query().Get("class_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.ClassID = &id
		}
	}

	bundles, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list bundles failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load bundles")
		return
	}
	if bundles == nil {
		bundles = []Bundle{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": bundles})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid bundle ID")
		return
	}
	bundle, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load bundle")
		return
	}
	httpx.JSON(w, http.StatusOK, bundle)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var bundle Bundle
	if err := httpx.DecodeJSON(r, &bundle); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	created, err := h.service.Create(r.Context(), bundle)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to create bundle")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid bundle ID")
		return
	}
	var bundle Bundle
	if err := httpx.DecodeJSON(r, &bundle); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.service.Update(r.Context(), id, bundle); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to update bundle")
		return
	}
	updated, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load bundle")
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid bundle ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to delete bundle")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid bundle ID")
		return
	}
	var req AddItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	result, err := h.service.AddItem(r.Context(), id, req)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to add item")
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) ReplaceItems(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid bundle ID")
		return
	}
	var req ReplaceItemsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	bundle, err := h.service.ReplaceItems(r.Context(), id, req)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to save items")
		return
	}
	httpx.JSON(w, http.StatusOK, bundle)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid bundle ID")
		return
	}
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil || itemID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid item ID")
		return
	}
	bundle, err := h.service.DeleteItem(r.Context(), id, itemID)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to delete item")
		return
	}
	httpx.JSON(w, http.StatusOK, bundle)
}
