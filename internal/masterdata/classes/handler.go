package classes

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookpost-erp/bookpost/internal/masterdata/shared"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.ParseFilters(r)
	classes, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list classes failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load classes")
		return
	}
	if classes == nil {
		classes = []Class{}
	}
	httpx.List(w, classes, total, filters.Page, filters.Limit)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid class ID")
		return
	}
	class, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load class")
		return
	}
	httpx.JSON(w, http.StatusOK, class)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var class Class
	if err := httpx.DecodeJSON(r, &class); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	created, err := h.service.Create(r.Context(), class)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to create class")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid class ID")
		return
	}
	var class Class
	if err := httpx.DecodeJSON(r, &class); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.service.Update(r.Context(), id, class); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to update class")
		return
	}
	class.ID = id
	httpx.JSON(w, http.StatusOK, class)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid class ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to delete class")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
