package dispatches

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

// Renderer converts an HTML document into PDF bytes. The Gotenberg client
// in report satisfies it.
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

type Handler struct {
	logger   *slog.Logger
	service  *Service
	renderer Renderer
	challan  func(ChallanData) (string, error)
}

func NewHandler(logger *slog.Logger, service *Service, renderer Renderer, challan func(ChallanData) (string, error)) *Handler {
	return &Handler{logger: logger, service: service, renderer: renderer, challan: challan}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Patch("/{id}/status", h.SetStatus)
	r.Get("/{id}/challan", h.Challan)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{Status: r.URL.Query().Get("status")}
	if v := r.URL.Query().Get("school_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.SchoolID = &id
		}
	}
	if v := r.URL.Query().Get("bundle_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.BundleID = &id
		}
	}
	dispatches, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list dispatches failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load dispatches")
		return
	}
	if dispatches == nil {
		dispatches = []Dispatch{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": dispatches})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid dispatch ID")
		return
	}
	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load dispatch")
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var d Dispatch
	if err := httpx.DecodeJSON(r, &d); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	created, err := h.service.Create(r.Context(), d)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to create dispatch")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid dispatch ID")
		return
	}
	var d Dispatch
	if err := httpx.DecodeJSON(r, &d); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.service.Update(r.Context(), id, d); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to update dispatch")
		return
	}
	updated, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load dispatch")
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid dispatch ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to delete dispatch")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid dispatch ID")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	d, err := h.service.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to update dispatch status")
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) Challan(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid dispatch ID")
		return
	}
	data, err := h.service.Challan(r.Context(), id)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load dispatch")
		return
	}
	html, err := h.challan(data)
	if err != nil {
		h.logger.Error("build challan failed", "dispatch_id", id, "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to generate challan")
		return
	}
	pdf, err := h.renderer.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("render challan failed", "dispatch_id", id, "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to generate challan")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="challan-`+strconv.FormatInt(id, 10)+`.pdf"`)
	w.Write(pdf)
}
