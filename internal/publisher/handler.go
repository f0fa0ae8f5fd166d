package publisher

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

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/generate", h.Generate)
	r.Get("/{id}", h.Show)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/send", h.Send)
	r.Post("/{id}/receive", h.Receive)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{
		Session: r.URL.Query().Get("session"),
		Status:  r.URL.Query().Get("status"),
	}
	if v := r.URL.Query().Get("supplier_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.SupplierID = &id
		}
	}
	orders, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list publisher orders failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load orders")
		return
	}
	if orders == nil {
		orders = []Order{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": orders})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order ID")
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load order")
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	order, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.logger.Error("generate publisher order failed", "supplier_id", req.SupplierID, "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to generate order")
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order ID")
		return
	}
	order, err := h.service.Send(r.Context(), id)
	if err != nil {
		h.logger.Error("send publisher order failed", "order_id", id, "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to send order")
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order ID")
		return
	}
	var req ReceiveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	order, err := h.service.Receive(r.Context(), id, req)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to record receipt")
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}
