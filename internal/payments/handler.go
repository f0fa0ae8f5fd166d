package payments

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
	r.Post("/", h.Create)
	r.Get("/ledger/{supplierID}", h.Ledger)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	supplierID, _ := strconv.ParseInt(r.URL.Query().Get("supplier_id"), 10, 64)
	payments, err := h.service.List(r.Context(), supplierID)
	if err != nil {
		h.logger.Error("list payments failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load payments")
		return
	}
	if payments == nil {
		payments = []Payment{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": payments})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	payment, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to record payment")
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}

func (h *Handler) Ledger(w http.ResponseWriter, r *http.Request) {
	supplierID, err := strconv.ParseInt(chi.URLParam(r, "supplierID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid supplier ID")
		return
	}
	ledger, err := h.service.Ledger(r.Context(), supplierID)
	if err != nil {
		h.logger.Error("build ledger failed", "supplier_id", supplierID, "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load ledger")
		return
	}
	if ledger.Entries == nil {
		ledger.Entries = []LedgerEntry{}
	}
	httpx.JSON(w, http.StatusOK, ledger)
}
