package pos

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountCartRoutes registers the terminal session endpoints.
func (h *Handler) MountCartRoutes(r chi.Router) {
	r.Post("/", h.CreateCart)
	r.Get("/{cartID}", h.ShowCart)
	r.Post("/{cartID}/load", h.LoadBundle)
	r.Patch("/{cartID}/lines/{key}", h.SetLine)
	r.Post("/{cartID}/lines/{key}/increment", h.IncQty)
	r.Post("/{cartID}/lines/{key}/decrement", h.DecQty)
	r.Post("/{cartID}/lines/{key}/toggle", h.ToggleInclude)
	r.Put("/{cartID}/paid", h.SetPaid)
}

// MountSaleRoutes registers checkout, sale lookup and receipts.
func (h *Handler) MountSaleRoutes(r chi.Router) {
	r.Get("/", h.ListSales)
	r.Post("/", h.Checkout)
	r.Get("/{id}", h.ShowSale)
	r.Get("/{id}/receipt", h.Receipt)
}

type cartResponse struct {
	Cart   Cart   `json:"cart"`
	Totals Totals `json:"totals"`
}

func (h *Handler) respondCart(w http.ResponseWriter, cart Cart, err error, fallback string) {
	if err != nil {
		if errors.Is(err, ErrStaleCart) {
			httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
			return
		}
		httpx.RespondErrorWithFallback(w, err, fallback)
		return
	}
	httpx.JSON(w, http.StatusOK, cartResponse{Cart: cart, Totals: cart.Totals()})
}

func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.CreateCart(r.Context())
	if err != nil {
		h.logger.Error("create cart failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to open cart")
		return
	}
	httpx.JSON(w, http.StatusCreated, cartResponse{Cart: cart, Totals: cart.Totals()})
}

func (h *Handler) ShowCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context(), chi.URLParam(r, "cartID"))
	h.respondCart(w, cart, err, "Failed to load cart")
}

func (h *Handler) LoadBundle(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	cart, err := h.service.LoadBundle(r.Context(), chi.URLParam(r, "cartID"), req)
	h.respondCart(w, cart, err, "Failed to load items")
}

func (h *Handler) SetLine(w http.ResponseWriter, r *http.Request) {
	var patch LinePatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	cart, err := h.service.SetLine(r.Context(), chi.URLParam(r, "cartID"), chi.URLParam(r, "key"), patch)
	h.respondCart(w, cart, err, "Failed to update line")
}

func (h *Handler) IncQty(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.IncQty(r.Context(), chi.URLParam(r, "cartID"), chi.URLParam(r, "key"))
	h.respondCart(w, cart, err, "Failed to update line")
}

func (h *Handler) DecQty(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.DecQty(r.Context(), chi.URLParam(r, "cartID"), chi.URLParam(r, "key"))
	h.respondCart(w, cart, err, "Failed to update line")
}

func (h *Handler) ToggleInclude(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.ToggleInclude(r.Context(), chi.URLParam(r, "cartID"), chi.URLParam(r, "key"))
	h.respondCart(w, cart, err, "Failed to update line")
}

func (h *Handler) SetPaid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	cart, err := h.service.SetPaid(r.Context(), chi.URLParam(r, "cartID"), req.Amount)
	h.respondCart(w, cart, err, "Failed to update paid amount")
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	result, err := h.service.Checkout(r.Context(), req)
	if err != nil {
		h.logger.Error("checkout failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to submit sale")
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *Handler) ShowSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid sale ID")
		return
	}
	sale, err := h.service.GetSale(r.Context(), id)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load sale")
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	filters := SaleFilters{Limit: 100}
	if v := r.URL.Query().Get("school_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.SchoolID = &id
		}
	}
	if v := r.URL.Query().Get("from"); v != "" {
		if ts, err := time.Parse("2006-01-02", v); err == nil {
			filters.From = &ts
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if ts, err := time.Parse("2006-01-02", v); err == nil {
			end := ts.AddDate(0, 0, 1)
			filters.To = &end
		}
	}
	sales, err := h.service.ListSales(r.Context(), filters)
	if err != nil {
		h.logger.Error("list sales failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load sales")
		return
	}
	if sales == nil {
		sales = []Sale{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": sales})
}

func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid sale ID")
		return
	}
	pdf, err := h.service.Receipt(r.Context(), id, r.URL.Query().Get("size"))
	if err != nil {
		h.logger.Error("render receipt failed", "sale_id", id, "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to generate receipt")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="receipt-`+strconv.FormatInt(id, 10)+`.pdf"`)
	w.Write(pdf)
}
