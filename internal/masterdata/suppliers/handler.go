package suppliers

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
	r.Post("/import", h.Import)
	r.Get("/export", h.Export)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.ParseFilters(r)
	suppliers, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list suppliers failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load suppliers")
		return
	}
	if suppliers == nil {
		suppliers = []Supplier{}
	}
	httpx.List(w, suppliers, total, filters.Page, filters.Limit)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid supplier ID")
		return
	}
	supplier, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load supplier")
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var supplier Supplier
	if err := httpx.DecodeJSON(r, &supplier); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	created, err := h.service.Create(r.Context(), supplier)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to create supplier")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid supplier ID")
		return
	}
	var supplier Supplier
	if err := httpx.DecodeJSON(r, &supplier); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.service.Update(r.Context(), id, supplier); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to update supplier")
		return
	}
	supplier.ID = id
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid supplier ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to delete supplier")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "file field is required")
		return
	}
	defer file.Close()

	rows, err := shared.ReadSheet(file)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	result, err := h.service.Import(r.Context(), rows)
	if err != nil {
		h.logger.Error("import suppliers failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to import suppliers")
		return
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	suppliers, _, err := h.service.List(r.Context(), shared.ListFilters{})
	if err != nil {
		h.logger.Error("export suppliers failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to export suppliers")
		return
	}
	rows := make([][]any, 0, len(suppliers))
	for _, s := range suppliers {
		rows = append(rows, []any{s.Name, s.Address, s.Email, s.Phone, s.GSTIN, s.IsActive})
	}
	header := []string{"Name", "Address", "Email", "Phone", "GSTIN", "Active"}
	if err := shared.WriteSheet(w, "suppliers", header, rows); err != nil {
		h.logger.Error("write suppliers sheet failed", "error", err)
	}
}
