package schools

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.ParseFilters(r)
	schools, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list schools failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load schools")
		return
	}
	if schools == nil {
		schools = []School{}
	}
	httpx.List(w, schools, total, filters.Page, filters.Limit)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid school ID")
		return
	}
	school, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load school")
		return
	}
	httpx.JSON(w, http.StatusOK, school)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var school School
	if err := httpx.DecodeJSON(r, &school); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	created, err := h.service.Create(r.Context(), school)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to create school")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid school ID")
		return
	}
	var school School
	if err := httpx.DecodeJSON(r, &school); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.service.Update(r.Context(), id, school); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to update school")
		return
	}
	school.ID = id
	httpx.JSON(w, http.StatusOK, school)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid school ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to delete school")
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
		h.logger.Error("import schools failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to import schools")
		return
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	schools, _, err := h.service.List(r.Context(), shared.ListFilters{SortBy: "name"})
	if err != nil {
		h.logger.Error("export schools failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to export schools")
		return
	}
	rows := make([][]any, 0, len(schools))
	for _, s := range schools {
		rows = append(rows, []any{s.Name, s.Address, s.City, s.Phone, s.Email, s.ContactPerson, s.IsActive})
	}
	header := []string{"Name", "Address", "City", "Phone", "Email", "Contact Person", "Active"}
	if err := shared.WriteSheet(w, "schools", header, rows); err != nil {
		h.logger.Error("write schools sheet failed", "error", err)
	}
}
