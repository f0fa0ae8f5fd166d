package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	repo    Repository
	legacy  *LegacyClient
}

func NewHandler(logger *slog.Logger, repo Repository, legacy *LegacyClient) *Handler {
	return &Handler{logger: logger, repo: repo, legacy: legacy}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/search", h.Search)
	r.Get("/products/{id}", h.Show)
}

// Search serves the bundle editor's product picker. Local catalogue first;
// when the legacy upstream is configured its results are used instead, with
// the degraded flag passed through so the UI can explain the fallback.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	if h.legacy.Enabled() {
		result, err := h.legacy.SearchProducts(r.Context(), q)
		if err == nil {
			if result.Products == nil {
				result.Products = []Product{}
			}
			httpx.JSON(w, http.StatusOK, result)
			return
		}
		h.logger.Warn("legacy catalogue search failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to search catalogue")
		return
	}

	products, err := h.repo.Search(r.Context(), q, limit)
	if err != nil {
		h.logger.Error("catalogue search failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to search catalogue")
		return
	}
	if products == nil {
		products = []Product{}
	}
	httpx.JSON(w, http.StatusOK, SearchResult{Products: products})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product ID")
		return
	}
	product, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondErrorWithFallback(w, err, "Failed to load product")
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}
