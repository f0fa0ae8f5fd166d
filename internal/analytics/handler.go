package analytics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

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
	r.Get("/", h.Dashboard)
	r.Get("/summary", h.Summary)
	r.Get("/trend", h.Trend)
	r.Get("/top-bundles", h.TopBundles)
}

func parseRange(r *http.Request) Range {
	var rng Range
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			rng.From = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			rng.To = t.AddDate(0, 0, 1)
		}
	}
	if v := r.URL.Query().Get("school_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			rng.SchoolID = &id
		}
	}
	return rng
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context(), parseRange(r))
	if err != nil {
		h.logger.Error("load analytics dashboard failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load analytics")
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Summary(r.Context(), parseRange(r))
	if err != nil {
		h.logger.Error("load sales summary failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load analytics")
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *Handler) Trend(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.DailyTrend(r.Context(), parseRange(r))
	if err != nil {
		h.logger.Error("load sales trend failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load analytics")
		return
	}
	if points == nil {
		points = []TrendPoint{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": points})
}

func (h *Handler) TopBundles(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	bundles, err := h.service.TopBundles(r.Context(), parseRange(r), limit)
	if err != nil {
		h.logger.Error("load top bundles failed", "error", err)
		httpx.RespondErrorWithFallback(w, err, "Failed to load analytics")
		return
	}
	if bundles == nil {
		bundles = []TopBundle{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": bundles})
}
