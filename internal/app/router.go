package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bookpost-erp/bookpost/internal/analytics"
	"github.com/bookpost-erp/bookpost/internal/auth"
	"github.com/bookpost-erp/bookpost/internal/bundles"
	"github.com/bookpost-erp/bookpost/internal/bundles/dispatches"
	"github.com/bookpost-erp/bookpost/internal/catalog"
	"github.com/bookpost-erp/bookpost/internal/masterdata/classes"
	"github.com/bookpost-erp/bookpost/internal/masterdata/distributors"
	"github.com/bookpost-erp/bookpost/internal/masterdata/profiles"
	"github.com/bookpost-erp/bookpost/internal/masterdata/schools"
	"github.com/bookpost-erp/bookpost/internal/masterdata/suppliers"
	"github.com/bookpost-erp/bookpost/internal/masterdata/transports"
	"github.com/bookpost-erp/bookpost/internal/payments"
	"github.com/bookpost-erp/bookpost/internal/pos"
	"github.com/bookpost-erp/bookpost/internal/publisher"
	"github.com/bookpost-erp/bookpost/jobs"
	"github.com/bookpost-erp/bookpost/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	AuthMiddleware *auth.Middleware

	SchoolsHandler      *schools.Handler
	ClassesHandler      *classes.Handler
	SuppliersHandler    *suppliers.Handler
	DistributorsHandler *distributors.Handler
	TransportsHandler   *transports.Handler
	ProfilesHandler     *profiles.Handler

	CatalogHandler   *catalog.Handler
	BundlesHandler   *bundles.Handler
	DispatchHandler  *dispatches.Handler
	PublisherHandler *publisher.Handler
	PaymentsHandler  *payments.Handler
	POSHandler       *pos.Handler
	AnalyticsHandler *analytics.Handler
	ReportHandler    *report.Handler
	JobHandler       *jobs.Handler
}

// NewRouter constructs the chi.Router with the API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		if params.AuthMiddleware != nil {
			r.Use(params.AuthMiddleware.Require)
		}

		r.Route("/schools", params.SchoolsHandler.MountRoutes)
		r.Route("/classes", params.ClassesHandler.MountRoutes)
		r.Route("/suppliers", params.SuppliersHandler.MountRoutes)
		r.Route("/distributors", params.DistributorsHandler.MountRoutes)
		r.Route("/transports", params.TransportsHandler.MountRoutes)
		r.Route("/company-profiles", params.ProfilesHandler.MountRoutes)

		r.Route("/catalog", params.CatalogHandler.MountRoutes)
		r.Route("/bundles", params.BundlesHandler.MountRoutes)
		r.Route("/bundle-dispatches", params.DispatchHandler.MountRoutes)
		r.Route("/publisher-orders", params.PublisherHandler.MountRoutes)
		r.Route("/supplier-payments", params.PaymentsHandler.MountRoutes)

		r.Route("/pos/cart", params.POSHandler.MountCartRoutes)
		r.Route("/sales", params.POSHandler.MountSaleRoutes)
		r.Route("/sales-analytics", params.AnalyticsHandler.MountRoutes)

		r.Route("/report", params.ReportHandler.MountRoutes)
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
