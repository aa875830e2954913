package server

import (
	"log/slog"
	"net/http"
	"time"

	"barbearia-backend/internal/config"
	"barbearia-backend/internal/handler"
	"barbearia-backend/internal/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

// Handlers groups the route handlers mounted by NewRouter.
type Handlers struct {
	Health     handler.HealthHandler
	Auth       handler.AuthHandler
	Access     handler.AccessHandler
	Barber     handler.BarberHandler
	Entries    handler.EntryHandler
	Manager    handler.ManagerHandler
	Products   handler.ProductHandler
	Services   handler.ServiceCatalogHandler
	Barbers    handler.BarberAdminHandler
	Production handler.ProductionHandler
	Reports    handler.ReportHandler
}

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	metrics *observability.Metrics,
	verifier TokenVerifier,
	isManager func(email string) bool,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "same-origin",
		IsDevelopment:      !cfg.IsProduction(),
	}).Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if cfg.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	}

	h.Health.RegisterRoutes(r)
	h.Auth.RegisterRoutes(r)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(verifier, logger))
		h.Auth.RegisterProtectedRoutes(pr)
		h.Access.RegisterRoutes(pr)
		h.Barber.RegisterRoutes(pr)
		h.Entries.RegisterRoutes(pr)

		pr.Group(func(mr chi.Router) {
			mr.Use(RequireManager(isManager))
			h.Manager.RegisterRoutes(mr)
			h.Products.RegisterRoutes(mr)
			h.Services.RegisterRoutes(mr)
			h.Barbers.RegisterRoutes(mr)
			h.Production.RegisterRoutes(mr)
			h.Reports.RegisterRoutes(mr)
		})
	})

	return r
}
