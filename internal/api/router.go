package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/api/handlers"
	custommiddleware "github.com/elankeeran/Companies-House-MCP-Server/internal/api/middleware"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/config"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/mcp"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/service"
)

// Services groups the dependencies of the HTTP surface.
type Services struct {
	System   *service.SystemService
	Registry *service.RegistryService
	Reports  *service.ReportService
	MCP      *mcp.Server
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// MCP endpoint (stateless streamable HTTP)
	r.Handle("/mcp", services.MCP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/companies", func(r chi.Router) {
			r.Use(custommiddleware.CredentialMiddleware)
			companyHandler := handlers.NewCompanyHandler(services.Registry, services.Reports)

			r.Get("/search", companyHandler.Search)

			r.Route("/{companyNumber}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateCompanyNumberMiddleware)
				r.Get("/", companyHandler.Profile)
				r.Get("/officers", companyHandler.Officers)
				r.Get("/filing-history", companyHandler.FilingHistory)
				r.Get("/charges", companyHandler.Charges)
				r.Get("/insolvency", companyHandler.Insolvency)
				r.Get("/persons-with-significant-control", companyHandler.PersonsWithSignificantControl)
				r.Get("/registered-office-address", companyHandler.RegisteredOfficeAddress)
				r.Get("/report", companyHandler.Report)
			})
		})
	})

	return r
}
