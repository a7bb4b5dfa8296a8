package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/nominacloud/erp-backend-go/internal/handler/http/middleware"
	"github.com/nominacloud/erp-backend-go/internal/pkg/jwt"
)

func NewRouter(
	logger *slog.Logger,
	jwtService jwt.Service,
	periodHandler PeriodHandler,
	conceptHandler ConceptHandler,
	parameterHandler ParameterHandler,
	overtimeHandler OvertimeHandler,
	ancillaryHandler AncillaryHandler,
	payrollHandler PayrollHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/periods", func(r chi.Router) {
				r.Post("/", periodHandler.Create)
				r.Get("/", periodHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", periodHandler.GetByID)
					r.Delete("/", periodHandler.Delete)
					r.Post("/close", periodHandler.Close)
					r.Post("/mark-paid", periodHandler.MarkPaid)
					r.Post("/generate", payrollHandler.GenerateForPeriod)
					r.Get("/summary", payrollHandler.PeriodSummary)
				})
			})

			r.Route("/concepts", func(r chi.Router) {
				r.Post("/", conceptHandler.Create)
				r.Get("/", conceptHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", conceptHandler.GetByID)
					r.Put("/", conceptHandler.Update)
					r.Delete("/", conceptHandler.Delete)
				})
			})

			r.Route("/parameters", func(r chi.Router) {
				r.Put("/", parameterHandler.Upsert)
				r.Get("/", parameterHandler.List)
			})

			r.Route("/overtime", func(r chi.Router) {
				r.Post("/", overtimeHandler.Create)
				r.Get("/", overtimeHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", overtimeHandler.GetByID)
					r.Put("/", overtimeHandler.Update)
					r.Delete("/", overtimeHandler.Delete)
				})
			})

			r.Route("/ancillary-payments", func(r chi.Router) {
				r.Post("/", ancillaryHandler.Create)
				r.Get("/", ancillaryHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", ancillaryHandler.GetByID)
					r.Put("/", ancillaryHandler.Update)
					r.Delete("/", ancillaryHandler.Delete)
				})
			})

			r.Route("/pay-records", func(r chi.Router) {
				r.Post("/", payrollHandler.CreateRecord)
				r.Get("/", payrollHandler.ListRecords)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetRecord)
					r.Put("/", payrollHandler.UpdateRecord)
					r.Delete("/", payrollHandler.DeleteRecord)
					r.Post("/recalculate", payrollHandler.Recalculate)
					r.Post("/approve", payrollHandler.Approve)
					r.Post("/mark-paid", payrollHandler.MarkPaid)
				})
			})
		})
	})

	return r
}
