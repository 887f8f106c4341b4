package handlers

import (
	"net/http"
	"time"

	"profitdesk/calculations"
	"profitdesk/config"
	"profitdesk/database"
	"profitdesk/logger"
	"profitdesk/middleware"
	"profitdesk/models"
	"profitdesk/reports"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"
)

const requestTimeout = 30 * time.Second

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Env     string `json:"env"`
}

// NewRouter wires the handlers of the dashboard API onto a chi router.
func NewRouter(cfg *config.Config, db *gorm.DB, log *logger.Logger) http.Handler {
	store := database.NewStore(db)
	tokens := middleware.NewTokens(cfg.JWTSecret, cfg.JWTExpiration)
	assembler := reports.NewAssembler(calculations.NewEngine(store))

	authHandler := NewAuthHandler(store, tokens)
	employeeHandler := NewEmployeeHandler(store)
	projectHandler := NewProjectHandler(store)
	timeEntryHandler := NewTimeEntryHandler(store)
	reportHandler := NewReportHandler(assembler)

	router := chi.NewRouter()
	router.Use(chimiddleware.RealIP)
	router.Use(logger.Middleware(log))
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Timeout(requestTimeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", logger.RequestIDHeader},
		ExposedHeaders:   []string{"Content-Disposition", logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, messageResponse{Message: "Profit Desk API"})
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: "profitdesk", Env: cfg.Env})
	})

	// Public routes
	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, store))

		r.Get("/auth/me", authHandler.Me)

		r.Get("/employees", employeeHandler.List)
		r.Get("/projects", projectHandler.List)

		r.Get("/time-entries", timeEntryHandler.List)
		r.Post("/time-entries", timeEntryHandler.Create)
		r.Put("/time-entries/{id}", timeEntryHandler.Update)
		r.Delete("/time-entries/{id}", timeEntryHandler.Delete)

		r.Get("/report/summary", reportHandler.Summary)
		r.Get("/report/project/{id}", reportHandler.ProjectDetail)
		r.Get("/report/employee/{id}", reportHandler.EmployeeDetail)
		r.Get("/export/csv", reportHandler.ExportCSV)

		// Admin only routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Post("/employees", employeeHandler.Create)
			r.Put("/employees/{id}", employeeHandler.Update)
			r.Delete("/employees/{id}", employeeHandler.Delete)
			r.Post("/projects", projectHandler.Create)
			r.Put("/projects/{id}", projectHandler.Update)
			r.Delete("/projects/{id}", projectHandler.Delete)
		})
	})

	return router
}
