package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/attendance-management/internal/attendance"
	"github.com/attendance-management/internal/employee"
	"github.com/attendance-management/internal/transport/middleware"
	"github.com/attendance-management/internal/transport/swagger"
	"github.com/go-chi/chi"
)

// RegisterAllRoutes wires the middleware stack, docs, health endpoints
// and the domain handlers onto the router.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, employeeHandler *employee.Handler, attendanceHandler *attendance.Handler, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/employees", func(er chi.Router) {
			er.Get("/", employeeHandler.GetEmployees)
			er.Post("/", employeeHandler.CreateEmployee)
			er.Get("/{id}", employeeHandler.GetEmployee)
			er.Delete("/{id}", employeeHandler.DeleteEmployee)
		})

		r.Route("/attendance", func(ar chi.Router) {
			ar.Get("/", attendanceHandler.GetAllAttendance)
			ar.Post("/", attendanceHandler.MarkAttendance)
			ar.Get("/today", attendanceHandler.GetTodayAttendance)
			ar.Get("/employee/{id}", attendanceHandler.GetEmployeeAttendance)
			ar.Get("/stats/{id}", attendanceHandler.GetStats)
		})

		r.Get("/dashboard", attendanceHandler.GetDashboard)
	})
}
