package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/clinadmin/clinadmin/internal/api/handler"
	"github.com/clinadmin/clinadmin/internal/api/middleware"
	"github.com/clinadmin/clinadmin/internal/career"
	"github.com/clinadmin/clinadmin/internal/caregiver"
	"github.com/clinadmin/clinadmin/internal/group"
	"github.com/clinadmin/clinadmin/internal/patient"
	"github.com/clinadmin/clinadmin/internal/user"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger      handler.DBPinger
	Version       string
	GroupRepo     group.Repository
	CareerRepo    career.Repository
	CaregiverRepo caregiver.Repository
	PatientRepo   patient.Repository
	UserRepo      user.Repository
	UserService   handler.UserService
	TeamService   handler.TeamService
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	groupHandler := handler.NewGroupHandler(deps.GroupRepo)
	r.Route("/groups", func(r chi.Router) {
		r.Post("/", groupHandler.Create)
		r.Get("/", groupHandler.List)
		r.Get("/{id}", groupHandler.GetByID)
		r.Patch("/{id}", groupHandler.Update)
		r.Delete("/{id}", groupHandler.Delete)
	})

	careerHandler := handler.NewCareerHandler(deps.CareerRepo)
	r.Route("/careers", func(r chi.Router) {
		r.Post("/", careerHandler.Create)
		r.Get("/", careerHandler.List)
		r.Get("/{id}", careerHandler.GetByID)
		r.Patch("/{id}", careerHandler.Update)
		r.Delete("/{id}", careerHandler.Delete)
	})

	caregiverHandler := handler.NewCaregiverHandler(deps.CaregiverRepo)
	r.Route("/caregivers", func(r chi.Router) {
		r.Post("/", caregiverHandler.Create)
		r.Get("/", caregiverHandler.List)
		r.Get("/{id}", caregiverHandler.GetByID)
		r.Patch("/{id}", caregiverHandler.Update)
		r.Delete("/{id}", caregiverHandler.Delete)
	})

	patientHandler := handler.NewPatientHandler(deps.PatientRepo)
	r.Route("/patients", func(r chi.Router) {
		r.Post("/", patientHandler.Create)
		r.Get("/", patientHandler.List)
		r.Get("/{id}", patientHandler.GetByID)
		r.Patch("/{id}", patientHandler.Update)
		r.Delete("/{id}", patientHandler.Delete)
	})

	userHandler := handler.NewUserHandler(deps.UserService, deps.UserRepo)
	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Post("/admin", userHandler.CreateAdmin)
		r.Get("/", userHandler.List)
		r.Get("/{id}", userHandler.GetByID)
		r.Patch("/{id}", userHandler.Update)
		r.Delete("/{id}", userHandler.Delete)
	})

	teamHandler := handler.NewTeamHandler(deps.TeamService)
	r.Route("/teams", func(r chi.Router) {
		r.Post("/", teamHandler.Create)
		r.Get("/", teamHandler.List)
		r.Get("/{id}", teamHandler.GetByID)
		r.Patch("/{id}", teamHandler.Update)
		r.Delete("/{id}", teamHandler.Delete)
	})

	return r
}
