package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/medbook/medbook-go/internal/middleware"
	"github.com/medbook/medbook-go/internal/model"
	"github.com/medbook/medbook-go/internal/service"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Tokens         middleware.TokenVerifier
	Session        *Session
	Auth           *service.AuthService
	Appointments   *service.AppointmentService
	AuthRateLimit  func(http.Handler) http.Handler
	AllowedOrigins []string
	RequestTimeout time.Duration
}

var adminRoles = model.NewRoleSet(model.RoleAdmin)

// NewRouter builds the HTTP routing tree.
func NewRouter(deps Dependencies) http.Handler {
	authHandler := NewAuthHandler(deps.Auth, deps.Session)
	apptHandler := NewAppointmentHandler(deps.Appointments)
	userHandler := NewUserHandler(deps.Auth)

	protect := middleware.Authenticate(deps.Tokens, deps.Auth)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	if deps.RequestTimeout > 0 {
		r.Use(chimw.Timeout(deps.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if deps.AuthRateLimit != nil {
					r.Use(deps.AuthRateLimit)
				}
				r.Post("/register", authHandler.HandleRegister)
				r.Post("/login", authHandler.HandleLogin)
			})

			r.With(protect).Get("/me", authHandler.HandleMe)
			r.With(protect).Get("/logout", authHandler.HandleLogout)
		})

		r.Route("/appointments", func(r chi.Router) {
			r.With(protect).Get("/", apptHandler.HandleList)
			r.With(protect).Post("/", apptHandler.HandleCreate)
			r.Get("/{id}", apptHandler.HandleGet)
			r.With(protect).Put("/{id}", apptHandler.HandleUpdate)
			r.With(protect).Delete("/{id}", apptHandler.HandleDelete)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(protect, middleware.RequireRoles(adminRoles))
			r.Get("/users/{id}", userHandler.HandleGetUser)
		})
	})

	return r
}
