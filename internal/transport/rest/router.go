package rest

import (
	"net/http"

	"contacts_project/internal/domain"
	"contacts_project/internal/middleware"
	"contacts_project/internal/utils/blacklist"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Contacts  ContactStore
	Users     UserStore
	Blacklist blacklist.Blacklist
	Redis     *redis.Client
	SecretKey string
}

// NewRouter wires the full HTTP surface: auth endpoints, the role-gated
// contacts endpoints and the operational endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing)
	r.Use(middleware.Metrics)
	r.Use(middleware.Logging)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	auth := NewAuthHandler(deps.Users, deps.Blacklist, deps.SecretKey)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)
	})

	// One rule per logical operation, evaluated on every request.
	readAccess := middleware.NewRoleAccess(domain.RoleAdmin, domain.RoleModerator, domain.RoleUser)
	createAccess := middleware.NewRoleAccess(domain.RoleAdmin, domain.RoleModerator, domain.RoleUser)
	updateAccess := middleware.NewRoleAccess(domain.RoleAdmin, domain.RoleModerator)
	removeAccess := middleware.NewRoleAccess(domain.RoleAdmin)

	contacts := NewContactHandler(deps.Contacts)
	r.Route("/contacts", func(r chi.Router) {
		r.Use(middleware.Auth(deps.SecretKey, deps.Users, deps.Blacklist))
		if deps.Redis != nil {
			r.Use(middleware.Idempotency(deps.Redis))
		}

		r.With(readAccess.Require).Get("/", contacts.List)
		r.With(readAccess.Require).Get("/birthdays", contacts.Birthdays)
		r.With(readAccess.Require).Get("/search_by_id/{id}", contacts.SearchByID)
		r.With(readAccess.Require).Get("/search_by_last_name/{last_name}", contacts.SearchByLastName)
		r.With(readAccess.Require).Get("/search_by_first_name/{first_name}", contacts.SearchByFirstName)
		r.With(readAccess.Require).Get("/search_by_email/{email}", contacts.SearchByEmail)
		r.With(createAccess.Require).Post("/", contacts.Create)
		r.With(updateAccess.Require).Put("/{id}", contacts.Update)
		r.With(removeAccess.Require).Delete("/{id}", contacts.Delete)
	})

	return r
}
