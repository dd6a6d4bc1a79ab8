package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"places-backend/internal/auth"
)

// NewRouter assembles the API routes. Reads are public (with optional
// authentication for ownership flags); writes require a bearer token and
// are rate limited per IP and endpoint.
func NewRouter(usersH *UserHandler, placesH *PlaceHandler, secretKey []byte) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", usersH.Register)
		r.Post("/login", usersH.Login)
		r.Get("/", usersH.List)
		r.Get("/{id}", usersH.Detail)
	})

	r.Route("/places", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalUser(secretKey))
			r.Get("/", placesH.List)
			r.Get("/geojson", placesH.GeoJSON)
			r.Get("/{id}", placesH.Detail)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(secretKey))
			r.Use(httprate.Limit(
				20,
				1*time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
			))
			r.Post("/", placesH.Create)
			r.Put("/{id}", placesH.Update)
			r.Delete("/{id}", placesH.Delete)
		})
	})

	return r
}
