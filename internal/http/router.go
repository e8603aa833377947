package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rooterworks/rmetrack/internal/http/history"
	"github.com/rooterworks/rmetrack/internal/http/rme"
)

func New(
	rmeV1 *rme.Handler,
	historyV1 *history.Handler,
	jwtSecret string,
	allowedOrigins []string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(Auth(jwtSecret))

		r.Route("/rme", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			rmeV1.Routes(r)
		})

		r.Route("/history", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			historyV1.Routes(r)
		})
	})

	return router
}
