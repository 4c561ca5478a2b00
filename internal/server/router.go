package server

import (
	"net/http"

	"github.com/shouni/gemini-menu-studio/internal/server/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter は、ミドルウェアとルーティングを統合した http.Handler を構築します。
func NewRouter(h *handlers.Handler) http.Handler {
	r := chi.NewRouter()

	setupCommonMiddleware(r)
	setupRoutes(r, h)

	return r
}

func setupCommonMiddleware(r *chi.Mux) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
}

func setupRoutes(r chi.Router, h *handlers.Handler) {
	r.Get("/healthz", h.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/styles", h.ListStyles)
		r.Get("/state", h.GetState)
		r.Get("/ws", h.ServeWS)

		r.Post("/menu", h.SubmitMenu)
		r.Put("/style", h.ChangeStyle)
		r.Put("/aspect", h.ChangeAspect)

		r.Route("/edit", func(r chi.Router) {
			r.Post("/", h.RequestEdit)
			r.Delete("/", h.CloseEdit)
			r.Post("/apply", h.ApplyEdit)
		})

		r.Post("/dishes/{name}/import", h.ImportImage)
	})
}
