package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the REST API, the game WebSocket and the operational endpoints.
func NewRouter(api *APIHandler, ws *WSHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Audio-Source"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Route("/characters", func(r chi.Router) {
			r.Get("/", api.Gallery)
			r.Post("/{id}/like", api.LikeCharacter)
			r.Get("/{id}/audio", api.CharacterAudio)
		})
		r.Route("/guestbook", func(r chi.Router) {
			r.Get("/", api.Guestbook)
			r.Post("/", api.SignGuestbook)
			r.Post("/{id}/like", api.LikeGuestbookEntry)
		})
		r.Get("/rankings", api.Rankings)
		r.Route("/fortune", func(r chi.Router) {
			r.Post("/", api.PullFortune)
			r.Get("/remaining", api.FortuneRemaining)
		})
	})
	return r
}
