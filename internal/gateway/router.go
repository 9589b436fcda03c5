package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yourorg/tradetrackr/internal/auth"
)

func NewRouter(h *Handlers, hub *Hub, jwtSvc *auth.JWTService) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/api/auth/register", h.Register)
	r.Post("/api/auth/login", h.Login)
	r.Get("/api/leaderboard", h.GetLeaderboard)
	r.Get("/api/profiles/{username}", h.GetPublicProfile)

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(jwtSvc))
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)
		r.Get("/stats", h.GetStats)
		r.Get("/trades", h.ListTrades)
		r.Post("/trades", h.CreateTrade)
		r.Get("/trades/{id}", h.GetTrade)
		r.Put("/trades/{id}", h.UpdateTrade)
		r.Delete("/trades/{id}", h.DeleteTrade)
		r.Get("/calculator/pip-value", h.PipValueCalc)
		r.Post("/maintenance/fix-stats", h.FixStats)
		r.Post("/maintenance/normalize-results", h.NormalizeResults)
	})

	r.Get("/ws", ServeWS(hub, h.logger))

	return r
}
