package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/cryptodeck/cryptodeck-api/docs"
	"github.com/cryptodeck/cryptodeck-api/internal/api"
	"github.com/cryptodeck/cryptodeck-api/internal/api/auth"
	"github.com/cryptodeck/cryptodeck-api/internal/api/coins"
	"github.com/cryptodeck/cryptodeck-api/internal/api/favorites"
	"github.com/cryptodeck/cryptodeck-api/internal/api/user"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler      auth.Handler
	UserHandler      user.Handler
	FavoritesHandler favorites.Handler
	CoinsHandler     coins.Handler
	Gate             *auth.Gate
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied before
// mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Welcome to the Crypto API backend 🚀"))
	})
	r.Post("/echo", echoHandler)
	r.Get("/swagger/*", httpSwagger.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/coins", cfg.CoinsHandler.GetCoins)

		r.Route("/auth", func(r chi.Router) {
			// Public auth routes
			r.Post("/signup", cfg.AuthHandler.Signup)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Post("/forgot-password", cfg.AuthHandler.ForgotPassword)
			r.Get("/verify-email", cfg.AuthHandler.VerifyEmail)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(cfg.Gate.Authenticate)

				r.Get("/profile", cfg.UserHandler.GetProfile)
				r.Put("/profile", cfg.UserHandler.UpdateProfile)
				r.Post("/update-password", cfg.AuthHandler.UpdatePassword)

				r.Get("/favorites", cfg.FavoritesHandler.List)
				r.Post("/favorites", cfg.FavoritesHandler.Add)
				r.Delete("/favorites/{coinId}", cfg.FavoritesHandler.Remove)
			})
		})
	})

	return r
}

// echoHandler reflects the request body back, untouched.
func echoHandler(w http.ResponseWriter, r *http.Request) {
	var body json.RawMessage
	if err := api.DecodeJSONBody(w, r, &body); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]json.RawMessage{"received": body})
}
