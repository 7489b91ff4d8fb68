package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/phrazzld/scry-vocab/internal/api"
	apiMiddleware "github.com/phrazzld/scry-vocab/internal/api/middleware"
	"github.com/phrazzld/scry-vocab/internal/api/shared"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   app.config.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch},
		AllowedHeaders:   []string{"Authorization", "Content-Type", shared.RequestIDHeader},
		ExposedHeaders:   []string{shared.TraceIDHeader},
		AllowCredentials: false,
	}).Handler)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	quizHandler := api.NewQuizHandler(app.quizzes, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Put("/me", userHandler.EnsureUser)
		r.Get("/me/stats", userHandler.GetStats)
		r.Patch("/me/preferences", userHandler.UpdatePreferences)

		r.Post("/cards", cardHandler.AddCard)
		r.Get("/cards", cardHandler.ListCards)
		r.Post("/cards/label", cardHandler.LabelCards)
		r.Post("/cards/delete", cardHandler.DeleteCards)

		r.Post("/quiz", quizHandler.StartQuiz)
		r.Get("/quiz/{id}", quizHandler.GetQuiz)
		r.Post("/quiz/{id}/flip", quizHandler.Flip)
		r.Post("/quiz/{id}/rate", quizHandler.Rate)
		r.Post("/quiz/{id}/stop", quizHandler.Stop)
	})

	r.Get("/health", app.health)

	return r
}

func (app *application) health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !app.sweeper.IsRunning() {
		status = "degraded"
	}
	shared.RespondWithJSON(w, r, http.StatusOK, api.HealthResponse{Status: status})
}
