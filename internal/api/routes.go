package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(timeoutMiddleware(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/cards", s.handleCards)
		r.Post("/cards/refresh", s.handleRefresh)
		r.Get("/tags", s.handleTags)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleSessionState)
			r.Post("/tag", s.handleSelectTag)
			r.Post("/viewport", s.handleViewport)
			r.Post("/advance", s.handleAdvance)
			r.Post("/back", s.handleBack)
			r.Post("/wheel", s.handleWheel)
			r.Post("/key", s.handleKey)
			r.Post("/drag", s.handleDrag)
			r.Post("/answer", s.handleAnswer)
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/sizes", s.handleQuizSizes)
			r.Get("/deck", s.handleQuizDeck)
			r.Post("/answer", s.handleQuizAnswer)
			r.Post("/finish", s.handleQuizFinish)
			r.Get("/history", s.handleQuizHistory)
		})

		r.Get("/stats", s.handleStats)
	})

	return r
}
