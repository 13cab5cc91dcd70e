package api

import (
	"net/http"
	"strconv"

	"github.com/kantoku/kantoku/internal/errors"
)

func (s *Server) handleQuizSizes(w http.ResponseWriter, r *http.Request) {
	sizes, pool, err := s.QuizService.DeckSizes(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"sizes": sizes, "pool": pool})
}

func (s *Server) handleQuizDeck(w http.ResponseWriter, r *http.Request) {
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid size"))
		return
	}

	deck, err := s.QuizService.BuildDeck(r.Context(), size)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"deck": deck})
}

func (s *Server) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID int    `json:"card_id"`
		Answer string `json:"answer"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	correct, err := s.QuizService.Answer(r.Context(), req.CardID, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"correct": correct})
}

func (s *Server) handleQuizFinish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Score int `json:"score"`
		Total int `json:"total"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	result, err := s.QuizService.Finish(r.Context(), req.Score, req.Total)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleQuizHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.QuizService.History(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	average := 0.0
	if len(entries) > 0 {
		sum := 0
		for _, e := range entries {
			sum += e.Percentage
		}
		average = float64(sum) / float64(len(entries))
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"history": entries, "average": average})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			handleError(w, r, errors.NewBadRequestError("invalid limit"))
			return
		}
		limit = parsed
	}

	best, worst, err := s.QuizService.TopStats(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"best": best, "worst": worst})
}
