package api

import (
	"net/http"
	"time"

	"github.com/kantoku/kantoku/internal/errors"
	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/services"
)

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	state, err := s.SessionService.State(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleSelectTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tag string `json:"tag"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	log := logger.FromContext(r.Context())
	log.Debug("tag selection request: %q", req.Tag)

	state, err := s.SessionService.SelectTag(r.Context(), req.Tag)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Height float64 `json:"height"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	state, err := s.SessionService.SetViewport(r.Context(), req.Height)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	state, err := s.SessionService.Advance(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	state, err := s.SessionService.Retreat(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleWheel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeltaY float64 `json:"delta_y"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	state, err := s.SessionService.Wheel(r.Context(), req.DeltaY)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	state, err := s.SessionService.Key(r.Context(), req.Key)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phase       string  `json:"phase"`
		Y           float64 `json:"y"`
		TimestampMS int64   `json:"timestamp_ms"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	var at time.Time
	if req.TimestampMS > 0 {
		at = time.UnixMilli(req.TimestampMS)
	}

	state, err := s.SessionService.Drag(r.Context(), services.DragPhase(req.Phase), req.Y, at)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	result, err := s.SessionService.Answer(r.Context(), req.Input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Info("manual dataset refresh requested")

	if err := s.SessionService.Refresh(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}

	state, err := s.SessionService.State(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.SessionService.Cards(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"cards": cards, "count": len(cards)})
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.SessionService.Tags(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"tags": tags})
}
