package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"duel-ladder/internal/domain"
	"duel-ladder/internal/service"
	"duel-ladder/internal/settlement"

	"github.com/rs/zerolog"
)

// LadderServer exposes the settlement engine and player reads over JSON/HTTP.
type LadderServer struct {
	settlementSvc *settlement.Service
	playerSvc     *service.PlayerService
	logger        zerolog.Logger
}

func NewLadderServer(settlementSvc *settlement.Service, playerSvc *service.PlayerService, logger zerolog.Logger) *LadderServer {
	return &LadderServer{settlementSvc: settlementSvc, playerSvc: playerSvc, logger: logger}
}

// Routes registers all handlers on mux.
func (s *LadderServer) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/settlements", s.handleSettle)
	mux.HandleFunc("POST /api/v1/players", s.handleRegisterPlayer)
	mux.HandleFunc("GET /api/v1/players/{id}", s.handleGetPlayer)
	mux.HandleFunc("GET /api/v1/players/{id}/history", s.handleHistory)
}

func (s *LadderServer) handleSettle(w http.ResponseWriter, r *http.Request) {
	var req domain.SettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	result, err := s.settlementSvc.Settle(r.Context(), &req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

type registerPlayerRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type playerResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	XP       float64 `json:"xp"`
	Rating   int     `json:"rating"`
	Level    int     `json:"level"`
	Rank     int     `json:"rank"`
	RankName string  `json:"rank_name"`
}

func (s *LadderServer) handleRegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req registerPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	player, err := s.playerSvc.Register(r.Context(), req.ID, req.Name)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toPlayerResponse(player))
}

func (s *LadderServer) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := s.playerSvc.GetPlayer(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toPlayerResponse(player))
}

type historyEntry struct {
	ID           string    `json:"id"`
	RatingBefore int       `json:"rating_before"`
	RatingAfter  int       `json:"rating_after"`
	RatingChange int       `json:"rating_change"`
	XPBefore     float64   `json:"xp_before"`
	XPAfter      float64   `json:"xp_after"`
	XPChange     float64   `json:"xp_change"`
	Kind         string    `json:"kind"`
	SettledAt    time.Time `json:"settled_at"`
}

func (s *LadderServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := s.playerSvc.History(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	entries := make([]historyEntry, len(records))
	for i, rec := range records {
		entries[i] = historyEntry{
			ID:           rec.ID,
			RatingBefore: rec.RatingBefore,
			RatingAfter:  rec.RatingAfter,
			RatingChange: rec.RatingChange,
			XPBefore:     rec.XPBefore,
			XPAfter:      rec.XPAfter,
			XPChange:     rec.XPChange,
			Kind:         rec.Kind,
			SettledAt:    rec.CreatedAt,
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"history": entries})
}

func toPlayerResponse(p *domain.Player) playerResponse {
	return playerResponse{
		ID:       p.ID,
		Name:     p.Name,
		XP:       p.XP,
		Rating:   p.Rating,
		Level:    p.Level,
		Rank:     p.Rank,
		RankName: p.RankName,
	}
}

// writeDomainError maps the error taxonomy to HTTP status codes: validation
// 400, unknown player 404, anything else (persistence) 500.
func (s *LadderServer) writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		s.writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, domain.ErrPlayerNotFound):
		s.writeError(w, http.StatusNotFound, "player not found")
	default:
		s.logger.Error().Err(err).Msg("request failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *LadderServer) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *LadderServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}
