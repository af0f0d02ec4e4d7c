package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/user/vida-loka-geracoes/internal/game"
	"github.com/user/vida-loka-geracoes/internal/gateway"
	"github.com/user/vida-loka-geracoes/internal/interfaces"
	"github.com/user/vida-loka-geracoes/internal/types"
)

// QRSize is the side of the share card PNG in pixels.
const QRSize = 256

// Server exposes the game manager over JSON HTTP
type Server struct {
	games   interfaces.GameManager
	catalog *game.Catalog
	logger  *zap.Logger
	timeout time.Duration
}

// New creates the HTTP surface. timeout bounds every request and must cover
// the gateway's full retry budget.
func New(games interfaces.GameManager, catalog *game.Catalog, logger *zap.Logger, timeout time.Duration) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 4 * time.Minute
	}
	return &Server{
		games:   games,
		catalog: catalog,
		logger:  logger,
		timeout: timeout,
	}
}

// Router builds the chi router with every route mounted
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(s.timeout))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	router.Route("/game", func(r chi.Router) {
		r.Get("/", s.handleState)
		r.Get("/catalog", s.handleCatalog)
		r.Post("/new", s.handleNewGame)
		r.Post("/routine", s.handleRoutine)
		r.Post("/event", s.action(s.games.NextEvent))
		r.Post("/choice", s.handleChoice)
		r.Post("/respond", s.handleRespond)
		r.Post("/autoplay", s.action(s.games.AutoPlay))
		r.Get("/checkpoints", s.handleCheckpoints)
		r.Post("/rollback", s.handleRollback)
		r.Post("/legacy/purchase", s.handlePurchase)
		r.Post("/legacy/continue", s.action(s.games.ContinueLineage))
		r.Post("/lineage/reset", s.action(s.games.ResetLineage))
		r.Get("/lineage/qr", s.handleQR)
		r.Post("/save", s.handleSave)
		r.Post("/load", s.action(s.games.Load))
	})

	return router
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.games.State())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"focuses": s.catalog.Focuses,
		"shop":    s.catalog.Shop,
		"titles":  s.catalog.Titles,
	})
}

// action adapts a body-less manager operation to a handler
func (s *Server) action(op func(context.Context) (types.GameState, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := op(r.Context())
		s.respond(w, r, state, err)
	}
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req types.NewGameOptions
	if !decode(w, r, &req) {
		return
	}
	state, err := s.games.NewGame(r.Context(), req)
	s.respond(w, r, state, err)
}

func (s *Server) handleRoutine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FocusID string `json:"focus_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	state, err := s.games.PlanRoutine(r.Context(), req.FocusID)
	s.respond(w, r, state, err)
}

func (s *Server) handleChoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Index == nil {
		writeError(w, http.StatusBadRequest, "index is required")
		return
	}
	state, err := s.games.ChooseOption(r.Context(), *req.Index)
	s.respond(w, r, state, err)
}

func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &req) {
		return
	}
	state, err := s.games.RespondFreeform(r.Context(), req.Text)
	s.respond(w, r, state, err)
}

func (s *Server) handleCheckpoints(w http.ResponseWriter, r *http.Request) {
	type checkpointView struct {
		ID        string          `json:"id"`
		Label     string          `json:"label"`
		CreatedAt time.Time       `json:"created_at"`
		Phase     types.GamePhase `json:"phase"`
		Year      int             `json:"year"`
	}
	checkpoints := s.games.Checkpoints()
	views := make([]checkpointView, 0, len(checkpoints))
	for _, cp := range checkpoints {
		views = append(views, checkpointView{
			ID:        cp.ID,
			Label:     cp.Label,
			CreatedAt: cp.CreatedAt,
			Phase:     cp.State.Phase,
			Year:      cp.State.CurrentYear,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleRollback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CheckpointID string `json:"checkpoint_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	state, err := s.games.Rollback(r.Context(), req.CheckpointID)
	s.respond(w, r, state, err)
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"item_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	state, err := s.games.PurchaseBonus(r.Context(), req.ItemID)
	s.respond(w, r, state, err)
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	card, err := s.games.ShareCard()
	if err != nil {
		s.respond(w, r, types.GameState{}, err)
		return
	}
	png, err := qrcode.Encode(card, qrcode.Medium, QRSize)
	if err != nil {
		s.logger.Error("Failed to generate QR code", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.games.Save(r.Context()); err != nil {
		s.respond(w, r, types.GameState{}, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respond writes the state, or the error with the state it left behind
func (s *Server) respond(w http.ResponseWriter, r *http.Request, state types.GameState, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, state)
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	writeJSON(w, status, map[string]any{
		"error": err.Error(),
		"state": state,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrRequestPending),
		errors.Is(err, game.ErrInvalidPhase),
		errors.Is(err, game.ErrNoEvent),
		errors.Is(err, game.ErrNoCharacter):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidChoice),
		errors.Is(err, game.ErrUnknownFocus),
		errors.Is(err, game.ErrUnknownItem):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrInsufficientPoints),
		errors.Is(err, game.ErrMaxTier):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrCheckpointNotFound),
		errors.Is(err, interfaces.ErrSaveNotFound):
		return http.StatusNotFound
	case errors.Is(err, gateway.ErrQuota):
		return http.StatusTooManyRequests
	case game.IsGatewayError(err):
		return http.StatusBadGateway
	case errors.Is(err, game.ErrNoSaveStore):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
