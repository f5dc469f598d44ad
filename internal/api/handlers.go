package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/cardtable/blackjack/internal/account"
	"github.com/cardtable/blackjack/internal/game"
	"github.com/cardtable/blackjack/internal/session"
)

// Handlers contains all the API handlers.
type Handlers struct {
	sessions session.Store
	accounts *account.Service
	hub      *Hub
	cfg      game.Config
	logger   *log.Logger

	// pending confirmation codes by email, issued but not yet redeemed
	mu      sync.Mutex
	pending map[string]string
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(sessions session.Store, accounts *account.Service, hub *Hub, cfg game.Config, logger *log.Logger) *Handlers {
	return &Handlers{
		sessions: sessions,
		accounts: accounts,
		hub:      hub,
		cfg:      cfg,
		logger:   logger.WithPrefix("api"),
		pending:  make(map[string]string),
	}
}

// RegisterRoutes registers all API routes.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	// Account endpoints
	r.HandleFunc("/api/auth/code", h.IssueCode).Methods("POST")
	r.HandleFunc("/api/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/api/leaderboard", h.Leaderboard).Methods("GET")
	r.HandleFunc("/api/player/stats", h.Stats).Methods("GET")

	// Session endpoints
	r.HandleFunc("/api/session/new", h.NewSession).Methods("POST")
	r.HandleFunc("/api/session/{id}", h.GetSession).Methods("GET")
	r.HandleFunc("/api/session/{id}/bet", h.Bet).Methods("POST")
	r.HandleFunc("/api/session/{id}/hit", h.Hit).Methods("POST")
	r.HandleFunc("/api/session/{id}/stand", h.Stand).Methods("POST")
	r.HandleFunc("/api/session/{id}/dealer", h.Dealer).Methods("POST")
	r.HandleFunc("/api/session/{id}/next", h.NextRound).Methods("POST")

	// WebSocket endpoint
	r.HandleFunc("/ws", h.hub.WebSocketHandler)
}

// response helper function to send JSON responses
func response(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// error response helper function
func errorResponse(w http.ResponseWriter, status int, message string) {
	response(w, status, map[string]string{"error": message})
}

// IssueCode mails a confirmation code to an address about to register.
func (h *Handlers) IssueCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	exists, err := h.accounts.Exists(req.Email)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to check account")
		return
	}
	if exists {
		errorResponse(w, http.StatusConflict, "Email already registered")
		return
	}

	code, err := h.accounts.IssueCode(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("issuing confirmation code", "email", req.Email, "error", err)
		errorResponse(w, http.StatusInternalServerError, "Failed to send confirmation code")
		return
	}

	h.mu.Lock()
	h.pending[req.Email] = code
	h.mu.Unlock()

	response(w, http.StatusOK, map[string]string{
		"message": "The confirmation code has been sent to your email address",
	})
}

// Register creates an account once the mailed code is confirmed.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Code     string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.mu.Lock()
	issued := h.pending[req.Email]
	h.mu.Unlock()

	if err := h.accounts.Register(req.Email, req.Password, issued, req.Code); err != nil {
		switch {
		case errors.Is(err, account.ErrCodeMismatch):
			errorResponse(w, http.StatusBadRequest, "Invalid code")
		case errors.Is(err, account.ErrEmailTaken):
			errorResponse(w, http.StatusConflict, "Email already registered")
		case errors.Is(err, account.ErrBadEmail), errors.Is(err, account.ErrBadPassword):
			errorResponse(w, http.StatusBadRequest, err.Error())
		default:
			errorResponse(w, http.StatusInternalServerError, "Failed to register")
		}
		return
	}

	h.mu.Lock()
	delete(h.pending, req.Email)
	h.mu.Unlock()

	response(w, http.StatusCreated, map[string]interface{}{
		"email":  req.Email,
		"budget": account.SignupGift,
	})
}

// Login verifies credentials and returns the persisted budget.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.accounts.Login(req.Email, req.Password); err != nil {
		if errors.Is(err, account.ErrBadCredentials) || errors.Is(err, account.ErrUnknownUser) {
			errorResponse(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		errorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	budget, err := h.accounts.LoadBudget(req.Email)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to load budget")
		return
	}

	response(w, http.StatusOK, map[string]interface{}{
		"email":  req.Email,
		"budget": budget,
	})
}

// Leaderboard returns accounts ordered by budget.
func (h *Handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.accounts.Leaderboard(limit)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Error retrieving leaderboard")
		return
	}
	if entries == nil {
		entries = []account.Entry{}
	}

	response(w, http.StatusOK, entries)
}

// Stats returns a player's round history summary.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		errorResponse(w, http.StatusBadRequest, "Email is required")
		return
	}

	stats, err := h.accounts.Stats(email)
	if err != nil {
		if errors.Is(err, account.ErrUnknownUser) {
			errorResponse(w, http.StatusNotFound, "Player not found")
			return
		}
		errorResponse(w, http.StatusInternalServerError, "Error retrieving player statistics")
		return
	}

	response(w, http.StatusOK, stats)
}

// NewSession seats a logged-in player with their persisted budget.
func (h *Handlers) NewSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	budget, err := h.accounts.LoadBudget(req.Email)
	if err != nil {
		if errors.Is(err, account.ErrUnknownUser) {
			errorResponse(w, http.StatusNotFound, "Player not found")
			return
		}
		errorResponse(w, http.StatusInternalServerError, "Failed to load budget")
		return
	}

	sess := session.New(req.Email, game.NewPlayer(budget), h.cfg)
	if err := h.sessions.Save(sess); err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	response(w, http.StatusCreated, map[string]interface{}{
		"id":    sess.ID,
		"state": sess.Round.Snapshot(),
	})
}

// GetSession returns the current snapshot of a session.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.Lock()
	snap := sess.Round.Snapshot()
	sess.Unlock()

	response(w, http.StatusOK, snap)
}

// Bet opens the round with the requested bet.
func (h *Handlers) Bet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.step(w, r, func(round *game.Round) error {
		return round.Open(req.Amount)
	})
}

// Hit draws one card for the player.
func (h *Handlers) Hit(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, (*game.Round).Hit)
}

// Stand ends the player's turn.
func (h *Handlers) Stand(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, (*game.Round).Stand)
}

// Dealer plays out the dealer's turn and resolves the round.
func (h *Handlers) Dealer(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, (*game.Round).PlayDealer)
}

// NextRound resets the session's round for another play-through.
func (h *Handlers) NextRound(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(round *game.Round) error {
		round.Reset()
		return nil
	})
}

// session resolves the {id} route variable to a live session.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		errorResponse(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return sess, true
}

// step runs one engine operation on the session's round, persists the
// outcome when the round resolves, and broadcasts the new snapshot.
func (h *Handlers) step(w http.ResponseWriter, r *http.Request, op func(*game.Round) error) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.Lock()
	err := op(sess.Round)
	resolved := err == nil && sess.Round.Phase() == game.Resolved
	snap := sess.Round.Snapshot()
	outcome := sess.Round.Outcome()
	net := sess.Round.Net()
	bet := sess.Round.Player().Bet()
	budget := sess.Round.Player().Budget()
	sess.Unlock()

	if err != nil {
		switch {
		case errors.Is(err, game.ErrInvalidBet):
			errorResponse(w, http.StatusBadRequest, "Invalid bet")
		case errors.Is(err, game.ErrInsufficientFunds):
			errorResponse(w, http.StatusConflict, "Player has no money left")
		case errors.Is(err, game.ErrBadPhase):
			errorResponse(w, http.StatusConflict, "Action not allowed in current phase")
		default:
			h.logger.Error("engine step failed", "session", sess.ID, "error", err)
			errorResponse(w, http.StatusInternalServerError, "Engine error")
		}
		return
	}

	if err := h.sessions.Save(sess); err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to update session")
		return
	}

	if resolved {
		if err := h.accounts.SaveBudget(sess.Email, budget); err != nil {
			h.logger.Error("persisting budget", "email", sess.Email, "error", err)
			errorResponse(w, http.StatusInternalServerError, "Failed to record round")
			return
		}
		if err := h.accounts.SaveResult(sess.Email, bet, string(outcome), net); err != nil {
			h.logger.Error("recording result", "email", sess.Email, "error", err)
			errorResponse(w, http.StatusInternalServerError, "Failed to record round")
			return
		}
	}

	if h.hub != nil {
		h.hub.BroadcastSession(sess.ID, snap)
	}

	response(w, http.StatusOK, snap)
}
