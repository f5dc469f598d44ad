// Package session tracks live single-player play sessions.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cardtable/blackjack/internal/game"
)

// Session is one player's seat at the table: the identity it plays under and
// the round being played. Rounds are single-actor; the mutex serializes the
// HTTP and websocket surfaces driving the same session.
type Session struct {
	ID        string
	Email     string
	Round     *game.Round
	CreatedAt time.Time
	UpdatedAt time.Time

	mu sync.Mutex
}

// New creates a session for the identity with a round over the given player.
func New(email string, player *game.Player, cfg game.Config) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		Email:     email,
		Round:     game.NewRound(player, cfg),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Lock takes the session for one engine operation.
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the session and bumps its update time.
func (s *Session) Unlock() {
	s.UpdatedAt = time.Now()
	s.mu.Unlock()
}

// Store is the interface for session storage.
type Store interface {
	// Save stores a session.
	Save(s *Session) error

	// Get retrieves a session by ID.
	Get(id string) (*Session, error)

	// Delete removes a session.
	Delete(id string) error

	// All returns every live session.
	All() ([]*Session, error)
}
