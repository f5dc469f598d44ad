package session

import (
	"encoding/json"

	"github.com/cardtable/blackjack/internal/account"
)

// AuditStore serves sessions from an inner store and writes each saved
// snapshot through to the account database. Live rounds cannot be rebuilt
// from a snapshot, so reads never touch the database.
type AuditStore struct {
	inner    Store
	accounts *account.Store
}

// NewAuditStore wraps a store with database write-through.
func NewAuditStore(inner Store, accounts *account.Store) *AuditStore {
	return &AuditStore{
		inner:    inner,
		accounts: accounts,
	}
}

// Save stores the session and records its current snapshot. The snapshot
// read takes the session lock; callers must not hold it across Save.
func (s *AuditStore) Save(sess *Session) error {
	if err := s.inner.Save(sess); err != nil {
		return err
	}

	sess.Lock()
	snap := sess.Round.Snapshot()
	sess.Unlock()
	state, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.accounts.SaveSnapshot(sess.ID, sess.Email, snap.Phase, string(state))
}

// Get retrieves a session by ID.
func (s *AuditStore) Get(id string) (*Session, error) {
	return s.inner.Get(id)
}

// Delete removes the session and its stored snapshot.
func (s *AuditStore) Delete(id string) error {
	if err := s.inner.Delete(id); err != nil {
		return err
	}
	return s.accounts.DeleteSnapshot(id)
}

// All returns every live session.
func (s *AuditStore) All() ([]*Session, error) {
	return s.inner.All()
}
