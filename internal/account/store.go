package account

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Store persists user accounts, budgets and round results. It speaks
// database/sql and supports sqlite (the default, file-backed) and postgres,
// selected by the DSN shape.
type Store struct {
	db     *sql.DB
	driver string
}

// Entry is one leaderboard row.
type Entry struct {
	Email  string `json:"email"`
	Budget int    `json:"budget"`
}

// Stats summarizes a player's round history.
type Stats struct {
	Email      string    `json:"email"`
	Rounds     int       `json:"rounds"`
	Wins       int       `json:"wins"`
	TotalBets  int       `json:"totalBets"`
	Net        int       `json:"net"`
	LastPlayed time.Time `json:"lastPlayed"`
}

// Open connects to the account database and creates the tables if needed.
// DSNs starting with "postgres://" (or in key=value form) select the
// postgres driver; anything else is treated as a sqlite file path.
func Open(dsn string) (*Store, error) {
	driver := "sqlite3"
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		driver = "postgres"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, driver: driver}
	if err := s.initTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			email TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			budget INTEGER NOT NULL DEFAULT 1000,
			created_at TIMESTAMP NOT NULL,
			last_login TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating users table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL REFERENCES users (email),
			bet INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			net INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating results table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			phase TEXT NOT NULL,
			state TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating sessions table: %w", err)
	}

	return nil
}

// SaveSnapshot upserts the latest JSON snapshot of a play session. Live
// sessions are served from memory; this trail exists for inspection and
// recovery.
func (s *Store) SaveSnapshot(id, email, phase, state string) error {
	now := time.Now()
	_, err := s.db.Exec(
		s.rebind(`
			INSERT INTO sessions (id, email, phase, state, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE
			SET phase = excluded.phase, state = excluded.state, updated_at = excluded.updated_at
		`),
		id, email, phase, state, now, now,
	)
	return err
}

// DeleteSnapshot removes a session's stored snapshot.
func (s *Store) DeleteSnapshot(id string) error {
	_, err := s.db.Exec(s.rebind("DELETE FROM sessions WHERE id = ?"), id)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to the $n form postgres expects.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Exists reports whether an account is registered for the email.
func (s *Store) Exists(email string) (bool, error) {
	var one int
	err := s.db.QueryRow(s.rebind("SELECT 1 FROM users WHERE email = ?"), email).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateUser inserts a new account with its starting budget.
func (s *Store) CreateUser(email, passwordHash string, budget int) error {
	now := time.Now()
	_, err := s.db.Exec(
		s.rebind("INSERT INTO users (email, password_hash, budget, created_at, last_login) VALUES (?, ?, ?, ?, ?)"),
		email, passwordHash, budget, now, now,
	)
	return err
}

// Credentials returns the stored password hash for the email.
func (s *Store) Credentials(email string) (string, error) {
	var hash string
	err := s.db.QueryRow(s.rebind("SELECT password_hash FROM users WHERE email = ?"), email).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", ErrUnknownUser
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

// Budget returns the account's current budget.
func (s *Store) Budget(email string) (int, error) {
	var budget int
	err := s.db.QueryRow(s.rebind("SELECT budget FROM users WHERE email = ?"), email).Scan(&budget)
	if err == sql.ErrNoRows {
		return 0, ErrUnknownUser
	}
	if err != nil {
		return 0, err
	}
	return budget, nil
}

// SetBudget stores a new budget for the account.
func (s *Store) SetBudget(email string, budget int) error {
	_, err := s.db.Exec(
		s.rebind("UPDATE users SET budget = ?, last_login = ? WHERE email = ?"),
		budget, time.Now(), email,
	)
	return err
}

// TouchLogin updates the account's last login timestamp.
func (s *Store) TouchLogin(email string) error {
	_, err := s.db.Exec(
		s.rebind("UPDATE users SET last_login = ? WHERE email = ?"),
		time.Now(), email,
	)
	return err
}

// Leaderboard returns accounts ordered by budget, richest first. A limit of
// 0 or less returns everyone.
func (s *Store) Leaderboard(limit int) ([]Entry, error) {
	query := "SELECT email, budget FROM users ORDER BY budget DESC, email ASC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Email, &e.Budget); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveResult records one resolved round for the account.
func (s *Store) SaveResult(email string, bet int, outcome string, net int) error {
	_, err := s.db.Exec(
		s.rebind("INSERT INTO results (id, email, bet, outcome, net, created_at) VALUES (?, ?, ?, ?, ?, ?)"),
		uuid.New().String(), email, bet, outcome, net, time.Now(),
	)
	return err
}

// Stats aggregates the account's round history.
func (s *Store) Stats(email string) (*Stats, error) {
	exists, err := s.Exists(email)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownUser
	}

	stats := &Stats{Email: email}

	err = s.db.QueryRow(
		s.rebind("SELECT COUNT(*), COALESCE(SUM(CASE WHEN outcome = 'win' THEN 1 ELSE 0 END), 0), COALESCE(SUM(bet), 0), COALESCE(SUM(net), 0) FROM results WHERE email = ?"),
		email,
	).Scan(&stats.Rounds, &stats.Wins, &stats.TotalBets, &stats.Net)
	if err != nil {
		return nil, err
	}

	if stats.Rounds > 0 {
		err = s.db.QueryRow(
			s.rebind("SELECT created_at FROM results WHERE email = ? ORDER BY created_at DESC LIMIT 1"),
			email,
		).Scan(&stats.LastPlayed)
		if err != nil {
			return nil, err
		}
	}

	return stats, nil
}
