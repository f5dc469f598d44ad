package account

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/cardtable/blackjack/internal/mail"
)

// SignupGift is the budget granted to a freshly registered account.
const SignupGift = 1000

var (
	// ErrUnknownUser indicates no account exists for the email.
	ErrUnknownUser = errors.New("account: unknown user")

	// ErrBadCredentials indicates a failed password check.
	ErrBadCredentials = errors.New("account: invalid email or password")

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("account: email already registered")

	// ErrCodeMismatch indicates the entered confirmation code does not match
	// the issued one.
	ErrCodeMismatch = errors.New("account: confirmation code does not match")

	// ErrBadEmail and ErrBadPassword reject credentials that fail the
	// format rules before anything is hashed or stored.
	ErrBadEmail    = errors.New("account: email must contain @ and be shorter than 255 characters")
	ErrBadPassword = errors.New("account: password must be 6 to 72 bytes")
)

// Service implements the identity and ledger capabilities the game engine
// consumes: credential checks, confirmation codes, budget load/save, the
// leaderboard and per-round results.
type Service struct {
	store  *Store
	sender mail.CodeSender
	logger *log.Logger
}

// NewService wires the account store to a code sender.
func NewService(store *Store, sender mail.CodeSender, logger *log.Logger) *Service {
	return &Service{
		store:  store,
		sender: sender,
		logger: logger.WithPrefix("account"),
	}
}

// ValidateCredentials applies the format rules: email shorter than 255
// characters containing "@", password between 6 and 72 bytes (the bcrypt
// input limit).
func ValidateCredentials(email, password string) error {
	if len(email) >= 255 || !strings.Contains(email, "@") {
		return ErrBadEmail
	}
	if len(password) < 6 || len(password) > 72 {
		return ErrBadPassword
	}
	return nil
}

// Exists reports whether the email is already registered.
func (s *Service) Exists(email string) (bool, error) {
	return s.store.Exists(email)
}

// IssueCode generates a confirmation code and sends it to the address. The
// returned code is compared against the user's input during Register.
func (s *Service) IssueCode(ctx context.Context, email string) (string, error) {
	code := mail.NewCode()
	if err := s.sender.Send(ctx, email, code); err != nil {
		return "", err
	}
	s.logger.Debug("confirmation code sent", "email", email)
	return code, nil
}

// Register creates an account once the entered confirmation code matches the
// issued one. New accounts start with the signup gift.
func (s *Service) Register(email, password, issued, entered string) error {
	if err := ValidateCredentials(email, password); err != nil {
		return err
	}
	if issued == "" || subtle.ConstantTimeCompare([]byte(issued), []byte(entered)) != 1 {
		return ErrCodeMismatch
	}

	exists, err := s.store.Exists(email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.store.CreateUser(email, string(hash), SignupGift); err != nil {
		return err
	}

	s.logger.Info("account registered", "email", email)
	return nil
}

// Login verifies the password against the stored bcrypt hash.
func (s *Service) Login(email, password string) error {
	hash, err := s.store.Credentials(email)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrBadCredentials
	}
	return s.store.TouchLogin(email)
}

// LoadBudget returns the persisted budget for the account.
func (s *Service) LoadBudget(email string) (int, error) {
	return s.store.Budget(email)
}

// SaveBudget persists the budget after a round.
func (s *Service) SaveBudget(email string, budget int) error {
	return s.store.SetBudget(email, budget)
}

// Leaderboard returns accounts ordered by budget, richest first.
func (s *Service) Leaderboard(limit int) ([]Entry, error) {
	return s.store.Leaderboard(limit)
}

// SaveResult records one resolved round.
func (s *Service) SaveResult(email string, bet int, outcome string, net int) error {
	return s.store.SaveResult(email, bet, outcome, net)
}

// Stats aggregates the account's round history.
func (s *Service) Stats(email string) (*Stats, error) {
	return s.store.Stats(email)
}
