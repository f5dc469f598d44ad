package account

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSender records the last code instead of mailing it.
type captureSender struct {
	recipient string
	code      string
}

func (c *captureSender) Send(ctx context.Context, recipient, code string) error {
	c.recipient = recipient
	c.code = code
	return nil
}

func newTestService(t *testing.T) (*Service, *captureSender) {
	t.Helper()

	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	sender := &captureSender{}
	return NewService(store, sender, log.New(io.Discard)), sender
}

func register(t *testing.T, svc *Service, sender *captureSender, email, password string) {
	t.Helper()
	code, err := svc.IssueCode(context.Background(), email)
	require.NoError(t, err)
	require.NoError(t, svc.Register(email, password, code, sender.code))
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "player@example.com", "secret1", nil},
		{"no at sign", "playerexample.com", "secret1", ErrBadEmail},
		{"email too long", string(make([]byte, 255)) + "@x", "secret1", ErrBadEmail},
		{"password too short", "player@example.com", "12345", ErrBadPassword},
		{"password too long", "player@example.com", string(make([]byte, 73)), ErrBadPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.email, tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, sender := newTestService(t)

	code, err := svc.IssueCode(context.Background(), "player@example.com")
	require.NoError(t, err)
	assert.Equal(t, "player@example.com", sender.recipient)
	assert.Len(t, code, 8)
	assert.Equal(t, code, sender.code, "the issued code is what gets mailed")

	require.NoError(t, svc.Register("player@example.com", "secret1", code, code))

	budget, err := svc.LoadBudget("player@example.com")
	require.NoError(t, err)
	assert.Equal(t, SignupGift, budget)

	require.NoError(t, svc.Login("player@example.com", "secret1"))
	assert.ErrorIs(t, svc.Login("player@example.com", "wrong-password"), ErrBadCredentials)
	assert.ErrorIs(t, svc.Login("nobody@example.com", "secret1"), ErrUnknownUser)
}

func TestRegisterRejectsWrongCode(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Register("player@example.com", "secret1", "aabbccdd", "11223344")
	assert.ErrorIs(t, err, ErrCodeMismatch)

	exists, err := svc.Exists("player@example.com")
	require.NoError(t, err)
	assert.False(t, exists, "no account is created on a code mismatch")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, sender := newTestService(t)
	register(t, svc, sender, "player@example.com", "secret1")

	code, err := svc.IssueCode(context.Background(), "player@example.com")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Register("player@example.com", "secret2", code, code), ErrEmailTaken)
}

func TestBudgetPersistence(t *testing.T) {
	svc, sender := newTestService(t)
	register(t, svc, sender, "player@example.com", "secret1")

	require.NoError(t, svc.SaveBudget("player@example.com", 1350))
	budget, err := svc.LoadBudget("player@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1350, budget)

	_, err = svc.LoadBudget("nobody@example.com")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestLeaderboardOrder(t *testing.T) {
	svc, sender := newTestService(t)
	register(t, svc, sender, "low@example.com", "secret1")
	register(t, svc, sender, "high@example.com", "secret1")
	register(t, svc, sender, "mid@example.com", "secret1")

	require.NoError(t, svc.SaveBudget("low@example.com", 200))
	require.NoError(t, svc.SaveBudget("high@example.com", 5000))
	require.NoError(t, svc.SaveBudget("mid@example.com", 1500))

	entries, err := svc.Leaderboard(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "high@example.com", entries[0].Email)
	assert.Equal(t, 5000, entries[0].Budget)
	assert.Equal(t, "mid@example.com", entries[1].Email)
	assert.Equal(t, "low@example.com", entries[2].Email)

	top, err := svc.Leaderboard(2)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestResultsAndStats(t *testing.T) {
	svc, sender := newTestService(t)
	register(t, svc, sender, "player@example.com", "secret1")

	require.NoError(t, svc.SaveResult("player@example.com", 100, "win", 100))
	require.NoError(t, svc.SaveResult("player@example.com", 200, "lose", -200))
	require.NoError(t, svc.SaveResult("player@example.com", 50, "push", 0))

	stats, err := svc.Stats("player@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Rounds)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 350, stats.TotalBets)
	assert.Equal(t, -100, stats.Net)
	assert.False(t, stats.LastPlayed.IsZero())

	_, err = svc.Stats("nobody@example.com")
	assert.ErrorIs(t, err, ErrUnknownUser)
}
