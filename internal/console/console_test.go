package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardtable/blackjack/internal/account"
	"github.com/cardtable/blackjack/internal/game"
)

func scripted(input string) (*Console, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out), &out
}

func TestBetAmount(t *testing.T) {
	c, out := scripted("all of it\n250\n")

	amount, err := c.BetAmount(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, 250, amount)
	assert.Contains(t, out.String(), "You have $1000")
	assert.Contains(t, out.String(), "whole number")
}

func TestBetAmountInputClosed(t *testing.T) {
	c, _ := scripted("")

	_, err := c.BetAmount(context.Background(), 1000)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestBetAmountCanceled(t *testing.T) {
	c, _ := scripted("100\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.BetAmount(ctx, 1000)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHitDecision(t *testing.T) {
	tests := []struct {
		input string
		hit   bool
	}{
		{"h\n", true},
		{"hit\n", true},
		{"s\n", false},
		{"STAND\n", false},
		{"what\nh\n", true},
	}

	for _, tt := range tests {
		c, _ := scripted(tt.input)
		hit, err := c.HitDecision(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tt.hit, hit, "input %q", tt.input)
	}
}

func TestAskYesNo(t *testing.T) {
	c, out := scripted("maybe\nY\n")

	ok, err := c.AskYesNo("Play another round?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Play another round?")

	c, _ = scripted("no\n")
	ok, err = c.AskYesNo("Play another round?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStartChoice(t *testing.T) {
	c, _ := scripted("7\n2\n")

	choice, err := c.StartChoice()
	require.NoError(t, err)
	assert.Equal(t, "top", choice)

	c, _ = scripted("1\n")
	choice, err = c.StartChoice()
	require.NoError(t, err)
	assert.Equal(t, "play", choice)

	c, _ = scripted("3\n")
	choice, err = c.StartChoice()
	require.NoError(t, err)
	assert.Equal(t, "stats", choice)

	c, _ = scripted("q\n")
	choice, err = c.StartChoice()
	require.NoError(t, err)
	assert.Equal(t, "quit", choice)
}

func TestPasswordFallsBackToLine(t *testing.T) {
	c, _ := scripted("hunter12\n")

	password, err := c.Password("Password")
	require.NoError(t, err)
	assert.Equal(t, "hunter12", password)
}

func TestRenderMasksHiddenCards(t *testing.T) {
	c, out := scripted("")

	c.Render(game.Snapshot{
		Phase:  game.PlayerTurn.String(),
		Budget: 900,
		Bet:    100,
		Player: game.HandView{
			Cards: []game.CardView{{Rank: "A", Suit: "Spades"}, {Rank: "9", Suit: "Hearts"}},
			Score: 20,
			State: "active",
		},
		Dealer: game.HandView{
			Cards: []game.CardView{{Rank: "Q", Suit: "Clubs"}, {Hidden: true}},
			Score: 10,
			State: "active",
		},
	})

	text := out.String()
	assert.Contains(t, text, "[??]")
	assert.Contains(t, text, "A♠")
	assert.Contains(t, text, "9♥")
	assert.Contains(t, text, "Q♣")
	assert.Contains(t, text, "Budget $900, bet $100")
	assert.NotContains(t, text, "won")
}

func TestRenderOutcomes(t *testing.T) {
	tests := []struct {
		outcome game.Outcome
		net     int
		want    string
	}{
		{game.OutcomeWin, 100, "You won $100!"},
		{game.OutcomeLose, -100, "You lost $100."},
		{game.OutcomePush, 0, "Push. Your bet is returned."},
	}

	for _, tt := range tests {
		c, out := scripted("")
		c.Render(game.Snapshot{
			Phase:   game.Resolved.String(),
			Outcome: tt.outcome,
			Net:     tt.net,
		})
		assert.Contains(t, out.String(), tt.want)
	}
}

func TestRenderLeaderboard(t *testing.T) {
	c, out := scripted("")

	c.RenderLeaderboard([]account.Entry{
		{Email: "rich@example.com", Budget: 5000},
		{Email: "poor@example.com", Budget: 10},
	})

	text := out.String()
	require.Contains(t, text, "rich@example.com")
	require.Contains(t, text, "poor@example.com")
	assert.Less(t, strings.Index(text, "rich@example.com"), strings.Index(text, "poor@example.com"))

	c, out = scripted("")
	c.RenderLeaderboard(nil)
	assert.Contains(t, out.String(), "No players yet.")
}

func TestRenderStats(t *testing.T) {
	c, out := scripted("")

	c.RenderStats(&account.Stats{Rounds: 12, Wins: 5, TotalBets: 1200, Net: -80})

	text := out.String()
	assert.Contains(t, text, "Rounds played: 12")
	assert.Contains(t, text, "Rounds won:    5")
	assert.Contains(t, text, "Total wagered: $1200")
	assert.Contains(t, text, "Net winnings:  $-80")
}
