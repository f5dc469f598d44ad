package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cardtable/blackjack/internal/account"
	"github.com/cardtable/blackjack/internal/game"
)

var (
	blackCard = lipgloss.NewStyle().Bold(true)
	redCard   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	hidden    = lipgloss.NewStyle().Faint(true)
	header    = lipgloss.NewStyle().Bold(true).Underline(true)
	winLine   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	loseLine  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	pushLine  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

var suitSymbols = map[string]string{
	"Hearts":   "♥",
	"Diamonds": "♦",
	"Clubs":    "♣",
	"Spades":   "♠",
}

func renderCard(view game.CardView) string {
	if view.Hidden {
		return hidden.Render("[??]")
	}

	symbol, ok := suitSymbols[view.Suit]
	if !ok {
		symbol = "?"
	}
	face := fmt.Sprintf("[%s%s]", view.Rank, symbol)
	if view.Suit == "Hearts" || view.Suit == "Diamonds" {
		return redCard.Render(face)
	}
	return blackCard.Render(face)
}

func renderHand(view game.HandView) string {
	var b strings.Builder
	for _, card := range view.Cards {
		b.WriteString(renderCard(card))
	}
	fmt.Fprintf(&b, " (%d)", view.Score)
	return b.String()
}

// Render draws the table after every state change.
func (c *Console) Render(snap game.Snapshot) {
	fmt.Fprintf(c.out, "\nDealer: %s\n", renderHand(snap.Dealer))
	fmt.Fprintf(c.out, "You:    %s\n", renderHand(snap.Player))
	fmt.Fprintf(c.out, "Budget $%d, bet $%d\n", snap.Budget, snap.Bet)

	if snap.Phase != game.Resolved.String() {
		return
	}

	switch snap.Outcome {
	case game.OutcomeWin:
		fmt.Fprintln(c.out, winLine.Render(fmt.Sprintf("You won $%d!", snap.Net)))
	case game.OutcomeLose:
		fmt.Fprintln(c.out, loseLine.Render(fmt.Sprintf("You lost $%d.", -snap.Net)))
	case game.OutcomePush:
		fmt.Fprintln(c.out, pushLine.Render("Push. Your bet is returned."))
	}
}

// RenderLeaderboard prints the richest players first.
func (c *Console) RenderLeaderboard(entries []account.Entry) {
	fmt.Fprintln(c.out, header.Render("Leaderboard"))
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "No players yet.")
		return
	}

	for i, entry := range entries {
		fmt.Fprintf(c.out, "%2d. %-40s $%d\n", i+1, entry.Email, entry.Budget)
	}
}

// RenderStats prints one player's round history summary.
func (c *Console) RenderStats(stats *account.Stats) {
	fmt.Fprintln(c.out, header.Render("Your record"))
	fmt.Fprintf(c.out, "Rounds played: %d\n", stats.Rounds)
	fmt.Fprintf(c.out, "Rounds won:    %d\n", stats.Wins)
	fmt.Fprintf(c.out, "Total wagered: $%d\n", stats.TotalBets)
	fmt.Fprintf(c.out, "Net winnings:  $%d\n", stats.Net)
}
