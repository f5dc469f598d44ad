// Package console is the terminal front end: it prompts for every decision
// the engine suspends on and renders snapshots between them.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ErrClosed is returned when the input stream ends mid-prompt.
var ErrClosed = errors.New("console: input closed")

// Console reads decisions from in and writes prompts and tables to out.
type Console struct {
	in  *bufio.Reader
	out io.Writer

	// fd is the terminal file descriptor for echo-free password entry,
	// or -1 when input is not a terminal.
	fd int
}

// New creates a console over arbitrary streams. Passwords are read as
// plain lines; use Stdio for echo-free entry on a real terminal.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, fd: -1}
}

// Stdio creates a console bound to the process terminal.
func Stdio() *Console {
	c := New(os.Stdin, os.Stdout)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		c.fd = fd
	}
	return c
}

// line reads one trimmed input line.
func (c *Console) line() (string, error) {
	text, err := c.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
		return "", ErrClosed
	}
	return strings.TrimSpace(text), nil
}

// prompt prints the prompt and reads the reply on the same line.
func (c *Console) prompt(format string, args ...interface{}) (string, error) {
	fmt.Fprintf(c.out, format, args...)
	return c.line()
}

// BetAmount asks for the round's bet. Non-numeric input is re-asked here;
// out-of-range amounts are left for the engine to reject so the retry
// message can explain the budget.
func (c *Console) BetAmount(ctx context.Context, budget int) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		reply, err := c.prompt("You have $%d. How much money do you bet? ", budget)
		if err != nil {
			return 0, err
		}

		amount, err := strconv.Atoi(reply)
		if err != nil {
			fmt.Fprintln(c.out, "Please enter a whole number.")
			continue
		}
		return amount, nil
	}
}

// HitDecision asks whether to take another card.
func (c *Console) HitDecision(ctx context.Context) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		reply, err := c.prompt("Would you like to [h]it or [s]tand? ")
		if err != nil {
			return false, err
		}

		switch strings.ToLower(reply) {
		case "h", "hit":
			return true, nil
		case "s", "stand":
			return false, nil
		}
		fmt.Fprintln(c.out, "Please answer h or s.")
	}
}

// AskYesNo asks a y/n question until it gets an answer.
func (c *Console) AskYesNo(question string) (bool, error) {
	for {
		reply, err := c.prompt("%s [y/n] ", question)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(reply) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(c.out, "Please answer y or n.")
	}
}

// StartChoice asks what to do next at the lobby.
func (c *Console) StartChoice() (string, error) {
	for {
		reply, err := c.prompt("[1] Play blackjack  [2] Show leaderboard  [3] Show my record  [q] Quit\nYour choice: ")
		if err != nil {
			return "", err
		}

		switch strings.ToLower(reply) {
		case "1":
			return "play", nil
		case "2":
			return "top", nil
		case "3":
			return "stats", nil
		case "q", "quit":
			return "quit", nil
		}
		fmt.Fprintln(c.out, "Please answer 1, 2, 3 or q.")
	}
}

// Email asks for the account email address.
func (c *Console) Email() (string, error) {
	return c.prompt("Email address: ")
}

// Password asks for the account password, without echo on a terminal.
func (c *Console) Password(label string) (string, error) {
	if c.fd >= 0 {
		fmt.Fprintf(c.out, "%s: ", label)
		raw, err := term.ReadPassword(c.fd)
		fmt.Fprintln(c.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return c.prompt("%s: ", label)
}

// Code asks for the confirmation code mailed during signup.
func (c *Console) Code() (string, error) {
	return c.prompt("Enter the confirmation code sent to your email: ")
}

// Say prints a line to the player.
func (c *Console) Say(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format+"\n", args...)
}
