// Command blackjack plays rounds at the terminal against a persisted
// account: sign up or log in, bet from the saved budget, play, and leave
// every resolved round on the ledger.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/cardtable/blackjack/internal/account"
	"github.com/cardtable/blackjack/internal/config"
	"github.com/cardtable/blackjack/internal/console"
	"github.com/cardtable/blackjack/internal/game"
	"github.com/cardtable/blackjack/internal/mail"
)

const leaderboardSize = 10

type app struct {
	cfg      config.Config
	accounts *account.Service
	con      *console.Console
}

type playCmd struct{}

type topCmd struct{}

var cli struct {
	Play playCmd `cmd:"" default:"1" help:"Sign in and play rounds at the terminal."`
	Top  topCmd  `cmd:"" help:"Show the leaderboard and exit."`

	Database string `help:"Account database, overrides BLACKJACK_DB." placeholder:"DSN"`
	Debug    bool   `help:"Enable debug logging."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player blackjack at the terminal."),
	)

	cfg, err := config.Load()
	kctx.FatalIfErrorf(err)
	if cli.Database != "" {
		cfg.DatabaseURL = cli.Database
	}

	logger := log.New(io.Discard)
	if cli.Debug || cfg.Debug {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})
	}

	if !strings.Contains(cfg.DatabaseURL, "://") && !strings.HasPrefix(cfg.DatabaseURL, "host=") {
		err := os.MkdirAll(filepath.Dir(cfg.DatabaseURL), 0755)
		kctx.FatalIfErrorf(err)
	}

	store, err := account.Open(cfg.DatabaseURL)
	kctx.FatalIfErrorf(err)
	defer store.Close()

	sender := newSender(cfg)
	a := &app{
		cfg:      cfg,
		accounts: account.NewService(store, sender, logger),
		con:      console.Stdio(),
	}

	kctx.FatalIfErrorf(kctx.Run(a))
}

// newSender mails real codes when a SendGrid key is configured. Without
// one the code lands in the terminal, which keeps local play usable.
func newSender(cfg config.Config) mail.CodeSender {
	if cfg.SendGridKey != "" {
		return mail.NewHTTPSender(cfg.SendGridKey, cfg.MailFrom)
	}
	return mail.NewLogSender(log.NewWithOptions(os.Stderr, log.Options{}))
}

func (playCmd) Run(a *app) error {
	ctx := context.Background()

	email, err := authenticate(ctx, a)
	if err != nil {
		return err
	}

	for {
		choice, err := a.con.StartChoice()
		if err != nil {
			return err
		}

		switch choice {
		case "play":
			if err := playRounds(ctx, a, email); err != nil {
				return err
			}
		case "top":
			if err := showLeaderboard(a); err != nil {
				return err
			}
		case "stats":
			stats, err := a.accounts.Stats(email)
			if err != nil {
				return err
			}
			a.con.RenderStats(stats)
		case "quit":
			a.con.Say("Goodbye!")
			return nil
		}
	}
}

func (topCmd) Run(a *app) error {
	return showLeaderboard(a)
}

func showLeaderboard(a *app) error {
	entries, err := a.accounts.Leaderboard(leaderboardSize)
	if err != nil {
		return err
	}
	a.con.RenderLeaderboard(entries)
	return nil
}

// authenticate signs the player in, registering a new account behind a
// mailed confirmation code when the email is unknown.
func authenticate(ctx context.Context, a *app) (string, error) {
	email, err := a.con.Email()
	if err != nil {
		return "", err
	}

	exists, err := a.accounts.Exists(email)
	if err != nil {
		return "", err
	}

	if exists {
		for {
			password, err := a.con.Password("Password")
			if err != nil {
				return "", err
			}
			err = a.accounts.Login(email, password)
			if err == nil {
				a.con.Say("Welcome back, %s!", email)
				return email, nil
			}
			if !errors.Is(err, account.ErrBadCredentials) {
				return "", err
			}
			a.con.Say("Wrong password, try again.")
		}
	}

	create, err := a.con.AskYesNo("No account for " + email + ". Create one?")
	if err != nil {
		return "", err
	}
	if !create {
		return "", errors.New("no account")
	}

	issued, err := a.accounts.IssueCode(ctx, email)
	if err != nil {
		return "", err
	}

	for {
		entered, err := a.con.Code()
		if err != nil {
			return "", err
		}
		password, err := a.con.Password("Choose a password")
		if err != nil {
			return "", err
		}

		err = a.accounts.Register(email, password, issued, entered)
		if err == nil {
			a.con.Say("Welcome, %s! A $%d signup gift is in your budget.", email, account.SignupGift)
			return email, nil
		}
		switch {
		case errors.Is(err, account.ErrCodeMismatch):
			a.con.Say("That code does not match, try again.")
		case errors.Is(err, account.ErrBadPassword):
			a.con.Say("Passwords must be 6 to 72 characters, try again.")
		default:
			return "", err
		}
	}
}

// playRounds drives rounds against one table until the player stops or
// runs out of money. The budget and result land on the ledger after every
// resolved round.
func playRounds(ctx context.Context, a *app, email string) error {
	budget, err := a.accounts.LoadBudget(email)
	if err != nil {
		return err
	}

	player := game.NewPlayer(budget)
	round := game.NewRound(player, game.Config{
		DealerThreshold: a.cfg.DealerThreshold,
		Payout:          a.cfg.Payout,
	})

	for {
		err := round.Run(ctx, a.con, a.con)
		if errors.Is(err, game.ErrInsufficientFunds) {
			a.con.Say("You have no money left. Come back after the next signup gift.")
			return nil
		}
		if err != nil {
			return err
		}

		if err := a.accounts.SaveBudget(email, player.Budget()); err != nil {
			return err
		}
		if err := a.accounts.SaveResult(email, player.Bet(), string(round.Outcome()), round.Net()); err != nil {
			return err
		}

		again, err := a.con.AskYesNo("Play another round?")
		if err != nil {
			return err
		}
		if !again {
			a.con.Say("You leave the table with $%d.", player.Budget())
			return nil
		}
		round.Reset()
	}
}
