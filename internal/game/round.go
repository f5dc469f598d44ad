package game

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Phase is the round controller's position in the bet → deal → play →
// resolve lifecycle. The AwaitingBet and PlayerTurn phases are the round's
// suspension points: the engine sits in them until the front end supplies a
// typed decision (a bet amount, a hit choice).
type Phase int

const (
	AwaitingBet Phase = iota
	PlayerTurn
	DealerTurn
	Resolved
)

func (p Phase) String() string {
	switch p {
	case AwaitingBet:
		return "awaiting_bet"
	case PlayerTurn:
		return "player_turn"
	case DealerTurn:
		return "dealer_turn"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Outcome is the player's result for a resolved round.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomePush Outcome = "push"
)

// DecisionSource supplies the two decisions a round suspends on. The engine
// never prompts anything itself; any front end (console, test harness,
// network client) can sit behind this interface.
type DecisionSource interface {
	BetAmount(ctx context.Context, budget int) (int, error)
	HitDecision(ctx context.Context) (bool, error)
}

// Renderer receives a snapshot after every state-changing action. The engine
// does not depend on anything it does.
type Renderer interface {
	Render(snap Snapshot)
}

// Config tunes a round. The zero value selects the defaults.
type Config struct {
	// DealerThreshold is the dealer's stopping score; 0 means 17.
	DealerThreshold int

	// Payout is the multiplier applied to the bet when the player wins.
	// 1 (the default) pays even money net of the bet; 2 selects the doubled
	// convention where the bet is returned on top of equal winnings.
	Payout int

	// Rand is the shuffle source. Nil means time-seeded; inject a fixed
	// source for deterministic play.
	Rand *rand.Rand
}

// Round orchestrates one play-through: collect a bet, deal, run the player's
// and dealer's turns, resolve the payout. Reset rearms it for the next round.
type Round struct {
	player  *Player
	dealer  *Dealer
	payout  int
	rng     *rand.Rand
	phase   Phase
	outcome Outcome
	net     int
}

// NewRound creates a round for the player with a fresh unshuffled shoe.
func NewRound(player *Player, cfg Config) *Round {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	payout := cfg.Payout
	if payout <= 0 {
		payout = 1
	}

	return &Round{
		player: player,
		dealer: NewDealer(NewShoe(rng), cfg.DealerThreshold),
		payout: payout,
		rng:    rng,
		phase:  AwaitingBet,
	}
}

// Player returns the round's player.
func (r *Round) Player() *Player {
	return r.player
}

// Dealer returns the round's dealer.
func (r *Round) Dealer() *Dealer {
	return r.dealer
}

// Phase returns the current lifecycle phase.
func (r *Round) Phase() Phase {
	return r.phase
}

// Outcome returns the player's result once the round is resolved.
func (r *Round) Outcome() Outcome {
	return r.outcome
}

// Net returns the budget change applied at resolution.
func (r *Round) Net() int {
	return r.net
}

// Open starts the round: it validates and records the bet, shuffles the shoe
// and deals two cards to the player, then two to the dealer. A broke player
// is refused with ErrInsufficientFunds before any state changes. If the deal
// already settles the round (dealer blackjack, player dealt 21), it resolves
// immediately without the dealer drawing.
func (r *Round) Open(bet int) error {
	if r.phase != AwaitingBet {
		return ErrBadPhase
	}
	if r.player.IsBroke() {
		return ErrInsufficientFunds
	}
	if err := r.player.PlaceBet(bet); err != nil {
		return err
	}

	r.dealer.shoe.Shuffle()

	// The player's hand is dealt before the dealer's.
	for i := 0; i < 2; i++ {
		card, err := r.dealer.Draw()
		if err != nil {
			return err
		}
		r.player.hand.Add(card)
	}
	r.player.update()

	for i := 0; i < 2; i++ {
		card, err := r.dealer.Draw()
		if err != nil {
			return err
		}
		r.dealer.hand.Add(card)
	}
	r.dealer.update()

	r.phase = PlayerTurn
	if r.IsRoundOver() {
		r.close()
	}
	return nil
}

// IsRoundOver reports whether the round is already settled: the dealer's
// initial hand scores 21 or more, or the player is bust or standing.
func (r *Round) IsRoundOver() bool {
	if r.dealer.hand.Score() >= bustBound {
		return true
	}
	return r.player.done()
}

// Hit draws one card into the player's hand and recomputes the state. When
// the player busts or auto-stands on 21, the round moves to the dealer turn.
func (r *Round) Hit() error {
	if r.phase != PlayerTurn {
		return ErrBadPhase
	}
	if err := r.player.Play(r.dealer, true); err != nil {
		return err
	}
	if r.player.done() {
		r.phase = DealerTurn
	}
	return nil
}

// Stand ends the player's turn voluntarily and moves to the dealer turn.
func (r *Round) Stand() error {
	if r.phase != PlayerTurn {
		return ErrBadPhase
	}
	if err := r.player.Play(r.dealer, false); err != nil {
		return err
	}
	r.phase = DealerTurn
	return nil
}

// PlayDealer runs the dealer's deterministic turn loop to completion and
// resolves the round.
func (r *Round) PlayDealer() error {
	if r.phase != DealerTurn {
		return ErrBadPhase
	}

	for !r.dealer.done() {
		if err := r.dealer.Play(); err != nil {
			return err
		}
	}

	r.close()
	return nil
}

// close settles the bet against the final scores and moves to Resolved.
func (r *Round) close() {
	playerScore := r.player.hand.Score()
	dealerScore := r.dealer.hand.Score()
	before := r.player.budget

	switch {
	case r.player.state == Bust:
		r.outcome = OutcomeLose
		r.player.lose()
	case r.dealer.state == Bust:
		r.outcome = OutcomeWin
		r.player.win(r.payout)
	case playerScore > dealerScore:
		r.outcome = OutcomeWin
		r.player.win(r.payout)
	case playerScore < dealerScore:
		r.outcome = OutcomeLose
		r.player.lose()
	default:
		r.outcome = OutcomePush
	}

	r.net = r.player.budget - before
	r.phase = Resolved
}

// Reset rearms the round: both hands emptied, both states Idle, a fresh
// unshuffled 52-card shoe. Budget and bet are untouched.
func (r *Round) Reset() {
	r.player.reset()
	r.dealer.reset(NewShoe(r.rng))
	r.outcome = OutcomeNone
	r.net = 0
	r.phase = AwaitingBet
}

// Run drives a full round through the decision source: collect a bet (asking
// again while the engine rejects it), deal, loop the player's hit decisions,
// play out the dealer, resolve. The sink is rendered after every
// state-changing step.
func (r *Round) Run(ctx context.Context, src DecisionSource, sink Renderer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		bet, err := src.BetAmount(ctx, r.player.Budget())
		if err != nil {
			return err
		}
		err = r.Open(bet)
		if errors.Is(err, ErrInvalidBet) {
			continue
		}
		if err != nil {
			return err
		}
		break
	}
	sink.Render(r.Snapshot())

	for r.phase == PlayerTurn {
		if err := ctx.Err(); err != nil {
			return err
		}
		hit, err := src.HitDecision(ctx)
		if err != nil {
			return err
		}
		if hit {
			err = r.Hit()
		} else {
			err = r.Stand()
		}
		if err != nil {
			return err
		}
		sink.Render(r.Snapshot())
	}

	if r.phase == DealerTurn {
		if err := r.PlayDealer(); err != nil {
			return err
		}
		sink.Render(r.Snapshot())
	}

	return nil
}
