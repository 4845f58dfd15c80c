// Package bots provides baseline decision providers used to exercise the
// arena without external agents: a uniform random player, a passive
// check/caller and an over-aggressive raiser.
package bots

import (
	"context"
	"math/rand"

	"github.com/kurodenjiro/poker-x402-sub000/arena"
	"github.com/kurodenjiro/poker-x402-sub000/game"
)

// Random picks uniformly among the actions legal for the agent's spot.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random player. rng must not be shared across
// goroutines.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (b *Random) Decide(_ context.Context, snapshot game.Snapshot, agentID string) (arena.Decision, error) {
	p, ok := snapshot.PlayerByID(agentID)
	if !ok {
		return arena.Decision{Action: game.ActionFold}, nil
	}

	choices := legalActions(snapshot, p)
	choice := choices[b.rng.Intn(len(choices))]
	if choice != game.ActionRaise {
		return arena.Decision{Action: choice}, nil
	}

	// Raise by one to three big blinds over the current bet, as a target
	// total for the round.
	target := snapshot.CurrentBet + snapshot.BigBlind*(1+b.rng.Intn(3))
	return arena.Decision{Action: game.ActionRaise, Amount: target}, nil
}

// Caller checks when it can and calls anything else. It never raises and
// never folds, so every hand it plays reaches showdown unless it busts.
type Caller struct{}

// NewCaller creates a passive check/call player.
func NewCaller() *Caller {
	return &Caller{}
}

func (b *Caller) Decide(_ context.Context, snapshot game.Snapshot, agentID string) (arena.Decision, error) {
	p, ok := snapshot.PlayerByID(agentID)
	if !ok {
		return arena.Decision{Action: game.ActionFold}, nil
	}
	if p.RoundBet == snapshot.CurrentBet {
		return arena.Decision{Action: game.ActionCheck}, nil
	}
	return arena.Decision{Action: game.ActionCall}, nil
}

// Maniac raises most spots, shoves when short-stacked and folds almost
// never. Useful for driving games to a quick conclusion in tests.
type Maniac struct {
	rng *rand.Rand
}

// NewManiac creates an over-aggressive player.
func NewManiac(rng *rand.Rand) *Maniac {
	return &Maniac{rng: rng}
}

func (b *Maniac) Decide(_ context.Context, snapshot game.Snapshot, agentID string) (arena.Decision, error) {
	p, ok := snapshot.PlayerByID(agentID)
	if !ok {
		return arena.Decision{Action: game.ActionFold}, nil
	}

	shortStacked := p.Chips <= 10*snapshot.BigBlind
	roll := b.rng.Float64()

	switch {
	case shortStacked && roll < 0.75:
		return arena.Decision{Action: game.ActionAllIn}, nil
	case roll < 0.6:
		target := snapshot.CurrentBet + snapshot.BigBlind*3
		if target >= p.RoundBet+p.Chips {
			return arena.Decision{Action: game.ActionAllIn}, nil
		}
		return arena.Decision{Action: game.ActionRaise, Amount: target}, nil
	case p.RoundBet == snapshot.CurrentBet:
		return arena.Decision{Action: game.ActionCheck}, nil
	case roll < 0.9:
		return arena.Decision{Action: game.ActionCall}, nil
	default:
		return arena.Decision{Action: game.ActionFold}, nil
	}
}

// legalActions lists the actions the state machine would accept for the
// player's spot. Raise is only offered when the player can beat the
// current bet.
func legalActions(snapshot game.Snapshot, p game.Player) []game.Action {
	actions := []game.Action{game.ActionFold, game.ActionAllIn}
	if p.RoundBet == snapshot.CurrentBet {
		actions = append(actions, game.ActionCheck)
	} else {
		actions = append(actions, game.ActionCall)
	}
	if p.RoundBet+p.Chips > snapshot.CurrentBet {
		actions = append(actions, game.ActionRaise)
	}
	return actions
}
